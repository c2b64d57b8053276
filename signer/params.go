package signer

import (
	"net/url"
	"sort"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters. Keys may repeat.
type Params []Param

// Get returns the value of the first parameter named key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set replaces the first parameter named key and drops any others,
// or appends it if absent.
func (p *Params) Set(key, value string) {
	out := (*p)[:0]
	found := false
	for _, kv := range *p {
		if kv.Key != key {
			out = append(out, kv)
			continue
		}
		if !found {
			out = append(out, Param{Key: key, Value: value})
			found = true
		}
	}
	if !found {
		out = append(out, Param{Key: key, Value: value})
	}
	*p = out
}

// Add appends a parameter without touching existing ones.
func (p *Params) Add(key, value string) {
	*p = append(*p, Param{Key: key, Value: value})
}

// Del removes every parameter named key.
func (p *Params) Del(key string) {
	out := (*p)[:0]
	for _, kv := range *p {
		if kv.Key != key {
			out = append(out, kv)
		}
	}
	*p = out
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// Sorted returns a copy ordered by key. Equal keys keep their relative order.
func (p Params) Sorted() Params {
	out := p.Clone()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Values converts p to url.Values.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for _, kv := range p {
		v.Add(kv.Key, kv.Value)
	}
	return v
}

// FromValues builds Params from url.Values with keys in sorted order.
func FromValues(v url.Values) Params {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out Params
	for _, k := range keys {
		for _, val := range v[k] {
			out = append(out, Param{Key: k, Value: val})
		}
	}
	return out
}
