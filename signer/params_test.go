package signer

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParams_SetAddDel(t *testing.T) {
	var p Params
	p.Add("a", "1")
	p.Add("b", "2")
	p.Add("a", "3")
	p.Set("a", "x")
	want := Params{{"a", "x"}, {"b", "2"}}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("after Set: %v, want %v", p, want)
	}
	p.Set("c", "4")
	p.Del("b")
	want = Params{{"a", "x"}, {"c", "4"}}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("after Del: %v, want %v", p, want)
	}
	if _, ok := p.Get("b"); ok {
		t.Error("b should be gone")
	}
}

func TestParams_SortedIsStableCopy(t *testing.T) {
	p := Params{{"z", "1"}, {"a", "2"}, {"m", "3"}, {"a", "1"}}
	got := p.Sorted()
	want := Params{{"a", "2"}, {"a", "1"}, {"m", "3"}, {"z", "1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
	if p[0].Key != "z" {
		t.Error("Sorted must not reorder the receiver")
	}
}

func TestParams_Values(t *testing.T) {
	p := Params{{"a", "1"}, {"a", "2"}, {"b", "3"}}
	v := p.Values()
	if !reflect.DeepEqual(v["a"], []string{"1", "2"}) || v.Get("b") != "3" {
		t.Errorf("unexpected values %v", v)
	}
	back := FromValues(url.Values{"b": {"3"}, "a": {"1"}})
	if !reflect.DeepEqual(back, Params{{"a", "1"}, {"b", "3"}}) {
		t.Errorf("FromValues = %v", back)
	}
}
