// Package codec converts request and response bodies to and from the wire.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Codec encodes outbound bodies and decodes inbound ones.
type Codec interface {
	// Encode returns the wire bytes for v and their content type.
	// A nil v encodes to no bytes.
	Encode(v any) ([]byte, string, error)
	// Decode parses a response body into a generic object.
	Decode(data []byte) (map[string]any, error)
}

// ContentTypeJSON is the content type produced by JSON.
const ContentTypeJSON = "application/json"

// JSON is the default Codec. Numbers decode as json.Number so large IDs keep
// their precision. []byte, string and io.Reader bodies are sent as-is.
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Encode(v any) ([]byte, string, error) {
	switch b := v.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, ContentTypeJSON, nil
	case string:
		return []byte(b), ContentTypeJSON, nil
	case json.RawMessage:
		return b, ContentTypeJSON, nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("read body: %w", err)
		}
		return data, ContentTypeJSON, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return data, ContentTypeJSON, nil
}

func (jsonCodec) Decode(data []byte) (map[string]any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
