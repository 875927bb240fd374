package codec

import (
	"bytes"
	"encoding/json"
)

// JSON encodes with encoding/json. Strict rejects unknown object fields on
// decode, which catches misspelled keys in hand-edited symbol datasets.
type JSON[V any] struct {
	Strict bool
	Indent string
}

func (c JSON[V]) Encode(v V) ([]byte, error) {
	if c.Indent != "" {
		return json.MarshalIndent(v, "", c.Indent)
	}
	return json.Marshal(v)
}

func (c JSON[V]) Decode(b []byte) (V, error) {
	var v V
	dec := json.NewDecoder(bytes.NewReader(b))
	if c.Strict {
		dec.DisallowUnknownFields()
	}
	err := dec.Decode(&v)
	return v, err
}
