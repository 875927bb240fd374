// Package codec holds the record codecs wlserial uses for everything that is
// not the item serial itself: symbol datasets, cached decode results and
// exported item records.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
