package codec

import "fmt"

// Limit wraps another codec and refuses to decode payloads above MaxDecode
// bytes. Encode is forwarded unchanged. MaxDecode <= 0 disables the check.
//
// Use it for anything read from a shared store or pasted by a user.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("codec: payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
