package util

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ItemKey returns the cache key for a serial decoded under mode with the
// symbol tables identified by tables:
// "item:<mode>:<tables>:<16 hex chars of xxhash64(serial)>".
// An empty tables drops that segment.
func ItemKey(mode, tables string, serial []byte) string {
	sum := xxhash.Sum64(serial)
	b := make([]byte, 0, len("item:")+len(mode)+len(tables)+2+16)
	b = append(b, "item:"...)
	b = append(b, mode...)
	b = append(b, ':')
	if tables != "" {
		b = append(b, tables...)
		b = append(b, ':')
	}
	hex := strconv.AppendUint(nil, sum, 16)
	for i := len(hex); i < 16; i++ {
		b = append(b, '0')
	}
	return string(append(b, hex...))
}
