// Package wire holds the byte-level pieces of an item serial: the clear
// header, the folded CRC checksum and the seeded rotate+XOR body cipher.
//
// Layout (big-endian):
//
//	version(1) | seed(u32) | cipher(seed, checksum(u16) | packed bits)
package wire

import (
	"encoding/binary"
	"errors"
)

const (
	HeaderSize   = 1 + 4
	ChecksumSize = 2
)

var ErrShort = errors.New("wlserial: serial too short")

// Header is the unencrypted prefix of a serial.
type Header struct {
	Version byte
	Seed    uint32
}

// ParseHeader splits b into its header and the (still encrypted) body.
// The body aliases b.
func ParseHeader(b []byte) (Header, []byte, error) {
	if len(b) < HeaderSize {
		return Header{}, nil, ErrShort
	}
	h := Header{
		Version: b[0],
		Seed:    binary.BigEndian.Uint32(b[1:HeaderSize]),
	}
	return h, b[HeaderSize:], nil
}

// AppendHeader appends the encoded header to dst.
func AppendHeader(dst []byte, h Header) []byte {
	dst = append(dst, h.Version)
	return binary.BigEndian.AppendUint32(dst, h.Seed)
}

// SplitChecksum reads the stored checksum off the front of a decrypted body.
func SplitChecksum(body []byte) (uint16, []byte, error) {
	if len(body) < ChecksumSize {
		return 0, nil, ErrShort
	}
	return binary.BigEndian.Uint16(body), body[ChecksumSize:], nil
}

// PrependChecksum returns checksum(u16 be) | packed as a new slice.
func PrependChecksum(sum uint16, packed []byte) []byte {
	out := make([]byte, 0, ChecksumSize+len(packed))
	out = binary.BigEndian.AppendUint16(out, sum)
	return append(out, packed...)
}
