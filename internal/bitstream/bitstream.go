// Package bitstream packs unsigned integers of arbitrary width (0..32 bits)
// into a big-endian (MSB-first) bit sequence and reads them back.
//
// Fields are written back to back with no padding; only the final byte is
// zero padded. Width outside 0..32 is a programming error and panics.
package bitstream

import (
	"errors"
	"fmt"
)

// MaxWidth is the widest field a single Read/Write may carry.
const MaxWidth = 32

var ErrUnderflow = errors.New("bitstream: read past end of buffer")

func checkWidth(width int) {
	if width < 0 || width > MaxWidth {
		panic(fmt.Sprintf("bitstream: invalid width %d", width))
	}
}

// Writer is an append-only bit sink. The zero value is ready to use.
type Writer struct {
	buf  []byte
	nbit int // total bits written
}

// Write appends the low width bits of v, most significant bit first.
func (w *Writer) Write(v uint32, width int) {
	checkWidth(width)
	for i := width - 1; i >= 0; i-- {
		off := w.nbit & 7
		if off == 0 {
			w.buf = append(w.buf, 0)
		}
		if v>>uint(i)&1 == 1 {
			w.buf[len(w.buf)-1] |= 0x80 >> uint(off)
		}
		w.nbit++
	}
}

// Len reports the number of bits written so far.
func (w *Writer) Len() int { return w.nbit }

// Bytes returns the packed buffer. Unused low bits of the last byte are zero.
func (w *Writer) Bytes() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out
}

// Reader consumes bits from a byte slice it does not own or modify.
type Reader struct {
	buf []byte
	pos int // bit cursor
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// Read returns the next width bits as an unsigned integer. On underflow the
// cursor is left untouched.
func (r *Reader) Read(width int) (uint32, error) {
	checkWidth(width)
	if width > r.Remaining() {
		return 0, ErrUnderflow
	}
	var v uint32
	for i := 0; i < width; i++ {
		b := r.buf[r.pos>>3] >> uint(7-r.pos&7) & 1
		v = v<<1 | uint32(b)
		r.pos++
	}
	return v, nil
}

// Remaining reports how many unread bits are left.
func (r *Reader) Remaining() int { return len(r.buf)*8 - r.pos }

// Pos reports the bit cursor.
func (r *Reader) Pos() int { return r.pos }
