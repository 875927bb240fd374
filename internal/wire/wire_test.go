package wire

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"math/rand"
	"testing"
)

func TestChecksumFold(t *testing.T) {
	// crc32("123456789") = 0xCBF43926
	if got := Checksum([]byte("123456789")); got != 0xF2D2 {
		t.Fatalf("checksum: got %04x want f2d2", got)
	}
}

func TestSerialChecksumCoversHeader(t *testing.T) {
	body := []byte{0x80, 0x12, 0x34}
	a := SerialChecksum(Header{Version: 4, Seed: 7}, body)
	b := SerialChecksum(Header{Version: 5, Seed: 7}, body)
	c := SerialChecksum(Header{Version: 4, Seed: 8}, body)
	if a == b || a == c {
		t.Fatalf("checksum ignores header: %04x %04x %04x", a, b, c)
	}
	want := Checksum([]byte{4, 0, 0, 0, 7, 0xFF, 0xFF, 0x80, 0x12, 0x34})
	if a != want {
		t.Fatalf("got %04x want %04x", a, want)
	}
}

func TestHeaderRT(t *testing.T) {
	enc := AppendHeader(nil, Header{Version: 5, Seed: 0xA1B2C3D4})
	enc = append(enc, 0xEE)
	h, body, err := ParseHeader(enc)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Version != 5 || h.Seed != 0xA1B2C3D4 {
		t.Fatalf("header mismatch: %+v", h)
	}
	if !bytes.Equal(body, []byte{0xEE}) {
		t.Fatalf("body: got %x", body)
	}
	if _, _, err := ParseHeader(enc[:4]); !errors.Is(err, ErrShort) {
		t.Fatalf("expected ErrShort, got %v", err)
	}
}

func TestChecksumSplit(t *testing.T) {
	b := PrependChecksum(0xBEEF, []byte{1, 2})
	sum, rest, err := SplitChecksum(b)
	if err != nil || sum != 0xBEEF || !bytes.Equal(rest, []byte{1, 2}) {
		t.Fatalf("split: sum=%04x rest=%x err=%v", sum, rest, err)
	}
	if _, _, err := SplitChecksum([]byte{1}); !errors.Is(err, ErrShort) {
		t.Fatalf("expected ErrShort, got %v", err)
	}
}

func TestCipherKnownFirstByte(t *testing.T) {
	// seed 33: rotation 1, keystream seeded with 1, first byte 0xC1
	b := []byte{0x00}
	Encrypt(33, b)
	if b[0] != 0xC1 {
		t.Fatalf("got %02x want c1", b[0])
	}
	b = []byte{0x01, 0x02}
	Encrypt(33, b)
	if b[0] != 0x02^0xC1 {
		t.Fatalf("rotation/xor order: got %02x want %02x", b[0], 0x02^0xC1)
	}
}

func TestCipherZeroSeedIsIdentity(t *testing.T) {
	orig := []byte{1, 2, 3, 4, 5}
	b := append([]byte(nil), orig...)
	Encrypt(0, b)
	if !bytes.Equal(b, orig) {
		t.Fatalf("encrypt seed 0 changed data: %x", b)
	}
	Decrypt(0, b)
	if !bytes.Equal(b, orig) {
		t.Fatalf("decrypt seed 0 changed data: %x", b)
	}
	Encrypt(99, nil) // must not panic on empty input
}

func TestCipherInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seeds := []uint32{1, 31, 32, 33, 0x7FFFFFFF, 0x80000000, 0xFFFFFFFF, 0xDEADBEEF}
	for i := 0; i < 32; i++ {
		seeds = append(seeds, rng.Uint32()|1)
	}
	for _, seed := range seeds {
		for n := 1; n <= 70; n++ {
			orig := make([]byte, n)
			rng.Read(orig)
			b := append([]byte(nil), orig...)
			Encrypt(seed, b)
			Decrypt(seed, b)
			if !bytes.Equal(b, orig) {
				t.Fatalf("seed %08x len %d: got %x want %x", seed, n, b, orig)
			}
		}
	}
}

func TestCipherHighSeedUsesArithmeticShift(t *testing.T) {
	// int32(0x80000020)>>5 sign-extends; the stream must differ from a logical shift
	seed := uint32(0x80000020)
	got := make([]byte, 4)
	Encrypt(seed, got)

	logical := make([]byte, 4)
	x := uint64(seed >> 5)
	for i := range logical {
		x = x * xorMul % xorMod
		logical[i] = byte(x)
	}
	if bytes.Equal(got, logical) {
		t.Fatalf("keystream matches logical shift; expected arithmetic shift")
	}
}

// Serials written by an independent implementation of the serial writer,
// which hashes [version, seed, FF FF, packed] in wire order.
var knownSerials = []struct {
	text   string
	header Header
	sum    uint16
	packed string
}{
	{"BZ43eblKrWj5EWsx4llxaQNE", Header{Version: 5, Seed: 0x9E3779B9}, 0x587F, "800245133700abcdef1020"},
	{"AwAAEjT+vfyO06Q=", Header{Version: 3, Seed: 0x1234}, 0xBD0E, "80012233"},
}

func TestKnownSerials(t *testing.T) {
	for _, tc := range knownSerials {
		raw, err := base64.StdEncoding.DecodeString(tc.text)
		if err != nil {
			t.Fatalf("%s: base64: %v", tc.text, err)
		}
		h, enc, err := ParseHeader(raw)
		if err != nil || h != tc.header {
			t.Fatalf("%s: header %+v err=%v", tc.text, h, err)
		}

		body := append([]byte(nil), enc...)
		Decrypt(h.Seed, body)
		sum, packed, err := SplitChecksum(body)
		if err != nil {
			t.Fatalf("%s: split: %v", tc.text, err)
		}
		if sum != tc.sum || SerialChecksum(h, packed) != sum {
			t.Fatalf("%s: stored %04x computed %04x want %04x", tc.text, sum, SerialChecksum(h, packed), tc.sum)
		}
		if got := hex.EncodeToString(packed); got != tc.packed {
			t.Fatalf("%s: packed %s want %s", tc.text, got, tc.packed)
		}

		// and the writer side reproduces the bytes
		again := PrependChecksum(SerialChecksum(h, packed), packed)
		Encrypt(h.Seed, again)
		if !bytes.Equal(append(AppendHeader(nil, h), again...), raw) {
			t.Fatalf("%s: re-encrypt differs", tc.text)
		}
	}
}
