package wire

const (
	xorMul = 0x10A860C1
	xorMod = 0xFFFFFFFB
)

// keystream XORs the seed-derived LCG stream into b. The state advances
// before each byte.
func keystream(seed uint32, b []byte) {
	x := uint64(uint32(int32(seed) >> 5))
	for i := range b {
		x = x * xorMul % xorMod
		b[i] ^= byte(x)
	}
}

func split(seed uint32, n int) int {
	return int(seed%32) % n
}

// Encrypt scrambles b in place: rotate left by (seed%32)%len, then XOR.
// Seed 0 and empty buffers are left untouched.
func Encrypt(seed uint32, b []byte) {
	if seed == 0 || len(b) == 0 {
		return
	}
	r := split(seed, len(b))
	tmp := make([]byte, len(b))
	copy(tmp, b[r:])
	copy(tmp[len(b)-r:], b[:r])
	keystream(seed, tmp)
	copy(b, tmp)
}

// Decrypt reverses Encrypt in place: XOR first, then rotate right.
func Decrypt(seed uint32, b []byte) {
	if seed == 0 || len(b) == 0 {
		return
	}
	tmp := make([]byte, len(b))
	copy(tmp, b)
	keystream(seed, tmp)
	r := split(seed, len(b))
	left := len(b) - r
	copy(b, tmp[left:])
	copy(b[r:], tmp[:left])
}
