// Package hashing provides the deterministic hash primitives shared across
// the core: raw FNV-1a for byte/string digests, and stable 32-bit Name
// tokens used everywhere an identifier needs to be cheap to compare, copy,
// and hash.
package hashing

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619

	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

// FNV1a32 computes the 32-bit FNV-1a digest of s.
func FNV1a32(s string) uint32 {
	h := fnvOffset32
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// FNV1a32Bytes is the byte-slice form of FNV1a32. (Archetype definition ids
// are folded with FoldUint32, not with this.)
func FNV1a32Bytes(b []byte) uint32 {
	h := fnvOffset32
	for _, c := range b {
		h ^= uint32(c)
		h *= fnvPrime32
	}
	return h
}

// FNV1a64 computes the 64-bit FNV-1a digest of s.
func FNV1a64(s string) uint64 {
	h := fnvOffset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

// FoldUint32 folds a running 32-bit FNV-1a digest with another 32-bit value,
// treating it as four bytes, little-endian. Used to combine component ids
// into a single archetype definition id regardless of registration order
// (callers sort the ids first).
func FoldUint32(h uint32, v uint32) uint32 {
	for i := 0; i < 4; i++ {
		h ^= uint32(byte(v >> (8 * i)))
		h *= fnvPrime32
	}
	return h
}
