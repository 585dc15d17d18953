package hash

import (
	"encoding/binary"

	xxhash "github.com/cespare/xxhash"
	murmur3 "github.com/spaolacci/murmur3"
)

// A SeededHasher maps a byte sequence and a seed to a uniformly
// distributed 32-bit value. Distinct seeds are expected to behave as
// independent hash functions.
type SeededHasher func(data []byte, seed uint32) uint32

// MurmurHasher hashes data with murmur3 under the given seed.
func MurmurHasher(data []byte, seed uint32) uint32 {
	return murmur3.Sum32WithSeed(data, seed)
}

// XxHasher hashes data with xxhash. xxhash has no seed parameter, so the
// seed is prepended to the stream instead.
func XxHasher(data []byte, seed uint32) uint32 {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], seed)
	h := xxhash.New()
	h.Write(prefix[:])
	h.Write(data)
	return uint32(h.Sum64())
}
