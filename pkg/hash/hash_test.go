package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashersAreDeterministic(t *testing.T) {
	data := []byte("determinism")
	require.Equal(t, MurmurHasher(data, 7), MurmurHasher(data, 7))
	require.Equal(t, XxHasher(data, 7), XxHasher(data, 7))
}

func TestSeedsSelectDistinctFunctions(t *testing.T) {
	data := []byte("seeded")
	seen := make(map[uint32]bool)
	for seed := uint32(0); seed < 16; seed++ {
		seen[MurmurHasher(data, seed)] = true
	}
	// 16 seeds over a 32-bit range should never collide for a fixed input.
	require.Len(t, seen, 16)

	seen = make(map[uint32]bool)
	for seed := uint32(0); seed < 16; seed++ {
		seen[XxHasher(data, seed)] = true
	}
	require.Len(t, seen, 16)
}

func TestDistinctInputsHashApart(t *testing.T) {
	require.NotEqual(t, MurmurHasher([]byte("alpha"), 0), MurmurHasher([]byte("beta"), 0))
	require.NotEqual(t, XxHasher([]byte("alpha"), 0), XxHasher([]byte("beta"), 0))
}
