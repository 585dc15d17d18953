// Package bloom implements a classic fixed-capacity bloom filter and a
// scalable variant that grows by appending larger filters.
package bloom

import (
	"errors"
	"fmt"
	"math"

	bitset "github.com/bits-and-blooms/bitset"
	hash "github.com/bloomset/bloomset/pkg/hash"
)

var (
	// ErrInvalidArgument signals a constructor parameter outside its domain.
	ErrInvalidArgument = errors.New("bloom: invalid argument")
	// ErrIncompatibleFilter signals set algebra between filters with
	// mismatched size or hash count.
	ErrIncompatibleFilter = errors.New("bloom: incompatible filter")
)

// Filter is a fixed-capacity bloom filter. It answers membership queries
// with no false negatives and a false-positive rate that stays at or
// below errorRate while at most capacity elements are stored.
//
// A Filter is not safe for concurrent mutation; callers needing shared
// access must serialize externally.
type Filter struct {
	capacity  int64
	errorRate float64
	size      int64
	hashCount int64
	elemCount int64
	hasher    hash.SeededHasher
	bits      *bitset.BitSet
}

// NewFilter returns a filter sized for the given capacity and target
// false-positive rate, probing with the murmur3 seeded family.
func NewFilter(capacity int64, errorRate float64) (*Filter, error) {
	return NewFilterWithHasher(capacity, errorRate, hash.MurmurHasher)
}

// NewFilterWithHasher is NewFilter with a caller-supplied hash family.
// Filters that should be unioned or intersected must share a family.
func NewFilterWithHasher(capacity int64, errorRate float64, hasher hash.SeededHasher) (*Filter, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be > 0, got %d", ErrInvalidArgument, capacity)
	}
	if errorRate <= 0 || errorRate >= 1 {
		return nil, fmt.Errorf("%w: error rate must be in (0, 1), got %v", ErrInvalidArgument, errorRate)
	}
	// m = -(n * ln(p)) / ln(2)^2
	size := int64(math.Ceil(-(float64(capacity) * math.Log(errorRate)) / (math.Ln2 * math.Ln2)))
	// k = (m / n) * ln(2)
	hashCount := int64(math.Ceil((float64(size) / float64(capacity)) * math.Ln2))
	return &Filter{
		capacity:  capacity,
		errorRate: errorRate,
		size:      size,
		hashCount: hashCount,
		hasher:    hasher,
		bits:      bitset.New(uint(size)),
	}, nil
}

// Get the configured capacity.
func (filter *Filter) Capacity() int64 {
	return filter.capacity
}

// Get the configured false-positive rate.
func (filter *Filter) ErrorRate() float64 {
	return filter.errorRate
}

// Get the bit array length.
func (filter *Filter) Size() int64 {
	return filter.size
}

// Get the number of hash probes per element.
func (filter *Filter) HashCount() int64 {
	return filter.hashCount
}

// Get the number of elements added so far. Adds are counted even past
// capacity and are not deduplicated.
func (filter *Filter) ElementCount() int64 {
	return filter.elemCount
}

// position returns the bit probed for key under the given seed.
func (filter *Filter) position(key []byte, seed uint32) uint {
	return uint(filter.hasher(key, seed)) % uint(filter.size)
}

// Add inserts an element into the filter. Capacity is not checked;
// exceeding it raises the real error rate above the configured target.
func (filter *Filter) Add(key []byte) {
	for seed := int64(0); seed < filter.hashCount; seed++ {
		filter.bits.Set(filter.position(key, uint32(seed)))
	}
	filter.elemCount++
}

// Lookup checks if the given key can be found in the filter. A false
// result is definitive; a true result means "possibly present".
func (filter *Filter) Lookup(key []byte) bool {
	for seed := int64(0); seed < filter.hashCount; seed++ {
		if !filter.bits.Test(filter.position(key, uint32(seed))) {
			return false
		}
	}
	return true
}

// compatible reports whether set algebra with other is well defined.
func (filter *Filter) compatible(other *Filter) bool {
	return filter.size == other.size && filter.hashCount == other.hashCount
}

// Union returns a new filter answering lookups exactly as a filter built
// from the union of both operands' element sets. The result carries this
// filter's capacity and error rate, owns freshly allocated bits, and its
// element count is the sum of both operands' counts (an upper bound on
// the true distinct count when the source sets overlap).
func (filter *Filter) Union(other *Filter) (*Filter, error) {
	if !filter.compatible(other) {
		return nil, fmt.Errorf("%w: size %d/%d, hash count %d/%d",
			ErrIncompatibleFilter, filter.size, other.size, filter.hashCount, other.hashCount)
	}
	result := filter.emptyCopy()
	result.bits = filter.bits.Union(other.bits)
	result.elemCount = filter.elemCount + other.elemCount
	return result, nil
}

// Intersection returns a new filter whose bits are the AND of both
// operands. Membership answers are only an approximation of the true
// intersection, with a potentially elevated false-positive rate; the
// element count is re-estimated from the resulting bit pattern.
func (filter *Filter) Intersection(other *Filter) (*Filter, error) {
	if !filter.compatible(other) {
		return nil, fmt.Errorf("%w: size %d/%d, hash count %d/%d",
			ErrIncompatibleFilter, filter.size, other.size, filter.hashCount, other.hashCount)
	}
	result := filter.emptyCopy()
	result.bits = filter.bits.Intersection(other.bits)
	result.elemCount = result.EstimateElementCount()
	return result, nil
}

// IsFull checks whether the filter has reached its configured capacity.
func (filter *Filter) IsFull() bool {
	return filter.elemCount >= filter.capacity
}

// EstimateErrorRate returns the false-positive probability for the
// current load, or for a full filter if useCapacity is set. With
// useCapacity the result reproduces the configured error rate, since the
// sizing formulas are each other's inverse.
func (filter *Filter) EstimateErrorRate(useCapacity bool) float64 {
	n := float64(filter.elemCount)
	if useCapacity {
		n = float64(filter.capacity)
	}
	// p = (1 - (1 - 1/m)^(k*n))^k
	k := float64(filter.hashCount)
	m := float64(filter.size)
	return math.Pow(1-math.Pow(1-1/m, k*n), k)
}

// EstimateElementCount estimates the number of distinct elements
// represented by the bit pattern. The count maintained by Add should be
// preferred when available.
func (filter *Filter) EstimateElementCount() int64 {
	x := float64(filter.bits.Count())
	m := float64(filter.size)
	if x >= m {
		// The estimator diverges on a saturated array.
		return filter.size
	}
	// i = -(m * ln(1 - x/m)) / k
	return int64(math.Ceil(-(m * math.Log(1-x/m)) / float64(filter.hashCount)))
}

// emptyCopy returns a zeroed filter with this filter's parameters.
func (filter *Filter) emptyCopy() *Filter {
	return &Filter{
		capacity:  filter.capacity,
		errorRate: filter.errorRate,
		size:      filter.size,
		hashCount: filter.hashCount,
		hasher:    filter.hasher,
		bits:      bitset.New(uint(filter.size)),
	}
}

// clone returns a deep copy, including the bit array.
func (filter *Filter) clone() *Filter {
	result := filter.emptyCopy()
	result.bits = filter.bits.Clone()
	result.elemCount = filter.elemCount
	return result
}
