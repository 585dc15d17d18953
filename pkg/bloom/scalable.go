package bloom

import (
	"fmt"
	"math"
)

// ScaleMode selects how a ScalableFilter grows capacity.
type ScaleMode int

const (
	// ScaleModeLinear grows each new filter by initialCapacity * scaleFactor * n.
	ScaleModeLinear ScaleMode = iota + 1
	// ScaleModeExponential grows each new filter by initialCapacity * scaleFactor^n.
	ScaleModeExponential
)

// ScalableFilter is a bloom filter that grows whenever the newest
// constituent filter reaches capacity. Adds always target the newest
// filter; lookups query all of them. Prior filters stay at their
// historical fill level forever.
//
// A ScalableFilter is not safe for concurrent mutation; callers needing
// shared access must serialize externally.
type ScalableFilter struct {
	initialCapacity int64
	errorRate       float64
	scaleFactor     float64
	scaleMode       ScaleMode
	elemCount       int64
	filters         []*Filter
}

// NewScalableFilter returns a scalable filter seeded with one fixed
// filter of initialCapacity. All constituent filters share errorRate.
// Scale factors between 0 and 1 are accepted but produce a shrinking
// capacity sequence.
func NewScalableFilter(initialCapacity int64, errorRate float64, scaleFactor float64, scaleMode ScaleMode) (*ScalableFilter, error) {
	if initialCapacity <= 0 {
		return nil, fmt.Errorf("%w: initial capacity must be > 0, got %d", ErrInvalidArgument, initialCapacity)
	}
	if errorRate <= 0 || errorRate >= 1 {
		return nil, fmt.Errorf("%w: error rate must be in (0, 1), got %v", ErrInvalidArgument, errorRate)
	}
	if scaleFactor <= 0 {
		return nil, fmt.Errorf("%w: scale factor must be > 0, got %v", ErrInvalidArgument, scaleFactor)
	}
	if scaleMode != ScaleModeLinear && scaleMode != ScaleModeExponential {
		return nil, fmt.Errorf("%w: unknown scale mode %d", ErrInvalidArgument, scaleMode)
	}
	first, err := NewFilter(initialCapacity, errorRate)
	if err != nil {
		return nil, err
	}
	return &ScalableFilter{
		initialCapacity: initialCapacity,
		errorRate:       errorRate,
		scaleFactor:     scaleFactor,
		scaleMode:       scaleMode,
		filters:         []*Filter{first},
	}, nil
}

// Get the total number of elements added across all filters.
func (sf *ScalableFilter) ElementCount() int64 {
	return sf.elemCount
}

// Get the constituent filters, oldest first. The returned slice must not
// be modified.
func (sf *ScalableFilter) Filters() []*Filter {
	return sf.filters
}

// nextCapacity returns the capacity for the next filter, from the number
// of filters that already exist.
func (sf *ScalableFilter) nextCapacity() int64 {
	n := float64(len(sf.filters))
	switch sf.scaleMode {
	case ScaleModeLinear:
		return int64(float64(sf.initialCapacity) * sf.scaleFactor * n)
	default:
		return int64(float64(sf.initialCapacity) * math.Pow(sf.scaleFactor, n))
	}
}

// Add inserts an element, first appending a larger filter if the newest
// one is full. Growth can only fail under a shrinking scale factor, once
// the computed capacity falls to zero.
func (sf *ScalableFilter) Add(key []byte) error {
	last := sf.filters[len(sf.filters)-1]
	if last.IsFull() {
		next, err := NewFilter(sf.nextCapacity(), sf.errorRate)
		if err != nil {
			return err
		}
		sf.filters = append(sf.filters, next)
		last = next
	}
	last.Add(key)
	sf.elemCount++
	return nil
}

// Lookup checks if the given key can be found in any constituent filter.
// Newer filters are queried first; correctness does not depend on order.
func (sf *ScalableFilter) Lookup(key []byte) bool {
	for i := len(sf.filters) - 1; i >= 0; i-- {
		if sf.filters[i].Lookup(key) {
			return true
		}
	}
	return false
}

// Union returns a new scalable filter carrying this filter's
// configuration whose filter sequence is the concatenation of both
// operands' sequences. Every constituent filter is deep-copied, so the
// result never shares bit storage with an operand.
//
// The concatenated sequence no longer matches what the growth policy
// would have produced, and it may hold two non-full filters of which
// only the final one receives new elements. Known limitation.
func (sf *ScalableFilter) Union(other *ScalableFilter) *ScalableFilter {
	filters := make([]*Filter, 0, len(sf.filters)+len(other.filters))
	for _, f := range sf.filters {
		filters = append(filters, f.clone())
	}
	for _, f := range other.filters {
		filters = append(filters, f.clone())
	}
	return &ScalableFilter{
		initialCapacity: sf.initialCapacity,
		errorRate:       sf.errorRate,
		scaleFactor:     sf.scaleFactor,
		scaleMode:       sf.scaleMode,
		elemCount:       sf.elemCount + other.elemCount,
		filters:         filters,
	}
}
