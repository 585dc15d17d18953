package bloom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewScalableFilterRejectsBadArguments(t *testing.T) {
	for _, tc := range []struct {
		initialCapacity int64
		errorRate       float64
		scaleFactor     float64
		scaleMode       ScaleMode
	}{
		{0, 0.01, 2, ScaleModeLinear},
		{-1, 0.01, 2, ScaleModeLinear},
		{10, 0, 2, ScaleModeLinear},
		{10, 1, 2, ScaleModeLinear},
		{10, 0.01, 0, ScaleModeLinear},
		{10, 0.01, -2, ScaleModeLinear},
		{10, 0.01, 2, ScaleMode(0)},
		{10, 0.01, 2, ScaleMode(3)},
	} {
		sf, err := NewScalableFilter(tc.initialCapacity, tc.errorRate, tc.scaleFactor, tc.scaleMode)
		require.ErrorIs(t, err, ErrInvalidArgument)
		require.Nil(t, sf)
	}
}

func TestScalableFilterSeedsOneFilter(t *testing.T) {
	sf, err := NewScalableFilter(10, 0.01, 2, ScaleModeLinear)
	require.NoError(t, err)
	require.Len(t, sf.Filters(), 1)
	require.Equal(t, int64(10), sf.Filters()[0].Capacity())
	require.Equal(t, int64(0), sf.ElementCount())
}

func TestGrowthTriggersOnFullFilter(t *testing.T) {
	sf, err := NewScalableFilter(10, 0.01, 2, ScaleModeLinear)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.NoError(t, sf.Add(key(i)))
	}
	// The first filter is exactly full; no growth yet.
	require.Len(t, sf.Filters(), 1)
	require.True(t, sf.Filters()[0].IsFull())
	// The 11th add appends a filter of capacity 10*2*1 = 20.
	require.NoError(t, sf.Add(key(10)))
	require.Len(t, sf.Filters(), 2)
	require.Equal(t, int64(20), sf.Filters()[1].Capacity())
	require.Equal(t, int64(11), sf.ElementCount())
}

func TestGrowthCapacitySchedules(t *testing.T) {
	for _, tc := range []struct {
		mode       ScaleMode
		capacities []int64
	}{
		// initial 10, factor 2: 10*2*n for linear, 10*2^n for exponential.
		// The schedules agree through the first two growth steps and
		// diverge from the third.
		{ScaleModeLinear, []int64{10, 20, 40, 60}},
		{ScaleModeExponential, []int64{10, 20, 40, 80}},
	} {
		sf, err := NewScalableFilter(10, 0.0001, 2, tc.mode)
		require.NoError(t, err)
		// 10+20+40 adds fill three filters; one more triggers the fourth.
		for i := 0; i < 71; i++ {
			require.NoError(t, sf.Add(key(i)))
		}
		require.Len(t, sf.Filters(), 4)
		for i, f := range sf.Filters() {
			require.Equal(t, tc.capacities[i], f.Capacity(), "mode=%v filter=%d", tc.mode, i)
		}
		require.Equal(t, int64(71), sf.ElementCount())
	}
}

func TestScalableLookupSpansAllFilters(t *testing.T) {
	sf, err := NewScalableFilter(10, 0.0001, 2, ScaleModeLinear)
	require.NoError(t, err)
	for i := 0; i < 71; i++ {
		require.NoError(t, sf.Add(key(i)))
	}
	for i := 0; i < 71; i++ {
		require.True(t, sf.Lookup(key(i)))
	}
	require.False(t, sf.Lookup([]byte("never-added")))
}

func TestScalableUnionConcatenates(t *testing.T) {
	a, err := NewScalableFilter(10, 0.0001, 2, ScaleModeLinear)
	require.NoError(t, err)
	b, err := NewScalableFilter(10, 0.0001, 2, ScaleModeLinear)
	require.NoError(t, err)
	for i := 0; i < 15; i++ { // grows a to two filters
		require.NoError(t, a.Add(key(i)))
	}
	for i := 100; i < 105; i++ {
		require.NoError(t, b.Add(key(i)))
	}
	u := a.Union(b)
	require.Len(t, u.Filters(), 3)
	require.Equal(t, int64(20), u.ElementCount())
	for i := 0; i < 15; i++ {
		require.True(t, u.Lookup(key(i)))
	}
	for i := 100; i < 105; i++ {
		require.True(t, u.Lookup(key(i)))
	}
}

func TestScalableUnionResultOwnsItsFilters(t *testing.T) {
	a, err := NewScalableFilter(10, 0.0001, 2, ScaleModeLinear)
	require.NoError(t, err)
	b, err := NewScalableFilter(10, 0.0001, 2, ScaleModeLinear)
	require.NoError(t, err)
	require.NoError(t, a.Add(key(1)))
	require.NoError(t, b.Add(key(2)))
	u := a.Union(b)
	require.NoError(t, u.Add([]byte("only-in-union")))
	require.False(t, a.Lookup([]byte("only-in-union")))
	require.False(t, b.Lookup([]byte("only-in-union")))
	require.Equal(t, int64(1), a.ElementCount())
	require.Equal(t, int64(1), b.ElementCount())
}

func TestShrinkingScaleFactorEventuallyFailsGrowth(t *testing.T) {
	// Factor 0.5 exponential shrinks capacities 10, 5, 2, 1, then the
	// computed capacity truncates to zero and growth must fail loudly.
	sf, err := NewScalableFilter(10, 0.01, 0.5, ScaleModeExponential)
	require.NoError(t, err)
	for i := 0; i < 18; i++ {
		require.NoError(t, sf.Add(key(i)))
	}
	err = sf.Add(key(18))
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, int64(18), sf.ElementCount())
}
