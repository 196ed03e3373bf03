package projection

import (
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeRoute(t *testing.T) {
	albers, err := NewAlbersUSA(FallbackDefault)
	require.NoError(t, err)
	nearest, err := NewAlbersUSA(FallbackNearest)
	require.NoError(t, err)

	tests := []struct {
		name    string
		p       orb.Point
		region  string
		matched bool
		nearest string
	}{
		{"kansas", orb.Point{-96, 37.5}, "lower48", true, "lower48"},
		{"honolulu", orb.Point{-157.8, 21.3}, "hawaii", true, "hawaii"},
		{"anchorage", orb.Point{-150, 61}, "alaska", true, "alaska"},
		{"aleutians", orb.Point{175, 52}, "alaska", true, "alaska"},
		{"inclusive corner", orb.Point{-60, 49.5}, "lower48", true, "lower48"},
		{"gulf of guinea", orb.Point{0, 0}, "lower48", false, "lower48"},
		{"pacific", orb.Point{-170, 10}, "lower48", false, "hawaii"},
		{"haida gwaii", orb.Point{-135, 50.5}, "lower48", false, "alaska"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, matched := albers.Route(tc.p)
			assert.Equal(t, tc.region, r.Name)
			assert.Equal(t, tc.matched, matched)

			r, matched = nearest.Route(tc.p)
			assert.Equal(t, tc.nearest, r.Name)
			assert.Equal(t, tc.matched, matched)
		})
	}
}

func TestCompositeTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, fb := range []Fallback{FallbackDefault, FallbackNearest} {
		albers, err := NewAlbersUSA(fb)
		require.NoError(t, err)
		for i := 0; i < 10000; i++ {
			p := orb.Point{rng.Float64()*360 - 180, rng.Float64()*180 - 90}
			out := albers.Apply(p)
			require.False(t, math.IsNaN(out[0]) || math.IsNaN(out[1]), "%v", p)
			require.False(t, math.IsInf(out[0], 0) || math.IsInf(out[1], 0), "%v", p)
		}
	}
}

func TestCompositeDisjointInsets(t *testing.T) {
	albers, err := NewAlbersUSA(FallbackDefault)
	require.NoError(t, err)

	// the insets sit below the lower 48 on the 960x600 canvas
	hi := albers.Apply(orb.Point{-157.8, 21.3})
	ak := albers.Apply(orb.Point{-150, 61})
	tx := albers.Apply(orb.Point{-97.5, 26})
	assert.Less(t, hi[1], tx[1])
	assert.Less(t, ak[0], hi[0])
	for _, p := range []orb.Point{hi, ak, tx} {
		assert.True(t, math.Abs(p[0]) < 480 && math.Abs(p[1]) < 300, "%v", p)
	}
}

func TestCompositeInvert(t *testing.T) {
	albers, err := NewAlbersUSA(FallbackDefault)
	require.NoError(t, err)
	for _, in := range []orb.Point{
		{-96, 37.5},
		{-157.8, 21.3},
		{-150, 61},
		{-122.4, 37.8},
		{-80.2, 25.8},
		{-70, 44},
		{-165, 60},
		{-124.5, 48},
		{-147.7, 64.8},
		{175, 52},
	} {
		want, _ := albers.Route(in)
		out, ok := albers.Invert(albers.Apply(in))
		require.True(t, ok, "%v", in)
		assert.InDelta(t, in[0], out[0], 1e-7, "%v", in)
		assert.InDelta(t, in[1], out[1], 1e-7, "%v", in)

		got, _ := albers.Route(out)
		assert.Equal(t, want.Name, got.Name)
	}

	_, ok := albers.InvertRegion("guam", orb.Point{})
	assert.False(t, ok)
}

func TestCompositeErrors(t *testing.T) {
	_, err := NewComposite(nil, FallbackDefault)
	require.Error(t, err)

	_, err = NewAlbersUSA("closest")
	require.Error(t, err)

	regions := DefaultRegions()
	regions[1].Parallels = [2]float64{10, -10}
	_, err = NewComposite(regions, FallbackDefault)
	var de *DegenerateProjectionError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), "hawaii")
}
