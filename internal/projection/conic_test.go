package projection

import (
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lower48(t *testing.T) *ConicEqualArea {
	t.Helper()
	ce, err := NewConicEqualArea(ConicParams{
		Scale:     1000,
		Parallels: [2]float64{29.5, 45.5},
		Rotate:    [2]float64{96, 0},
	})
	require.NoError(t, err)
	return ce
}

func finite(p orb.Point) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func TestConicOrigin(t *testing.T) {
	ce := lower48(t)
	p, visible := ce.Project(orb.Point{-96, 37.5})
	assert.True(t, visible)
	assert.InDelta(t, 0, p[0], 1e-9)
	assert.InDelta(t, 0, p[1], 1e-9)

	// east of the central meridian is east, north is up
	east := ce.Apply(orb.Point{-90, 37.5})
	assert.Greater(t, east[0], 0.0)
	north := ce.Apply(orb.Point{-96, 45})
	assert.Greater(t, north[1], 0.0)
	assert.InDelta(t, 0, north[0], 1e-9)
}

func TestConicDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		params ConicParams
	}{
		{"opposite parallels", ConicParams{Scale: 1, Parallels: [2]float64{30, -30}}},
		{"equator", ConicParams{Scale: 1, Parallels: [2]float64{0, 0}}},
		{"parallel out of range", ConicParams{Scale: 1, Parallels: [2]float64{95, 10}}},
		{"nan parallel", ConicParams{Scale: 1, Parallels: [2]float64{math.NaN(), 10}}},
		{"zero scale", ConicParams{Parallels: [2]float64{29.5, 45.5}}},
		{"infinite scale", ConicParams{Scale: math.Inf(1), Parallels: [2]float64{29.5, 45.5}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConicEqualArea(tc.params)
			var de *DegenerateProjectionError
			require.ErrorAs(t, err, &de)
			want, got := tc.params.Parallels[0], de.Parallels[0]
			if math.IsNaN(want) {
				assert.True(t, math.IsNaN(got))
			} else {
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestConicPoles(t *testing.T) {
	for _, params := range []ConicParams{
		{Scale: 1000, Parallels: [2]float64{29.5, 45.5}, Rotate: [2]float64{96, 0}},
		{Scale: 1000, Parallels: [2]float64{60, 90}},
		{Scale: 1000, Parallels: [2]float64{-90, -60}, Rotate: [2]float64{0, 20}},
	} {
		ce, err := NewConicEqualArea(params)
		require.NoError(t, err)
		for _, lon := range []float64{-180, -50, 0, 100, 180} {
			for _, lat := range []float64{-90, 90} {
				p := ce.Apply(orb.Point{lon, lat})
				assert.True(t, finite(p), "%v at (%g, %g) = %v", params.Parallels, lon, lat, p)
			}
		}
	}

	// a standard parallel at the pole collapses the pole to x = 0
	ce, err := NewConicEqualArea(ConicParams{Scale: 1, Parallels: [2]float64{60, 90}})
	require.NoError(t, err)
	assert.InDelta(t, 0, ce.Apply(orb.Point{45, 90})[0], 1e-6)
}

func TestConicContinuity(t *testing.T) {
	ce := lower48(t)
	rng := rand.New(rand.NewSource(5))
	const eps = 1e-6
	for i := 0; i < 5000; i++ {
		lon := rng.Float64()*340 - 170
		lat := rng.Float64()*178 - 89
		// rotated longitude within a degree of the seam
		if seam := math.Abs(math.Mod(lon+96+540, 360) - 180); seam > 179 {
			continue
		}
		a := ce.Apply(orb.Point{lon, lat})
		b := ce.Apply(orb.Point{lon + eps, lat + eps})
		d := math.Hypot(a[0]-b[0], a[1]-b[1])
		require.LessOrEqual(t, d, 0.1*eps*1000, "(%g, %g)", lon, lat)
	}
}

func TestConicSeam(t *testing.T) {
	// rotate (96, 0) puts the antimeridian of the projection at 84E
	ce := lower48(t)
	west := ce.Apply(orb.Point{83.9, 40})
	east := ce.Apply(orb.Point{84.1, 40})
	assert.Greater(t, math.Hypot(west[0]-east[0], west[1]-east[1]), 1000.0)
	assert.InDelta(t, west[0], -east[0], 1e-6)
	assert.InDelta(t, west[1], east[1], 1e-6)
}

func TestConicClip(t *testing.T) {
	ce, err := NewConicEqualArea(ConicParams{
		Scale:     1000,
		Parallels: [2]float64{29.5, 45.5},
		Rotate:    [2]float64{96, 0},
		Clip:      &Clip{-130, -60, 20, 49.5},
	})
	require.NoError(t, err)

	_, visible := ce.Project(orb.Point{-130, 20})
	assert.True(t, visible, "bounds are inclusive")
	p, visible := ce.Project(orb.Point{-150, 60})
	assert.False(t, visible)
	assert.True(t, finite(p), "clipped points are still computed")
}

func TestConicInvert(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for _, params := range []ConicParams{
		{Scale: 1000, Parallels: [2]float64{29.5, 45.5}, Rotate: [2]float64{96, 0}},
		{Scale: 700, Parallels: [2]float64{20, 50}, Rotate: [2]float64{-10, 30}, Center: [2]float64{0.1, -0.2}, Translate: [2]float64{5, 7}},
		{Scale: 700, Parallels: [2]float64{-40, -20}, Rotate: [2]float64{0, -15}},
	} {
		ce, err := NewConicEqualArea(params)
		require.NoError(t, err)
		for i := 0; i < 1000; i++ {
			in := orb.Point{rng.Float64()*358 - 179, rng.Float64()*160 - 80}
			out, ok := ce.Invert(ce.Apply(in))
			require.True(t, ok, "%v", in)
			assert.InDelta(t, 0, math.Remainder(out[0]-in[0], 360), 1e-7)
			assert.InDelta(t, in[1], out[1], 1e-7)
		}
	}
}

func TestClipWrap(t *testing.T) {
	c := Clip{-190, -129, 51, 72}
	assert.True(t, c.Contains(orb.Point{175, 52}))
	assert.True(t, c.Contains(orb.Point{-150, 61}))
	assert.False(t, c.Contains(orb.Point{160, 52}))
	assert.Zero(t, c.Distance(orb.Point{175, 60}))
	assert.InDelta(t, 0.5, c.Distance(orb.Point{-135, 50.5}), 1e-12)
}
