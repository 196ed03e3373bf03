package projection

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultChain(t *testing.T) Chain {
	t.Helper()
	c, err := Build(DefaultConfig())
	require.NoError(t, err)
	return c
}

func assertPoint(t *testing.T, want, got orb.Point, delta float64) {
	t.Helper()
	assert.InDelta(t, want[0], got[0], delta)
	assert.InDelta(t, want[1], got[1], delta)
}

func TestBuildOrder(t *testing.T) {
	c := defaultChain(t)
	var names []string
	for _, s := range c.Stages() {
		names = append(names, s.Name())
	}
	assert.Equal(t, DefaultStages, names)

	// the central point lands in the middle of the viewport
	assertPoint(t, orb.Point{480, 300}, c.Apply(orb.Point{-96, 37.5}), 1e-6)

	prefix, ok := c.Through("albers-usa")
	require.True(t, ok)
	assert.Equal(t, 2, prefix.Len())
	assertPoint(t, orb.Point{0, 0}, prefix.Apply(orb.Point{-96, 37.5}), 1e-9)

	_, ok = c.Through("mercator")
	assert.False(t, ok)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown stage", Config{Stages: []string{"geo", "mercator"}}},
		{"duplicate stage", Config{Stages: []string{"geo", "geo"}}},
		{"bad fallback", Config{Stages: []string{"albers-usa"}, Fallback: "closest"}},
		{"flat canvas", Config{Stages: []string{"orthographic"}, Canvas: Orthographic{Left: -1, Right: 1, Bottom: 2, Top: 2}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.cfg)
			require.Error(t, err)
		})
	}
}

func TestBuildZeroConfig(t *testing.T) {
	c, err := Build(Config{})
	require.NoError(t, err)
	want := defaultChain(t)
	for _, p := range []orb.Point{{-96, 37.5}, {-149.9, 61.2}, {-157.8, 21.3}} {
		assertPoint(t, want.Apply(p), c.Apply(p), 1e-9)
	}
}

func TestBuildConic(t *testing.T) {
	c, err := Build(Config{Stages: []string{"geo", "conic"}})
	require.NoError(t, err)
	assertPoint(t, orb.Point{0, 0}, c.Apply(orb.Point{-96, 37.5}), 1e-9)
}

func TestChainReplace(t *testing.T) {
	c := defaultChain(t)
	zoomed, err := c.Replace(PanZoom{Zoom: 2, Pan: orb.Point{0.1, 0}})
	require.NoError(t, err)

	assertPoint(t, orb.Point{528, 300}, zoomed.Apply(orb.Point{-96, 37.5}), 1e-6)
	// the original chain is unchanged
	assertPoint(t, orb.Point{480, 300}, c.Apply(orb.Point{-96, 37.5}), 1e-6)

	canvas, ok := zoomed.InvertFrom("albers-usa", orb.Point{528, 300})
	require.True(t, ok)
	assertPoint(t, orb.Point{0, 0}, canvas, 1e-9)

	_, err = NewChain(GeoPosition{}).Replace(Identity())
	require.Error(t, err)

	resized := c.WithViewport(Viewport{Width: 96, Height: 60})
	assertPoint(t, orb.Point{48, 30}, resized.Apply(orb.Point{-96, 37.5}), 1e-6)
}

func TestChainInvert(t *testing.T) {
	c, err := defaultChain(t).Replace(PanZoom{Zoom: 1.5, Pan: orb.Point{-0.2, 0.3}})
	require.NoError(t, err)
	for _, in := range []orb.Point{{-96, 37.5}, {-122.4, 37.8}, {-157.8, 21.3}, {-150, 61}} {
		out, ok := c.Invert(c.Apply(in))
		require.True(t, ok)
		assertPoint(t, in, out, 1e-7)
	}

	_, ok := NewChain(GeoPosition{}, stub{}).Invert(orb.Point{1, 2})
	assert.False(t, ok)
}

func TestChainSplit(t *testing.T) {
	c := defaultChain(t)
	head, tail, ok := c.Split("orthographic")
	require.True(t, ok)
	assert.Equal(t, 2, head.Len())
	assert.Equal(t, 3, tail.Len())
	p := orb.Point{-80.2, 25.8}
	assertPoint(t, c.Apply(p), tail.Apply(head.Apply(p)), 1e-9)

	head, tail, ok = c.Split("mercator")
	assert.False(t, ok)
	assert.Zero(t, head.Len())
	assert.Equal(t, c.Len(), tail.Len())
}

func TestChainProjection(t *testing.T) {
	c := defaultChain(t)
	proj := c.Projection()
	assert.Equal(t, c.Apply(orb.Point{-100, 40}), proj(orb.Point{-100, 40}))
}

type stub struct{}

func (stub) Name() string                { return "stub" }
func (stub) Apply(p orb.Point) orb.Point { return p }

func TestOrthographic(t *testing.T) {
	o := Orthographic{Left: -480, Right: 480, Bottom: -300, Top: 300}
	assertPoint(t, orb.Point{-1, -1}, o.Apply(orb.Point{-480, -300}), 1e-12)
	assertPoint(t, orb.Point{1, 1}, o.Apply(orb.Point{480, 300}), 1e-12)

	o.FlipY = true
	assertPoint(t, orb.Point{1, -1}, o.Apply(orb.Point{480, 300}), 1e-12)
	back, ok := o.Invert(orb.Point{1, -1})
	require.True(t, ok)
	assertPoint(t, orb.Point{480, 300}, back, 1e-12)

	_, ok = Orthographic{}.Invert(orb.Point{})
	assert.False(t, ok)
}

func TestViewport(t *testing.T) {
	v := Viewport{X: 10, Y: 20, Width: 100, Height: 50}
	// y points down: the top-left NDC corner is the viewport origin
	assertPoint(t, orb.Point{10, 20}, v.Apply(orb.Point{-1, 1}), 1e-12)
	assertPoint(t, orb.Point{110, 70}, v.Apply(orb.Point{1, -1}), 1e-12)
	back, ok := v.Invert(orb.Point{60, 45})
	require.True(t, ok)
	assertPoint(t, orb.Point{0, 0}, back, 1e-12)
}

func TestPanZoom(t *testing.T) {
	pz := Identity()
	anchor := orb.Point{0.25, -0.5}
	z := pz.ZoomAt(2, anchor)
	assert.Equal(t, 2.0, z.Zoom)
	assertPoint(t, anchor, z.Apply(anchor), 1e-12)

	m := z.Move(0.1, -0.1)
	assertPoint(t, orb.Point{anchor[0] + 0.1, anchor[1] - 0.1}, m.Apply(anchor), 1e-12)

	_, ok := PanZoom{}.Invert(orb.Point{1, 1})
	assert.False(t, ok)
}

func TestFitViewport(t *testing.T) {
	cases := []struct {
		name   string
		aspect float64
		w, h   float64
		want   Viewport
	}{
		{"wide area", 1.6, 400, 100, Viewport{X: 120, Y: 0, Width: 160, Height: 100}},
		{"tall area", 1.6, 160, 200, Viewport{X: 0, Y: 50, Width: 160, Height: 100}},
		{"exact", 1.6, 960, 600, Viewport{Width: 960, Height: 600}},
		{"no aspect", 0, 10, 20, Viewport{Width: 10, Height: 20}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FitViewport(tc.aspect, tc.w, tc.h)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tc.want.Width, got.Width, 1e-9)
			assert.InDelta(t, tc.want.Height, got.Height, 1e-9)
		})
	}
}
