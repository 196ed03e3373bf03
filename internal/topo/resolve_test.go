package topo

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRingsTwoArcs(t *testing.T) {
	arcs := []Arc{
		{{0, 0}, {10, 0}, {0, 10}},
		{{10, 10}, {-5, 0}},
	}
	c, err := ResolveRings(Indices(0, 1), arcs, nil)
	require.NoError(t, err)
	require.Equal(t, []orb.Point{{0, 0}, {10, 0}, {10, 10}, {5, 10}}, c.Points)
	require.Equal(t, 1, c.Depth())
}

func TestResolveRingsClosed(t *testing.T) {
	c, err := ResolveRings(Refs(Indices(0, 1)), square(), nil)
	require.NoError(t, err)
	require.Len(t, c.Parts, 1)
	ring := c.Parts[0].Points
	require.Equal(t, ring[0], ring[len(ring)-1])
	require.Equal(t, []orb.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, ring)

	// same square walked the other way
	c, err = ResolveRings(Indices(^1, ^0), square(), nil)
	require.NoError(t, err)
	require.Equal(t, []orb.Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}, c.Points)
}

func TestResolveRingsJoinLength(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	arcs := randomArcs(rng, 30)
	for trial := 0; trial < 50; trial++ {
		k := 1 + rng.Intn(6)
		idx := make([]int, k)
		want := 0
		for i := range idx {
			a := rng.Intn(len(arcs))
			want += len(arcs[a])
			if rng.Intn(2) == 0 {
				a = ^a
			}
			idx[i] = a
		}
		want -= k - 1
		c, err := ResolveRings(Indices(idx...), arcs, nil)
		require.NoError(t, err)
		require.Len(t, c.Points, want)
	}
}

func TestResolveRingsMalformed(t *testing.T) {
	tests := []struct {
		name string
		ref  ArcRef
	}{
		{"bare index", Ref(0)},
		{"empty", Refs()},
		{"empty ring", Refs(Refs())},
		{"mixed", Refs(Ref(0), Indices(1))},
		{"mixed nested", Refs(Refs(Indices(0), Ref(1)))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveRings(tc.ref, square(), nil)
			var me *MalformedGeometryError
			require.ErrorAs(t, err, &me)
		})
	}
}

func TestResolveRingsInvalidIndex(t *testing.T) {
	_, err := ResolveRings(Refs(Indices(0, ^7)), square(), nil)
	var ie *InvalidArcIndexError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ^7, ie.Index)
}

func TestResolveGeometry(t *testing.T) {
	arcs := square()
	g, err := ResolveGeometry(&Object{Type: "Polygon", Arcs: Refs(Indices(0, 1))}, arcs, nil)
	require.NoError(t, err)
	poly, ok := g.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 5)

	g, err = ResolveGeometry(&Object{Type: "MultiPolygon", Arcs: Refs(Refs(Indices(0, 1)), Refs(Indices(^1, ^0)))}, arcs, nil)
	require.NoError(t, err)
	mp, ok := g.(orb.MultiPolygon)
	require.True(t, ok)
	require.Len(t, mp, 2)
	assert.Equal(t, mp[0][0][0], mp[1][0][0])

	g, err = ResolveGeometry(&Object{Type: "LineString", Arcs: Indices(0)}, arcs, nil)
	require.NoError(t, err)
	assert.Equal(t, orb.LineString{{0, 0}, {10, 0}, {10, 10}}, g)

	g, err = ResolveGeometry(&Object{Type: "MultiLineString", Arcs: Refs(Indices(0), Indices(1))}, arcs, nil)
	require.NoError(t, err)
	assert.Len(t, g.(orb.MultiLineString), 2)
}

func TestResolveGeometryDepthMismatch(t *testing.T) {
	tests := []struct {
		typ string
		ref ArcRef
	}{
		{"Polygon", Indices(0, 1)},
		{"MultiPolygon", Refs(Indices(0, 1))},
		{"LineString", Refs(Indices(0))},
		{"Point", Indices(0)},
	}
	for _, tc := range tests {
		t.Run(tc.typ, func(t *testing.T) {
			_, err := ResolveGeometry(&Object{Type: tc.typ, Arcs: tc.ref}, square(), nil)
			var me *MalformedGeometryError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tc.typ, me.Type)
		})
	}
}

const sampleTopology = `{
  "type": "Topology",
  "transform": {"scale": [1, 1], "translate": [0, 0]},
  "arcs": [
    [[0, 0], [10, 0], [0, 10]],
    [[10, 10], [-10, 0], [0, -10]]
  ],
  "objects": {
    "counties": {
      "type": "GeometryCollection",
      "geometries": [
        {"type": "Polygon", "id": 1001, "arcs": [[0, 1]]},
        {"type": null, "id": "9999"},
        {"type": "MultiPolygon", "id": "01003", "properties": {"name": "Baldwin"}, "arcs": [[[-2, -1]]]}
      ]
    },
    "land": {"type": "Polygon", "arcs": [[0, 1]]}
  }
}`

func TestDecodeTopology(t *testing.T) {
	topo, err := Decode(strings.NewReader(sampleTopology))
	require.NoError(t, err)
	require.Equal(t, []string{"counties", "land"}, topo.ObjectNames())

	feats, err := topo.Features("counties")
	require.NoError(t, err)
	require.Len(t, feats, 2)
	assert.Equal(t, "1001", feats[0].ID)
	assert.Equal(t, "01003", feats[1].ID)
	assert.Equal(t, "Baldwin", feats[1].Properties["name"])
	_, ok := feats[1].Geometry.(orb.MultiPolygon)
	assert.True(t, ok)

	land, err := topo.Features("land")
	require.NoError(t, err)
	require.Len(t, land, 1)

	_, err = topo.Features("nation")
	require.ErrorIs(t, err, ErrUnknownObject)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not a topology", `{"type": "FeatureCollection", "features": []}`},
		{"string arc", `{"type": "Topology", "arcs": [], "objects": {"a": {"type": "Polygon", "arcs": [["x"]]}}}`},
		{"fractional arc", `{"type": "Topology", "arcs": [], "objects": {"a": {"type": "Polygon", "arcs": [[1.5]]}}}`},
		{"object arc", `{"type": "Topology", "arcs": [], "objects": {"a": {"type": "Polygon", "arcs": {"i": 0}}}}`},
		{"zero scale", `{"type": "Topology", "transform": {"scale": [0, 1], "translate": [0, 0]}, "arcs": [], "objects": {}}`},
		{"syntax", `{"type": "Topology", "arcs": [`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.doc))
			require.Error(t, err)
		})
	}
}

func TestArcRefJSON(t *testing.T) {
	var ref ArcRef
	require.NoError(t, ref.UnmarshalJSON([]byte(`[[0, -2], [3]]`)))
	require.True(t, ref.IsList())
	require.Len(t, ref.Children(), 2)
	assert.Equal(t, -2, ref.Children()[0].Children()[1].Index())

	out, err := ref.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[[0,-2],[3]]`, string(out))

	var me *MalformedGeometryError
	require.ErrorAs(t, ref.UnmarshalJSON([]byte(`true`)), &me)
}
