package topo

import "github.com/paulmach/orb"

// DecodeArc returns the absolute points of the referenced arc. Negative
// references (^i) decode arc i and reverse the result. The arc table is
// only read.
func DecodeArc(ref int, arcs []Arc, tf *Transform) ([]orb.Point, error) {
	i := ref
	if ref < 0 {
		i = ^ref
	}
	if i >= len(arcs) {
		return nil, &InvalidArcIndexError{Index: ref, Len: len(arcs)}
	}
	arc := arcs[i]
	pts := make([]orb.Point, len(arc))
	var a, b float64
	for k, d := range arc {
		a += d[0]
		b += d[1]
		x, y := tf.Apply(a, b)
		pts[k] = orb.Point{x, y}
	}
	if ref < 0 {
		for l, r := 0, len(pts)-1; l < r; l, r = l+1, r-1 {
			pts[l], pts[r] = pts[r], pts[l]
		}
	}
	return pts, nil
}

// Arc decodes an arc of the topology using its transform.
func (t *Topology) Arc(ref int) ([]orb.Point, error) {
	return DecodeArc(ref, t.Arcs, t.Transform)
}
