package geom

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

type fillEntry struct {
	fill int
	rect rtreego.Rect
}

func (e *fillEntry) Bounds() rtreego.Rect { return e.rect }

// Index finds the fill under a point. Build it on projected data to hit
// test in device space.
type Index struct {
	tree  *rtreego.Rtree
	fills []Fill
}

func NewIndex(d *Data) *Index {
	ix := &Index{fills: d.Fills}
	objs := make([]rtreego.Spatial, 0, len(d.Fills))
	for i, f := range d.Fills {
		b := f.Ring.Bound()
		rect, err := rtreego.NewRectFromPoints(rtreego.Point{b.Min[0], b.Min[1]}, rtreego.Point{b.Max[0], b.Max[1]})
		if err != nil {
			continue
		}
		objs = append(objs, &fillEntry{fill: i, rect: rect})
	}
	ix.tree = rtreego.NewTree(2, 25, 50, objs...)
	return ix
}

func (ix *Index) Len() int { return ix.tree.Size() }

// At returns the first fill, in document order, whose ring contains p.
func (ix *Index) At(p orb.Point) (Fill, bool) {
	best := -1
	for _, s := range ix.tree.SearchIntersect(rtreego.Point{p[0], p[1]}.ToRect(1e-9)) {
		e := s.(*fillEntry)
		if best != -1 && e.fill > best {
			continue
		}
		if planar.RingContains(ix.fills[e.fill].Ring, p) {
			best = e.fill
		}
	}
	if best < 0 {
		return Fill{}, false
	}
	return ix.fills[best], true
}

// Nearest returns the fill whose bounding box is closest to p.
func (ix *Index) Nearest(p orb.Point) (Fill, bool) {
	if ix.tree.Size() == 0 {
		return Fill{}, false
	}
	s := ix.tree.NearestNeighbor(rtreego.Point{p[0], p[1]})
	if s == nil {
		return Fill{}, false
	}
	return ix.fills[s.(*fillEntry).fill], true
}
