package geom

import "github.com/paulmach/orb"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows b to include p. The first point of an empty box sets it.
func (b BBox) Extend(p orb.Point, first bool) BBox {
	if first {
		return BBox{MinX: p[0], MinY: p[1], MaxX: p[0], MaxY: p[1]}
	}
	if p[0] < b.MinX {
		b.MinX = p[0]
	}
	if p[1] < b.MinY {
		b.MinY = p[1]
	}
	if p[0] > b.MaxX {
		b.MaxX = p[0]
	}
	if p[1] > b.MaxY {
		b.MaxY = p[1]
	}
	return b
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Layer is one of the drawn map layers, in drawing order.
type Layer int

const (
	LayerCounties Layer = iota
	LayerStates
	LayerLand
)

func (l Layer) String() string {
	switch l {
	case LayerCounties:
		return "counties"
	case LayerStates:
		return "states"
	case LayerLand:
		return "land"
	}
	return "unknown"
}

// Path is an outline stroke.
type Path struct {
	Layer  Layer
	Points []orb.Point
	Closed bool
	Width  float64
}

// Fill is a county polygon colored by rate. Ring is the exterior ring
// without its closing point.
type Fill struct {
	Feature int
	Ring    orb.Ring
	Rate    float64
}

// Feature is a county with its joined rate.
type Feature struct {
	ID         string
	Name       string
	Rate       float64
	HasRate    bool
	Properties map[string]any
	Geometry   orb.Geometry
}

// Data is the render-ready choropleth: outlines, fills and the county
// attributes they point at.
type Data struct {
	Paths    []Path
	Fills    []Fill
	Features []Feature
	BBox     BBox
	// features dropped with Options.SkipErrors
	Skipped []error
}

func (d *Data) Empty() bool { return len(d.Paths) == 0 && len(d.Fills) == 0 }

func (d *Data) computeBBox() {
	d.BBox = BBox{}
	first := true
	add := func(p orb.Point) {
		d.BBox = d.BBox.Extend(p, first)
		first = false
	}
	for _, p := range d.Paths {
		for _, pt := range p.Points {
			add(pt)
		}
	}
	for _, f := range d.Fills {
		for _, pt := range f.Ring {
			add(pt)
		}
	}
}
