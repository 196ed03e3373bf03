package projection

import (
	"github.com/paulmach/orb"
)

// Stage is one step of a projection chain.
type Stage interface {
	Name() string
	Apply(p orb.Point) orb.Point
}

// Inverter is implemented by stages that can map a point back.
type Inverter interface {
	Invert(p orb.Point) (orb.Point, bool)
}

// GeoPosition lifts (lon, lat) degrees into the chain unchanged.
type GeoPosition struct{}

func (GeoPosition) Name() string                         { return "geo" }
func (GeoPosition) Apply(p orb.Point) orb.Point          { return p }
func (GeoPosition) Invert(p orb.Point) (orb.Point, bool) { return p, true }

// Orthographic maps the canvas rectangle onto normalized device
// coordinates [-1, 1] on both axes.
type Orthographic struct {
	Left   float64 `mapstructure:"left"`
	Right  float64 `mapstructure:"right"`
	Bottom float64 `mapstructure:"bottom"`
	Top    float64 `mapstructure:"top"`
	FlipX  bool    `mapstructure:"flip_x"`
	FlipY  bool    `mapstructure:"flip_y"`
}

func (o Orthographic) Name() string { return "orthographic" }

func (o Orthographic) Apply(p orb.Point) orb.Point {
	x := 2*(p[0]-o.Left)/(o.Right-o.Left) - 1
	y := 2*(p[1]-o.Bottom)/(o.Top-o.Bottom) - 1
	if o.FlipX {
		x = -x
	}
	if o.FlipY {
		y = -y
	}
	return orb.Point{x, y}
}

func (o Orthographic) Invert(p orb.Point) (orb.Point, bool) {
	if o.Right == o.Left || o.Top == o.Bottom {
		return orb.Point{}, false
	}
	x, y := p[0], p[1]
	if o.FlipX {
		x = -x
	}
	if o.FlipY {
		y = -y
	}
	return orb.Point{
		o.Left + (x+1)/2*(o.Right-o.Left),
		o.Bottom + (y+1)/2*(o.Top-o.Bottom),
	}, true
}

// Width and Height are the canvas extent.
func (o Orthographic) Width() float64  { return o.Right - o.Left }
func (o Orthographic) Height() float64 { return o.Top - o.Bottom }

// PanZoom scales and then shifts normalized device coordinates.
type PanZoom struct {
	Zoom float64
	Pan  orb.Point
}

// Identity is the pan/zoom that leaves points unchanged.
func Identity() PanZoom { return PanZoom{Zoom: 1} }

func (pz PanZoom) Name() string { return "panzoom" }

func (pz PanZoom) Apply(p orb.Point) orb.Point {
	return orb.Point{p[0]*pz.Zoom + pz.Pan[0], p[1]*pz.Zoom + pz.Pan[1]}
}

func (pz PanZoom) Invert(p orb.Point) (orb.Point, bool) {
	if pz.Zoom == 0 {
		return orb.Point{}, false
	}
	return orb.Point{(p[0] - pz.Pan[0]) / pz.Zoom, (p[1] - pz.Pan[1]) / pz.Zoom}, true
}

// ZoomAt multiplies the zoom by factor keeping the device point at fixed.
func (pz PanZoom) ZoomAt(factor float64, at orb.Point) PanZoom {
	return PanZoom{
		Zoom: pz.Zoom * factor,
		Pan: orb.Point{
			at[0] - (at[0]-pz.Pan[0])*factor,
			at[1] - (at[1]-pz.Pan[1])*factor,
		},
	}
}

// Move shifts the pan by (dx, dy) device units.
func (pz PanZoom) Move(dx, dy float64) PanZoom {
	return PanZoom{Zoom: pz.Zoom, Pan: orb.Point{pz.Pan[0] + dx, pz.Pan[1] + dy}}
}

// Viewport maps normalized device coordinates to a pixel rectangle with
// the y axis pointing down.
type Viewport struct {
	X      float64 `mapstructure:"x"`
	Y      float64 `mapstructure:"y"`
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

func (v Viewport) Name() string { return "viewport" }

func (v Viewport) Apply(p orb.Point) orb.Point {
	return orb.Point{
		v.X + (p[0]+1)/2*v.Width,
		v.Y + (1-p[1])/2*v.Height,
	}
}

func (v Viewport) Invert(p orb.Point) (orb.Point, bool) {
	if v.Width == 0 || v.Height == 0 {
		return orb.Point{}, false
	}
	return orb.Point{
		2*(p[0]-v.X)/v.Width - 1,
		1 - 2*(p[1]-v.Y)/v.Height,
	}, true
}

// FitViewport centers the largest rectangle of the given aspect ratio
// (width over height) in a w by h pixel area.
func FitViewport(aspect, w, h float64) Viewport {
	if aspect <= 0 {
		return Viewport{Width: w, Height: h}
	}
	vw, vh := w, w/aspect
	if vh > h {
		vh = h
		vw = h * aspect
	}
	return Viewport{X: (w - vw) / 2, Y: (h - vh) / 2, Width: vw, Height: vh}
}
