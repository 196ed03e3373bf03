// Package style holds the colors shared by the terminal and PNG renderers.
package style

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Ramp maps a rate in [0, 1] to a color between From and To.
type Ramp struct {
	From, To colorful.Color
	// Steps > 1 quantizes the ramp into that many classes.
	Steps int
}

// Autumn runs from yellow at 0 to red at 1.
func Autumn() Ramp {
	return Ramp{
		From: colorful.Color{R: 1, G: 1, B: 0},
		To:   colorful.Color{R: 1, G: 0, B: 0},
	}
}

// At returns the color for t. t is clamped to [0, 1]; NaN maps to From.
func (r Ramp) At(t float64) colorful.Color {
	if r.Steps > 1 && t > 0 && t < 1 {
		t = math.Floor(t*float64(r.Steps)) / float64(r.Steps-1)
	}
	switch {
	case math.IsNaN(t) || t <= 0:
		return r.From
	case t >= 1:
		return r.To
	}
	return r.From.BlendHcl(r.To, t).Clamped()
}

func (r Ramp) Hex(t float64) string { return r.At(t).Hex() }

func (r Ramp) RGBA(t float64) color.RGBA {
	return toRGBA(r.At(t))
}

// Outline colors of the map layers.
var (
	Land   = colorful.Color{R: 0, G: 0, B: 0}
	State  = colorful.Color{R: 0, G: 0, B: 0}
	County = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
)

// Stroke widths in canvas units.
const (
	LandWidth   = 2.5
	StateWidth  = 1.0
	CountyWidth = 0.5
)

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// RGBA converts an outline color for image output.
func RGBA(c colorful.Color) color.RGBA { return toRGBA(c) }
