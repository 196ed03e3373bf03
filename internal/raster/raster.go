// Package raster draws a projected choropleth into an image.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"choromap/internal/geom"
	"choromap/internal/style"
)

type Options struct {
	Width, Height int
	Ramp          style.Ramp
	Background    color.Color
	// StrokeScale multiplies every outline width.
	StrokeScale float64
}

func DefaultOptions(w, h int) Options {
	return Options{Width: w, Height: h, Ramp: style.Autumn(), Background: color.White, StrokeScale: 1}
}

// Render draws d, already projected to pixel coordinates, fills first and
// outlines over them in layer order.
func Render(d *geom.Data, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(opts.Width, opts.Height, img, img.Bounds())
	filler := rasterx.NewFiller(opts.Width, opts.Height, scanner)
	for _, f := range d.Fills {
		if len(f.Ring) < 3 {
			continue
		}
		addPath(filler, f.Ring, true)
		filler.SetColor(opts.Ramp.RGBA(f.Rate))
		filler.Draw()
		filler.Clear()
	}

	scale := opts.StrokeScale
	if scale == 0 {
		scale = 1
	}
	dasher := rasterx.NewDasher(opts.Width, opts.Height, scanner)
	for _, layer := range []geom.Layer{geom.LayerCounties, geom.LayerStates, geom.LayerLand} {
		for _, p := range d.Paths {
			if p.Layer != layer || len(p.Points) < 2 {
				continue
			}
			w := fixed.Int26_6(p.Width * scale * 64)
			if w <= 0 {
				w = 1
			}
			dasher.SetStroke(w, 4<<6, rasterx.ButtCap, nil, rasterx.RoundGap, rasterx.Round, nil, 0)
			addPath(dasher, p.Points, p.Closed)
			dasher.SetColor(style.RGBA(outline(layer)))
			dasher.Draw()
			dasher.Clear()
		}
	}
	return img
}

func addPath(a rasterx.Adder, pts []orb.Point, closed bool) {
	a.Start(rasterx.ToFixedP(pts[0][0], pts[0][1]))
	for _, p := range pts[1:] {
		a.Line(rasterx.ToFixedP(p[0], p[1]))
	}
	a.Stop(closed)
}

func outline(l geom.Layer) colorful.Color {
	switch l {
	case geom.LayerLand:
		return style.Land
	case geom.LayerStates:
		return style.State
	}
	return style.County
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// RenderFile renders d and writes the PNG to path.
func RenderFile(path string, d *geom.Data, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create png")
	}
	if err := WritePNG(f, Render(d, opts)); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}
