package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"choromap/internal/geom"
	"choromap/internal/style"
)

// microCenter is the micro-pixel at the center of a map cell.
func microCenter(cx, cy int) orb.Point {
	return orb.Point{float64(cx*2) + 1, float64(cy*4) + 2}
}

// toCanvas maps a micro-pixel back to the output of the chain head.
func (m Model) toCanvas(mic orb.Point) (orb.Point, bool) {
	return m.tail.Invert(mic)
}

// cellToLonLat converts a map cell back to lon/lat through the whole chain.
func (m Model) cellToLonLat(cx, cy int) (float64, float64, bool) {
	p, ok := m.chain.Invert(microCenter(cx, cy))
	if !ok {
		return 0, 0, false
	}
	return p[0], p[1], true
}

// featureAt returns the county under a map cell.
func (m Model) featureAt(cx, cy int) int {
	if m.index == nil {
		return -1
	}
	c, ok := m.toCanvas(microCenter(cx, cy))
	if !ok {
		return -1
	}
	f, ok := m.index.At(c)
	if !ok {
		return -1
	}
	return f.Feature
}

func (m Model) layerVisible(l geom.Layer) bool {
	switch l {
	case geom.LayerCounties:
		return m.showCounties
	case geom.LayerStates:
		return m.showStates
	case geom.LayerLand:
		return m.showLand
	}
	return false
}

func (m Model) renderMap(w, h int) string {
	if m.canvas == nil {
		return dimStyle.Render("no topology loaded  (Tab to browse, Enter to open)")
	}
	screen := m.canvas.Project(m.tail.Projection())
	br := newBrailleBuf(w, h)

	// fill index per cell, -1 for none; later fills win
	fills := make([][]int, h)
	for y := range fills {
		fills[y] = make([]int, w)
		for x := range fills[y] {
			fills[y][x] = -1
		}
	}
	if m.showFills {
		for i, f := range screen.Fills {
			scanFill(f.Ring, w*2, h*4, func(x0, x1, yMic int) {
				row := fills[yMic/4]
				for cx := x0 / 2; cx <= x1/2 && cx < w; cx++ {
					row[cx] = i
				}
			})
		}
	}

	// outlines, in layer order
	for _, p := range screen.Paths {
		if !m.layerVisible(p.Layer) || len(p.Points) == 0 {
			continue
		}
		br.pen = p.Layer
		prev := micro(p.Points[0])
		for _, pt := range p.Points[1:] {
			cur := micro(pt)
			br.drawLineMicro(prev[0], prev[1], cur[0], cur[1])
			prev = cur
		}
		if p.Closed {
			first := micro(p.Points[0])
			br.drawLineMicro(prev[0], prev[1], first[0], first[1])
		}
	}

	mark := [2]int{-1, -1}
	if m.hasProbe {
		p := micro(m.chain.Apply(m.probe))
		mark = [2]int{p[0] / 2, p[1] / 4}
	}

	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		var run []rune
		var cur cellStyle
		flush := func() {
			if len(run) > 0 {
				sb.WriteString(cur.render(string(run)))
				run = run[:0]
			}
		}
		for x := 0; x < w; x++ {
			r := br.rune(x, y)
			var st cellStyle
			if l := br.layer[y][x]; l != noLayer {
				st.fg = outlineColor(l)
			}
			if i := fills[y][x]; i >= 0 {
				st.bg = m.fillHex[i]
				if screen.Fills[i].Feature == m.hoverFeature {
					st.bg = string(accentFg)
				}
			}
			if x == mark[0] && y == mark[1] {
				r = '◯'
				st.fg = string(markerFg)
			}
			if st != cur {
				flush()
				cur = st
			}
			run = append(run, r)
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func micro(p orb.Point) [2]int {
	return [2]int{int(math.Floor(p[0])), int(math.Floor(p[1]))}
}

type cellStyle struct {
	fg, bg string
}

func (c cellStyle) render(s string) string {
	if c == (cellStyle{}) {
		return s
	}
	st := lipgloss.NewStyle()
	if c.fg != "" {
		st = st.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		st = st.Background(lipgloss.Color(c.bg))
	}
	return st.Render(s)
}

func outlineColor(l geom.Layer) string {
	switch l {
	case geom.LayerLand:
		return string(baseFg)
	case geom.LayerStates:
		return string(subtleBg)
	}
	return style.County.Hex()
}

// scanFill fills ring on a wMic by hMic micro grid with the even-odd rule,
// sampling each micro row at its center. span receives inclusive x ranges
// already clipped to the grid.
func scanFill(ring orb.Ring, wMic, hMic int, span func(x0, x1, y int)) {
	if len(ring) < 3 {
		return
	}
	b := ring.Bound()
	if b.Max[0] < 0 || b.Min[0] >= float64(wMic) || b.Max[1] < 0 || b.Min[1] >= float64(hMic) {
		return
	}
	yStart := max(0, int(math.Floor(b.Min[1])))
	yEnd := min(hMic-1, int(math.Floor(b.Max[1])))
	var xs []float64
	for y := yStart; y <= yEnd; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		for i := range ring {
			a := ring[i]
			c := ring[(i+1)%len(ring)]
			if (a[1] <= sy) == (c[1] <= sy) {
				continue
			}
			t := (sy - a[1]) / (c[1] - a[1])
			xs = append(xs, a[0]+t*(c[0]-a[0]))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Floor(xs[i]))
			x1 := int(math.Floor(xs[i+1]))
			if x1 < 0 || x0 >= wMic {
				continue
			}
			span(max(0, x0), min(wMic-1, x1), y)
		}
	}
}

// inspectTarget is the hovered county, or the county nearest the middle of
// the map.
func (m Model) inspectTarget() (int, bool) {
	if m.hoverFeature >= 0 {
		return m.hoverFeature, true
	}
	if m.index == nil || m.mapW == 0 {
		return -1, false
	}
	c, ok := m.toCanvas(orb.Point{float64(m.mapW), float64(m.mapH * 2)})
	if !ok {
		return -1, false
	}
	f, ok := m.index.Nearest(c)
	if !ok {
		return -1, false
	}
	return f.Feature, true
}
