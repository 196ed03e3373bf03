package tui

import "choromap/internal/geom"

const noLayer geom.Layer = -1

type brailleBuf struct {
	w, h  int            // in cells
	m     [][]uint8      // per-cell 8-bit mask
	layer [][]geom.Layer // topmost layer drawn in each cell
	pen   geom.Layer
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	layer := make([][]geom.Layer, h)
	for i := range m {
		m[i] = make([]uint8, w)
		layer[i] = make([]geom.Layer, w)
		for j := range layer[i] {
			layer[i][j] = noLayer
		}
	}
	return &brailleBuf{w: w, h: h, m: m, layer: layer, pen: noLayer}
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	b.m[cy][cx] |= bit
	if b.pen > b.layer[cy][cx] {
		b.layer[cy][cx] = b.pen
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	wMic, hMic := b.w*2, b.h*4
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) || (x0 >= wMic && x1 >= wMic) || (y0 >= hMic && y1 >= hMic) {
		return
	}
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *brailleBuf) rune(x, y int) rune {
	if mask := b.m[y][x]; mask != 0 {
		return rune(0x2800 + int(mask))
	}
	return ' '
}

func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := 0; x < b.w; x++ {
			row[x] = b.rune(x, y)
		}
		out[y] = string(row)
	}
	return out
}
