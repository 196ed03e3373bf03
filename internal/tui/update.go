package tui

import (
	"fmt"
	"strconv"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"choromap/internal/projection"
)

const (
	zoomStep = 1.2
	panStep  = 0.1
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.probeMode {
			switch msg.String() {
			case "esc":
				m.probeMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				lon, lat, err := parseLonLat(m.ta.Value())
				if err != nil {
					m.status = "probe: " + err.Error()
					return m, nil
				}
				m.probeAt(lon, lat)
				m.probeMode = false
				m.ta.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.showFills = !m.showFills
			m.status = fmt.Sprintf("fills: %v", m.showFills)
		case "2":
			m.showCounties = !m.showCounties
			m.status = fmt.Sprintf("counties: %v", m.showCounties)
		case "3":
			m.showStates = !m.showStates
			m.status = fmt.Sprintf("states: %v", m.showStates)
		case "4":
			m.showLand = !m.showLand
			m.status = fmt.Sprintf("land: %v", m.showLand)
		case "+", "=":
			if m.pz.Zoom < 64 && m.setPanZoom(m.pz.ZoomAt(zoomStep, orb.Point{})) {
				m.status = fmt.Sprintf("zoom: %.2fx", m.pz.Zoom)
			}
		case "-", "_":
			if m.pz.Zoom > 0.05 && m.setPanZoom(m.pz.ZoomAt(1/zoomStep, orb.Point{})) {
				m.status = fmt.Sprintf("zoom: %.2fx", m.pz.Zoom)
			}
		case "0":
			if m.setPanZoom(projection.Identity()) {
				m.status = "view reset"
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
			}
			m.resize()
		case "p":
			m.probeMode = true
			m.ta.SetValue("")
			m.status = "probe mode"
			m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "i":
			if idx, ok := m.inspectTarget(); ok {
				m.inspectPopup = m.describe(idx)
				m.status = "inspect popup"
			} else {
				m.inspectPopup = "no county nearby"
				m.status = m.inspectPopup
			}
		case "esc":
			m.inspectPopup = ""
			m.hasProbe = false
		case "l":
			// toggle all layers
			all := m.showFills && m.showCounties && m.showStates && m.showLand
			m.showFills = !all
			m.showCounties = !all
			m.showStates = !all
			m.showLand = !all
			m.status = fmt.Sprintf("layers: fills=%v counties=%v states=%v land=%v", m.showFills, m.showCounties, m.showStates, m.showLand)
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.setPanZoom(m.pz.Move(0, panStep))
		case "down":
			m.setPanZoom(m.pz.Move(0, -panStep))
		case "left":
			m.setPanZoom(m.pz.Move(-panStep, 0))
		case "right":
			m.setPanZoom(m.pz.Move(panStep, 0))
		}
	case tea.MouseMsg:
		lay := m.layout()
		cx, cy := msg.X-lay.originX, msg.Y-lay.originY
		if cx < 0 || cx >= lay.mapW || cy < 0 || cy >= lay.mapH || m.showAttrs {
			m.hovering = false
			m.hoverFeature = -1
			m.hoverHasGeo = false
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			f := zoomStep
			if msg.Button == tea.MouseButtonWheelDown {
				f = 1 / zoomStep
			}
			// zoom about the device point under the cursor
			if at, ok := m.chain.InvertFrom("panzoom", microCenter(cx, cy)); ok {
				m.setPanZoom(m.pz.ZoomAt(f, at))
			}
		}
		m.hovering = true
		m.hoverCellX, m.hoverCellY = cx, cy
		m.hoverFeature = m.featureAt(cx, cy)
		if lon, lat, ok := m.cellToLonLat(cx, cy); ok {
			m.hoverHasGeo = true
			m.hoverLon = lon
			m.hoverLat = lat
		} else {
			m.hoverHasGeo = false
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// parseLonLat reads "lon lat" or "lon, lat".
func parseLonLat(s string) (float64, float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want \"lon lat\", got %q", strings.TrimSpace(s))
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad longitude %q", fields[0])
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad latitude %q", fields[1])
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude %g out of range", lat)
	}
	return lon, lat, nil
}

// probeAt marks a position on the map and reports where the chain puts it.
func (m *Model) probeAt(lon, lat float64) {
	p := orb.Point{lon, lat}
	m.probe, m.hasProbe = p, true
	out := m.chain.Apply(p)
	region := "-"
	if c, ok := m.composite(); ok {
		r, matched := c.Route(p)
		region = r.Name
		if !matched {
			region += " (fallback)"
		}
	}
	m.status = fmt.Sprintf("probe %.4f %.4f  region=%s  screen=(%.1f, %.1f)", lon, lat, region, out[0], out[1])
}

// describe renders the inspect popup for a county.
func (m Model) describe(idx int) string {
	f := m.data.Features[idx]
	rate := "n/a"
	if f.HasRate {
		rate = fmt.Sprintf("%.3f", f.Rate)
	}
	meta := []string{
		fmt.Sprintf("id: %s", f.ID),
		fmt.Sprintf("name: %s", f.Name),
		fmt.Sprintf("rate: %s", rate),
	}
	if f.Geometry != nil {
		b := f.Geometry.Bound()
		if c, ok := m.composite(); ok {
			r, _ := c.Route(b.Center())
			meta = append(meta, fmt.Sprintf("region: %s", r.Name))
		}
		meta = append(meta, fmt.Sprintf("bbox: [%.4f, %.4f, %.4f, %.4f]", b.Min[0], b.Min[1], b.Max[0], b.Max[1]))
	}
	meta = append(meta, fmt.Sprintf("source: %s", m.selPath))
	return strings.Join(meta, "\n")
}
