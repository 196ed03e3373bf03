package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen split shared by View and mouse handling.
type layout struct {
	contentW, contentH int
	originX, originY   int
	mapW, mapH         int
}

func (m Model) layout() layout {
	var l layout
	l.contentH = max(4, m.height-headerHeight-footerHeight)
	l.contentW = max(10, m.width)
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth + 1
	}
	l.originX = sw
	l.originY = headerHeight
	l.mapW = max(10, l.contentW-sw-1)
	l.mapH = l.contentH
	return l
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	// Header
	header := titleStyle.Render(" choromap ─ county choropleth viewer ")
	header = lipgloss.NewStyle().Width(lay.contentW).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	if m.showAttrs {
		// infer a reasonable width from columns
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, lay.contentW-6)
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	} else {
		var canvas string
		if m.probeMode {
			m.ta.SetWidth(min(lay.mapW, 50))
			canvas = lipgloss.JoinVertical(lipgloss.Left, dimStyle.Render("probe a position"), m.ta.View())
		} else {
			canvas = m.renderMap(lay.mapW, lay.mapH)
		}
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(canvas)
	}

	// inspect popup, placed over the left of the content area
	popup := ""
	if m.inspectPopup != "" && !m.showAttrs {
		maxPopupW := max(20, min(48, lay.contentW/2))
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(lay.contentW, lay.contentH, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = fmt.Sprintf("  lon=%.4f lat=%.4f", m.hoverLon, m.hoverLat)
	}
	if m.hoverFeature >= 0 && m.data != nil {
		f := m.data.Features[m.hoverFeature]
		coords += fmt.Sprintf("  %s %s", f.ID, f.Name)
		if f.HasRate {
			coords += fmt.Sprintf(" %.3f", f.Rate)
		}
	}
	if coords != "" {
		coords = dimStyle.Render(padRight(coords, 2))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"0 reset",
		"1-4 layers",
		"Tab files",
		"p probe",
		"a attrs",
		"i inspect",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
