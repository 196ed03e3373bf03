package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"go.uber.org/zap"

	"choromap/internal/geom"
	"choromap/internal/rates"
	"choromap/internal/topo"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func isTopology(ext string) bool { return ext == ".json" || ext == ".topojson" }
func isRates(ext string) bool    { return ext == ".tsv" || ext == ".csv" }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		switch {
		case isTopology(ext):
			items = append(items, fileItem{title: name, desc: "topology", path: filepath.Join(m.cwd, name)})
		case isRates(ext):
			items = append(items, fileItem{title: name, desc: "rates", path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no topology or rates files in current directory"
	}
}

// loadPath opens a topology, or a rate table that is joined into the
// current topology.
func (m *Model) loadPath(p string) {
	ext := strings.ToLower(filepath.Ext(p))
	switch {
	case isTopology(ext):
		t, err := topo.Load(p)
		if err != nil {
			m.status = "load error: " + err.Error()
			m.log.Error("load topology", zap.String("path", p), zap.Error(err))
			return
		}
		m.rebuild(p, t)
	case isRates(ext):
		if !m.loadRates(p) {
			return
		}
		if m.topo != nil {
			m.rebuild(m.selPath, m.topo)
		}
	default:
		m.status = "unsupported file: " + ext
	}
}

func (m *Model) loadRates(p string) bool {
	rt, err := rates.Load(p, m.opts.Normalize)
	if err != nil {
		m.status = "load error: " + err.Error()
		m.log.Error("load rates", zap.String("path", p), zap.Error(err))
		return false
	}
	m.rates = rt
	m.status = fmt.Sprintf("rates loaded: %s  rows=%d", filepath.Base(p), rt.Len())
	return true
}

// rebuild resolves the layers of t and projects them through the head of
// the chain. The model only switches to t when the build succeeds.
func (m *Model) rebuild(path string, t *topo.Topology) bool {
	opts := m.opts.Build
	opts.Logger = m.log
	d, err := geom.Build(context.Background(), t, m.rates, opts)
	if err != nil {
		m.status = "build error: " + err.Error()
		m.log.Error("build layers", zap.String("path", path), zap.Error(err))
		return false
	}
	m.selPath = path
	m.topo = t
	m.data = d
	m.canvas = d.Project(m.head.Projection())
	m.index = geom.NewIndex(m.canvas)
	m.fillHex = make([]string, len(d.Fills))
	for i, f := range d.Fills {
		m.fillHex[i] = m.opts.Ramp.Hex(f.Rate)
	}
	m.hoverFeature = -1
	m.inspectPopup = ""
	m.status = "loaded: " + filepath.Base(m.selPath) +
		fmt.Sprintf("  counties=%d paths=%d", len(d.Features), len(d.Paths))
	if n := len(d.Skipped); n > 0 {
		m.status += fmt.Sprintf(" skipped=%d", n)
	}
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
	return true
}
