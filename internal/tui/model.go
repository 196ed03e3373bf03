package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"choromap/internal/geom"
	"choromap/internal/projection"
	"choromap/internal/rates"
	"choromap/internal/style"
	"choromap/internal/topo"
)

// canvasStage is the first stage applied per frame. Everything before it
// is applied once when a topology is loaded.
const canvasStage = "orthographic"

// Options configures the viewer.
type Options struct {
	Projection projection.Config
	Build      geom.Options
	// RatesPath is loaded before the first topology when set.
	RatesPath string
	Normalize float64
	Ramp      style.Ramp
	Logger    *zap.Logger
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	opts Options
	log  *zap.Logger

	// Data
	topo    *topo.Topology
	rates   *rates.Table
	data    *geom.Data
	canvas  *geom.Data // data through the head of the chain
	index   *geom.Index
	fillHex []string

	// chain is split at canvasStage into head and tail
	chain projection.Chain
	head  projection.Chain
	tail  projection.Chain
	pz    projection.PanZoom

	// last laid out map size, in cells
	mapW int
	mapH int

	// probe mode
	probeMode bool
	ta        textarea.Model
	probe     orb.Point
	hasProbe  bool

	// layer visibility
	showFills    bool
	showCounties bool
	showStates   bool
	showLand     bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering     bool
	hoverCellX   int
	hoverCellY   int
	hoverFeature int
	hoverHasGeo  bool
	hoverLon     float64
	hoverLat     float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

// New builds the projection chain of opts and an empty viewer.
func New(opts Options) (Model, error) {
	chain, err := projection.Build(opts.Projection)
	if err != nil {
		return Model{}, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Ramp == (style.Ramp{}) {
		opts.Ramp = style.Autumn()
		opts.Ramp.Steps = 9
	}
	if opts.Normalize == 0 {
		opts.Normalize = rates.DefaultNormalize
	}
	m := Model{
		showSidebar:  false,
		helpVisible:  true,
		status:       "choromap ready",
		opts:         opts,
		log:          opts.Logger,
		chain:        chain,
		pz:           projection.Identity(),
		showFills:    true,
		showCounties: true,
		showStates:   true,
		showLand:     true,
		hoverFeature: -1,
	}
	m.head, m.tail, _ = m.chain.Split(canvasStage)
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "lon lat, e.g. -96 37.5. Enter to probe; Esc to cancel."
	m.ta.CharLimit = 64
	m.ta.SetWidth(50)
	m.ta.SetHeight(1)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	if opts.RatesPath != "" {
		m.loadRates(opts.RatesPath)
	}
	return m, nil
}

// NewWithPath preloads a topology at launch.
func NewWithPath(path string, opts Options) (Model, error) {
	m, err := New(opts)
	if err != nil {
		return Model{}, err
	}
	m.loadPath(path)
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// Status is the last status line message.
func (m Model) Status() string { return m.status }

// composite returns the Albers USA stage when the chain has one.
func (m Model) composite() (*projection.Composite, bool) {
	st, ok := m.chain.Stage("albers-usa")
	if !ok {
		return nil, false
	}
	c, ok := st.(*projection.Composite)
	return c, ok
}

// setPanZoom swaps the panzoom stage of the chain.
func (m *Model) setPanZoom(pz projection.PanZoom) bool {
	next, err := m.chain.Replace(pz)
	if err != nil {
		m.status = err.Error()
		return false
	}
	m.pz = pz
	m.chain = next
	m.head, m.tail, _ = m.chain.Split(canvasStage)
	return true
}

// resize lays out the screen and fits the viewport stage to the map area.
func (m *Model) resize() {
	lay := m.layout()
	m.mapW, m.mapH = lay.mapW, lay.mapH
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lay.contentH-2)
	}
	m.chain = m.chain.WithViewport(projection.FitViewport(m.canvasAspect(), float64(lay.mapW*2), float64(lay.mapH*4)))
	m.head, m.tail, _ = m.chain.Split(canvasStage)
}

func (m Model) canvasAspect() float64 {
	if st, ok := m.chain.Stage(canvasStage); ok {
		if o, ok := st.(projection.Orthographic); ok && o.Height() != 0 {
			return abs(o.Width() / o.Height())
		}
	}
	return 1
}
