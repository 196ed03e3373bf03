package projection

import (
	"fmt"

	"github.com/paulmach/orb"
)

// DefaultStages is the stage order used when the configuration names none.
var DefaultStages = []string{"geo", "albers-usa", "orthographic", "panzoom", "viewport"}

// Config describes a chain. Stages are applied in the listed order.
type Config struct {
	Stages   []string       `mapstructure:"stages"`
	Fallback string         `mapstructure:"fallback"`
	Regions  []RegionParams `mapstructure:"regions"`
	Canvas   Orthographic   `mapstructure:"canvas"`
	Viewport Viewport       `mapstructure:"viewport"`
}

// DefaultConfig is the Albers USA chain on a 960x600 canvas.
func DefaultConfig() Config {
	return Config{
		Stages:   append([]string(nil), DefaultStages...),
		Fallback: string(FallbackDefault),
		Regions:  DefaultRegions(),
		Canvas:   Orthographic{Left: -480, Right: 480, Bottom: -300, Top: 300},
		Viewport: Viewport{Width: 960, Height: 600},
	}
}

// Chain is an ordered, immutable list of stages. Index 0 is applied first.
type Chain struct {
	stages []Stage
}

func NewChain(stages ...Stage) Chain {
	return Chain{stages: append([]Stage(nil), stages...)}
}

// Build constructs the stages named in cfg in order. Zero stages, regions,
// canvas and viewport take their DefaultConfig values.
func Build(cfg Config) (Chain, error) {
	names := cfg.Stages
	if len(names) == 0 {
		names = DefaultStages
	}
	stages := make([]Stage, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return Chain{}, fmt.Errorf("projection stage %q listed twice", name)
		}
		seen[name] = true
		var st Stage
		switch name {
		case "geo":
			st = GeoPosition{}
		case "albers-usa":
			fb, err := ParseFallback(cfg.Fallback)
			if err != nil {
				return Chain{}, err
			}
			regions := cfg.Regions
			if len(regions) == 0 {
				regions = DefaultRegions()
			}
			c, err := NewComposite(regions, fb)
			if err != nil {
				return Chain{}, err
			}
			st = c
		case "conic":
			regions := cfg.Regions
			if len(regions) == 0 {
				regions = DefaultRegions()
			}
			ce, err := NewConicEqualArea(regions[0].ConicParams)
			if err != nil {
				return Chain{}, err
			}
			st = ce
		case "orthographic":
			canvas := cfg.Canvas
			if canvas == (Orthographic{}) {
				canvas = DefaultConfig().Canvas
			}
			if canvas.Width() == 0 || canvas.Height() == 0 {
				return Chain{}, fmt.Errorf("orthographic stage needs a non-empty canvas")
			}
			st = canvas
		case "panzoom":
			st = Identity()
		case "viewport":
			vp := cfg.Viewport
			if vp == (Viewport{}) {
				vp = DefaultConfig().Viewport
			}
			st = vp
		default:
			return Chain{}, fmt.Errorf("unknown projection stage %q", name)
		}
		stages = append(stages, st)
	}
	return Chain{stages: stages}, nil
}

// Stages returns a copy of the stage list.
func (c Chain) Stages() []Stage { return append([]Stage(nil), c.stages...) }

func (c Chain) Len() int { return len(c.stages) }

// Apply runs p through every stage.
func (c Chain) Apply(p orb.Point) orb.Point {
	for _, s := range c.stages {
		p = s.Apply(p)
	}
	return p
}

// Projection adapts the chain for the orb/project helpers.
func (c Chain) Projection() orb.Projection {
	return c.Apply
}

// Stage returns the named stage.
func (c Chain) Stage(name string) (Stage, bool) {
	if i := c.index(name); i >= 0 {
		return c.stages[i], true
	}
	return nil, false
}

func (c Chain) index(name string) int {
	for i, s := range c.stages {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

// Replace returns a new chain with the stage of the same name swapped for s.
func (c Chain) Replace(s Stage) (Chain, error) {
	i := c.index(s.Name())
	if i < 0 {
		return c, fmt.Errorf("no %q stage in chain", s.Name())
	}
	next := c.Stages()
	next[i] = s
	return Chain{stages: next}, nil
}

// WithViewport is Replace for the viewport stage, ignoring chains without one.
func (c Chain) WithViewport(v Viewport) Chain {
	next, err := c.Replace(v)
	if err != nil {
		return c
	}
	return next
}

// Through returns the prefix of the chain ending with the named stage.
func (c Chain) Through(name string) (Chain, bool) {
	i := c.index(name)
	if i < 0 {
		return Chain{}, false
	}
	return NewChain(c.stages[:i+1]...), true
}

// Split cuts the chain before the named stage. When the stage is missing
// head is empty and tail is the whole chain.
func (c Chain) Split(name string) (head, tail Chain, ok bool) {
	i := c.index(name)
	if i < 0 {
		return Chain{}, c, false
	}
	return NewChain(c.stages[:i]...), NewChain(c.stages[i:]...), true
}

// InvertFrom maps a chain output back to the output of the named stage by
// inverting every stage after it.
func (c Chain) InvertFrom(name string, p orb.Point) (orb.Point, bool) {
	i := c.index(name)
	if i < 0 {
		return orb.Point{}, false
	}
	return invert(c.stages[i+1:], p)
}

// Invert maps a chain output back to its input. It fails when a stage
// cannot be inverted.
func (c Chain) Invert(p orb.Point) (orb.Point, bool) {
	return invert(c.stages, p)
}

func invert(stages []Stage, p orb.Point) (orb.Point, bool) {
	for i := len(stages) - 1; i >= 0; i-- {
		inv, ok := stages[i].(Inverter)
		if !ok {
			return orb.Point{}, false
		}
		if p, ok = inv.Invert(p); !ok {
			return orb.Point{}, false
		}
	}
	return p, true
}
