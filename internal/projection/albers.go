package projection

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Fallback decides which region projects a point that no clip contains.
type Fallback string

const (
	// FallbackDefault projects unmatched points with the first region.
	FallbackDefault Fallback = "default"
	// FallbackNearest picks the region whose clip rectangle is closest.
	FallbackNearest Fallback = "nearest"
)

// ParseFallback accepts "" as FallbackDefault.
func ParseFallback(s string) (Fallback, error) {
	switch Fallback(s) {
	case "", FallbackDefault:
		return FallbackDefault, nil
	case FallbackNearest:
		return FallbackNearest, nil
	}
	return "", fmt.Errorf("unknown fallback policy %q", s)
}

// RegionParams names one regional projection of a composite.
type RegionParams struct {
	Name        string `mapstructure:"name" json:"name"`
	ConicParams `mapstructure:",squash"`
}

// Region is a named regional projection.
type Region struct {
	Name       string
	Projection *ConicEqualArea
}

// Composite routes each point to the first region whose clip contains it,
// testing the raw geographic coordinates.
type Composite struct {
	regions  []Region
	fallback Fallback
}

// DefaultRegions is the Albers USA layout on a 960x600 canvas centered on
// the origin: lower 48, Hawaii, Alaska in routing order.
func DefaultRegions() []RegionParams {
	return []RegionParams{
		{Name: "lower48", ConicParams: ConicParams{
			Scale:     1000,
			Parallels: [2]float64{29.5, 45.5},
			Rotate:    [2]float64{96, 0},
			Clip:      &Clip{-130, -60, 20, 49.5},
		}},
		{Name: "hawaii", ConicParams: ConicParams{
			Scale:     1000,
			Parallels: [2]float64{8, 18},
			Rotate:    [2]float64{157, 0},
			Center:    [2]float64{-0.1, -0.36},
			Clip:      &Clip{-161, -154, 18, 23},
		}},
		{Name: "alaska", ConicParams: ConicParams{
			Scale:     350,
			Parallels: [2]float64{55, 65},
			Rotate:    [2]float64{154, 0},
			Center:    [2]float64{-0.857, -0.629},
			Clip:      &Clip{-190, -129, 51, 72},
		}},
	}
}

// NewComposite builds the regional projections in the given order.
func NewComposite(params []RegionParams, fallback Fallback) (*Composite, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("composite projection needs at least one region")
	}
	if _, err := ParseFallback(string(fallback)); err != nil {
		return nil, err
	}
	if fallback == "" {
		fallback = FallbackDefault
	}
	c := &Composite{fallback: fallback}
	for _, p := range params {
		ce, err := NewConicEqualArea(p.ConicParams)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", p.Name, err)
		}
		c.regions = append(c.regions, Region{Name: p.Name, Projection: ce})
	}
	return c, nil
}

// NewAlbersUSA is NewComposite with DefaultRegions.
func NewAlbersUSA(fallback Fallback) (*Composite, error) {
	return NewComposite(DefaultRegions(), fallback)
}

func (c *Composite) Name() string { return "albers-usa" }

// Regions returns the regions in routing order.
func (c *Composite) Regions() []Region {
	return append([]Region(nil), c.regions...)
}

func (c *Composite) Fallback() Fallback { return c.fallback }

// Route returns the region that projects p. matched is false when no clip
// contains p and the fallback policy chose the region.
func (c *Composite) Route(p orb.Point) (Region, bool) {
	for _, r := range c.regions {
		if r.Projection.Contains(p) {
			return r, true
		}
	}
	if c.fallback == FallbackNearest {
		best, bestDist := c.regions[0], math.Inf(1)
		for _, r := range c.regions {
			clip := r.Projection.params.Clip
			if clip == nil {
				continue
			}
			if d := clip.Distance(p); d < bestDist {
				best, bestDist = r, d
			}
		}
		return best, false
	}
	return c.regions[0], false
}

// Project projects p with its routed region. It never fails.
func (c *Composite) Project(p orb.Point) (orb.Point, bool) {
	r, matched := c.Route(p)
	return r.Projection.Apply(p), matched
}

func (c *Composite) Apply(p orb.Point) orb.Point {
	out, _ := c.Project(p)
	return out
}

// Invert accepts the first inverse that lands inside its region's clip.
// Insets are drawn over the first region, so they are tried before it.
func (c *Composite) Invert(p orb.Point) (orb.Point, bool) {
	for i := len(c.regions) - 1; i >= 0; i-- {
		if geo, ok := c.InvertRegion(c.regions[i].Name, p); ok {
			return geo, true
		}
	}
	return orb.Point{}, false
}

// InvertRegion inverts p with one named region and fails when the result
// is outside that region's clip.
func (c *Composite) InvertRegion(name string, p orb.Point) (orb.Point, bool) {
	for _, r := range c.regions {
		if r.Name != name {
			continue
		}
		geo, ok := r.Projection.Invert(p)
		if ok && r.Projection.Contains(geo) {
			return geo, true
		}
		return orb.Point{}, false
	}
	return orb.Point{}, false
}
