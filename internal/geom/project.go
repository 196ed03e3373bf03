package geom

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Project returns a copy of d with every outline and fill mapped through
// proj. d is left untouched; Features keep their geographic geometry.
func (d *Data) Project(proj orb.Projection) *Data {
	out := &Data{
		Paths:    make([]Path, len(d.Paths)),
		Fills:    make([]Fill, len(d.Fills)),
		Features: d.Features,
		Skipped:  d.Skipped,
	}
	for i, p := range d.Paths {
		p.Points = project.LineString(slices.Clone(orb.LineString(p.Points)), proj)
		out.Paths[i] = p
	}
	for i, f := range d.Fills {
		f.Ring = project.Ring(f.Ring.Clone(), proj)
		out.Fills[i] = f
	}
	out.computeBBox()
	return out
}
