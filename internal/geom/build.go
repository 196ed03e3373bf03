package geom

import (
	"context"
	"runtime"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"choromap/internal/rates"
	"choromap/internal/style"
	"choromap/internal/topo"
)

// Objects names the topology objects of each layer. An empty name skips
// the layer.
type Objects struct {
	Land     string `mapstructure:"land"`
	States   string `mapstructure:"states"`
	Counties string `mapstructure:"counties"`
}

// DefaultObjects matches the us-atlas topology.
func DefaultObjects() Objects {
	return Objects{Land: "land", States: "states", Counties: "counties"}
}

type Options struct {
	Objects Objects
	// Workers bounds parallel resolution; 0 means GOMAXPROCS.
	Workers int
	// SkipErrors drops features that fail to resolve instead of failing.
	SkipErrors bool
	Logger     *zap.Logger
}

// Build resolves the configured layers of t and joins county rates from rt.
// Output order follows document order. When none of the configured objects
// exist every object of t is drawn as a state outline.
func Build(ctx context.Context, t *topo.Topology, rt *rates.Table, opts Options) (*Data, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{t: t, rt: rt, opts: opts, log: log, data: &Data{}}
	layers := []struct {
		name  string
		layer Layer
	}{
		{opts.Objects.Counties, LayerCounties},
		{opts.Objects.States, LayerStates},
		{opts.Objects.Land, LayerLand},
	}
	found := 0
	for _, l := range layers {
		if l.name == "" {
			continue
		}
		if _, ok := t.Objects[l.name]; !ok {
			log.Warn("topology object not found", zap.String("object", l.name), zap.Stringer("layer", l.layer))
			continue
		}
		found++
		if err := b.layer(ctx, l.name, l.layer); err != nil {
			return nil, err
		}
	}
	if found == 0 {
		for _, name := range t.ObjectNames() {
			if err := b.layer(ctx, name, LayerStates); err != nil {
				return nil, err
			}
		}
	}
	if b.data.Empty() {
		return nil, errors.New("no geometries found")
	}
	b.data.computeBBox()
	log.Debug("built layers",
		zap.Int("paths", len(b.data.Paths)),
		zap.Int("fills", len(b.data.Fills)),
		zap.Int("skipped", len(b.data.Skipped)))
	return b.data, nil
}

type builder struct {
	t    *topo.Topology
	rt   *rates.Table
	opts Options
	log  *zap.Logger
	data *Data
}

func (b *builder) layer(ctx context.Context, name string, layer Layer) error {
	objs, err := b.t.Geometries(name)
	if err != nil {
		return err
	}
	feats, errs, err := b.resolve(ctx, objs)
	if err != nil {
		return errors.Wrapf(err, "layer %s", name)
	}
	for i, f := range feats {
		if errs[i] != nil {
			b.log.Warn("skipping feature",
				zap.String("object", name),
				zap.Int("index", i),
				zap.String("id", objs[i].ID),
				zap.Error(errs[i]))
			b.data.Skipped = append(b.data.Skipped, errs[i])
			continue
		}
		b.add(layer, f)
	}
	return nil
}

// resolve runs topo.Resolve over objs with a bounded worker pool. Results
// keep the order of objs.
func (b *builder) resolve(ctx context.Context, objs []*topo.Object) ([]topo.Feature, []error, error) {
	feats := make([]topo.Feature, len(objs))
	errs := make([]error, len(objs))
	workers := b.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, o := range objs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := b.t.Resolve(o)
			if err != nil {
				if b.opts.SkipErrors {
					errs[i] = err
					return nil
				}
				return errors.Wrapf(err, "feature %d (id %q)", i, o.ID)
			}
			feats[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return feats, errs, nil
}

func (b *builder) add(layer Layer, f topo.Feature) {
	for _, ls := range lines(f.Geometry) {
		b.data.Paths = append(b.data.Paths, Path{Layer: layer, Points: ls, Width: width(layer)})
	}
	polys := polygons(f.Geometry)
	switch layer {
	case LayerLand:
		for _, poly := range polys {
			for _, ring := range poly {
				b.data.Paths = append(b.data.Paths, Path{Layer: layer, Points: ring, Closed: true, Width: style.LandWidth})
			}
		}
	case LayerStates:
		for _, poly := range polys {
			if len(poly) > 0 {
				b.data.Paths = append(b.data.Paths, Path{Layer: layer, Points: poly[0], Closed: true, Width: style.StateWidth})
			}
		}
	case LayerCounties:
		idx := len(b.data.Features)
		rate, ok := b.rt.Lookup(f.ID)
		name, _ := f.Properties["name"].(string)
		b.data.Features = append(b.data.Features, Feature{
			ID:         f.ID,
			Name:       name,
			Rate:       rate,
			HasRate:    ok,
			Properties: f.Properties,
			Geometry:   f.Geometry,
		})
		for _, poly := range polys {
			if len(poly) == 0 {
				continue
			}
			ring := poly[0]
			b.data.Paths = append(b.data.Paths, Path{Layer: layer, Points: ring, Closed: true, Width: style.CountyWidth})
			if len(ring) > 3 {
				b.data.Fills = append(b.data.Fills, Fill{Feature: idx, Ring: ring[:len(ring)-1], Rate: rate})
			}
		}
	}
}

func width(l Layer) float64 {
	switch l {
	case LayerLand:
		return style.LandWidth
	case LayerStates:
		return style.StateWidth
	}
	return style.CountyWidth
}

func polygons(g orb.Geometry) []orb.Polygon {
	switch g := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return g
	}
	return nil
}

func lines(g orb.Geometry) []orb.LineString {
	switch g := g.(type) {
	case orb.LineString:
		return []orb.LineString{g}
	case orb.MultiLineString:
		return g
	}
	return nil
}
