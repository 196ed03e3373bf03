package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"

	"choromap/internal/rates"
	"choromap/internal/topo"
)

// FeatureCollection converts resolved topology features to GeoJSON. When rt
// is set each feature gets a "rate" property (0 for missing ids). When proj
// is set geometries are projected; the input is not modified.
func FeatureCollection(features []topo.Feature, rt *rates.Table, proj orb.Projection) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		g := f.Geometry
		if proj != nil {
			g = project.Geometry(orb.Clone(g), proj)
		}
		gf := geojson.NewFeature(g)
		if f.ID != "" {
			gf.ID = f.ID
		}
		for k, v := range f.Properties {
			gf.Properties[k] = v
		}
		if rt != nil {
			gf.Properties["rate"] = rt.Rate(f.ID)
		}
		fc.Append(gf)
	}
	return fc
}
