package topo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Coordinates is the nested result of ResolveRings. Points is set on the
// innermost level (a ring or a line), Parts on every level above it.
type Coordinates struct {
	Points []orb.Point
	Parts  []Coordinates
}

// Depth is 1 for a ring, 2 for a list of rings, 3 for a list of polygons.
func (c Coordinates) Depth() int {
	if c.Parts == nil {
		return 1
	}
	if len(c.Parts) == 0 {
		return 2
	}
	return 1 + c.Parts[0].Depth()
}

// ResolveRings turns a list of arc references into absolute coordinates.
// A list of indices is joined into one ring, dropping the leading point of
// every arc after the first. A list of lists resolves each element.
func ResolveRings(ref ArcRef, arcs []Arc, tf *Transform) (Coordinates, error) {
	if !ref.IsList() {
		return Coordinates{}, &MalformedGeometryError{Reason: fmt.Sprintf("expected a list of arc references, got index %d", ref.Index())}
	}
	children := ref.Children()
	if len(children) == 0 {
		return Coordinates{}, &MalformedGeometryError{Reason: "empty arc reference list"}
	}
	nested := children[0].IsList()
	for _, c := range children[1:] {
		if c.IsList() != nested {
			return Coordinates{}, &MalformedGeometryError{Reason: "arc reference list mixes indices and lists"}
		}
	}
	if !nested {
		pts, err := joinArcs(children, arcs, tf)
		if err != nil {
			return Coordinates{}, err
		}
		return Coordinates{Points: pts}, nil
	}
	parts := make([]Coordinates, 0, len(children))
	for _, c := range children {
		part, err := ResolveRings(c, arcs, tf)
		if err != nil {
			return Coordinates{}, err
		}
		parts = append(parts, part)
	}
	return Coordinates{Parts: parts}, nil
}

func joinArcs(refs []ArcRef, arcs []Arc, tf *Transform) ([]orb.Point, error) {
	var out []orb.Point
	for i, r := range refs {
		pts, err := DecodeArc(r.Index(), arcs, tf)
		if err != nil {
			return nil, err
		}
		// shared with the previous arc's last point
		if i > 0 && len(pts) > 0 {
			pts = pts[1:]
		}
		out = append(out, pts...)
	}
	return out, nil
}

// ResolveGeometry resolves the arcs of a single geometry object and returns
// the orb geometry of the same type.
func ResolveGeometry(obj *Object, arcs []Arc, tf *Transform) (orb.Geometry, error) {
	want := 0
	switch obj.Type {
	case "LineString":
		want = 1
	case "Polygon", "MultiLineString":
		want = 2
	case "MultiPolygon":
		want = 3
	default:
		return nil, &MalformedGeometryError{Type: obj.Type, Reason: "unsupported geometry type"}
	}
	c, err := ResolveRings(obj.Arcs, arcs, tf)
	if err != nil {
		if me, ok := err.(*MalformedGeometryError); ok && me.Type == "" {
			me.Type = obj.Type
		}
		return nil, err
	}
	if d := c.Depth(); d != want {
		return nil, &MalformedGeometryError{Type: obj.Type, Reason: fmt.Sprintf("arc nesting depth %d, want %d", d, want)}
	}
	switch obj.Type {
	case "LineString":
		return orb.LineString(c.Points), nil
	case "MultiLineString":
		mls := make(orb.MultiLineString, len(c.Parts))
		for i, p := range c.Parts {
			mls[i] = orb.LineString(p.Points)
		}
		return mls, nil
	case "Polygon":
		return toPolygon(c), nil
	default:
		mp := make(orb.MultiPolygon, len(c.Parts))
		for i, p := range c.Parts {
			mp[i] = toPolygon(p)
		}
		return mp, nil
	}
}

func toPolygon(c Coordinates) orb.Polygon {
	poly := make(orb.Polygon, len(c.Parts))
	for i, r := range c.Parts {
		poly[i] = orb.Ring(r.Points)
	}
	return poly
}

// Feature is a resolved geometry with its id and properties.
type Feature struct {
	ID         string
	Properties map[string]any
	Geometry   orb.Geometry
}

// Geometries returns the geometry objects of a named object in document
// order, flattening geometry collections and skipping null geometries.
func (t *Topology) Geometries(name string) ([]*Object, error) {
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, name)
	}
	var out []*Object
	var walk func(o *Object)
	walk = func(o *Object) {
		switch o.Type {
		case "GeometryCollection":
			for _, g := range o.Geometries {
				if g != nil {
					walk(g)
				}
			}
		case "":
		default:
			out = append(out, o)
		}
	}
	walk(obj)
	return out, nil
}

// Resolve resolves one geometry object of the topology.
func (t *Topology) Resolve(obj *Object) (Feature, error) {
	g, err := ResolveGeometry(obj, t.Arcs, t.Transform)
	if err != nil {
		return Feature{}, err
	}
	return Feature{ID: obj.ID, Properties: obj.Properties, Geometry: g}, nil
}

// Features resolves every geometry of a named object.
func (t *Topology) Features(name string) ([]Feature, error) {
	objs, err := t.Geometries(name)
	if err != nil {
		return nil, err
	}
	out := make([]Feature, 0, len(objs))
	for _, o := range objs {
		f, err := t.Resolve(o)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
