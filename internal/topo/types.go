package topo

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Arc is a delta-encoded polyline shared between geometries.
type Arc [][2]float64

// Transform maps quantized positions back to coordinates.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Apply maps a cumulative position through the transform; nil is the identity.
func (t *Transform) Apply(a, b float64) (float64, float64) {
	if t == nil {
		return a, b
	}
	return t.Scale[0]*a + t.Translate[0], t.Scale[1]*b + t.Translate[1]
}

// Topology is a decoded TopoJSON document. It is not modified after Decode.
type Topology struct {
	Type      string             `json:"type"`
	Transform *Transform         `json:"transform,omitempty"`
	BBox      []float64          `json:"bbox,omitempty"`
	Arcs      []Arc              `json:"arcs"`
	Objects   map[string]*Object `json:"objects"`
}

// Object is a TopoJSON geometry object. Geometries is only set for
// GeometryCollection.
type Object struct {
	Type       string
	ID         string
	Properties map[string]any
	Arcs       ArcRef
	Geometries []*Object
}

type objectDoc struct {
	Type       *string         `json:"type"`
	ID         json.RawMessage `json:"id,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
	Arcs       *ArcRef         `json:"arcs,omitempty"`
	Geometries []*Object       `json:"geometries,omitempty"`
}

func (o *Object) UnmarshalJSON(data []byte) error {
	var doc objectDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Type != nil {
		o.Type = *doc.Type
	}
	o.ID = normalizeID(doc.ID)
	o.Properties = doc.Properties
	if doc.Arcs != nil {
		o.Arcs = *doc.Arcs
	}
	o.Geometries = doc.Geometries
	return nil
}

// normalizeID renders string and numeric ids the same way so 1001 and
// "1001" join against the same rate key.
func normalizeID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return string(raw)
}

// ArcRef is either a single arc index or a list of references. The shape is
// fixed when the JSON is decoded.
type ArcRef struct {
	index int
	refs  []ArcRef
	list  bool
}

// Ref returns a reference to arc i; ^i references arc i reversed.
func Ref(i int) ArcRef { return ArcRef{index: i} }

// Refs returns a list reference.
func Refs(refs ...ArcRef) ArcRef {
	if refs == nil {
		refs = []ArcRef{}
	}
	return ArcRef{refs: refs, list: true}
}

// Indices is shorthand for a list of arc indices.
func Indices(idx ...int) ArcRef {
	refs := make([]ArcRef, len(idx))
	for i, v := range idx {
		refs[i] = Ref(v)
	}
	return Refs(refs...)
}

func (r ArcRef) IsList() bool       { return r.list }
func (r ArcRef) Index() int         { return r.index }
func (r ArcRef) Children() []ArcRef { return r.refs }

func (r *ArcRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &MalformedGeometryError{Reason: "empty arc reference"}
	}
	if data[0] == '[' {
		var refs []ArcRef
		if err := json.Unmarshal(data, &refs); err != nil {
			return err
		}
		*r = Refs(refs...)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil || f != math.Trunc(f) {
		return &MalformedGeometryError{Reason: "arc reference is neither an index nor a list: " + string(data)}
	}
	*r = Ref(int(f))
	return nil
}

func (r ArcRef) MarshalJSON() ([]byte, error) {
	if !r.list {
		return []byte(strconv.Itoa(r.index)), nil
	}
	return json.Marshal(r.refs)
}
