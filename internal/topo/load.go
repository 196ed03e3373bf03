package topo

import (
	"encoding/json"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/pkg/errors"
)

// Load reads a TopoJSON document from path.
func Load(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open topology")
	}
	defer f.Close()
	t, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return t, nil
}

// Decode parses a TopoJSON document. Arc references are checked for shape
// here; indices are checked when a geometry is resolved.
func Decode(r io.Reader) (*Topology, error) {
	var t Topology
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, err
	}
	if t.Type != "Topology" {
		return nil, errors.Errorf("not a topology: type %q", t.Type)
	}
	if t.Transform != nil && (t.Transform.Scale[0] == 0 || t.Transform.Scale[1] == 0) {
		return nil, errors.New("transform scale must be non-zero")
	}
	return &t, nil
}

// ObjectNames returns the sorted names of the top-level objects.
func (t *Topology) ObjectNames() []string {
	return slices.Sorted(maps.Keys(t.Objects))
}
