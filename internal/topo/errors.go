package topo

import (
	"errors"
	"fmt"
)

// ErrUnknownObject is returned when a topology has no object of the requested name.
var ErrUnknownObject = errors.New("topo: unknown object")

// InvalidArcIndexError indicates an arc reference outside the arc table.
type InvalidArcIndexError struct {
	Index int // reference as written, possibly complemented
	Len   int
}

func (e *InvalidArcIndexError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid arc index %d (~%d) for %d arcs", e.Index, ^e.Index, e.Len)
	}
	return fmt.Sprintf("invalid arc index %d for %d arcs", e.Index, e.Len)
}

// MalformedGeometryError indicates an arc reference tree that does not fit
// its geometry type.
type MalformedGeometryError struct {
	Type   string
	Reason string
}

func (e *MalformedGeometryError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("malformed geometry (%s): %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("malformed geometry: %s", e.Reason)
}
