package projection

import "fmt"

// DegenerateProjectionError reports conic parameters for which the
// projection is undefined. It is returned once, at construction.
type DegenerateProjectionError struct {
	Parallels [2]float64
	Reason    string
}

func (e *DegenerateProjectionError) Error() string {
	return fmt.Sprintf("degenerate projection (parallels %g, %g): %s", e.Parallels[0], e.Parallels[1], e.Reason)
}
