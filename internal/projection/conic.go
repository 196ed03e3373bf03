package projection

import (
	"math"

	"github.com/paulmach/orb"
)

const epsilon = 1e-9

// Clip is a rectangle in raw geographic degrees:
// [lonMin, lonMax, latMin, latMax]. Bounds are inclusive. Longitude bounds
// may leave [-180, 180] to cover the antimeridian.
type Clip [4]float64

// Contains reports whether p lies inside the rectangle, trying the
// longitude shifted by a full turn in both directions.
func (c Clip) Contains(p orb.Point) bool {
	if p[1] < c[2] || p[1] > c[3] {
		return false
	}
	for _, lon := range [3]float64{p[0], p[0] - 360, p[0] + 360} {
		if lon >= c[0] && lon <= c[1] {
			return true
		}
	}
	return false
}

// Distance is the planar distance in degrees from p to the rectangle, 0
// inside it.
func (c Clip) Distance(p orb.Point) float64 {
	dy := math.Max(0, math.Max(c[2]-p[1], p[1]-c[3]))
	d := math.Inf(1)
	for _, lon := range [3]float64{p[0], p[0] - 360, p[0] + 360} {
		dx := math.Max(0, math.Max(c[0]-lon, lon-c[1]))
		d = math.Min(d, math.Hypot(dx, dy))
	}
	return d
}

// ConicParams configures a conic equal-area projection. Angles are in
// degrees. Center is added to the unit projection before scaling and
// Translate after it.
type ConicParams struct {
	Scale     float64    `mapstructure:"scale" json:"scale"`
	Parallels [2]float64 `mapstructure:"parallels" json:"parallels"`
	Rotate    [2]float64 `mapstructure:"rotate" json:"rotate"`
	Translate [2]float64 `mapstructure:"translate" json:"translate"`
	Center    [2]float64 `mapstructure:"center" json:"center"`
	// nil means every point is visible
	Clip *Clip `mapstructure:"clip" json:"clip,omitempty"`
	// reference latitude of the y origin; mean of the parallels when nil
	Origin *float64 `mapstructure:"origin" json:"origin,omitempty"`
}

// ConicEqualArea is the Albers conic equal-area projection with an
// optional oblique rotation. It is immutable and safe for concurrent use.
type ConicEqualArea struct {
	params ConicParams

	n, c, rho0       float64
	lambda0          float64
	sinDPhi, cosDPhi float64
}

// NewConicEqualArea validates the parameters and precomputes the cone
// constants.
func NewConicEqualArea(p ConicParams) (*ConicEqualArea, error) {
	for _, par := range p.Parallels {
		if math.IsNaN(par) || math.IsInf(par, 0) || par < -90 || par > 90 {
			return nil, &DegenerateProjectionError{Parallels: p.Parallels, Reason: "parallel outside [-90, 90]"}
		}
	}
	if p.Scale == 0 || math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) {
		return nil, &DegenerateProjectionError{Parallels: p.Parallels, Reason: "scale must be finite and non-zero"}
	}
	s0 := math.Sin(radians(p.Parallels[0]))
	s1 := math.Sin(radians(p.Parallels[1]))
	n := (s0 + s1) / 2
	if math.Abs(n) < epsilon {
		return nil, &DegenerateProjectionError{Parallels: p.Parallels, Reason: "cone constant is zero"}
	}
	origin := (p.Parallels[0] + p.Parallels[1]) / 2
	if p.Origin != nil {
		origin = *p.Origin
	}
	ce := &ConicEqualArea{
		params:  p,
		n:       n,
		c:       1 + s0*s1,
		lambda0: radians(p.Rotate[0]),
		sinDPhi: math.Sin(radians(p.Rotate[1])),
		cosDPhi: math.Cos(radians(p.Rotate[1])),
	}
	ce.rho0 = ce.rho(radians(origin))
	return ce, nil
}

// Params returns the construction parameters.
func (ce *ConicEqualArea) Params() ConicParams { return ce.params }

func (ce *ConicEqualArea) Name() string { return "conic" }

// rho is finite at both poles; the radicand is clamped for points the
// cone cannot reach.
func (ce *ConicEqualArea) rho(phi float64) float64 {
	return math.Sqrt(math.Max(0, ce.c-2*ce.n*math.Sin(phi))) / ce.n
}

// Contains reports whether p is inside the clip rectangle.
func (ce *ConicEqualArea) Contains(p orb.Point) bool {
	return ce.params.Clip == nil || ce.params.Clip.Contains(p)
}

// Project maps (lon, lat) degrees to planar coordinates. The point is
// always computed; visible is false when it falls outside the clip.
func (ce *ConicEqualArea) Project(p orb.Point) (out orb.Point, visible bool) {
	lambda, phi := ce.rotate(radians(p[0]), radians(p[1]))
	r := ce.rho(phi)
	x := r * math.Sin(ce.n*lambda)
	y := ce.rho0 - r*math.Cos(ce.n*lambda)
	return ce.scale(x, y), ce.Contains(p)
}

// Apply projects p and ignores the clip.
func (ce *ConicEqualArea) Apply(p orb.Point) orb.Point {
	out, _ := ce.Project(p)
	return out
}

// Invert maps planar coordinates back to (lon, lat) degrees. It fails for
// points outside the image of the cone.
func (ce *ConicEqualArea) Invert(p orb.Point) (orb.Point, bool) {
	s := ce.params.Scale
	x := (p[0]-ce.params.Translate[0])/s - ce.params.Center[0]
	y := (p[1]-ce.params.Translate[1])/s - ce.params.Center[1]
	r0y := ce.rho0 - y
	l := math.Atan2(x, math.Abs(r0y)) * sign(r0y)
	if r0y*ce.n < 0 {
		l -= math.Pi * sign(x) * sign(r0y)
	}
	lambda := l / ce.n
	if math.Abs(lambda) > math.Pi+epsilon {
		return orb.Point{}, false
	}
	k := (ce.c - (x*x+r0y*r0y)*ce.n*ce.n) / (2 * ce.n)
	if math.IsNaN(k) || math.Abs(k) > 1+epsilon {
		return orb.Point{}, false
	}
	lambda, phi := ce.unrotate(lambda, math.Asin(clamp(k)))
	return orb.Point{degrees(lambda), degrees(phi)}, true
}

func (ce *ConicEqualArea) scale(x, y float64) orb.Point {
	s := ce.params.Scale
	return orb.Point{
		s*(x+ce.params.Center[0]) + ce.params.Translate[0],
		s*(y+ce.params.Center[1]) + ce.params.Translate[1],
	}
}

// rotate shifts longitude by lambda0, then tilts the polar axis by the
// latitude rotation.
func (ce *ConicEqualArea) rotate(lambda, phi float64) (float64, float64) {
	lambda = wrap(lambda + ce.lambda0)
	if ce.sinDPhi == 0 {
		return lambda, phi
	}
	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*ce.cosDPhi + x*ce.sinDPhi
	return math.Atan2(y, x*ce.cosDPhi-z*ce.sinDPhi), math.Asin(clamp(k))
}

func (ce *ConicEqualArea) unrotate(lambda, phi float64) (float64, float64) {
	if ce.sinDPhi != 0 {
		cosPhi := math.Cos(phi)
		x := math.Cos(lambda) * cosPhi
		y := math.Sin(lambda) * cosPhi
		z := math.Sin(phi)
		lambda = math.Atan2(y, x*ce.cosDPhi+z*ce.sinDPhi)
		phi = math.Asin(clamp(z*ce.cosDPhi - x*ce.sinDPhi))
	}
	return wrap(lambda - ce.lambda0), phi
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }

// wrap folds an angle into [-pi, pi].
func wrap(a float64) float64 {
	if a > math.Pi || a < -math.Pi {
		return math.Atan2(math.Sin(a), math.Cos(a))
	}
	return a
}

func clamp(v float64) float64 { return math.Max(-1, math.Min(1, v)) }

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
