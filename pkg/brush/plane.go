// Package brush provides geometry for convex map brushes: face planes,
// normals and the local frame of an axis-aligned box.
package brush

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/stairgen/pkg/math"
)

// Brush geometry errors.
var (
	ErrBadPlane    = errors.New("invalid plane")
	ErrOrientation = errors.New("unsupported template orientation")
)

// Plane is a face plane given by three points, clockwise when seen from
// outside the brush.
type Plane [3]math.Vec3

// ParsePlane parses "(x y z) (x y z) (x y z)".
func ParsePlane(s string) (Plane, error) {
	var p Plane
	if strings.Count(s, "(") != 3 || strings.Count(s, ")") != 3 {
		return p, fmt.Errorf("%w: %q: want three parenthesized points", ErrBadPlane, s)
	}

	fields := strings.Fields(strings.NewReplacer("(", " ", ")", " ").Replace(s))
	if len(fields) != 9 {
		return p, fmt.Errorf("%w: %q: want 9 coordinates, got %d", ErrBadPlane, s, len(fields))
	}

	var nums [9]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return p, fmt.Errorf("%w: %q: %v", ErrBadPlane, s, err)
		}
		nums[i] = v
	}
	for i := range p {
		p[i] = math.Vec3{X: nums[i*3], Y: nums[i*3+1], Z: nums[i*3+2]}
	}
	return p, nil
}

// FormatPlane formats p the way map files store it. Coordinates are
// truncated toward zero to whole units.
func FormatPlane(p Plane) string {
	var sb strings.Builder
	for i, pt := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('(')
		sb.WriteString(strconv.FormatInt(int64(pt.X), 10))
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatInt(int64(pt.Y), 10))
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatInt(int64(pt.Z), 10))
		sb.WriteByte(')')
	}
	return sb.String()
}

// String is shorthand for FormatPlane(p).
func (p Plane) String() string {
	return FormatPlane(p)
}

// ComputeNormal returns the outward normal of p reduced to component signs.
//
// Points are clockwise from outside, so (p1-p0) x (p0-p2) points out of
// the brush.
func ComputeNormal(p Plane) math.Vec3 {
	e1 := p[1].Sub(p[0])
	e2 := p[0].Sub(p[2])
	return e1.Cross(e2).Sign()
}

// Normal is shorthand for ComputeNormal(p).
func (p Plane) Normal() math.Vec3 {
	return ComputeNormal(p)
}

// IsAxisAligned reports whether exactly one coordinate axis is constant
// across all three points. Two or three constant axes mean a degenerate
// face.
func (p Plane) IsAxisAligned() bool {
	constant := 0
	for axis := 0; axis < 3; axis++ {
		v := p[0].Axis(axis)
		if p[1].Axis(axis) == v && p[2].Axis(axis) == v {
			constant++
		}
	}
	return constant == 1
}

// Min returns the smallest coordinate of the three points along axis.
func (p Plane) Min(axis int) float64 {
	m := p[0].Axis(axis)
	for _, pt := range p[1:] {
		m = min(m, pt.Axis(axis))
	}
	return m
}

// Max returns the largest coordinate of the three points along axis.
func (p Plane) Max(axis int) float64 {
	m := p[0].Axis(axis)
	for _, pt := range p[1:] {
		m = max(m, pt.Axis(axis))
	}
	return m
}

// Transform applies m to every point.
func (p Plane) Transform(m math.Mat4) Plane {
	var out Plane
	for i, pt := range p {
		out[i] = m.TransformVec3(pt)
	}
	return out
}
