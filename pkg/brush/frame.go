package brush

import (
	"fmt"
	"strings"

	"github.com/Faultbox/stairgen/pkg/math"
)

// Orientation is the horizontal direction a template's front face points to.
type Orientation int

// Orientations in counter-clockwise order; the value is the number of
// quarter turns from east.
const (
	East  Orientation = 0 // +X
	North Orientation = 1 // +Y
	West  Orientation = 2 // -X
	South Orientation = 3 // -Y
)

// String returns the compass name.
func (o Orientation) String() string {
	switch o {
	case East:
		return "east"
	case North:
		return "north"
	case West:
		return "west"
	case South:
		return "south"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// Normal returns the unit normal of a face pointing in direction o.
func (o Orientation) Normal() math.Vec3 {
	switch o {
	case North:
		return math.Vec3{Y: 1}
	case West:
		return math.Vec3{X: -1}
	case South:
		return math.Vec3{Y: -1}
	default:
		return math.Vec3{X: 1}
	}
}

// OrientationFromNormal maps a sign-reduced normal to an orientation. Only
// the four horizontal unit normals are accepted.
func OrientationFromNormal(n math.Vec3) (Orientation, bool) {
	for _, o := range []Orientation{East, North, West, South} {
		if o.Normal() == n {
			return o, true
		}
	}
	return 0, false
}

// axes describes how an orientation maps onto world axes.
type axes struct {
	facing    int  // world axis along the front normal
	lateral   int  // horizontal axis across the front face
	leftIsMax bool // whether "left" is the larger lateral coordinate
}

var orientationAxes = [4]axes{
	East:  {facing: 0, lateral: 1, leftIsMax: false},
	North: {facing: 1, lateral: 0, leftIsMax: true},
	West:  {facing: 0, lateral: 1, leftIsMax: true},
	South: {facing: 1, lateral: 0, leftIsMax: false},
}

// Frame is the measured bounding box of a template in its own terms. Left
// is the lateral bound on the left of someone standing at the back and
// looking toward the front.
type Frame struct {
	Front, Back float64 // positions along the facing axis
	Left, Right float64 // positions along the lateral axis
	Top, Bottom float64 // Z extent

	Orientation Orientation
}

// Length is the extent along the facing axis.
func (f Frame) Length() float64 { return abs(f.Front - f.Back) }

// Width is the lateral extent.
func (f Frame) Width() float64 { return abs(f.Left - f.Right) }

// Height is the vertical extent.
func (f Frame) Height() float64 { return f.Top - f.Bottom }

// Origin returns the world position of the back-left-bottom corner, the
// point local coordinates are measured from.
func (f Frame) Origin() math.Vec3 {
	if f.Orientation%2 == 0 {
		return math.Vec3{X: f.Back, Y: f.Left, Z: f.Bottom}
	}
	return math.Vec3{X: f.Left, Y: f.Back, Z: f.Bottom}
}

// Transform maps local coordinates (X toward the front, Y toward the right,
// Z up) into world space: rotate by the orientation, then move to Origin.
func (f Frame) Transform() math.Mat4 {
	o := f.Origin()
	return math.Translate(o.X, o.Y, o.Z).Mul(math.RotateZQuarter(int(f.Orientation)))
}

// Face is one side of a brush.
type Face struct {
	ID       int
	Plane    Plane
	Material string
}

// Normal returns the sign-reduced outward normal.
func (f Face) Normal() math.Vec3 {
	return f.Plane.Normal()
}

// Brush is a convex solid described by its faces.
type Brush struct {
	ID    int
	Faces []Face
}

// OrientationError reports a template whose faces do not describe a
// supported facing.
type OrientationError struct {
	SolidID int
	Normal  math.Vec3
	Reason  string
}

func (e *OrientationError) Error() string {
	return fmt.Sprintf("solid %d: %s (front normal %v %v %v)",
		e.SolidID, e.Reason, e.Normal.X, e.Normal.Y, e.Normal.Z)
}

func (e *OrientationError) Unwrap() error { return ErrOrientation }

// Measure derives the frame of a box brush whose front face carries the
// marker material. The front normal must be horizontal and some face must
// have the exactly opposite normal.
func (b Brush) Measure(marker string) (Frame, error) {
	var frame Frame

	front := -1
	for i, face := range b.Faces {
		if strings.EqualFold(face.Material, marker) {
			front = i
			break
		}
	}
	if front < 0 {
		return frame, &OrientationError{SolidID: b.ID, Reason: "no face carries the marker material"}
	}

	frontFace := b.Faces[front]
	normal := frontFace.Normal()
	if normal.X == 0 && normal.Y == 0 && normal.Z != 0 {
		return frame, &OrientationError{SolidID: b.ID, Normal: normal, Reason: "marker is on a top or bottom face"}
	}
	o, ok := OrientationFromNormal(normal)
	if !ok {
		return frame, &OrientationError{SolidID: b.ID, Normal: normal, Reason: "marker face is not horizontal cardinal"}
	}

	back := -1
	want := normal.Neg()
	for i, face := range b.Faces {
		if face.Normal() == want {
			back = i
			break
		}
	}
	if back < 0 {
		return frame, &OrientationError{SolidID: b.ID, Normal: normal, Reason: "no face opposite the marker face"}
	}

	ax := orientationAxes[o]
	fp := frontFace.Plane
	frame = Frame{
		Front:       fp[0].Axis(ax.facing),
		Back:        b.Faces[back].Plane[0].Axis(ax.facing),
		Top:         fp.Max(2),
		Bottom:      fp.Min(2),
		Orientation: o,
	}
	lo, hi := fp.Min(ax.lateral), fp.Max(ax.lateral)
	if ax.leftIsMax {
		frame.Left, frame.Right = hi, lo
	} else {
		frame.Left, frame.Right = lo, hi
	}
	return frame, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
