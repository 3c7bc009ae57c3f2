package brush

// Wedge face order. Side ids are assigned in this order.
const (
	WedgeBottom = iota
	WedgeBack
	WedgeRight
	WedgeLeft
	WedgeSlope
	WedgeFaces
)

// Wedge returns the faces of a right-triangular prism in local space: the
// back-left-bottom corner at the origin, length along X, width along Y and
// height along Z. The slope falls from the top of the back face to the
// bottom front edge.
func Wedge(length, width, height float64) [WedgeFaces]Plane {
	l, w, h := length, width, height
	return [WedgeFaces]Plane{
		WedgeBottom: {{X: 0, Y: w, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: l, Y: 0, Z: 0}},
		WedgeBack:   {{X: 0, Y: 0, Z: 0}, {X: 0, Y: w, Z: 0}, {X: 0, Y: w, Z: h}},
		WedgeRight:  {{X: 0, Y: w, Z: 0}, {X: l, Y: w, Z: 0}, {X: 0, Y: w, Z: h}},
		WedgeLeft:   {{X: l, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: h}},
		WedgeSlope:  {{X: 0, Y: 0, Z: h}, {X: 0, Y: w, Z: h}, {X: l, Y: w, Z: 0}},
	}
}

// SlopeLength returns the run that keeps the configured step ratio for a
// rise of height.
func SlopeLength(height, stepLength, stepHeight float64) float64 {
	return height * stepLength / stepHeight
}

// PlaceWedge builds the wedge for frame f and moves it into world space.
// Width and height come from the frame; length follows from the step ratio.
func PlaceWedge(f Frame, stepLength, stepHeight float64) [WedgeFaces]Plane {
	faces := Wedge(SlopeLength(f.Height(), stepLength, stepHeight), f.Width(), f.Height())
	m := f.Transform()
	for i := range faces {
		faces[i] = faces[i].Transform(m)
	}
	return faces
}
