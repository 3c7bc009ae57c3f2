package stairs

import (
	"fmt"
	"strconv"

	"github.com/Faultbox/stairgen/pkg/brush"
	"github.com/Faultbox/stairgen/pkg/math"
	"github.com/Faultbox/stairgen/pkg/vmf"
)

// normalKey is the annotation holding a side's computed normal.
const normalKey = vmf.InternalPrefix + "normal"

// NextIDs returns the first unused solid id and side id in doc. Ids are
// document-wide, so entity brushes count as well.
func NextIDs(doc *vmf.Node) (solidID, sideID int) {
	maxSolid, maxSide := 0, 0
	doc.Walk(func(name string, n *vmf.Node) bool {
		switch name {
		case "solid":
			if id, err := n.Int("id"); err == nil {
				maxSolid = max(maxSolid, id)
			}
		case "side":
			if id, err := n.Int("id"); err == nil {
				maxSide = max(maxSide, id)
			}
			return false
		}
		return true
	})
	return maxSolid + 1, maxSide + 1
}

// BuildRamp creates a ramp solid filling frame f. Sides get consecutive ids
// starting at firstSideID, in bottom, back, right, left, slope order.
func BuildRamp(f brush.Frame, solidID, firstSideID int, opts Options) *vmf.Node {
	ramp := vmf.NewNode()
	ramp.SetString("id", strconv.Itoa(solidID))

	for i, plane := range brush.PlaceWedge(f, opts.StepLength, opts.StepHeight) {
		side := vmf.NewNode()
		side.SetString("id", strconv.Itoa(firstSideID+i))
		side.SetString("plane", plane.String())
		for _, a := range opts.Side {
			side.SetString(a.Key, a.Value)
		}
		ramp.Append("side", side)
	}

	editor := vmf.NewNode()
	for _, a := range opts.Editor {
		editor.SetString(a.Key, a.Value)
	}
	ramp.Append("editor", editor)
	return ramp
}

// Splice appends ramp to the world's solids and then removes template by
// identity, so other solids keep their order.
func Splice(world, template, ramp *vmf.Node) error {
	world.Append("solid", ramp)
	if !world.RemoveChild("solid", template) {
		world.RemoveChild("solid", ramp)
		return ErrTemplateMissing
	}
	return nil
}

// annotateNormals stores each side's normal under an internal key.
func annotateNormals(solid *vmf.Node, b brush.Brush) {
	sides := solid.Children("side")
	for i, face := range b.Faces {
		if i < len(sides) {
			sides[i].SetString(normalKey, formatNormal(face.Normal()))
		}
	}
}

func formatNormal(n math.Vec3) string {
	return fmt.Sprintf("%d %d %d", int(n.X), int(n.Y), int(n.Z))
}
