// Package stairs finds template brushes in a map and replaces each one with
// a generated ramp of the same footprint and facing.
package stairs

import (
	"fmt"
	"strings"

	"github.com/Faultbox/stairgen/pkg/brush"
	"github.com/Faultbox/stairgen/pkg/vmf"
)

// Template face counts.
const (
	templateSkipFaces   = 5
	templateMarkerFaces = 1
)

// IsTemplateTextured reports whether materials are exactly five skip tags
// and one marker tag. Materials compare case-insensitively, as the engine
// does.
func IsTemplateTextured(materials []string, marker, skip string) bool {
	skipCount, markerCount := 0, 0
	for _, m := range materials {
		switch {
		case strings.EqualFold(m, skip):
			skipCount++
		case strings.EqualFold(m, marker):
			markerCount++
		default:
			return false
		}
	}
	return skipCount == templateSkipFaces && markerCount == templateMarkerFaces
}

// IsAxisAligned reports whether a side's plane lies in an axis-aligned
// plane. Sides with a missing or unreadable plane are not aligned.
func IsAxisAligned(side *vmf.Node) bool {
	s, ok := side.String("plane")
	if !ok {
		return false
	}
	p, err := brush.ParsePlane(s)
	if err != nil {
		return false
	}
	return p.IsAxisAligned()
}

// IsTemplate reports whether solid is a template brush.
func IsTemplate(solid *vmf.Node, marker, skip string) bool {
	sides := solid.Children("side")
	materials := make([]string, 0, len(sides))
	for _, side := range sides {
		m, _ := side.String("material")
		materials = append(materials, m)
	}
	if !IsTemplateTextured(materials, marker, skip) {
		return false
	}
	for _, side := range sides {
		if !IsAxisAligned(side) {
			return false
		}
	}
	return true
}

// FindTemplates returns the template solids of the world block in document
// order. The returned slice is a snapshot: later changes to the world do not
// affect it.
func FindTemplates(doc *vmf.Node, marker, skip string) []*vmf.Node {
	world := doc.Child("world")
	if world == nil {
		return nil
	}

	var templates []*vmf.Node
	for _, solid := range world.Children("solid") {
		if IsTemplate(solid, marker, skip) {
			templates = append(templates, solid)
		}
	}
	return templates
}

// toBrush converts a solid block into brush geometry.
func toBrush(solid *vmf.Node) (brush.Brush, error) {
	var b brush.Brush
	id, err := solid.Int("id")
	if err != nil {
		return b, fmt.Errorf("solid: %w", err)
	}
	b.ID = id

	for _, side := range solid.Children("side") {
		var face brush.Face
		if face.ID, err = side.Int("id"); err != nil {
			return b, fmt.Errorf("solid %d side: %w", id, err)
		}
		s, _ := side.String("plane")
		if face.Plane, err = brush.ParsePlane(s); err != nil {
			return b, fmt.Errorf("solid %d side %d: %w", id, face.ID, err)
		}
		face.Material, _ = side.String("material")
		b.Faces = append(b.Faces, face)
	}
	return b, nil
}
