package stairs

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/Faultbox/stairgen/internal/config"
	"github.com/Faultbox/stairgen/pkg/brush"
	"github.com/Faultbox/stairgen/pkg/math"
	"github.com/Faultbox/stairgen/pkg/vmf"
)

const (
	marker = "SIGNS/STAIRS_RED"
	skip   = "TOOLS/TOOLSSKIP"
)

// face indexes in box.planes order
const (
	faceTop = iota
	faceBottom
	faceWest
	faceEast
	faceNorth
	faceSouth
)

type box struct{ x0, y0, z0, x1, y1, z1 float64 }

func v(x, y, z float64) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }

func (b box) planes() []brush.Plane {
	return []brush.Plane{
		{v(b.x0, b.y1, b.z1), v(b.x1, b.y1, b.z1), v(b.x1, b.y0, b.z1)},
		{v(b.x0, b.y0, b.z0), v(b.x1, b.y0, b.z0), v(b.x1, b.y1, b.z0)},
		{v(b.x0, b.y1, b.z1), v(b.x0, b.y0, b.z1), v(b.x0, b.y0, b.z0)},
		{v(b.x1, b.y1, b.z0), v(b.x1, b.y0, b.z0), v(b.x1, b.y0, b.z1)},
		{v(b.x1, b.y1, b.z1), v(b.x0, b.y1, b.z1), v(b.x0, b.y1, b.z0)},
		{v(b.x1, b.y0, b.z0), v(b.x0, b.y0, b.z0), v(b.x0, b.y0, b.z1)},
	}
}

// solid builds a box solid whose markerFace carries the marker material and
// every other face the skip material. markerFace -1 uses plain materials.
func (b box) solid(id, firstSideID, markerFace int) *vmf.Node {
	s := vmf.NewNode()
	s.SetString("id", strconv.Itoa(id))
	for i, p := range b.planes() {
		mat := skip
		switch {
		case markerFace < 0:
			mat = "BRICK/BRICKFLOOR001A"
		case i == markerFace:
			mat = marker
		}
		side := vmf.NewNode()
		side.SetString("id", strconv.Itoa(firstSideID+i))
		side.SetString("plane", p.String())
		side.SetString("material", mat)
		s.Append("side", side)
	}
	return s
}

func newDoc(solids ...*vmf.Node) *vmf.Node {
	doc := vmf.NewNode()
	world := vmf.NewNode()
	world.SetString("id", "1")
	world.SetString("classname", "worldspawn")
	for _, s := range solids {
		world.Append("solid", s)
	}
	doc.Append("world", world)
	return doc
}

func testOptions(policy Policy) Options {
	opts := OptionsFromConfig(config.Default())
	opts.Policy = policy
	return opts
}

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return data
}

func parseFixture(t *testing.T, name string) *vmf.Node {
	t.Helper()
	doc, err := vmf.Parse(loadFixture(t, name))
	if err != nil {
		t.Fatalf("Parse(%s) error = %v", name, err)
	}
	return doc
}

func solidIDs(t *testing.T, doc *vmf.Node) []int {
	t.Helper()
	var ids []int
	for _, s := range doc.Child("world").Children("solid") {
		id, err := s.Int("id")
		if err != nil {
			t.Fatalf("solid without id: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}
