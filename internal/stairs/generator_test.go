package stairs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Faultbox/stairgen/pkg/brush"
	"github.com/Faultbox/stairgen/pkg/vmf"
)

func TestRun_Golden(t *testing.T) {
	doc := parseFixture(t, "stairs.vmf")

	report, err := New(testOptions(Abort), nil).Run(doc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Found != 1 || report.Generated() != 1 || report.Failed() != 0 {
		t.Errorf("report = found %d generated %d failed %d, want 1/1/0",
			report.Found, report.Generated(), report.Failed())
	}

	res := report.Results[0]
	if res.TemplateID != 3 || res.RampID != 4 {
		t.Errorf("result ids = template %d ramp %d, want 3 and 4", res.TemplateID, res.RampID)
	}
	if res.Orientation != "east" || res.Width != 64 || res.Height != 64 || res.RampLength != 96 {
		t.Errorf("result = %+v", res)
	}

	got := vmf.Marshal(doc)
	want := loadFixture(t, "stairs_expected.vmf")
	if !bytes.Equal(got, want) {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRun_OutputReparses(t *testing.T) {
	doc := parseFixture(t, "stairs.vmf")
	if _, err := New(testOptions(Abort), nil).Run(doc); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := vmf.Marshal(doc)
	if containsInternal(string(out)) {
		t.Error("output contains internal keys")
	}

	again, err := vmf.Parse(out)
	if err != nil {
		t.Fatalf("Parse(output) error = %v", err)
	}
	if !bytes.Equal(vmf.Marshal(again), out) {
		t.Error("output does not round trip")
	}
	if got := FindTemplates(again, marker, skip); len(got) != 0 {
		t.Errorf("output still has %d templates", len(got))
	}
}

func TestRun_NoTemplates(t *testing.T) {
	doc := newDoc(box{0, 0, 0, 8, 8, 8}.solid(1, 1, -1))
	before := vmf.Marshal(doc)

	report, err := New(testOptions(Abort), nil).Run(doc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Found != 0 || len(report.Results) != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
	if !bytes.Equal(vmf.Marshal(doc), before) {
		t.Error("document changed without templates")
	}
}

func TestRun_NoWorld(t *testing.T) {
	_, err := New(testOptions(Abort), nil).Run(vmf.NewNode())
	if !errors.Is(err, ErrNoWorld) {
		t.Errorf("Run() error = %v, want ErrNoWorld", err)
	}
}

func TestRun_SingleSolidWorld(t *testing.T) {
	doc := newDoc(box{0, 0, 0, 96, 64, 64}.solid(5, 1, faceEast))

	if _, err := New(testOptions(Abort), nil).Run(doc); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	solids := doc.Child("world").Children("solid")
	if len(solids) != 1 {
		t.Fatalf("world has %d solids, want 1", len(solids))
	}
	if id, _ := solids[0].String("id"); id != "6" {
		t.Errorf("ramp id = %s, want 6", id)
	}
	if got := len(solids[0].Children("side")); got != brush.WedgeFaces {
		t.Errorf("ramp has %d sides, want %d", got, brush.WedgeFaces)
	}
}

// mixedDoc holds an east template, a template marked on its top face and a
// north template, in that order.
func mixedDoc() *vmf.Node {
	return newDoc(
		box{0, 0, 0, 96, 64, 64}.solid(1, 1, faceEast),
		box{300, 0, 0, 364, 64, 64}.solid(2, 7, faceTop),
		box{200, 0, 0, 264, 96, 32}.solid(3, 13, faceNorth),
	)
}

func TestRun_Abort(t *testing.T) {
	doc := mixedDoc()

	report, err := New(testOptions(Abort), nil).Run(doc)
	if !errors.Is(err, brush.ErrOrientation) {
		t.Fatalf("Run() error = %v, want ErrOrientation", err)
	}
	var oerr *brush.OrientationError
	if !errors.As(err, &oerr) || oerr.SolidID != 2 {
		t.Errorf("Run() error = %#v, want OrientationError for solid 2", err)
	}

	if len(report.Results) != 2 || report.Generated() != 1 || report.Failed() != 1 {
		t.Errorf("report results = %+v", report.Results)
	}

	// first template replaced, the rest untouched
	ids := solidIDs(t, doc)
	want := []int{2, 3, 4}
	if len(ids) != len(want) {
		t.Fatalf("solid ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("solid ids = %v, want %v", ids, want)
			break
		}
	}
}

func TestRun_Continue(t *testing.T) {
	doc := mixedDoc()

	report, err := New(testOptions(Continue), nil).Run(doc)
	if !errors.Is(err, brush.ErrOrientation) {
		t.Fatalf("Run() error = %v, want ErrOrientation", err)
	}
	if report.Found != 3 || report.Generated() != 2 || report.Failed() != 1 {
		t.Errorf("report = found %d generated %d failed %d, want 3/2/1",
			report.Found, report.Generated(), report.Failed())
	}
	if report.Results[1].Error == "" {
		t.Error("rejected result has no error text")
	}

	ids := solidIDs(t, doc)
	want := []int{2, 4, 5}
	if len(ids) != len(want) {
		t.Fatalf("solid ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("solid ids = %v, want %v", ids, want)
			break
		}
	}

	// side ids continue from the largest existing one (18)
	seen := map[int]bool{}
	for _, s := range doc.Child("world").Children("solid")[1:] {
		for _, side := range s.Children("side") {
			id, err := side.Int("id")
			if err != nil {
				t.Fatalf("ramp side without id: %v", err)
			}
			if id < 19 || id > 28 || seen[id] {
				t.Errorf("ramp side id %d outside 19..28 or repeated", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != 10 {
		t.Errorf("got %d distinct ramp side ids, want 10", len(seen))
	}

	north := doc.Child("world").Children("solid")[2]
	bottom, _ := north.Children("side")[brush.WedgeBottom].String("plane")
	if bottom != "(200 0 0) (264 0 0) (264 48 0)" {
		t.Errorf("north ramp bottom plane = %s", bottom)
	}
}

func TestInspect(t *testing.T) {
	results := New(testOptions(Continue), nil).Inspect(mixedDoc())
	if len(results) != 3 {
		t.Fatalf("Inspect() returned %d results, want 3", len(results))
	}

	if results[0].Orientation != "east" || results[0].Origin != [3]float64{0, 0, 0} {
		t.Errorf("east result = %+v", results[0])
	}
	if results[1].Err == nil {
		t.Error("top-marked template should fail")
	}
	if results[2].Orientation != "north" || results[2].Origin != [3]float64{264, 0, 0} {
		t.Errorf("north result = %+v", results[2])
	}
	if results[2].RampLength != 48 || results[2].RampID != 0 {
		t.Errorf("north result = %+v", results[2])
	}
}
