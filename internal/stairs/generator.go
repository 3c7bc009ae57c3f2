package stairs

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/stairgen/internal/config"
	"github.com/Faultbox/stairgen/pkg/brush"
	"github.com/Faultbox/stairgen/pkg/vmf"
)

// Generator errors.
var (
	ErrNoWorld         = errors.New("document has no world block")
	ErrTemplateMissing = errors.New("template solid is not in the world block")
)

// Policy decides what happens when a template cannot be measured.
type Policy int

const (
	// Abort stops at the first bad template.
	Abort Policy = iota
	// Continue skips bad templates and reports them together at the end.
	Continue
)

// Attr is an ordered key/value default written into generated blocks.
type Attr struct {
	Key   string
	Value string
}

// Options configures template detection and ramp synthesis.
type Options struct {
	Marker     string
	Skip       string
	StepLength float64
	StepHeight float64
	Side       []Attr // written to every ramp side after id and plane
	Editor     []Attr // editor block of every ramp
	Policy     Policy
}

// OptionsFromConfig maps loaded settings onto generator options.
func OptionsFromConfig(cfg *config.Config) Options {
	side := cfg.Ramp.Side
	editor := cfg.Ramp.Editor
	policy := Abort
	if cfg.Generate.OnError == config.PolicyContinue {
		policy = Continue
	}
	return Options{
		Marker:     cfg.Materials.Marker,
		Skip:       cfg.Materials.Skip,
		StepLength: cfg.Ramp.StepLength,
		StepHeight: cfg.Ramp.StepHeight,
		Side: []Attr{
			{"material", side.Material},
			{"uaxis", side.UAxis},
			{"vaxis", side.VAxis},
			{"rotation", side.Rotation},
			{"lightmapscale", side.LightmapScale},
			{"smoothing_groups", side.SmoothingGroups},
		},
		Editor: []Attr{
			{"color", editor.Color},
			{"visgroupshown", editor.VisgroupShown},
			{"visgroupautoshown", editor.VisgroupAutoShown},
		},
		Policy: policy,
	}
}

// Result describes one template.
type Result struct {
	TemplateID  int        `json:"template_id" yaml:"template_id"`
	Orientation string     `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Origin      [3]float64 `json:"origin" yaml:"origin,flow"`
	Length      float64    `json:"length" yaml:"length"`
	Width       float64    `json:"width" yaml:"width"`
	Height      float64    `json:"height" yaml:"height"`
	RampLength  float64    `json:"ramp_length" yaml:"ramp_length"`
	RampID      int        `json:"ramp_id,omitempty" yaml:"ramp_id,omitempty"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`

	Err error `json:"-" yaml:"-"`
}

// Report summarizes a run.
type Report struct {
	Found   int      `json:"found" yaml:"found"`
	Results []Result `json:"results" yaml:"results"`
}

// Generated returns how many ramps were written.
func (r *Report) Generated() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil && res.RampID != 0 {
			n++
		}
	}
	return n
}

// Failed returns how many templates were rejected.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Generator replaces template brushes with ramps.
type Generator struct {
	opts Options
	log  *zap.Logger
}

// New creates a generator. A nil logger discards output.
func New(opts Options, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{opts: opts, log: log}
}

// Inspect measures every template without replacing anything. Template
// sides still receive their normal annotations.
func (g *Generator) Inspect(doc *vmf.Node) []Result {
	templates := FindTemplates(doc, g.opts.Marker, g.opts.Skip)
	results := make([]Result, 0, len(templates))
	for _, t := range templates {
		res, _, _ := g.measure(t)
		results = append(results, res)
	}
	return results
}

// Run replaces every template in doc with a ramp. Under Abort the first bad
// template stops the run and its error is returned; under Continue bad
// templates are left in place and their errors are combined. The report is
// returned in both cases.
func (g *Generator) Run(doc *vmf.Node) (*Report, error) {
	world := doc.Child("world")
	if world == nil {
		return nil, ErrNoWorld
	}

	templates := FindTemplates(doc, g.opts.Marker, g.opts.Skip)
	report := &Report{Found: len(templates)}
	g.log.Info("templates found", zap.Int("count", len(templates)))

	var errs error
	for i, t := range templates {
		res, frame, err := g.measure(t)
		if err != nil {
			report.Results = append(report.Results, res)
			g.log.Error("template rejected", zap.Int("template", i+1), zap.Int("solid", res.TemplateID), zap.Error(err))
			if g.opts.Policy == Abort {
				return report, err
			}
			errs = multierr.Append(errs, err)
			continue
		}

		solidID, sideID := NextIDs(doc)
		ramp := BuildRamp(frame, solidID, sideID, g.opts)
		if err := Splice(world, t, ramp); err != nil {
			return report, fmt.Errorf("solid %d: %w", res.TemplateID, err)
		}

		res.RampID = solidID
		report.Results = append(report.Results, res)
		g.log.Info("ramp generated",
			zap.Int("template", i+1),
			zap.Int("solid", res.TemplateID),
			zap.Int("ramp", solidID),
			zap.Stringer("facing", frame.Orientation),
			zap.Float64("length", res.RampLength),
			zap.Float64("width", res.Width),
			zap.Float64("height", res.Height),
		)
	}

	return report, errs
}

// measure reads a template's geometry, annotates its sides with normals and
// derives its frame.
func (g *Generator) measure(t *vmf.Node) (Result, brush.Frame, error) {
	var res Result
	b, err := toBrush(t)
	res.TemplateID = b.ID
	if err != nil {
		res.Err, res.Error = err, err.Error()
		return res, brush.Frame{}, err
	}

	annotateNormals(t, b)
	g.log.Debug("measuring template", zap.Int("solid", b.ID), zap.Int("sides", len(b.Faces)))

	frame, err := b.Measure(g.opts.Marker)
	if err != nil {
		res.Err, res.Error = err, err.Error()
		return res, frame, err
	}

	o := frame.Origin()
	res.Orientation = frame.Orientation.String()
	res.Origin = [3]float64{o.X, o.Y, o.Z}
	res.Length = frame.Length()
	res.Width = frame.Width()
	res.Height = frame.Height()
	res.RampLength = brush.SlopeLength(frame.Height(), g.opts.StepLength, g.opts.StepHeight)
	return res, frame, nil
}
