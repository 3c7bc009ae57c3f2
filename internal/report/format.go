// Package report prints generator results and parsed documents as text,
// tables, JSON or YAML, optionally filtered through a jq query.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/stairgen/internal/stairs"
	"github.com/Faultbox/stairgen/pkg/vmf"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is human-readable output (default).
	FormatText Format = "text"
	// FormatTable lists templates in aligned columns.
	FormatTable Format = "table"
	// FormatJSON is pretty-printed JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format. Empty means FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|table|json|yaml)")
	}
}

// IsStructured reports whether the format is machine-readable.
func IsStructured(format Format) bool {
	return format == FormatJSON || format == FormatYAML
}

// Printer writes results in one format. A non-empty query filters
// structured output; text and table output switch to JSON when a query is
// set.
type Printer struct {
	w      io.Writer
	format Format
	query  string
}

// NewPrinter creates a Printer that writes to w.
func NewPrinter(w io.Writer, format Format, query string) *Printer {
	if query != "" && !IsStructured(format) {
		format = FormatJSON
	}
	return &Printer{w: w, format: format, query: query}
}

// Report prints the outcome of a generate run.
func (p *Printer) Report(r *stairs.Report) error {
	switch p.format {
	case FormatText:
		return p.reportText(r)
	case FormatTable:
		return p.resultTable(r.Results)
	default:
		return p.structured(r)
	}
}

// Templates prints measured templates.
func (p *Printer) Templates(results []stairs.Result) error {
	switch p.format {
	case FormatText:
		return p.resultsText(results)
	case FormatTable:
		return p.resultTable(results)
	default:
		if results == nil {
			results = []stairs.Result{}
		}
		return p.structured(results)
	}
}

// Document prints a parsed map. Text output is the map format itself;
// structured output keeps document order and shows internal annotations.
func (p *Printer) Document(doc *vmf.Node) error {
	switch p.format {
	case FormatText, FormatTable:
		return vmf.Encode(p.w, doc)
	}
	if p.query != "" {
		return p.emit(p.run(doc.Interface()))
	}
	return p.encode(doc)
}

func (p *Printer) structured(data any) error {
	if p.query == "" {
		return p.encode(data)
	}
	// gojq only walks plain maps, slices and scalars.
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return p.emit(p.run(v))
}

func (p *Printer) encode(data any) error {
	if p.format == FormatYAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(data)
	}
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (p *Printer) run(v any) ([]any, error) {
	parsed, err := gojq.Parse(p.query)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}

	var out []any
	iter := code.Run(v)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("query error: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *Printer) emit(values []any, err error) error {
	if err != nil {
		return err
	}
	for _, v := range values {
		if err := p.encode(v); err != nil {
			return err
		}
	}
	return nil
}
