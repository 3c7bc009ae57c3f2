package vmf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// VMF format errors.
var (
	ErrUnbalanced    = errors.New("unbalanced block braces")
	ErrMalformedPair = errors.New("malformed key/value pair")
)

// StructuralError reports where parsing gave up.
type StructuralError struct {
	Line int // 1-based; 0 means end of input
	Msg  string
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("vmf: end of input: %s", e.Msg)
	}
	return fmt.Sprintf("vmf: line %d: %s", e.Line, e.Msg)
}

func (e *StructuralError) Unwrap() error { return e.Err }

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse builds a document tree from VMF text. The returned root holds the
// top-level blocks (versioninfo, world, entity, ...).
//
// Each line is classified by its first non-blank character: '"' starts a
// key/value pair, '}' closes the current block, '{' is ignored and anything
// else names a new block.
func Parse(data []byte) (*Node, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	root := NewNode()
	stack := []*Node{root}

	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lineNo := i + 1

		switch line[0] {
		case '"':
			fields := strings.Split(line, `"`)
			if len(fields) < 4 {
				return nil, &StructuralError{Line: lineNo, Msg: fmt.Sprintf("%v: %s", ErrMalformedPair, line), Err: ErrMalformedPair}
			}
			stack[len(stack)-1].AddString(fields[1], fields[3])
		case '}':
			if len(stack) == 1 {
				return nil, &StructuralError{Line: lineNo, Msg: "'}' without open block", Err: ErrUnbalanced}
			}
			stack = stack[:len(stack)-1]
		case '{':
		default:
			child := NewNode()
			stack[len(stack)-1].Append(line, child)
			stack = append(stack, child)
		}
	}

	if len(stack) != 1 {
		return nil, &StructuralError{Msg: fmt.Sprintf("%d unterminated block(s)", len(stack)-1), Err: ErrUnbalanced}
	}
	return root, nil
}

// Decode reads r fully and parses it.
func Decode(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading vmf: %w", err)
	}
	return Parse(data)
}
