package vmf

import (
	"io"
	"strings"
)

// Marshal renders a document tree as VMF text, one tab of indentation per
// nesting level. Keys starting with InternalPrefix are skipped.
func Marshal(root *Node) []byte {
	var sb strings.Builder
	writeBlock(&sb, root, 0)
	return []byte(sb.String())
}

// Encode writes the rendered document to w.
func Encode(w io.Writer, root *Node) error {
	_, err := w.Write(Marshal(root))
	return err
}

func writeBlock(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("\t", depth)
	for _, e := range n.entries {
		if IsInternal(e.Key) {
			continue
		}
		switch e.Value.kind {
		case KindString:
			sb.WriteString(indent)
			sb.WriteString(`"`)
			sb.WriteString(e.Key)
			sb.WriteString(`" "`)
			sb.WriteString(e.Value.str)
			sb.WriteString("\"\n")
		case KindNode, KindList:
			for _, child := range e.Value.Nodes() {
				sb.WriteString(indent)
				sb.WriteString(e.Key)
				sb.WriteString("\n")
				sb.WriteString(indent)
				sb.WriteString("{\n")
				writeBlock(sb, child, depth+1)
				sb.WriteString(indent)
				sb.WriteString("}\n")
			}
		}
	}
}
