package prosemirror

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Attrs holds node or mark attributes. Nil values are kept and encode as JSON null.
type Attrs map[string]any

// Mark is an inline annotation attached to a text run.
type Mark struct {
	Type  string `json:"type"`
	Attrs Attrs  `json:"attrs,omitempty"`
}

// Node is one node of a document tree. Text nodes carry Text; every other node
// carries Content.
type Node struct {
	Type    string  `json:"type"`
	Attrs   Attrs   `json:"attrs,omitempty"`
	Content []*Node `json:"content,omitempty"`
	Text    *string `json:"text,omitempty"`
	Marks   []*Mark `json:"marks,omitempty"`
}

// NewText builds a text node.
func NewText(text string, marks ...*Mark) *Node {
	return &Node{Type: TypeText, Text: &text, Marks: marks}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TypeText
}

// TextValue returns the text of a text node, or "" for any other node.
func (n *Node) TextValue() string {
	if n == nil || n.Text == nil {
		return ""
	}
	return *n.Text
}

// TextContent concatenates the text of n and all of its descendants.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.IsText() {
		return n.TextValue()
	}
	var b strings.Builder
	for _, child := range n.Content {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

// Equal reports whether two trees are structurally equivalent. Attribute values
// are compared after JSON normalization so 2 and 2.0 are equal.
func (n *Node) Equal(other *Node) bool {
	a, errA := json.Marshal(n)
	b, errB := json.Marshal(other)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// Equal reports whether two marks have the same type and attributes.
func (m *Mark) Equal(other *Mark) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Type != other.Type || len(m.Attrs) != len(other.Attrs) {
		return false
	}
	for k, v := range m.Attrs {
		ov, ok := other.Attrs[k]
		if !ok || !attrValueEqual(v, ov) {
			return false
		}
	}
	return true
}

func sameMarkSet(a, b []*Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func attrValueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// toInt converts a decoded attribute value to an int. Strings are accepted the
// way HTML attributes arrive.
func toInt(v any) (int, bool) {
	if s, ok := v.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return n, err == nil
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func stringAttr(attrs Attrs, name string) (string, bool) {
	s, ok := attrs[name].(string)
	return s, ok
}
