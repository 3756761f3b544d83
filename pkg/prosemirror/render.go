package prosemirror

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type openMark struct {
	mark *Mark
	el   *html.Node
}

// RenderHTML validates doc and serializes the content of its root node to HTML.
func (s *Schema) RenderHTML(doc *Node) (string, error) {
	if err := s.Validate(doc); err != nil {
		return "", err
	}

	container := &html.Node{Type: html.DocumentNode}
	s.renderContent(container, doc.Content)

	var b strings.Builder
	serialize(&b, container)
	return b.String(), nil
}

// renderContent keeps a mark element open across adjacent children that share
// it, so <strong>a<em>b</em></strong> is not split into two strong elements.
func (s *Schema) renderContent(parent *html.Node, content []*Node) {
	var active []openMark
	for _, child := range content {
		marks := s.sortMarks(child.Marks)
		keep := 0
		for keep < len(active) && keep < len(marks) && active[keep].mark.Equal(marks[keep]) {
			keep++
		}
		active = active[:keep]
		for _, m := range marks[keep:] {
			mt := s.marks[m.Type]
			attrs := buildAttrs(mt.attrs, m.Attrs)
			outer, inner := buildDOM(mt.render(attrs), renderAttrs(mt.attrs, attrs))
			attachPoint(parent, active).AppendChild(outer)
			active = append(active, openMark{mark: m, el: inner})
		}
		s.renderNode(attachPoint(parent, active), child)
	}
}

func (s *Schema) renderNode(parent *html.Node, n *Node) {
	if n.IsText() {
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: n.TextValue()})
		return
	}
	nt := s.nodes[n.Type]
	attrs := nt.computeAttrs(n.Attrs)
	outer, inner := buildDOM(nt.render(attrs), renderAttrs(nt.attrs, attrs))
	parent.AppendChild(outer)
	if !nt.IsLeaf() {
		s.renderContent(inner, n.Content)
	}
}

func attachPoint(parent *html.Node, active []openMark) *html.Node {
	if len(active) == 0 {
		return parent
	}
	return active[len(active)-1].el
}

func buildDOM(spec *DOMSpec, extra []html.Attribute) (outer, inner *html.Node) {
	attrs := append(append([]html.Attribute(nil), spec.Attrs...), extra...)
	outer = newElement(spec.Tag, attrs)
	inner = outer
	for child := spec.Inner; child != nil; child = child.Inner {
		el := newElement(child.Tag, child.Attrs)
		inner.AppendChild(el)
		inner = el
	}
	return outer, inner
}

func newElement(tag string, attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func renderAttrs(specs []AttrSpec, attrs Attrs) []html.Attribute {
	var out []html.Attribute
	for _, spec := range specs {
		if spec.Hidden {
			continue
		}
		v := attrs[spec.Name]
		if spec.Render != nil {
			out = append(out, spec.Render(v)...)
			continue
		}
		switch val := v.(type) {
		case string:
			out = append(out, html.Attribute{Key: spec.Name, Val: val})
		case bool:
			if val {
				out = append(out, html.Attribute{Key: spec.Name})
			}
		default:
			if f, ok := toFloat(val); ok {
				out = append(out, html.Attribute{Key: spec.Name, Val: strconv.FormatFloat(f, 'f', -1, 64)})
			}
		}
	}
	return out
}
