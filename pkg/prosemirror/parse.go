package prosemirror

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var ignoredTags = map[string]bool{
	"head": true, "noscript": true, "object": true, "script": true,
	"style": true, "title": true, "template": true,
}

// Unmatched elements with these tags still break the surrounding inline flow.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "canvas": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hgroup": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "output": true, "p": true,
	"pre": true, "section": true, "table": true, "tbody": true, "td": true, "tfoot": true,
	"th": true, "thead": true, "tr": true, "ul": true,
}

var (
	spaceRun  = regexp.MustCompile(`[ \t\r\n\f]+`)
	allSpace  = regexp.MustCompile(`^[ \t\r\n\f]*$`)
	spaceTail = " \t\r\n\f"
)

type frame struct {
	typ      *NodeType
	attrs    Attrs
	content  []*Node
	implicit bool
}

type parser struct {
	schema *Schema
	stack  []*frame
}

// ParseHTML parses an HTML document or fragment into a document tree. The
// result always satisfies the schema's content rules.
func (s *Schema) ParseHTML(input string) (doc *Node, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("parse html: %v", rec)
		}
	}()

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	p := &parser{schema: s, stack: []*frame{{typ: s.top, attrs: s.top.computeAttrs(nil)}}}
	for _, body := range dom.Find("body").Nodes {
		p.addChildren(body, nil)
	}
	for len(p.stack) > 1 {
		p.pop()
	}
	return p.finish(p.stack[0]), nil
}

func (p *parser) top() *frame {
	return p.stack[len(p.stack)-1]
}

func (p *parser) addChildren(parent *html.Node, marks []*Mark) {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			p.addText(c.Data, marks)
		case html.ElementNode:
			p.addElement(c, marks)
		}
	}
}

func (p *parser) addElement(el *html.Node, marks []*Mark) {
	if ignoredTags[el.Data] {
		return
	}
	sel := goquery.NewDocumentFromNode(el).Selection
	marks = p.applyStyles(sel, marks)

	if nt, attrs, ok := p.schema.matchNode(sel); ok {
		p.addNode(el, sel, nt, attrs, marks)
		return
	}
	if m, ok := p.schema.matchMark(sel); ok {
		marks = p.schema.addMark(marks, m)
	}

	block := blockTags[el.Data]
	if block {
		p.closeImplicitTextblocks()
	}
	p.addChildren(el, marks)
	if block {
		p.closeImplicitTextblocks()
	}
}

func (p *parser) addNode(el *html.Node, sel *goquery.Selection, nt *NodeType, attrs Attrs, marks []*Mark) {
	switch {
	case nt.IsLeaf():
		p.insert(&Node{Type: nt.name, Attrs: attrs}, nt, marks)
	case nt.code:
		if !p.findPlace(nt) {
			return
		}
		f := p.push(nt, attrs, false)
		if text := sel.Text(); text != "" {
			f.content = append(f.content, NewText(text))
		}
		p.closeFrame(f)
	default:
		if !p.findPlace(nt) {
			p.addChildren(el, marks)
			return
		}
		f := p.push(nt, attrs, false)
		p.addChildren(el, marks)
		p.closeFrame(f)
	}
}

func (p *parser) addText(text string, marks []*Mark) {
	top := p.top()
	if !top.typ.code {
		if !top.typ.IsTextblock() && allSpace.MatchString(text) {
			return
		}
		text = spaceRun.ReplaceAllString(text, " ")
	}
	if text == "" || !p.findPlace(p.schema.nodes[TypeText]) {
		return
	}

	top = p.top()
	if !top.typ.code && strings.HasPrefix(text, " ") && atLineStart(top) {
		text = text[1:]
	}
	if text == "" {
		return
	}
	if !top.typ.AllowsMarks() {
		marks = nil
	}
	if n := len(top.content); n > 0 {
		if last := top.content[n-1]; last.IsText() && sameMarkSet(last.Marks, marks) {
			merged := last.TextValue() + text
			last.Text = &merged
			return
		}
	}
	top.content = append(top.content, NewText(text, marks...))
}

func (p *parser) insert(node *Node, nt *NodeType, marks []*Mark) {
	if !p.findPlace(nt) {
		return
	}
	top := p.top()
	if nt.IsInline() && top.typ.AllowsMarks() && len(marks) > 0 {
		node.Marks = marks
	}
	top.content = append(top.content, node)
}

// findPlace makes the top of the stack able to hold nt, closing open nodes and
// opening implicit wrappers as needed. It reports false when nothing on the
// stack can hold nt.
func (p *parser) findPlace(nt *NodeType) bool {
	for depth := len(p.stack) - 1; depth >= 0; depth-- {
		wraps, ok := p.schema.wrapping(p.stack[depth].typ, nt)
		if !ok {
			continue
		}
		for len(p.stack) > depth+1 {
			p.pop()
		}
		for _, w := range wraps {
			p.push(w, w.computeAttrs(nil), true)
		}
		return true
	}
	return false
}

func (p *parser) push(nt *NodeType, attrs Attrs, implicit bool) *frame {
	f := &frame{typ: nt, attrs: attrs, implicit: implicit}
	p.stack = append(p.stack, f)
	return f
}

func (p *parser) pop() {
	f := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	parent := p.top()
	parent.content = append(parent.content, p.finish(f))
}

// closeFrame closes f and everything opened inside it. A frame that was
// already closed by findPlace is left alone.
func (p *parser) closeFrame(f *frame) {
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.stack[i] != f {
			continue
		}
		for len(p.stack) > i {
			p.pop()
		}
		return
	}
}

func (p *parser) closeImplicitTextblocks() {
	for len(p.stack) > 1 {
		top := p.top()
		if !top.implicit || !top.typ.IsTextblock() {
			return
		}
		p.pop()
	}
}

func (p *parser) finish(f *frame) *Node {
	content := f.content
	if !f.typ.code && len(content) > 0 {
		last := content[len(content)-1]
		if last.IsText() {
			trimmed := strings.TrimRight(last.TextValue(), spaceTail)
			if trimmed == "" {
				content = content[:len(content)-1]
			} else {
				last.Text = &trimmed
			}
		}
	}
	return &Node{Type: f.typ.name, Attrs: f.attrs, Content: p.schema.fill(f.typ, content)}
}

func (p *parser) applyStyles(sel *goquery.Selection, marks []*Mark) []*Mark {
	style, ok := sel.Attr("style")
	if !ok || style == "" {
		return marks
	}
	decls := parseStyle(style)
	for _, mt := range p.schema.markOrder {
		for _, rule := range mt.styles {
			v, ok := decls[rule.Property]
			if !ok || !rule.Match(v) {
				continue
			}
			if rule.Clear {
				marks = removeMark(marks, mt.name)
			} else {
				marks = p.schema.addMark(marks, mt.create(nil))
			}
		}
	}
	return marks
}

func atLineStart(f *frame) bool {
	if len(f.content) == 0 {
		return true
	}
	last := f.content[len(f.content)-1]
	if last.Type == TypeHardBreak {
		return true
	}
	return last.IsText() && strings.HasSuffix(last.TextValue(), " ")
}

func (s *Schema) matchNode(sel *goquery.Selection) (*NodeType, Attrs, bool) {
	for _, nt := range s.nodeOrder {
		if attrs, ok := matchRules(sel, nt.rules, nt.attrs); ok {
			return nt, nt.computeAttrs(attrs), true
		}
	}
	return nil, nil, false
}

func (s *Schema) matchMark(sel *goquery.Selection) (*Mark, bool) {
	for _, mt := range s.markOrder {
		if attrs, ok := matchRules(sel, mt.rules, mt.attrs); ok {
			return mt.create(attrs), true
		}
	}
	return nil, false
}

func matchRules(sel *goquery.Selection, rules []ParseRule, specs []AttrSpec) (Attrs, bool) {
	for _, rule := range rules {
		if rule.matcher == nil || !sel.IsMatcher(rule.matcher) {
			continue
		}
		attrs := Attrs{}
		if rule.Attrs != nil {
			extra, ok := rule.Attrs(sel)
			if !ok {
				continue
			}
			for k, v := range extra {
				attrs[k] = v
			}
		}
		for _, spec := range specs {
			if _, set := attrs[spec.Name]; set || spec.Parse == nil {
				continue
			}
			if v, ok := spec.Parse(sel); ok {
				attrs[spec.Name] = v
			}
		}
		return attrs, true
	}
	return nil, false
}

// fill adds the children a node type requires but does not have.
func (s *Schema) fill(nt *NodeType, content []*Node) []*Node {
	switch nt.content {
	case ContentBlocks:
		if len(content) == 0 {
			content = []*Node{s.createAndFill(TypeParagraph)}
		}
	case ContentListItems:
		if len(content) == 0 {
			content = []*Node{s.createAndFill(TypeListItem)}
		}
	case ContentParagraphFirst:
		if len(content) == 0 || content[0].Type != TypeParagraph {
			content = append([]*Node{s.createAndFill(TypeParagraph)}, content...)
		}
	}
	return content
}

func (s *Schema) createAndFill(name string) *Node {
	nt := s.nodes[name]
	return &Node{Type: nt.name, Attrs: nt.computeAttrs(nil), Content: s.fill(nt, nil)}
}
