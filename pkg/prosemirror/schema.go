package prosemirror

import (
	"errors"
	"fmt"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Node and mark names shared by the parser, renderer and validator.
const (
	TypeDoc            = "doc"
	TypeText           = "text"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeBlockquote     = "blockquote"
	TypeBulletList     = "bulletList"
	TypeOrderedList    = "orderedList"
	TypeListItem       = "listItem"
	TypeCodeBlock      = "codeBlock"
	TypeHorizontalRule = "horizontalRule"
	TypeHardBreak      = "hardBreak"

	MarkLink      = "link"
	MarkBold      = "bold"
	MarkCode      = "code"
	MarkItalic    = "italic"
	MarkStrike    = "strike"
	MarkUnderline = "underline"
	MarkHighlight = "highlight"
)

const (
	groupBlock  = "block"
	groupInline = "inline"
)

// ContentRule describes which children a node type accepts.
type ContentRule int

const (
	// ContentNone marks a leaf node.
	ContentNone ContentRule = iota
	// ContentInline accepts any number of inline nodes.
	ContentInline
	// ContentText accepts unmarked text only.
	ContentText
	// ContentBlocks accepts one or more block nodes.
	ContentBlocks
	// ContentListItems accepts one or more list items.
	ContentListItems
	// ContentParagraphFirst accepts a paragraph followed by any blocks.
	ContentParagraphFirst
)

// AttrSpec declares one attribute of a node or mark type.
type AttrSpec struct {
	Name    string
	Default any
	// Parse reads the attribute from a matched element. ok=false keeps the default.
	Parse func(s *goquery.Selection) (value any, ok bool)
	// Render turns the value into HTML attributes. Nil renders name=value when the
	// value is a non-nil string or number.
	Render func(value any) []html.Attribute
	// Hidden attributes are never rendered.
	Hidden bool
}

// ParseRule matches an element to a node or mark type.
type ParseRule struct {
	Tag string
	// Attrs returns attributes for the match, or ok=false to reject the element.
	Attrs func(s *goquery.Selection) (attrs Attrs, ok bool)

	matcher cascadia.Selector
}

// StyleRule matches an inline CSS declaration to a mark.
type StyleRule struct {
	Property string
	Match    func(value string) bool
	// Clear removes the mark instead of adding it.
	Clear bool
}

// DOMSpec is the element a node or mark renders to. Content goes into the
// innermost element.
type DOMSpec struct {
	Tag   string
	Attrs []html.Attribute
	Inner *DOMSpec
}

// NodeType defines one node of the vocabulary.
type NodeType struct {
	name    string
	group   string
	content ContentRule
	code    bool
	attrs   []AttrSpec
	rules   []ParseRule
	render  func(attrs Attrs) *DOMSpec
}

// Name returns the node type name.
func (t *NodeType) Name() string { return t.name }

// IsLeaf reports whether the type has no content.
func (t *NodeType) IsLeaf() bool { return t.content == ContentNone && t.name != TypeText }

// IsInline reports whether the type belongs to the inline group.
func (t *NodeType) IsInline() bool { return t.group == groupInline || t.name == TypeText }

// IsTextblock reports whether the type holds inline content.
func (t *NodeType) IsTextblock() bool {
	return t.content == ContentInline || t.content == ContentText
}

// AllowsMarks reports whether inline children may carry marks.
func (t *NodeType) AllowsMarks() bool { return t.content == ContentInline }

// Allows reports whether child may appear directly inside t.
func (t *NodeType) Allows(child *NodeType) bool {
	switch t.content {
	case ContentInline:
		return child.IsInline()
	case ContentText:
		return child.name == TypeText
	case ContentBlocks, ContentParagraphFirst:
		return child.group == groupBlock
	case ContentListItems:
		return child.name == TypeListItem
	}
	return false
}

// computeAttrs fills defaults for every declared attribute. Types without
// attributes get nil.
func (t *NodeType) computeAttrs(given Attrs) Attrs {
	return buildAttrs(t.attrs, given)
}

// MarkType defines one mark of the vocabulary.
type MarkType struct {
	name        string
	attrs       []AttrSpec
	rules       []ParseRule
	styles      []StyleRule
	excludesAll bool
	render      func(attrs Attrs) *DOMSpec
	rank        int
}

// Name returns the mark type name.
func (t *MarkType) Name() string { return t.name }

func (t *MarkType) create(given Attrs) *Mark {
	return &Mark{Type: t.name, Attrs: buildAttrs(t.attrs, given)}
}

func buildAttrs(specs []AttrSpec, given Attrs) Attrs {
	if len(specs) == 0 {
		return nil
	}
	out := make(Attrs, len(specs))
	for _, spec := range specs {
		if v, ok := given[spec.Name]; ok {
			out[spec.Name] = v
			continue
		}
		out[spec.Name] = spec.Default
	}
	return out
}

// Schema is an immutable node and mark vocabulary built from an ordered list of
// extensions. It is safe for concurrent use.
type Schema struct {
	nodes     map[string]*NodeType
	nodeOrder []*NodeType
	marks     map[string]*MarkType
	markOrder []*MarkType
	top       *NodeType
}

// NewSchema builds a schema. Extensions are applied by descending priority,
// keeping the given order for equal priorities.
func NewSchema(extensions ...Extension) (*Schema, error) {
	exts := append([]Extension(nil), extensions...)
	sort.SliceStable(exts, func(i, j int) bool { return exts[i].Priority > exts[j].Priority })

	s := &Schema{
		nodes: map[string]*NodeType{},
		marks: map[string]*MarkType{},
	}
	for _, ext := range exts {
		for _, nt := range ext.Nodes {
			if _, dup := s.nodes[nt.name]; dup {
				return nil, fmt.Errorf("extension %s: duplicate node type %q", ext.Name, nt.name)
			}
			clone := cloneNodeType(nt)
			s.nodes[clone.name] = clone
			s.nodeOrder = append(s.nodeOrder, clone)
		}
		for _, mt := range ext.Marks {
			if _, dup := s.marks[mt.name]; dup {
				return nil, fmt.Errorf("extension %s: duplicate mark type %q", ext.Name, mt.name)
			}
			clone := cloneMarkType(mt)
			clone.rank = len(s.markOrder)
			s.marks[clone.name] = clone
			s.markOrder = append(s.markOrder, clone)
		}
	}
	for _, ext := range exts {
		for _, ga := range ext.GlobalAttrs {
			for _, name := range ga.Types {
				nt, ok := s.nodes[name]
				if !ok {
					return nil, fmt.Errorf("extension %s: global attribute %q targets unknown node type %q", ext.Name, ga.Attr.Name, name)
				}
				nt.attrs = append(nt.attrs, ga.Attr)
			}
		}
	}

	if s.nodes[TypeDoc] == nil || s.nodes[TypeText] == nil {
		return nil, errors.New("schema requires doc and text node types")
	}
	s.top = s.nodes[TypeDoc]

	if err := s.compileRules(); err != nil {
		return nil, err
	}
	return s, nil
}

// NodeType returns the named node type, or nil.
func (s *Schema) NodeType(name string) *NodeType { return s.nodes[name] }

// MarkType returns the named mark type, or nil.
func (s *Schema) MarkType(name string) *MarkType { return s.marks[name] }

// NodeNames lists node types in definition order.
func (s *Schema) NodeNames() []string {
	out := make([]string, 0, len(s.nodeOrder))
	for _, nt := range s.nodeOrder {
		out = append(out, nt.name)
	}
	return out
}

// MarkNames lists mark types by rank.
func (s *Schema) MarkNames() []string {
	out := make([]string, 0, len(s.markOrder))
	for _, mt := range s.markOrder {
		out = append(out, mt.name)
	}
	return out
}

func (s *Schema) compileRules() error {
	compile := func(owner string, rules []ParseRule) error {
		for i := range rules {
			sel, err := cascadia.Compile(rules[i].Tag)
			if err != nil {
				return fmt.Errorf("%s: parse rule %q: %w", owner, rules[i].Tag, err)
			}
			rules[i].matcher = sel
		}
		return nil
	}
	for _, nt := range s.nodeOrder {
		if err := compile(nt.name, nt.rules); err != nil {
			return err
		}
	}
	for _, mt := range s.markOrder {
		if err := compile(mt.name, mt.rules); err != nil {
			return err
		}
	}
	return nil
}

// wrapping returns the node types to open so that child fits inside parent,
// searching at most two levels deep. ok=false means no wrapping exists.
func (s *Schema) wrapping(parent, child *NodeType) ([]*NodeType, bool) {
	if parent.Allows(child) {
		return nil, true
	}
	for _, w := range s.nodeOrder {
		if !s.canWrap(parent, w) {
			continue
		}
		if w.Allows(child) {
			return []*NodeType{w}, true
		}
	}
	for _, w := range s.nodeOrder {
		if !s.canWrap(parent, w) {
			continue
		}
		for _, inner := range s.nodeOrder {
			if s.canWrap(w, inner) && inner.Allows(child) {
				return []*NodeType{w, inner}, true
			}
		}
	}
	return nil, false
}

func (s *Schema) canWrap(parent, w *NodeType) bool {
	return w != s.top && !w.IsLeaf() && w.content != ContentText && parent.Allows(w)
}

// sortMarks returns marks ordered by schema rank. Unknown marks sort last.
func (s *Schema) sortMarks(marks []*Mark) []*Mark {
	out := append([]*Mark(nil), marks...)
	sort.SliceStable(out, func(i, j int) bool {
		return s.markRank(out[i].Type) < s.markRank(out[j].Type)
	})
	return out
}

func (s *Schema) markRank(name string) int {
	if mt, ok := s.marks[name]; ok {
		return mt.rank
	}
	return len(s.markOrder)
}

// addMark adds m to set, honoring exclusion. The input slice is not modified.
func (s *Schema) addMark(set []*Mark, m *Mark) []*Mark {
	mt := s.marks[m.Type]
	out := make([]*Mark, 0, len(set)+1)
	for _, existing := range set {
		if existing.Equal(m) {
			return set
		}
		et := s.marks[existing.Type]
		if et != nil && et.excludesAll {
			return set
		}
		if existing.Type == m.Type || (mt != nil && mt.excludesAll) {
			continue
		}
		out = append(out, existing)
	}
	out = append(out, m)
	return s.sortMarks(out)
}

func removeMark(set []*Mark, name string) []*Mark {
	out := make([]*Mark, 0, len(set))
	for _, m := range set {
		if m.Type != name {
			out = append(out, m)
		}
	}
	return out
}

func cloneNodeType(nt *NodeType) *NodeType {
	c := *nt
	c.attrs = append([]AttrSpec(nil), nt.attrs...)
	c.rules = append([]ParseRule(nil), nt.rules...)
	return &c
}

func cloneMarkType(mt *MarkType) *MarkType {
	c := *mt
	c.attrs = append([]AttrSpec(nil), mt.attrs...)
	c.rules = append([]ParseRule(nil), mt.rules...)
	c.styles = append([]StyleRule(nil), mt.styles...)
	return &c
}
