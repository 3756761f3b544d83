package prosemirror

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const defaultPriority = 100

// Extension contributes node types, mark types and global attributes to a schema.
type Extension struct {
	Name string
	// Higher priorities are applied first and rank their marks earlier.
	Priority    int
	Nodes       []*NodeType
	Marks       []*MarkType
	GlobalAttrs []GlobalAttr
}

// GlobalAttr adds one attribute to several existing node types.
type GlobalAttr struct {
	Types []string
	Attr  AttrSpec
}

// StarterKit provides the base document vocabulary: paragraphs, headings,
// lists, quotes, code blocks, rules, hard breaks and the basic inline marks.
func StarterKit() Extension {
	return Extension{
		Name:     "starterKit",
		Priority: defaultPriority,
		Nodes: []*NodeType{
			{name: TypeDoc, content: ContentBlocks},
			{
				name:    TypeParagraph,
				group:   groupBlock,
				content: ContentInline,
				rules:   []ParseRule{{Tag: "p"}},
				render:  tag("p"),
			},
			{name: TypeText, group: groupInline},
			headingType([]int{1, 2, 3, 4, 5, 6}),
			{
				name:    TypeBlockquote,
				group:   groupBlock,
				content: ContentBlocks,
				rules:   []ParseRule{{Tag: "blockquote"}},
				render:  tag("blockquote"),
			},
			{
				name:    TypeBulletList,
				group:   groupBlock,
				content: ContentListItems,
				rules:   []ParseRule{{Tag: "ul"}},
				render:  tag("ul"),
			},
			{
				name:    TypeOrderedList,
				group:   groupBlock,
				content: ContentListItems,
				attrs: []AttrSpec{{
					Name:    "start",
					Default: 1,
					Parse: func(s *goquery.Selection) (any, bool) {
						raw, ok := s.Attr("start")
						if !ok {
							return 1, true
						}
						n, err := strconv.Atoi(strings.TrimSpace(raw))
						if err != nil {
							return 1, true
						}
						return n, true
					},
					Render: func(v any) []html.Attribute {
						n, ok := toInt(v)
						if !ok || n == 1 {
							return nil
						}
						return []html.Attribute{{Key: "start", Val: strconv.Itoa(n)}}
					},
				}},
				rules:  []ParseRule{{Tag: "ol"}},
				render: tag("ol"),
			},
			{
				name:    TypeListItem,
				content: ContentParagraphFirst,
				rules:   []ParseRule{{Tag: "li"}},
				render:  tag("li"),
			},
			codeBlockType("language-"),
			{
				name:   TypeHorizontalRule,
				group:  groupBlock,
				rules:  []ParseRule{{Tag: "hr"}},
				render: tag("hr"),
			},
			{
				name:   TypeHardBreak,
				group:  groupInline,
				rules:  []ParseRule{{Tag: "br"}},
				render: tag("br"),
			},
		},
		Marks: []*MarkType{
			{
				name: MarkBold,
				rules: []ParseRule{
					{Tag: "strong"},
					{Tag: "b", Attrs: rejectStyle("font-weight", "normal")},
				},
				styles: []StyleRule{
					{Property: "font-weight", Match: isBoldWeight},
					{Property: "font-weight", Match: isNormalWeight, Clear: true},
				},
				render: tag("strong"),
			},
			{
				name:        MarkCode,
				rules:       []ParseRule{{Tag: "code"}},
				excludesAll: true,
				render:      tag("code"),
			},
			{
				name: MarkItalic,
				rules: []ParseRule{
					{Tag: "em"},
					{Tag: "i", Attrs: rejectStyle("font-style", "normal")},
				},
				styles: []StyleRule{
					{Property: "font-style", Match: equalsFold("italic")},
					{Property: "font-style", Match: equalsFold("normal"), Clear: true},
				},
				render: tag("em"),
			},
			{
				name:  MarkStrike,
				rules: []ParseRule{{Tag: "s"}, {Tag: "del"}, {Tag: "strike"}},
				styles: []StyleRule{
					{Property: "text-decoration", Match: containsFold("line-through")},
					{Property: "text-decoration-line", Match: containsFold("line-through")},
				},
				render: tag("s"),
			},
		},
	}
}

func headingType(levels []int) *NodeType {
	rules := make([]ParseRule, 0, len(levels))
	for _, level := range levels {
		level := level
		rules = append(rules, ParseRule{
			Tag: fmt.Sprintf("h%d", level),
			Attrs: func(*goquery.Selection) (Attrs, bool) {
				return Attrs{"level": level}, true
			},
		})
	}
	return &NodeType{
		name:    TypeHeading,
		group:   groupBlock,
		content: ContentInline,
		attrs:   []AttrSpec{{Name: "level", Default: levels[0], Hidden: true}},
		rules:   rules,
		render: func(attrs Attrs) *DOMSpec {
			level, ok := toInt(attrs["level"])
			if !ok || level < 1 || level > 6 {
				level = levels[0]
			}
			return &DOMSpec{Tag: fmt.Sprintf("h%d", level)}
		},
	}
}

func codeBlockType(classPrefix string) *NodeType {
	return &NodeType{
		name:    TypeCodeBlock,
		group:   groupBlock,
		content: ContentText,
		code:    true,
		attrs: []AttrSpec{{
			Name:    "language",
			Default: nil,
			Parse: func(s *goquery.Selection) (any, bool) {
				class, _ := s.Children().First().Attr("class")
				for _, c := range strings.Fields(class) {
					if strings.HasPrefix(c, classPrefix) {
						return strings.TrimPrefix(c, classPrefix), true
					}
				}
				return nil, false
			},
			Hidden: true,
		}},
		rules: []ParseRule{{Tag: "pre"}},
		render: func(attrs Attrs) *DOMSpec {
			code := &DOMSpec{Tag: "code"}
			if lang, ok := stringAttr(attrs, "language"); ok && lang != "" {
				code.Attrs = []html.Attribute{{Key: "class", Val: classPrefix + lang}}
			}
			return &DOMSpec{Tag: "pre", Inner: code}
		},
	}
}

// LinkOptions configure the Link extension.
type LinkOptions struct {
	// Target and Rel are the defaults applied to links that do not set their own.
	Target string
	Rel    string
	Class  string
}

// DefaultLinkOptions returns the link attributes the service has always used.
func DefaultLinkOptions() LinkOptions {
	return LinkOptions{Target: "_blank", Rel: "noopener noreferrer nofollow ugc"}
}

// Link adds the link mark.
func Link(opts LinkOptions) Extension {
	return Extension{
		Name:     MarkLink,
		Priority: 1000,
		Marks: []*MarkType{{
			name: MarkLink,
			attrs: []AttrSpec{
				{Name: "target", Default: nullableString(opts.Target), Parse: attrParser("target")},
				{Name: "rel", Default: nullableString(opts.Rel), Parse: attrParser("rel")},
				{Name: "href", Default: nil, Parse: attrParser("href")},
				{Name: "class", Default: nullableString(opts.Class), Parse: attrParser("class")},
			},
			rules: []ParseRule{{
				Tag: "a[href]",
				Attrs: func(s *goquery.Selection) (Attrs, bool) {
					href, _ := s.Attr("href")
					if !isAllowedURI(href) {
						return nil, false
					}
					return nil, true
				},
			}},
			render: func(Attrs) *DOMSpec { return &DOMSpec{Tag: "a"} },
		}},
	}
}

// Underline adds the underline mark.
func Underline() Extension {
	return Extension{
		Name:     MarkUnderline,
		Priority: defaultPriority,
		Marks: []*MarkType{{
			name:  MarkUnderline,
			rules: []ParseRule{{Tag: "u"}},
			styles: []StyleRule{
				{Property: "text-decoration", Match: containsFold("underline")},
				{Property: "text-decoration-line", Match: containsFold("underline")},
			},
			render: tag("u"),
		}},
	}
}

// Highlight adds the single-color highlight mark.
func Highlight() Extension {
	return Extension{
		Name:     MarkHighlight,
		Priority: defaultPriority,
		Marks: []*MarkType{{
			name:   MarkHighlight,
			rules:  []ParseRule{{Tag: "mark"}},
			render: tag("mark"),
		}},
	}
}

// TextAlignOptions configure the TextAlign extension.
type TextAlignOptions struct {
	Types            []string
	Alignments       []string
	DefaultAlignment string
}

// DefaultTextAlignOptions aligns headings and paragraphs.
func DefaultTextAlignOptions() TextAlignOptions {
	return TextAlignOptions{
		Types:            []string{TypeHeading, TypeParagraph},
		Alignments:       []string{"left", "center", "right", "justify"},
		DefaultAlignment: "left",
	}
}

// TextAlign adds a textAlign attribute to the configured node types.
func TextAlign(opts TextAlignOptions) Extension {
	allowed := func(v string) bool {
		for _, a := range opts.Alignments {
			if a == v {
				return true
			}
		}
		return false
	}
	return Extension{
		Name:     "textAlign",
		Priority: defaultPriority,
		GlobalAttrs: []GlobalAttr{{
			Types: append([]string(nil), opts.Types...),
			Attr: AttrSpec{
				Name:    "textAlign",
				Default: opts.DefaultAlignment,
				Parse: func(s *goquery.Selection) (any, bool) {
					style, _ := s.Attr("style")
					align := strings.ToLower(parseStyle(style)["text-align"])
					if !allowed(align) {
						return opts.DefaultAlignment, true
					}
					return align, true
				},
				Render: func(v any) []html.Attribute {
					align, _ := v.(string)
					if align == "" || align == opts.DefaultAlignment {
						return nil
					}
					return []html.Attribute{{Key: "style", Val: "text-align: " + align}}
				},
			},
		}},
	}
}

// Options holds the configurable parts of the default extension list.
type Options struct {
	Link      LinkOptions
	TextAlign TextAlignOptions
}

// DefaultOptions returns the extension options the service ships with.
func DefaultOptions() Options {
	return Options{Link: DefaultLinkOptions(), TextAlign: DefaultTextAlignOptions()}
}

// DefaultExtensions returns StarterKit, Link, Underline, TextAlign and Highlight
// in that order.
func DefaultExtensions(opts Options) []Extension {
	return []Extension{
		StarterKit(),
		Link(opts.Link),
		Underline(),
		TextAlign(opts.TextAlign),
		Highlight(),
	}
}

// NewDefaultSchema builds the schema from DefaultExtensions.
func NewDefaultSchema(opts Options) (*Schema, error) {
	return NewSchema(DefaultExtensions(opts)...)
}

func tag(name string) func(Attrs) *DOMSpec {
	return func(Attrs) *DOMSpec { return &DOMSpec{Tag: name} }
}

func attrParser(name string) func(*goquery.Selection) (any, bool) {
	return func(s *goquery.Selection) (any, bool) {
		v, ok := s.Attr(name)
		if !ok {
			return nil, false
		}
		return v, true
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func rejectStyle(property, value string) func(*goquery.Selection) (Attrs, bool) {
	return func(s *goquery.Selection) (Attrs, bool) {
		style, _ := s.Attr("style")
		if strings.EqualFold(parseStyle(style)[property], value) {
			return nil, false
		}
		return nil, true
	}
}

var boldWeight = regexp.MustCompile(`^(bold(er)?|[5-9]\d{2,})$`)

func isBoldWeight(v string) bool {
	return boldWeight.MatchString(strings.ToLower(v))
}

func isNormalWeight(v string) bool {
	v = strings.ToLower(v)
	return v == "normal" || v == "400"
}

func equalsFold(want string) func(string) bool {
	return func(v string) bool { return strings.EqualFold(v, want) }
}

func containsFold(want string) func(string) bool {
	return func(v string) bool { return strings.Contains(strings.ToLower(v), want) }
}

var unsafeScheme = regexp.MustCompile(`(?i)^\s*(javascript|vbscript|data):`)

// isAllowedURI rejects script-bearing schemes. Control characters and
// whitespace are stripped first, as browsers do when resolving hrefs.
func isAllowedURI(href string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, href)
	return cleaned != "" && !unsafeScheme.MatchString(cleaned)
}
