package prosemirror

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrEmptyDocument is returned when there is no tree to validate.
var ErrEmptyDocument = errors.New("invalid document: empty input")

// Validate checks a tree against the schema and returns every problem found,
// combined with multierr. Errors carry the path of the offending node, e.g.
// "$.content[1].marks[0]".
func (s *Schema) Validate(doc *Node) error {
	if doc == nil {
		return ErrEmptyDocument
	}
	return s.validateNode(doc, nil, "$")
}

func (s *Schema) validateNode(n *Node, parent *NodeType, path string) error {
	if n == nil {
		return fmt.Errorf("%s: null node", path)
	}
	if n.Type == "" {
		return fmt.Errorf("%s: missing node type", path)
	}
	nt := s.nodes[n.Type]
	if nt == nil {
		return fmt.Errorf("%s: unknown node type %q", path, n.Type)
	}

	var err error
	if parent != nil && !parent.Allows(nt) {
		err = multierr.Append(err, fmt.Errorf("%s: %s is not allowed inside %s", path, nt.name, parent.name))
	}
	if nt.name == TypeText && n.TextValue() == "" {
		err = multierr.Append(err, fmt.Errorf("%s: text node requires non-empty text", path))
	}
	if len(n.Content) > 0 && (nt.IsLeaf() || nt.name == TypeText) {
		err = multierr.Append(err, fmt.Errorf("%s: %s cannot have content", path, nt.name))
	}
	if nt.name == TypeHeading {
		if v, ok := n.Attrs["level"]; ok {
			if level, ok := toInt(v); !ok || level < 1 || level > 6 {
				err = multierr.Append(err, fmt.Errorf("%s: invalid heading level %v", path, v))
			}
		}
	}
	err = multierr.Append(err, s.validateMarks(n, nt, parent, path))

	for i, child := range n.Content {
		err = multierr.Append(err, s.validateNode(child, nt, fmt.Sprintf("%s.content[%d]", path, i)))
	}
	return err
}

func (s *Schema) validateMarks(n *Node, nt, parent *NodeType, path string) error {
	var err error
	for i, m := range n.Marks {
		mpath := fmt.Sprintf("%s.marks[%d]", path, i)
		switch {
		case m == nil || m.Type == "":
			err = multierr.Append(err, fmt.Errorf("%s: missing mark type", mpath))
		case s.marks[m.Type] == nil:
			err = multierr.Append(err, fmt.Errorf("%s: unknown mark type %q", mpath, m.Type))
		case !nt.IsInline():
			err = multierr.Append(err, fmt.Errorf("%s: marks are only allowed on inline nodes", mpath))
		case parent != nil && !parent.AllowsMarks():
			err = multierr.Append(err, fmt.Errorf("%s: marks are not allowed inside %s", mpath, parent.name))
		}
	}
	return err
}
