package prosemirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestValidateReportsEveryProblem(t *testing.T) {
	schema := newTestSchema(t)

	doc := decodeDoc(t, `{"type":"doc","content":[
		{"type":"widget"},
		{"type":"heading","attrs":{"level":9},"content":[{"type":"text","text":"x"}]},
		{"type":"paragraph","content":[{"type":"text","text":""},{"type":"text","text":"y","marks":[{"type":"sparkle"}]}]}
	]}`)

	err := schema.Validate(doc)
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 4)
	assert.EqualError(t, errs[0], `$.content[0]: unknown node type "widget"`)
	assert.EqualError(t, errs[1], `$.content[1]: invalid heading level 9`)
	assert.EqualError(t, errs[2], `$.content[2].content[0]: text node requires non-empty text`)
	assert.EqualError(t, errs[3], `$.content[2].content[1].marks[0]: unknown mark type "sparkle"`)
}

func TestValidateStructure(t *testing.T) {
	schema := newTestSchema(t)

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing type",
			doc:  `{"type":"doc","content":[{"content":[]}]}`,
			want: `$.content[0]: missing node type`,
		},
		{
			name: "text outside a textblock",
			doc:  `{"type":"doc","content":[{"type":"text","text":"x"}]}`,
			want: `$.content[0]: text is not allowed inside doc`,
		},
		{
			name: "leaf with content",
			doc:  `{"type":"doc","content":[{"type":"horizontalRule","content":[{"type":"paragraph"}]}]}`,
			want: `$.content[0]: horizontalRule cannot have content`,
		},
		{
			name: "marks inside code block",
			doc:  `{"type":"doc","content":[{"type":"codeBlock","content":[{"type":"text","text":"x","marks":[{"type":"bold"}]}]}]}`,
			want: `$.content[0].content[0].marks[0]: marks are not allowed inside codeBlock`,
		},
		{
			name: "marks on a block",
			doc:  `{"type":"doc","content":[{"type":"paragraph","marks":[{"type":"bold"}]}]}`,
			want: `$.content[0].marks[0]: marks are only allowed on inline nodes`,
		},
		{
			name: "list content must be list items",
			doc:  `{"type":"doc","content":[{"type":"bulletList","content":[{"type":"paragraph"}]}]}`,
			want: `$.content[0].content[0]: paragraph is not allowed inside bulletList`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(decodeDoc(t, tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateAcceptsParsedTrees(t *testing.T) {
	schema := newTestSchema(t)

	doc, err := schema.ParseHTML(`<h3>a</h3><ul><li>b</li></ul><pre>c</pre><p><a href="/x">d</a></p>`)
	require.NoError(t, err)
	assert.NoError(t, schema.Validate(doc))
}
