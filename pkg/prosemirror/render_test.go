package prosemirror

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeDoc(t *testing.T, raw string) *Node {
	t.Helper()
	var doc Node
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func TestRenderHTML(t *testing.T) {
	schema := newTestSchema(t)

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "paragraph with bold",
			doc: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello "},
				{"type":"text","text":"world","marks":[{"type":"bold"}]}]}]}`,
			want: `<p>Hello <strong>world</strong></p>`,
		},
		{
			name: "heading level from JSON number",
			doc:  `{"type":"doc","content":[{"type":"heading","attrs":{"level":3},"content":[{"type":"text","text":"T"}]}]}`,
			want: `<h3>T</h3>`,
		},
		{
			name: "aligned heading",
			doc: `{"type":"doc","content":[{"type":"heading","attrs":{"level":2,"textAlign":"center"},
				"content":[{"type":"text","text":"Title"}]}]}`,
			want: `<h2 style="text-align: center">Title</h2>`,
		},
		{
			name: "default alignment is not rendered",
			doc:  `{"type":"doc","content":[{"type":"paragraph","attrs":{"textAlign":"left"},"content":[{"type":"text","text":"x"}]}]}`,
			want: `<p>x</p>`,
		},
		{
			name: "ordered list start",
			doc: `{"type":"doc","content":[{"type":"orderedList","attrs":{"start":3},"content":[
				{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"x"}]}]}]}]}`,
			want: `<ol start="3"><li><p>x</p></li></ol>`,
		},
		{
			name: "ordered list starting at one",
			doc: `{"type":"doc","content":[{"type":"orderedList","attrs":{"start":1},"content":[
				{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"x"}]}]}]}]}`,
			want: `<ol><li><p>x</p></li></ol>`,
		},
		{
			name: "code block with language",
			doc:  `{"type":"doc","content":[{"type":"codeBlock","attrs":{"language":"go"},"content":[{"type":"text","text":"a := 1"}]}]}`,
			want: `<pre><code class="language-go">a := 1</code></pre>`,
		},
		{
			name: "code block without language",
			doc:  `{"type":"doc","content":[{"type":"codeBlock","content":[{"type":"text","text":"x"}]}]}`,
			want: `<pre><code>x</code></pre>`,
		},
		{
			name: "link with defaults",
			doc: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"x",
				"marks":[{"type":"link","attrs":{"href":"https://example.com"}}]}]}]}`,
			want: `<p><a target="_blank" rel="noopener noreferrer nofollow ugc" href="https://example.com">x</a></p>`,
		},
		{
			name: "shared marks stay open",
			doc: `{"type":"doc","content":[{"type":"paragraph","content":[
				{"type":"text","text":"a","marks":[{"type":"bold"}]},
				{"type":"text","text":"b","marks":[{"type":"bold"},{"type":"italic"}]}]}]}`,
			want: `<p><strong>a<em>b</em></strong></p>`,
		},
		{
			name: "marks render in rank order",
			doc: `{"type":"doc","content":[{"type":"paragraph","content":[
				{"type":"text","text":"x","marks":[{"type":"italic"},{"type":"bold"}]}]}]}`,
			want: `<p><strong><em>x</em></strong></p>`,
		},
		{
			name: "text is escaped",
			doc:  `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a < b & c"}]}]}`,
			want: `<p>a &lt; b &amp; c</p>`,
		},
		{
			name: "hard break and rule",
			doc: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a"},{"type":"hardBreak"},
				{"type":"text","text":"b"}]},{"type":"horizontalRule"}]}`,
			want: `<p>a<br>b</p><hr>`,
		},
		{
			name: "quotes stay literal in text",
			doc:  `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"It's \"q\" > p"}]}]}`,
			want: `<p>It's "q" &gt; p</p>`,
		},
		{
			name: "attribute values escape quotes and ampersands",
			doc: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"x",
				"marks":[{"type":"link","attrs":{"href":"https://x.test/?a=1&b=\"2\"","target":null,"rel":null}}]}]}]}`,
			want: `<p><a href="https://x.test/?a=1&amp;b=&quot;2&quot;">x</a></p>`,
		},
		{
			name: "underline strike highlight",
			doc: `{"type":"doc","content":[{"type":"paragraph","content":[
				{"type":"text","text":"x","marks":[{"type":"highlight"},{"type":"underline"},{"type":"strike"}]}]}]}`,
			want: `<p><s><u><mark>x</mark></u></s></p>`,
		},
		{
			name: "empty document",
			doc:  `{"type":"doc","content":[]}`,
			want: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.RenderHTML(decodeDoc(t, tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderHTMLRejectsInvalidTree(t *testing.T) {
	schema := newTestSchema(t)

	_, err := schema.RenderHTML(decodeDoc(t, `{"type":"doc","content":[{"type":"table"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown node type "table"`)

	_, err = schema.RenderHTML(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestRoundTrip(t *testing.T) {
	schema := newTestSchema(t)

	inputs := []string{
		`<p>Hello <strong>world</strong></p>`,
		`<h1>Title</h1><p style="text-align: right">right <em>and</em> <a href="https://x.test">link</a></p>`,
		`<ul><li><p>one</p><ol start="4"><li><p>two</p></li></ol></li></ul>`,
		`<blockquote><p>quote<br>line</p></blockquote><hr><pre><code class="language-js">let a = 1;</code></pre>`,
		`<p><strong>a<em>b</em></strong><code>c</code><u>d</u><s>e</s><mark>f</mark></p>`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := schema.ParseHTML(input)
			require.NoError(t, err)

			rendered, err := schema.RenderHTML(first)
			require.NoError(t, err)

			second, err := schema.ParseHTML(rendered)
			require.NoError(t, err)
			assert.True(t, first.Equal(second), "round trip changed the tree:\nfirst:  %s", rendered)
		})
	}
}
