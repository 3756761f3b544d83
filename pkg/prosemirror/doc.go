// Package prosemirror converts between HTML and ProseMirror-style JSON
// document trees.
//
// A Schema is built once from an ordered list of extensions (StarterKit, Link,
// Underline, TextAlign, Highlight) and is immutable afterwards, so a single
// value can serve concurrent requests:
//
//	schema, err := prosemirror.NewDefaultSchema(prosemirror.DefaultOptions())
//	doc, err := schema.ParseHTML("<p>Hello <strong>world</strong></p>")
//	out, err := schema.RenderHTML(doc)
//
// ParseHTML always returns a tree that satisfies the schema's content rules.
// RenderHTML validates its input first and reports every problem at once.
package prosemirror
