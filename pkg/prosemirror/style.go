package prosemirror

import "strings"

// parseStyle splits an inline style attribute into lowercased property names
// and trimmed values. Later declarations win.
func parseStyle(style string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if name == "" || value == "" {
			continue
		}
		out[name] = value
	}
	return out
}
