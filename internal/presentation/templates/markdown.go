package templates

import (
	"bytes"
	"fmt"
)

// renderMarkdown converts paragraph copy to HTML. Raw HTML in the source is
// omitted by goldmark's default renderer.
func (r *Renderer) renderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}
