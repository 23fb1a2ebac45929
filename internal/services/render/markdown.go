// File: internal/services/render/markdown.go

// Package render converts assistant markdown replies to HTML for the web and
// mobile clients. Raw HTML inside the model output is not passed through.
package render

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				goldmarkhtml.WithHardWraps(),
			),
		),
	}
}

// ToHTML renders markdown to HTML. On a rendering error the original text is
// returned escaped, so callers always get something displayable.
func (r *Renderer) ToHTML(markdown string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "<p>" + html.EscapeString(markdown) + "</p>"
	}
	return buf.String()
}
