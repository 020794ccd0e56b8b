package service

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns update descriptions (markdown) into sanitized HTML.
// Sanitization runs after rendering so raw HTML embedded in the markdown
// goes through the same policy.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *Renderer) RenderHTML(description string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(description), &buf); err != nil {
		return "", fmt.Errorf("failed to render description: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
