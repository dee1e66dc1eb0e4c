// Package content renders and sanitises user supplied text.
package content

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			goldhtml.WithHardWraps(),
			goldhtml.WithXHTML(),
		),
	)
	ugcPolicy    = newUGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Render converts a markdown comment body to sanitised HTML.
// Raw HTML in the source is dropped by the renderer and stripped again by the policy.
func Render(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}
	return strings.TrimSpace(ugcPolicy.Sanitize(buf.String()))
}

// Sanitize strips every tag from a plain text field (names, reasons) and trims it.
// The result is plain text, not HTML: entities are decoded back to characters.
func Sanitize(text string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(text)))
}
