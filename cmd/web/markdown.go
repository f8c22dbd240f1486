package main

import (
	"context"
	"html/template"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

// renderMarkdownToHTML converts exercise description markdown to HTML.
// Goldmark escapes raw HTML blocks by default, so the output is safe to inline.
func (app *application) renderMarkdownToHTML(ctx context.Context, source string) template.HTML {
	var buf strings.Builder
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "render markdown", slog.Any("error", err))
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String()) //nolint:gosec // raw HTML in the source is escaped above.
}
