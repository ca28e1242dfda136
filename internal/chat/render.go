package chat

import (
	"html"
	"regexp"
	"strings"
)

var boldSpan = regexp.MustCompile(`\*\*(.*?)\*\*`)

// RenderHTML converts stored assistant text to safe display HTML. The text
// is escaped first so backend-controlled content cannot inject markup; only
// then are the two authoring conventions applied: **bold** spans and literal
// newlines as line breaks. The stored transcript is never altered.
func RenderHTML(text string) string {
	escaped := html.EscapeString(text)
	rendered := boldSpan.ReplaceAllString(escaped, "<strong>$1</strong>")
	return strings.ReplaceAll(rendered, "\n", "<br />")
}
