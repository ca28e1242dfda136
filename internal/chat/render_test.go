package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHTMLBoldSpans(t *testing.T) {
	assert.Equal(t, "Try the <strong>red</strong> ones", RenderHTML("Try the **red** ones"))
	assert.Equal(t, "<strong>a</strong> and <strong>b</strong>", RenderHTML("**a** and **b**"))
	assert.NotContains(t, RenderHTML("**Shoe A** is great"), "**")
}

func TestRenderHTMLLineBreaks(t *testing.T) {
	assert.Equal(t, "line one<br />line two", RenderHTML("line one\nline two"))
}

func TestRenderHTMLEscapesMarkup(t *testing.T) {
	rendered := RenderHTML("<script>alert(1)</script>")
	assert.NotContains(t, rendered, "<script>")
	assert.Contains(t, rendered, "&lt;script&gt;")
}

func TestRenderHTMLEscapesBeforeSubstitution(t *testing.T) {
	// Bold markers around hostile content still render, but the content
	// inside stays escaped.
	rendered := RenderHTML("**<b>x</b>**")
	assert.Equal(t, "<strong>&lt;b&gt;x&lt;/b&gt;</strong>", rendered)
}

func TestRenderHTMLUnpairedMarkersLeftAlone(t *testing.T) {
	assert.Equal(t, "**unclosed", RenderHTML("**unclosed"))
}

func TestRenderHTMLBoldDoesNotCrossLines(t *testing.T) {
	assert.Equal(t, "**a<br />b**", RenderHTML("**a\nb**"))
}
