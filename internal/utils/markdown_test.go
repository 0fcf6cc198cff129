package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("# Título\n\nparágrafo com **negrito**")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>negrito</strong>")
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	out := RenderMarkdown("texto <script>alert('xss')</script> seguro")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "seguro")
}

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<p onclick="x()">ok</p><iframe src="//evil"></iframe>`)
	assert.Equal(t, "<p>ok</p>", out)
}
