package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	s := NewMarkdownService()

	out := s.Render("**Login** fails\nafter update")
	assert.Contains(t, out, "<strong>Login</strong>")
	assert.Contains(t, out, "<br")

	out = s.Render("see https://example.com")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, `rel="nofollow`)
}

func TestRender_StripsScripts(t *testing.T) {
	s := NewMarkdownService()

	out := s.Render(`<script>alert(1)</script><img src=x onerror="alert(1)">[x](javascript:alert(1))`)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "javascript:")
}

func TestPlainText(t *testing.T) {
	s := NewMarkdownService()
	assert.Equal(t, "Tom & Jerry", s.PlainText("<b>Tom &amp; Jerry</b>"))
}
