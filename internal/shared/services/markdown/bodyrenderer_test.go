package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

func newTestRenderer() *BodyRenderer {
	return NewBodyRenderer(logger.NewLogger())
}

func TestBodyRenderer_RenderHTML(t *testing.T) {
	r := newTestRenderer()

	t.Run("plain text is escaped", func(t *testing.T) {
		got := r.RenderHTML("a < b\nnext line", vo.FormatPlain)
		assert.Equal(t, "<p>a &lt; b<br />next line</p>", got)
	})

	t.Run("markdown is rendered", func(t *testing.T) {
		got := r.RenderHTML("**bold** and `code`", vo.FormatMarkdown)
		assert.Contains(t, got, "<strong>bold</strong>")
		assert.Contains(t, got, "<code>code</code>")
	})

	t.Run("scripts are removed from html", func(t *testing.T) {
		got := r.RenderHTML(`<p onclick="x()">hi</p><script>alert(1)</script>`, vo.FormatHTML)
		assert.NotContains(t, got, "script")
		assert.NotContains(t, got, "onclick")
		assert.Contains(t, got, "hi")
	})

	t.Run("raw html inside markdown is dropped", func(t *testing.T) {
		got := r.RenderHTML("hello <img src=x onerror=alert(1)>", vo.FormatMarkdown)
		assert.NotContains(t, got, "onerror")
	})
}

func TestBodyRenderer_Preview(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name   string
		body   string
		format vo.BodyFormat
		limit  int
		want   string
	}{
		{"short plain", "Quiz  won't\n\nsubmit", vo.FormatPlain, 150, "Quiz won't submit"},
		{"markdown tags stripped", "# Title\n\nSome *text* & more", vo.FormatMarkdown, 150, "Title Some text & more"},
		{"html tags stripped", "<p>One</p><p>Two</p>", vo.FormatHTML, 150, "OneTwo"},
		{"truncated", "abcdefghij", vo.FormatPlain, 4, "abcd…"},
		{"exact length", "abcd", vo.FormatPlain, 4, "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Preview(tt.body, tt.format, tt.limit))
		})
	}
}

func TestBodyRenderer_PreviewCountsRunes(t *testing.T) {
	r := newTestRenderer()

	got := r.Preview(strings.Repeat("ü", 200), vo.FormatPlain, 150)

	assert.Equal(t, 151, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
