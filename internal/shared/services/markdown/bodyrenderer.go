// Package markdown renders stored message bodies for display.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

const ellipsis = "…"

// BodyRenderer turns plain, markdown or HTML bodies into sanitized HTML and
// into plain-text previews.
type BodyRenderer struct {
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
	logger logger.Interface
}

func NewBodyRenderer(logger logger.Interface) *BodyRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			goldhtml.WithHardWraps(),
			goldhtml.WithXHTML(),
		),
	)

	ugc := bluemonday.UGCPolicy()
	ugc.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span", "pre")
	ugc.RequireNoFollowOnLinks(true)
	ugc.AddTargetBlankToFullyQualifiedLinks(true)

	return &BodyRenderer{
		md:     md,
		ugc:    ugc,
		strict: bluemonday.StrictPolicy(),
		logger: logger,
	}
}

// RenderHTML returns markup that is safe to embed in a page.
func (r *BodyRenderer) RenderHTML(body string, format vo.BodyFormat) string {
	switch format {
	case vo.FormatMarkdown:
		return r.ugc.Sanitize(r.markdownToHTML(body))
	case vo.FormatHTML:
		return r.ugc.Sanitize(body)
	case vo.FormatPlain:
		return plainToHTML(body)
	}
	return plainToHTML(body)
}

// Preview strips all markup, collapses whitespace and cuts the text to limit
// runes, appending an ellipsis when something was cut.
func (r *BodyRenderer) Preview(body string, format vo.BodyFormat, limit int) string {
	var text string
	switch format {
	case vo.FormatMarkdown:
		text = r.strict.Sanitize(r.markdownToHTML(body))
	case vo.FormatHTML:
		text = r.strict.Sanitize(body)
	default:
		text = body
	}
	text = strings.Join(strings.Fields(html.UnescapeString(text)), " ")

	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return strings.TrimRight(string(runes[:limit]), " ") + ellipsis
}

func (r *BodyRenderer) markdownToHTML(body string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		r.logger.Warnw("markdown conversion failed, falling back to plain text", "error", err)
		return plainToHTML(body)
	}
	// block elements need a separator once tags are stripped
	return strings.NewReplacer("</p>", "</p> ", "<br />", "<br /> ", "</li>", "</li> ").Replace(buf.String())
}

func plainToHTML(body string) string {
	escaped := html.EscapeString(strings.ReplaceAll(body, "\r\n", "\n"))
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br />") + "</p>"
}
