package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		ghtml.WithHardWraps(),
	),
)

// SummaryFragment renders summary markdown to an HTML fragment. Raw HTML in the model
// output is not passed through.
func SummaryFragment(summary string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(summary), &buf); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}

// SummaryHTML renders summary as a standalone HTML page titled after the document.
func (f Formatter) SummaryHTML(title, summary string) (string, error) {
	body, err := SummaryFragment(summary)
	if err != nil {
		return "", err
	}
	if title == "" {
		title = "PDF Summary"
	}
	return fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n<h1>%s</h1>\n<p><em>Generated: %s</em></p>\n%s</body>\n</html>\n",
		html.EscapeString(title), html.EscapeString(title), f.stamp(), body), nil
}
