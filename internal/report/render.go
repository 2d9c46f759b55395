package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

func RenderMarkdown(deck Deck) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", deck.Title)
	fmt.Fprintf(&b, "_%s_\n", deck.Date)
	for _, s := range deck.Slides {
		fmt.Fprintf(&b, "\n---\n\n## %s\n\n", s.Title)
		b.WriteString(strings.TrimRight(s.Body, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

const htmlHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Calibri, Arial, sans-serif; color: #1f1f1f; margin: 0; }
section.slide { padding: 32px 48px; min-height: 90vh; page-break-after: always; break-after: page; }
section.slide:last-child { page-break-after: auto; break-after: auto; }
table { border-collapse: collapse; margin: 8px 0 16px; }
th, td { border: 1px solid #d0d7de; padding: 4px 10px; }
th { background: #f6f8fa; }
code { font-size: 0.85em; }
</style>
</head>
<body>
`

// RenderHTML produces a standalone page with one <section> per slide and
// page breaks between them, ready for print-to-PDF.
func RenderHTML(deck Deck) (string, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, htmlHead, html.EscapeString(deck.Title))

	fmt.Fprintf(&b, "<section class=\"slide title\">\n<h1>%s</h1>\n<p>%s</p>\n</section>\n",
		html.EscapeString(deck.Title), html.EscapeString(deck.Date.String()))

	for _, s := range deck.Slides {
		fmt.Fprintf(&b, "<section class=\"slide\">\n<h2>%s</h2>\n", html.EscapeString(s.Title))
		if err := markdown.Convert([]byte(s.Body), &b); err != nil {
			return "", fmt.Errorf("rendering slide %q: %w", s.Title, err)
		}
		b.WriteString("</section>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
