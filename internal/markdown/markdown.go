// Package markdown converts the restricted Markdown subset used for course
// content into HTML.
//
// The output is returned as template.HTML and is NOT escaped: raw HTML in the
// input reaches the page unchanged. Callers must only pass admin-authored
// content; the renderer is not a sanitization boundary.
package markdown

import (
	"html/template"
	"regexp"
	"strings"
	"unicode"
)

var (
	orderedItem = regexp.MustCompile(`^\d+\. `)

	boldItalic = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	bold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicStar = regexp.MustCompile(`\*(.+?)\*`)
	italicBar  = regexp.MustCompile(`_(.+?)_`)
	code       = regexp.MustCompile("`(.+?)`")
)

// Render converts value line by line. Consecutive "- " or "* " items share
// one <ul>; every ordered item gets its own <ol>.
func Render(value string) template.HTML {
	if value == "" {
		return ""
	}

	var b strings.Builder
	inList := false
	closeList := func() {
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
	}

	for _, raw := range strings.Split(value, "\n") {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)

		switch {
		case strings.TrimSpace(line) == "":
			closeList()
			b.WriteString("<br>")
		case strings.HasPrefix(line, "### "):
			closeList()
			wrap(&b, "h3", line[4:])
		case strings.HasPrefix(line, "## "):
			closeList()
			wrap(&b, "h2", line[3:])
		case strings.HasPrefix(line, "# "):
			closeList()
			wrap(&b, "h1", line[2:])
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			wrap(&b, "li", line[2:])
		case orderedItem.MatchString(line):
			closeList()
			b.WriteString("<ol>")
			wrap(&b, "li", orderedItem.ReplaceAllString(line, ""))
			b.WriteString("</ol>")
		default:
			closeList()
			wrap(&b, "p", line)
		}
	}
	closeList()

	return template.HTML(b.String())
}

func wrap(b *strings.Builder, tag string, text string) {
	b.WriteString("<" + tag + ">")
	b.WriteString(Inline(text))
	b.WriteString("</" + tag + ">")
}

// Inline applies emphasis and code substitutions in fixed order.
func Inline(text string) string {
	text = boldItalic.ReplaceAllString(text, "<strong><em>$1</em></strong>")
	text = bold.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicStar.ReplaceAllString(text, "<em>$1</em>")
	text = italicBar.ReplaceAllString(text, "<em>$1</em>")
	return code.ReplaceAllString(text, "<code>$1</code>")
}
