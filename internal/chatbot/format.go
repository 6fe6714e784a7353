package chatbot

import (
	"html/template"
	"strings"
)

// FormatHTML renders a reply for the chat widget: one <p> per non-blank
// line, text escaped.
func FormatHTML(text string) template.HTML {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(template.HTMLEscapeString(line))
		b.WriteString("</p>")
	}
	return template.HTML(b.String())
}
