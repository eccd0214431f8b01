// Package htmlsanitize renders user-entered free text safely. Notes are
// plain text in the backend; rendering strips any markup the user pasted in
// and keeps their line breaks.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Sanitize strips all HTML from s, leaving only text content.
func Sanitize(s string) string {
	return strict.Sanitize(s)
}

// NoteHTML converts a stored note to HTML: markup stripped, newlines kept
// as <br>. The result is safe to render unescaped.
func NoteHTML(note string) template.HTML {
	clean := strict.Sanitize(note)
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	lines := strings.Split(clean, "\n")
	return template.HTML(strings.Join(lines, "<br>"))
}
