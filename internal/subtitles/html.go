package subtitles

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/document.html.tmpl
var templateFS embed.FS

var documentTemplate = template.Must(template.ParseFS(templateFS, "templates/document.html.tmpl"))

// RenderHTML renders the document as an HTML fragment. Every piece of
// subtitle text is escaped; line breaks become <br>.
func RenderHTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.ExecuteTemplate(&buf, "document.html.tmpl", doc); err != nil {
		return "", fmt.Errorf("render subtitles html: %w", err)
	}
	return buf.String(), nil
}
