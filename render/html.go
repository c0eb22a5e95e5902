package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dosage.html.tmpl"))

// HTML renders v as a standalone page. The page is rendered into a buffer
// first so that a template error never leaves a half-written response.
func HTML(w io.Writer, v *View) error {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "dosage.html.tmpl", v); err != nil {
		return fmt.Errorf("failed to render dosage page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
