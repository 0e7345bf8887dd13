package views

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"dtrplay/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/app.css
var stylesheet []byte

type Renderer struct {
	page *template.Template
}

func NewRenderer() (*Renderer, error) {
	page, err := template.New("page.html").Funcs(template.FuncMap{
		"labelOption": func(l models.Label) string { return string(l) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{page: page}, nil
}

// Render writes the whole page. Output is buffered so a template error
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, view PageView) error {
	var buf bytes.Buffer
	if err := r.page.ExecuteTemplate(&buf, "page.html", view); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func Stylesheet() []byte {
	return stylesheet
}
