package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/umalmyha/customers/internal/model"
	"github.com/umalmyha/customers/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CurrentPath string
	Errors      map[string][]string
	Data        any
}

// NewEngine parses embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"value": model.Value,
		"dict":  dict,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates - %w", err)
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template, satisfies echo.Renderer.
func (e *Engine) Render(w io.Writer, name string, data any, c echo.Context) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}

	if td, ok := data.(TemplateData); ok && c != nil {
		td.CurrentPath = c.Request().URL.Path
		data = td
	}
	return e.templates.ExecuteTemplate(w, name, data)
}

// dict builds map from key value pairs so several values can be passed to nested template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict expects even number of arguments, got %d", len(pairs))
	}

	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key must be string, got %T", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
