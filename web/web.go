// Package web holds the server-rendered admin templates.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page and partial.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
