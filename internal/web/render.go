// Package web is the server-rendered HTTP surface: routing, handlers,
// templates, and static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gasfinder/gasfinder/internal/chat"
	"github.com/gasfinder/gasfinder/internal/viewstate"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is everything the index template needs for one render.
type PageData struct {
	View        viewstate.View
	Flash       string
	SignUpError string
	SellerError string
	SellerForm  SellerForm
	Transcript  *chat.Transcript
}

// SellerForm carries the raw seller registration inputs back into the form
// so a rejected submission keeps its values.
type SellerForm struct {
	OwnerName   string
	StationName string
	Address     string
	Phone       string
	Latitude    string
	Longitude   string
	PricePerKg  string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Index renders the single page. The template executes into a buffer first
// so an execution error never leaves a half-written response.
func (r *Renderer) Index(w http.ResponseWriter, status int, data PageData) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index", data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded CSS and images under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
