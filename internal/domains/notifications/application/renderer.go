package application

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns payloads into HTML plus a markdown plain-text alternative.
type Renderer struct {
	templates map[domain.Kind]*template.Template
	converter *md.Converter
}

type templateData struct {
	Subject string
	Payload domain.Payload
}

var templateFuncs = template.FuncMap{
	"money": func(amount float64) string {
		return decimal.NewFromFloat(amount).StringFixed(2)
	},
}

// NewRenderer parses every embedded template. It fails when a kind has no template.
func NewRenderer() (*Renderer, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	converter.Remove("head", "style", "title")

	r := &Renderer{templates: map[domain.Kind]*template.Template{}, converter: converter}
	for _, kind := range domain.Kinds() {
		tmpl, err := template.New(string(kind)).
			Funcs(templateFuncs).
			Option("missingkey=error").
			ParseFS(templateFS, "templates/layout.html", "templates/"+string(kind)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		r.templates[kind] = tmpl
	}
	return r, nil
}

// MustRenderer panics on template errors; templates are embedded so this only fails at build time.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render produces the message for payload.
func (r *Renderer) Render(payload domain.Payload) (domain.Message, error) {
	if err := domain.CheckPayload(payload); err != nil {
		return domain.Message{}, err
	}
	tmpl, ok := r.templates[payload.Kind()]
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: %s", domain.ErrUnknownKind, payload.Kind())
	}
	subject := strings.TrimSpace(payload.Subject())
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", templateData{Subject: subject, Payload: payload}); err != nil {
		return domain.Message{}, fmt.Errorf("render %s: %w", payload.Kind(), err)
	}
	html := buf.String()
	text, err := r.converter.ConvertString(html)
	if err != nil {
		return domain.Message{}, fmt.Errorf("convert %s to text: %w", payload.Kind(), err)
	}
	return domain.Message{Subject: subject, HTML: html, Text: strings.TrimSpace(text)}, nil
}
