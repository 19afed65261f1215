package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	corefuncs "github.com/medscan/portal/internal/http/templates/core"
)

// layoutTemplate wraps every full page; it pulls the page body in through renderSection.
const layoutTemplate = "layout"

// TemplateRenderer renders the portal's HTML pages.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS            // Filesystem containing layout.tmpl and pages/*.tmpl (required)
	Logger     *slog.Logger     // Optional, defaults to slog.Default()
	Now        func() time.Time // Clock for relative times (optional)
}

// NewTemplateRenderer parses the layout and page templates. It fails when the
// layout template is missing.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
		Now:                cfg.Now,
	})
	t, err := template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS, "*.tmpl", "pages/*.tmpl")
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err))
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if t.Lookup(layoutTemplate) == nil {
		return nil, fmt.Errorf("template %q not defined", layoutTemplate)
	}

	return &TemplateRenderer{t: t, logger: logger}, nil
}

// RenderFull renders data inside the layout.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, status int, data any) error {
	return r.Render(w, status, layoutTemplate, data)
}

// Render executes the named template. Nothing is written to w when execution fails.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", slog.String("template", name), slog.Any("error", err))
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != 0 {
		w.WriteHeader(status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Warn("write rendered page failed", slog.String("template", name), slog.Any("error", err))
		return err
	}
	return nil
}
