package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/hadeerens/ember-bloom-menu/internal/observability"
	"github.com/hadeerens/ember-bloom-menu/templates"
)

// views executes the page templates. With a directory set, templates are
// reparsed on every render so edits show up without a restart.
type views struct {
	dir string

	once   sync.Once
	cached *template.Template
	err    error
}

func newViews(dir string) (*views, error) {
	v := &views{dir: dir}
	if _, err := v.templates(); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return v, nil
}

func (v *views) templates() (*template.Template, error) {
	if v.dir != "" {
		return parseTemplates(os.DirFS(v.dir))
	}
	v.once.Do(func() {
		v.cached, v.err = parseTemplates(templates.FS)
	})
	return v.cached, v.err
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	t, err := template.New("_root").ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, err
	}
	return t, nil
}

// render executes the named template into a buffer so a failure never leaves
// a half written page behind.
func (a *app) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	t, err := a.views.templates()
	if err != nil {
		observability.FromContext(r.Context()).Error("template parse failed", zap.Error(err))
		http.Error(w, "template parse error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		observability.FromContext(r.Context()).Error("template exec failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
