// Package content renders the editorial sections of the page from markdown.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed pages
var embedded embed.FS

const fallbackLang = "en"

// ErrNotFound is returned for unknown sections.
var ErrNotFound = errors.New("content: section not found")

// Section is one rendered markdown page.
type Section struct {
	Slug    string
	Lang    string
	Title   string
	Summary string
	Address string
	Phone   string
	Hours   []Hours
	HTML    template.HTML
}

// Hours is an opening-hours row.
type Hours struct {
	Days string `yaml:"days"`
	Time string `yaml:"time"`
}

type frontMatter struct {
	Title   string  `yaml:"title"`
	Summary string  `yaml:"summary"`
	Address string  `yaml:"address"`
	Phone   string  `yaml:"phone"`
	Hours   []Hours `yaml:"hours"`
}

// Library holds every section rendered up front, keyed by lang and slug.
type Library struct {
	sections map[string]Section
}

// Default renders the sections compiled into the binary.
func Default() (*Library, error) {
	sub, err := fs.Sub(embedded, "pages")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load renders every <lang>/<slug>.md under fsys.
func Load(fsys fs.FS) (*Library, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
	policy := newSectionPolicy()

	lib := &Library{sections: map[string]Section{}}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}
		lang := path.Dir(p)
		if lang == "." || strings.Contains(lang, "/") {
			return nil
		}
		slug := strings.TrimSuffix(path.Base(p), ".md")

		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		sec, err := render(md, policy, raw)
		if err != nil {
			return fmt.Errorf("content: %s: %w", p, err)
		}
		sec.Slug = slug
		sec.Lang = lang
		lib.sections[key(lang, slug)] = sec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Section returns slug in lang, falling back to English.
func (l *Library) Section(slug, lang string) (Section, error) {
	if l == nil {
		return Section{}, ErrNotFound
	}
	if sec, ok := l.sections[key(lang, slug)]; ok {
		return sec, nil
	}
	if sec, ok := l.sections[key(fallbackLang, slug)]; ok {
		return sec, nil
	}
	return Section{}, ErrNotFound
}

func render(md goldmark.Markdown, policy *bluemonday.Policy, raw []byte) (Section, error) {
	fm, body := splitFrontMatter(string(raw))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Section{}, fmt.Errorf("parse front matter: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return Section{}, fmt.Errorf("render markdown: %w", err)
	}
	return Section{
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Address: strings.TrimSpace(front.Address),
		Phone:   strings.TrimSpace(front.Phone),
		Hours:   front.Hours,
		// sanitized above, safe to mark as trusted
		HTML: template.HTML(policy.SanitizeBytes(buf.Bytes())),
	}, nil
}

func newSectionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "ul", "li")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func key(lang, slug string) string { return lang + "/" + slug }
