package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stencilgen/stencil/internal/config"
	"github.com/stencilgen/stencil/internal/content"
)

// Data is the binding handed to every layout. Page is nil for the homepage,
// where Posts/TotalPosts/Stats carry the aggregated corpus instead.
type Data struct {
	Site        config.SiteConfig
	Page        *content.Entry
	Posts       []*content.Entry
	TotalPosts  int
	RecentPosts []content.PostRef
	Stats       content.Stats
	Navigation  []content.NavItem
	Social      map[string]string
	CurrentYear int
	Config      *config.Config
	Custom      map[string]interface{}
}

// Engine holds the parsed layout set for one build pass.
type Engine struct {
	set *template.Template
}

// Empty returns an engine with no layouts; every render fails.
func Empty() *Engine {
	return &Engine{set: template.New("")}
}

// Load parses every .html file under dir. Partials are parsed first so page
// layouts can reference them; a missing or empty directory yields an engine
// whose renders all fail, which the builder turns into placeholder pages.
func Load(dir string) (*Engine, error) {
	set := template.New("")

	var partials, layouts []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		if strings.HasPrefix(path, filepath.Join(dir, "partials")) {
			partials = append(partials, path)
		} else {
			layouts = append(layouts, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return &Engine{set: set}, nil
		}
		return nil, fmt.Errorf("scanning templates in %s: %w", dir, err)
	}

	for _, group := range [][]string{partials, layouts} {
		if len(group) == 0 {
			continue
		}
		set, err = set.ParseFiles(group...)
		if err != nil {
			return nil, fmt.Errorf("parsing templates: %w", err)
		}
	}
	return &Engine{set: set}, nil
}

// Has reports whether a layout with the given name was loaded.
func (e *Engine) Has(layout string) bool {
	return e.set.Lookup(layout+".html") != nil
}

// Render executes the named layout. Output is buffered so a mid-template
// failure writes nothing to w.
func (e *Engine) Render(w io.Writer, layout string, data Data) error {
	name := layout + ".html"
	if e.set.Lookup(name) == nil {
		return fmt.Errorf("layout %q not found", layout)
	}
	var buf bytes.Buffer
	if err := e.set.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("executing layout %q: %w", layout, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ErrorPlaceholder is the minimal document written in place of a page whose
// layout failed to render.
func ErrorPlaceholder(title string, err error) []byte {
	return []byte(fmt.Sprintf(
		"<!DOCTYPE html>\n<html><head><title>Render error</title></head><body>\n<h1>Failed to render %s</h1>\n<pre>%s</pre>\n</body></html>\n",
		template.HTMLEscapeString(title), template.HTMLEscapeString(err.Error()),
	))
}
