// Package builder orchestrates one build pass: clean the output directory,
// regenerate every page, copy static assets. Watch and serve modes sit on
// top of the same pass.
package builder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/stencilgen/stencil/internal/config"
	"github.com/stencilgen/stencil/internal/content"
	"github.com/stencilgen/stencil/internal/markdown"
	"github.com/stencilgen/stencil/internal/templates"
)

const homepageLayout = "home"

type Builder struct {
	mu  sync.Mutex
	cfg *config.Config
	log *slog.Logger

	// now is the clock used for default dates; tests pin it.
	now func() time.Time
}

func New(cfg *config.Config, logger *slog.Logger) *Builder {
	return &Builder{cfg: cfg, log: logger, now: time.Now}
}

// SwapConfig replaces the configuration wholesale. The next pass picks up
// the new value; a pass already in flight keeps the one it started with.
func (b *Builder) SwapConfig(cfg *config.Config) {
	b.mu.Lock()
	b.cfg = cfg
	b.mu.Unlock()
}

func (b *Builder) config() *config.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// Run executes one full pass. Passes are serialized: a watch trigger that
// fires mid-pass waits for the running pass to finish.
func (b *Builder) Run() error {
	cfg := b.config()

	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	if cfg.Build.Clean {
		b.clean(cfg)
	}
	if err := b.generate(cfg); err != nil {
		return err
	}
	b.copyStatic(cfg)
	b.log.Info("build pass complete", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// clean removes everything under the output directory except version
// control metadata, keeping the directory itself. Failures are logged and
// the pass continues.
func (b *Builder) clean(cfg *config.Config) {
	entries, err := os.ReadDir(cfg.Paths.Output)
	if err != nil {
		b.log.Warn("cleaning output directory failed", "stage", "clean", "path", cfg.Paths.Output, "error", err)
		return
	}
	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		path := filepath.Join(cfg.Paths.Output, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			b.log.Warn("removing output entry failed", "stage", "clean", "path", path, "error", err)
		}
	}
}

// generate builds the corpus, aggregates it and renders every page.
// Per-page failures become placeholder documents; only output-directory
// level failures propagate.
func (b *Builder) generate(cfg *config.Config) error {
	engine, err := templates.Load(cfg.Paths.Templates)
	if err != nil {
		b.log.Warn("loading templates failed, pages will render as placeholders", "stage", "generate", "error", err)
		engine = templates.Empty()
	}

	entries := b.collect(cfg)
	site := content.Aggregate(entries)

	nav := site.Navigation
	if len(cfg.Navigation) > 0 {
		nav = overrideNavigation(cfg.Navigation)
	}

	base := templates.Data{
		Site:        cfg.Site,
		Navigation:  nav,
		RecentPosts: site.RecentPosts,
		Stats:       site.Stats,
		Social:      cfg.Social,
		CurrentYear: b.now().Year(),
		Config:      cfg,
		Custom:      cfg.Custom,
	}

	homepageGenerated := false
	if cfg.Build.GenerateHomepage {
		data := base
		data.Posts = site.Posts
		data.TotalPosts = len(site.Posts)
		if err := b.writePage(cfg, "/", "index.md", homepageLayout, engine, data); err != nil {
			return err
		}
		homepageGenerated = true
	}

	for _, entry := range entries {
		if entry.URL == "/" && homepageGenerated {
			continue
		}
		data := base
		data.Page = entry
		if err := b.writePage(cfg, entry.URL, entry.SourcePath, entry.Layout, engine, data); err != nil {
			return err
		}
	}
	return nil
}

// collect walks the content tree and extracts every Markdown file. Files
// that fail to read or render are logged and skipped.
func (b *Builder) collect(cfg *config.Config) []*content.Entry {
	conv := markdown.New(cfg.Markdown)
	opts := content.ExtractOptions{SiteAuthor: cfg.Site.Author, Now: b.now()}

	var entries []*content.Entry
	err := content.Walk(cfg.Paths.Content, func(abs, rel string) error {
		if strings.ToLower(filepath.Ext(rel)) != ".md" {
			return nil
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			b.log.Warn("reading content file failed", "stage", "collect", "path", rel, "error", err)
			return nil
		}
		entry, err := content.Extract(data, rel, conv, opts)
		if entry == nil {
			b.log.Warn("skipping content file", "stage", "collect", "path", rel, "error", err)
			return nil
		}
		if err != nil {
			b.log.Warn("front matter ignored", "stage", "collect", "path", rel, "error", err)
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		b.log.Warn("content walk aborted", "stage", "collect", "path", cfg.Paths.Content, "error", err)
	}
	return entries
}

// writePage renders one layout into <output>/<url>/index.html. A render
// failure produces a placeholder document instead of aborting the pass.
func (b *Builder) writePage(cfg *config.Config, url, source, layout string, engine *templates.Engine, data templates.Data) error {
	outPath := outputPath(cfg.Paths.Output, url)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := engine.Render(f, layout, data); err != nil {
		b.log.Warn("rendering page failed, writing placeholder", "stage", "generate", "path", source, "layout", layout, "error", err)
		if _, werr := f.Write(templates.ErrorPlaceholder(source, err)); werr != nil {
			return fmt.Errorf("writing placeholder for %s: %w", source, werr)
		}
	}
	return nil
}

// outputPath mirrors the URL derivation onto the filesystem: every URL maps
// to a directory holding an index.html, the root URL to index.html itself.
func outputPath(outputDir, url string) string {
	trimmed := strings.Trim(url, "/")
	if trimmed == "" {
		return filepath.Join(outputDir, "index.html")
	}
	return filepath.Join(outputDir, filepath.FromSlash(trimmed), "index.html")
}

func overrideNavigation(items []config.NavigationItem) []content.NavItem {
	nav := make([]content.NavItem, 0, len(items))
	for _, item := range items {
		nav = append(nav, content.NavItem{Title: item.Title, URL: item.URL, Icon: item.Icon})
	}
	return nav
}

// copyStatic mirrors the static tree into the output directory, skipping
// version control metadata and overwriting what is already there. Failures
// are logged, never fatal.
func (b *Builder) copyStatic(cfg *config.Config) {
	src := cfg.Paths.Static
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return
	}
	err := content.Walk(src, func(abs, rel string) error {
		dst := filepath.Join(cfg.Paths.Output, filepath.FromSlash(rel))
		if err := copyFile(abs, dst); err != nil {
			b.log.Warn("copying static file failed", "stage", "assets", "path", rel, "error", err)
		}
		return nil
	})
	if err != nil {
		b.log.Warn("static asset walk aborted", "stage", "assets", "path", src, "error", err)
	}
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
