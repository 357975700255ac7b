package content

import (
	"fmt"
	"html/template"
	"path"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLayout is the layout used when a file declares none.
const DefaultLayout = "default"

const (
	excerptLength  = 150
	wordsPerMinute = 200
	indexBaseName  = "index"
)

// Converter renders Markdown to HTML. The concrete implementation lives in
// internal/markdown; tests substitute a stub.
type Converter interface {
	Convert(src []byte) (template.HTML, error)
}

// Entry is one extracted content file, post or page. Values are computed
// once at extraction and never mutated afterwards.
type Entry struct {
	Title       string
	Date        time.Time
	Layout      string
	Categories  []string
	Tags        []string
	Author      string
	Excerpt     string
	Draft       bool
	Featured    bool
	SourcePath  string
	URL         string
	Content     template.HTML
	WordCount   int
	ReadingTime int
	IsPage      bool
}

// ExtractOptions carries the site-level defaults an entry falls back to.
type ExtractOptions struct {
	SiteAuthor string
	Now        time.Time
}

var (
	titleCaser  = cases.Title(language.English)
	htmlTagRe   = regexp.MustCompile(`<[^>]*>`)
	nonWordRe   = regexp.MustCompile(`[^\w\s]`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
	dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
)

// Extract turns one content file into a normalized Entry. relPath is the
// slash-separated path of the file relative to the content root.
func Extract(data []byte, relPath string, conv Converter, opts ExtractOptions) (*Entry, error) {
	meta, body, fmErr := ParseFrontMatter(data)
	if fmErr != nil {
		// Metadata is empty but the body survived; the caller decides how
		// loudly to report this.
		meta = map[string]interface{}{}
	}

	html, err := conv.Convert(body)
	if err != nil {
		return nil, fmt.Errorf("rendering markdown for %s: %w", relPath, err)
	}

	words := countWords(string(body))
	e := &Entry{
		Title:       metaString(meta, "title", titleFromPath(relPath)),
		Date:        metaDate(meta, "date", opts.Now),
		Layout:      metaString(meta, "layout", DefaultLayout),
		Author:      metaString(meta, "author", opts.SiteAuthor),
		Categories:  metaStrings(meta, "categories"),
		Tags:        metaStrings(meta, "tags"),
		Draft:       metaBool(meta, "draft"),
		Featured:    metaBool(meta, "featured"),
		SourcePath:  relPath,
		URL:         DeriveURL(relPath),
		Content:     html,
		WordCount:   words,
		ReadingTime: readingTime(words),
		IsPage:      baseName(relPath) == indexBaseName,
	}
	e.Excerpt = metaString(meta, "excerpt", deriveExcerpt(string(html)))
	if fmErr != nil {
		return e, fmErr
	}
	return e, nil
}

// DeriveURL maps a source-relative Markdown path to its site URL.
//
//	about.md         -> /about/
//	index.md         -> /
//	blog/index.md    -> /blog/
//	blog/post-1.md   -> /blog/post-1/
func DeriveURL(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, path.Ext(relPath))
	if path.Base(trimmed) == indexBaseName {
		dir := path.Dir(trimmed)
		if dir == "." || dir == "/" {
			return "/"
		}
		return "/" + dir + "/"
	}
	return "/" + trimmed + "/"
}

func baseName(relPath string) string {
	return strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
}

// titleFromPath turns a file name like "my-first-post.md" into
// "My First Post".
func titleFromPath(relPath string) string {
	name := baseName(relPath)
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return titleCaser.String(name)
}

func countWords(body string) int {
	cleaned := nonWordRe.ReplaceAllString(body, "")
	return len(strings.Fields(cleaned))
}

func readingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// deriveExcerpt strips markup and whitespace runs from rendered HTML and
// truncates the result.
func deriveExcerpt(html string) string {
	text := htmlTagRe.ReplaceAllString(html, "")
	text = strings.TrimSpace(spaceRunRe.ReplaceAllString(text, " "))
	// Truncation counts characters, not bytes; content is UTF-8.
	if runes := []rune(text); len(runes) > excerptLength {
		return string(runes[:excerptLength]) + "..."
	}
	return text
}

func metaString(meta map[string]interface{}, key, fallback string) string {
	if v, ok := meta[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func metaBool(meta map[string]interface{}, key string) bool {
	v, _ := meta[key].(bool)
	return v
}

func metaStrings(meta map[string]interface{}, key string) []string {
	raw, ok := meta[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// metaDate accepts either a parsed timestamp or a string in any of the
// supported layouts; anything else falls back to the processing date,
// truncated to the calendar day.
func metaDate(meta map[string]interface{}, key string, now time.Time) time.Time {
	switch v := meta[key].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, v); err == nil {
				return d
			}
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
