// Package markdown wraps the goldmark renderer behind the small Converter
// surface the content pipeline consumes.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/stencilgen/stencil/internal/config"
)

type Converter struct {
	md goldmark.Markdown
}

// New builds a GFM converter with auto heading IDs; hard wraps, raw HTML and
// syntax highlighting are switched on from the markdown config section.
func New(cfg config.MarkdownConfig) *Converter {
	extensions := []goldmark.Extender{extension.GFM}
	if cfg.Highlight != "" {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.Highlight),
		))
	}

	var rendererOpts []renderer.Option
	if cfg.HardWraps {
		rendererOpts = append(rendererOpts, gmhtml.WithHardWraps())
	}
	if cfg.UnsafeHTML {
		rendererOpts = append(rendererOpts, gmhtml.WithUnsafe())
	}

	return &Converter{md: goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)}
}

func (c *Converter) Convert(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
