package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config is the fully resolved site configuration for one build pass.
// It is constructed once by Load and passed by reference; reloads build a
// brand new value rather than mutating an existing one.
type Config struct {
	Site       SiteConfig             `yaml:"site"`
	Paths      PathsConfig            `yaml:"paths"`
	Markdown   MarkdownConfig         `yaml:"markdown"`
	Server     ServerConfig           `yaml:"server"`
	Build      BuildConfig            `yaml:"build"`
	Navigation []NavigationItem       `yaml:"navigation,omitempty"`
	Social     map[string]string      `yaml:"social,omitempty"`
	Custom     map[string]interface{} `yaml:"custom,omitempty"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	BaseURL     string `yaml:"baseURL"`
}

// PathsConfig holds the project directories. After Load every field is an
// absolute path to an existing directory.
type PathsConfig struct {
	Content   string `yaml:"content"`
	Templates string `yaml:"templates"`
	Output    string `yaml:"output"`
	Static    string `yaml:"static"`
	Config    string `yaml:"config,omitempty"`
}

type MarkdownConfig struct {
	HardWraps  bool   `yaml:"hardWraps"`
	UnsafeHTML bool   `yaml:"unsafeHTML"`
	Highlight  string `yaml:"highlight"`
}

type ServerConfig struct {
	Port           int  `yaml:"port"`
	AutoOpen       bool `yaml:"autoOpen"`
	StartupDelayMs int  `yaml:"startupDelayMs"`
}

type BuildConfig struct {
	Clean            bool `yaml:"clean"`
	GenerateHomepage bool `yaml:"generateHomepage"`
}

// NavigationItem is an explicit navigation override entry. When the
// `navigation` key is present in the document it replaces the derived
// navigation wholesale.
type NavigationItem struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
	Icon  string `yaml:"icon,omitempty"`
}

// Load reads the YAML document at path, merges it over the defaults and
// resolves every paths entry against projectRoot. A missing or malformed
// document is not fatal: it is logged and the defaults are used.
func Load(path, projectRoot string, logger *slog.Logger) (*Config, error) {
	doc := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Warn("config file not found, using defaults", "path", path)
	case err != nil:
		logger.Warn("config file unreadable, using defaults", "path", path, "error", err)
	default:
		var raw map[interface{}]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			logger.Warn("config file is not valid YAML, using defaults", "path", path, "error", err)
		} else {
			doc = Merge(doc, raw)
		}
	}

	cfg, err := decode(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding merged configuration: %w", err)
	}

	if err := resolvePaths(&cfg.Paths, projectRoot); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode round-trips the merged document through YAML into the typed struct.
func decode(doc map[interface{}]interface{}) (*Config, error) {
	buf, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolvePaths makes every configured path absolute relative to root and
// creates any directory that does not exist yet.
func resolvePaths(p *PathsConfig, root string) error {
	fields := []*string{&p.Content, &p.Templates, &p.Output, &p.Static, &p.Config}
	for _, f := range fields {
		if *f == "" {
			continue
		}
		resolved := *f
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(root, resolved)
		}
		resolved = filepath.Clean(resolved)
		if err := os.MkdirAll(resolved, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", resolved, err)
		}
		*f = resolved
	}
	return nil
}
