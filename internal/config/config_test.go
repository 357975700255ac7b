package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(filepath.Join(root, "config.yaml"), root, discard())
	require.NoError(t, err)

	require.Equal(t, "My Site", cfg.Site.Title)
	require.Equal(t, 3000, cfg.Server.Port)
	require.True(t, cfg.Build.Clean)
	require.True(t, cfg.Build.GenerateHomepage)

	// Default directories are created under the project root.
	for _, dir := range []string{cfg.Paths.Content, cfg.Paths.Templates, cfg.Paths.Output, cfg.Paths.Static} {
		require.True(t, filepath.IsAbs(dir))
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestLoad_MalformedYAMLFallsBackToDefaults(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site: [unclosed"), 0o644))

	cfg, err := Load(path, root, discard())
	require.NoError(t, err)
	require.Equal(t, "My Site", cfg.Site.Title)
}

func TestLoad_DocumentMergesOverDefaults(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "config.yaml")
	doc := `
site:
  title: Field Notes
server:
  port: 4000
social:
  github: https://github.com/example
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path, root, discard())
	require.NoError(t, err)
	require.Equal(t, "Field Notes", cfg.Site.Title)
	require.Equal(t, "Anonymous", cfg.Site.Author)
	require.Equal(t, 4000, cfg.Server.Port)
	require.True(t, cfg.Server.StartupDelayMs == 1000)
	require.Equal(t, "https://github.com/example", cfg.Social["github"])
}

func TestLoad_PathResolution(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")
	path := filepath.Join(root, "config.yaml")
	doc := `
paths:
  content: ./writing
  templates: ../shared/templates
  output: ` + abs + `
  static: ./static
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path, root, discard())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "writing"), cfg.Paths.Content)
	require.Equal(t, filepath.Clean(filepath.Join(root, "..", "shared", "templates")), cfg.Paths.Templates)
	require.Equal(t, abs, cfg.Paths.Output)

	for _, dir := range []string{cfg.Paths.Content, cfg.Paths.Templates, cfg.Paths.Output, cfg.Paths.Static} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestLoad_NavigationOverrideReplacesWholesale(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "config.yaml")
	doc := `
navigation:
  - title: Home
    url: /
  - title: Projects
    url: /projects/
    icon: folder
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path, root, discard())
	require.NoError(t, err)
	require.Len(t, cfg.Navigation, 2)
	require.Equal(t, "Projects", cfg.Navigation[1].Title)
	require.Equal(t, "folder", cfg.Navigation[1].Icon)
}
