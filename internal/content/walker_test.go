package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestWalk_VisitsNestedFilesWithRelativePaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "about.md", "hi")
	writeFile(t, root, "blog/post-1.md", "hi")
	writeFile(t, root, "blog/deep/post-2.md", "hi")

	visited := map[string]string{}
	err := Walk(root, func(abs, rel string) error {
		visited[rel] = abs
		return nil
	})
	require.NoError(t, err)

	require.Len(t, visited, 3)
	require.Contains(t, visited, "about.md")
	require.Contains(t, visited, "blog/post-1.md")
	require.Contains(t, visited, "blog/deep/post-2.md")
	require.Equal(t, filepath.Join(root, "blog", "post-1.md"), visited["blog/post-1.md"])
}

func TestWalk_SkipsHiddenFilesAndDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".draft.md", "hidden")
	writeFile(t, root, ".git/config", "hidden")
	writeFile(t, root, "visible.md", "hi")

	var visited []string
	err := Walk(root, func(abs, rel string) error {
		visited = append(visited, rel)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"visible.md"}, visited)
}

func TestWalk_MissingRootIsNoOp(t *testing.T) {
	calls := 0
	err := Walk(filepath.Join(t.TempDir(), "nope"), func(abs, rel string) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Zero(t, calls)
}
