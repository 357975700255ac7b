package content

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// VisitFunc receives the absolute path of a file and its slash-separated
// path relative to the walk root.
type VisitFunc func(absPath, relPath string) error

// Walk visits every regular file under root depth-first, skipping entries
// whose name starts with a dot (directories and files alike). A root that
// does not exist yields zero visits and no error.
func Walk(root string, visit VisitFunc) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return visit(path, filepath.ToSlash(rel))
	})
}
