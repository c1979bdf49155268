package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/murmur/pkg/adapters/fs"
	"github.com/aretw0/murmur/pkg/adapters/sqlite"
)

// FindRoot looks upwards from startDir for a directory holding a notes
// record (notes.json, notes.yaml, the sqlite database) or a .murmur directory.
// It returns the absolute path of the first match.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ".murmur") || hasFile(dir, fs.DefaultRecordName) ||
			hasFile(dir, "notes.yaml") || hasFile(dir, sqlite.DefaultDBName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

// DefaultStorePath returns the per-user store directory.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".murmur"
	}
	return filepath.Join(home, ".murmur")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
