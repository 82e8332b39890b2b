// Package appdir locates the per-user state directory (~/.rc5-go) holding the
// log database and an optional rc5.yaml.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const Name = ".rc5-go"

// Dir returns ~/.rc5-go, or ./.rc5-go when no home directory is known.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Name
	}
	return filepath.Join(home, Name)
}

// Ensure creates Dir if it does not exist and returns it.
func Ensure() (string, error) {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("appdir: create %s: %w", dir, err)
	}
	return dir, nil
}

// Path resolves name against Dir unless it is already absolute.
func Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(Dir(), name)
}
