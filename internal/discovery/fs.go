package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the file that marks the root of a Cargo project.
const ManifestName = "Cargo.toml"

// ErrNoManifest indicates that no Cargo.toml was found during discovery.
var ErrNoManifest = errors.New("no Cargo.toml found")

// ProjectRoot returns the directory tests should run in. An explicit
// directory is validated and returned as an absolute path. Otherwise the
// nearest ancestor of start (inclusive) holding a Cargo.toml is used.
func ProjectRoot(start, explicit string) (string, error) {
	if explicit != "" {
		return resolveExplicit(start, explicit)
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", start, err)
	}
	for {
		ok, err := hasManifest(dir)
		if err != nil {
			return "", err
		}
		if ok {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoManifest
		}
		dir = parent
	}
}

func resolveExplicit(start, explicit string) (string, error) {
	dir := explicit
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(start, dir)
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("project directory %q not found", explicit)
		}
		return "", fmt.Errorf("stat %q: %w", explicit, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory %q is not a directory", explicit)
	}

	ok, err := hasManifest(dir)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w in %q", ErrNoManifest, explicit)
	}
	return dir, nil
}

func hasManifest(dir string) (bool, error) {
	info, err := os.Stat(filepath.Join(dir, ManifestName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s in %q: %w", ManifestName, dir, err)
	}
	return !info.IsDir(), nil
}
