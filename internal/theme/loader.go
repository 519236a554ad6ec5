package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/sketchpad/assets"
)

// EmbeddedThemes holds the default themes compiled into the binary.
var EmbeddedThemes fs.FS = assets.Themes()

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Custom holds themes defined in the configuration file.
	Custom map[string]*Theme
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "sketchpad", "themes"),
		SystemDir: "/usr/share/sketchpad/themes",
	}
}

// Names lists the configured and embedded theme names.
func (l *Loader) Names() []string {
	seen := map[string]bool{}
	var names []string
	for name := range l.Custom {
		seen[name] = true
		names = append(names, name)
	}
	for _, name := range assets.ThemeNames() {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// Load attempts to load a theme by name or path.
// Order:
// 1. Themes defined in the configuration file.
// 2. If it's a file path that exists, load it.
// 3. Check embedded themes.
// 4. Check ConfigDir.
// 5. Check SystemDir.
// An empty name yields Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	// 1. Config sections
	if t, ok := l.Custom[name]; ok && t != nil {
		clone := *t
		return &clone, nil
	}

	// 2. File path
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(name)
	}

	// Normalize name (ensure .theme extension for lookup if missing)
	filename := name
	if !strings.HasSuffix(filename, assets.ThemeExt) {
		filename += assets.ThemeExt
	}

	// 3. Embedded
	if f, err := EmbeddedThemes.Open(filename); err == nil {
		defer f.Close()
		return Parse(f)
	}

	// 4. Config Dir, 5. System Dir
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
