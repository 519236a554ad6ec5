package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Embedded default themes for Sketchpad.
//
//go:embed themes/*.theme
var embeddedThemes embed.FS

// ThemeExt is the file extension of theme files.
const ThemeExt = ".theme"

// Themes exposes the embedded theme files rooted at the themes directory.
func Themes() fs.FS {
	sub, err := fs.Sub(embeddedThemes, "themes")
	if err != nil {
		return embeddedThemes
	}
	return sub
}

// ThemeNames lists the embedded theme names without extension.
func ThemeNames() []string {
	entries, err := fs.ReadDir(embeddedThemes, "themes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ThemeExt {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ThemeExt))
	}
	sort.Strings(names)
	return names
}
