package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/sketchpad/internal/imageio"
	"github.com/example/sketchpad/internal/palette"
	"github.com/example/sketchpad/internal/surface"
	"github.com/example/sketchpad/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Capture    bool
	Save       bool
	SaveFailed bool
	Copy       bool
}

// Canvas holds the drawing defaults.
type Canvas struct {
	Background   color.RGBA
	Color        color.RGBA
	Width        float64
	Mode         surface.Mode
	HistoryLimit int
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Format  imageio.Format
	Quality int
	Canvas  Canvas
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	style := surface.DefaultStyle()
	return &Config{
		Theme:   "", // Default to empty to allow fallback to Env/Default
		Format:  imageio.JPEG,
		Quality: imageio.DefaultQuality,
		Canvas: Canvas{
			Background: surface.DefaultBackground,
			Color:      style.Color,
			Width:      style.Width,
			Mode:       surface.ModePencil,
		},
		Notify: Notify{
			SaveFailed: true,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// ApplyEnv overrides values from SKETCHPAD_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("SKETCHPAD_THEME")); v != "" {
		c.Theme = v
	}
	if v := strings.TrimSpace(getenv("SKETCHPAD_SAVE_DIR")); v != "" {
		c.SaveDir = v
	}
}

// SurfaceOptions translates the canvas section into surface options.
func (c *Config) SurfaceOptions() []surface.Option {
	return []surface.Option{
		surface.WithBackgroundColor(c.Canvas.Background),
		surface.WithStyle(surface.Style{Color: c.Canvas.Color, Width: c.Canvas.Width}),
		surface.WithMode(c.Canvas.Mode),
		surface.WithHistoryLimit(c.Canvas.HistoryLimit),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "format = %s\n", c.Format)
	fmt.Fprintf(&sb, "quality = %d\n", c.Quality)
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "background = %s\n", palette.Hex(c.Canvas.Background))
	fmt.Fprintf(&sb, "color = %s\n", palette.Hex(c.Canvas.Color))
	fmt.Fprintf(&sb, "width = %g\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "mode = %s\n", c.Canvas.Mode)
	fmt.Fprintf(&sb, "history_limit = %d\n", c.Canvas.HistoryLimit)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "save_failed = %v\n", c.Notify.SaveFailed)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = c.Themes[name].Write(&sb)
	}

	return sb.String()
}
