package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/sketchpad/internal/imageio"
	"github.com/example/sketchpad/internal/surface"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/drawings
format = png
quality = 75

[canvas]
background = "ivory"
color = rgb(255, 0, 0)
width = 6.5
mode = rect
history_limit = 50

[notify]
capture = true
save = false
copy = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}

	if cfg.SaveDir != "/tmp/drawings" {
		t.Errorf("Expected save_dir '/tmp/drawings', got '%s'", cfg.SaveDir)
	}
	if cfg.Format != imageio.PNG || cfg.Quality != 75 {
		t.Errorf("format = %s quality = %d", cfg.Format, cfg.Quality)
	}

	want := Canvas{
		Background:   color.RGBA{255, 255, 240, 255},
		Color:        color.RGBA{255, 0, 0, 255},
		Width:        6.5,
		Mode:         surface.ModeRectangle,
		HistoryLimit: 50,
	}
	if cfg.Canvas != want {
		t.Errorf("canvas = %+v, want %+v", cfg.Canvas, want)
	}

	if !cfg.Notify.Capture {
		t.Error("Expected notify.capture to be true")
	}
	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.SaveFailed {
		t.Error("Expected notify.save_failed to default to true")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}

	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"format = gif\n",
		"quality = 0\n",
		"[canvas]\nwidth = -2\n",
		"[canvas]\nwidth = inf\n",
		"[canvas]\nwidth = nan\n",
		"[canvas]\nwidth = 1e9\n",
		"[canvas]\nmode = spray\n",
		"[canvas]\ncolor = sparkly\n",
		"[canvas]\nhistory_limit = many\n",
		"[notify]\nsave = maybe\n",
		"[theme.x]\nBackground = nope\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
	_, err := Parse(strings.NewReader("\n\n[canvas]\nwidth = x\n"))
	if err == nil || !strings.Contains(err.Error(), "line 4 in [canvas]") {
		t.Errorf("err = %v", err)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/drawings
format = tiff

[canvas]
background = #000000
color = #FFFFFF80
width = 3
mode = eraser

[notify]
capture = true
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Format != cfg2.Format || cfg.Quality != cfg2.Quality {
		t.Errorf("output mismatch: %s/%d vs %s/%d", cfg.Format, cfg.Quality, cfg2.Format, cfg2.Quality)
	}
	if cfg.Canvas != cfg2.Canvas {
		t.Errorf("Canvas mismatch: %+v vs %+v", cfg.Canvas, cfg2.Canvas)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	cfg.Theme = "light"
	env := map[string]string{"SKETCHPAD_SAVE_DIR": "/srv/out", "SKETCHPAD_THEME": "  "}
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.SaveDir != "/srv/out" || cfg.Theme != "light" {
		t.Fatalf("after env: theme=%q save_dir=%q", cfg.Theme, cfg.SaveDir)
	}
}

func TestSurfaceOptions(t *testing.T) {
	cfg := New()
	cfg.Canvas.Color = color.RGBA{0, 0, 255, 255}
	cfg.Canvas.Width = 9
	cfg.Canvas.Mode = surface.ModeCircle
	cfg.Canvas.Background = color.RGBA{10, 10, 10, 255}
	s := surface.New(cfg.SurfaceOptions()...)
	if s.Mode() != surface.ModeCircle || s.Style().Width != 9 || s.Style().Color != cfg.Canvas.Color {
		t.Fatalf("surface mode=%v style=%+v", s.Mode(), s.Style())
	}
	if s.BackgroundColor() != cfg.Canvas.Background {
		t.Fatalf("background = %v", s.BackgroundColor())
	}
}

func TestLoaderOverrideAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "sketchpad.rc")
	l := NewLoader("v1.0.0", path)
	if l.SavePath() != path {
		t.Fatalf("SavePath = %s", l.SavePath())
	}
	cfg := New()
	cfg.SaveDir = dir
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if l.GetConfigPath() != path {
		t.Fatalf("GetConfigPath = %q", l.GetConfigPath())
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SaveDir != dir {
		t.Fatalf("SaveDir = %q", loaded.SaveDir)
	}
	if err := os.WriteFile(path, []byte("quality = high\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(); err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("Load error = %v", err)
	}
}
