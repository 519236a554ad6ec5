package theme

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseAcceptsCSSColors(t *testing.T) {
	input := `
# comment
Name: Test
background: #102030
ButtonText: rebeccapurple
CheckerDark: rgb(1, 2, 3)
NotAField: #FFFFFF
no separator here
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Test" {
		t.Fatalf("name = %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x20, 0x30, 255}) {
		t.Fatalf("background = %v", th.Background)
	}
	if th.ButtonText != (color.RGBA{102, 51, 153, 255}) {
		t.Fatalf("button text = %v", th.ButtonText)
	}
	if th.CheckerDark != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("checker = %v", th.CheckerDark)
	}
	if th.ToolbarBackground != Default().ToolbarBackground {
		t.Fatal("missing keys should keep defaults")
	}
	if _, err := Parse(strings.NewReader("Foreground: nope\n")); err == nil {
		t.Fatal("expected error for a bad color")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	orig := Default()
	orig.Name = "Round"
	orig.SwatchSelected = color.RGBA{1, 2, 3, 4}
	var buf bytes.Buffer
	if err := orig.Write(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if *back != *orig {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, orig)
	}
	if len(ColorKeys()) != 16 {
		t.Fatalf("color keys = %v", ColorKeys())
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ocean.theme"), []byte("Name: Ocean\nBackground: teal\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	custom := Default()
	custom.Name = "mine"
	l := &Loader{ConfigDir: dir, Custom: map[string]*Theme{"mine": custom}}

	for _, tc := range []struct{ in, want string }{
		{"", "Default"},
		{"mine", "mine"},
		{"dark", "Dark"},
		{"light.theme", "Light"},
		{"high-contrast", "High Contrast"},
		{"ocean", "Ocean"},
		{filepath.Join(dir, "ocean.theme"), "Ocean"},
	} {
		th, err := l.Load(tc.in)
		if err != nil {
			t.Fatalf("Load(%q): %v", tc.in, err)
		}
		if th.Name != tc.want {
			t.Fatalf("Load(%q) = %q, want %q", tc.in, th.Name, tc.want)
		}
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for an unknown theme")
	}
	names := strings.Join(l.Names(), ",")
	if !strings.Contains(names, "mine") || !strings.Contains(names, "dark") {
		t.Fatalf("names = %s", names)
	}
}

func TestEmbeddedThemesParse(t *testing.T) {
	l := &Loader{}
	for _, name := range []string{"light", "dark", "high-contrast"} {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if th.CheckerLight == th.CheckerDark {
			t.Fatalf("%s: checker colors are identical", name)
		}
	}
}
