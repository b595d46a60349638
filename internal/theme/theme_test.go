package theme

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# comment
Name: Sunset
Background: #112233
fieldborderfocus: #44556680
Unknown: #000000
not a pair
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Sunset" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Background != (color.RGBA{0x11, 0x22, 0x33, 0xff}) {
		t.Errorf("Background = %v", th.Background)
	}
	if th.FieldBorderFocus != (color.RGBA{0x44, 0x55, 0x66, 0x80}) {
		t.Errorf("FieldBorderFocus = %v", th.FieldBorderFocus)
	}
	if th.Caret != Default().Caret {
		t.Errorf("missing keys should keep defaults")
	}
}

func TestParseInvalidColor(t *testing.T) {
	for _, in := range []string{"Background: 112233", "Background: #12345", "Background: #GGGGGG"} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	want := Default()
	want.Name = "Copy"
	want.StatusError = color.RGBA{1, 2, 3, 4}
	var buf bytes.Buffer
	if err := Format(&buf, want); err != nil {
		t.Fatalf("Format: %v", err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, want)
	}
}

func TestEmbeddedThemes(t *testing.T) {
	names := EmbeddedNames()
	if strings.Join(names, ",") != "dark,default,high_contrast" {
		t.Fatalf("EmbeddedNames = %v", names)
	}
	l := &Loader{}
	for _, name := range names {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if th.Name == "" {
			t.Errorf("%s has no name", name)
		}
	}
	def, _ := l.Load("default")
	want := Default()
	want.Name = def.Name
	if *def != *want {
		t.Errorf("embedded default drifted from Default():\n%+v\n%+v", def, want)
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "mine.theme")
	if err := os.WriteFile(custom, []byte("Name: Mine\nBackground: #010203\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}

	th, err := l.Load("mine")
	if err != nil || th.Name != "Mine" {
		t.Fatalf("config dir lookup = %+v, %v", th, err)
	}
	th, err = l.Load(custom)
	if err != nil || th.Background != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("path lookup = %+v, %v", th, err)
	}
	th, err = l.Load("")
	if err != nil || th.Name != "Default" {
		t.Fatalf("empty name = %+v, %v", th, err)
	}
	if _, err := l.Load("nope"); err == nil {
		t.Fatal("expected missing theme error")
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{0xAB, 0xCD, 0xEF, 0xFF}); got != "#ABCDEF" {
		t.Fatalf("Hex = %s", got)
	}
	if got := Hex(color.RGBA{1, 2, 3, 4}); got != "#01020304" {
		t.Fatalf("Hex = %s", got)
	}
}
