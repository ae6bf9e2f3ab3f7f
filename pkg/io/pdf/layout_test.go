package pdf

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// halfEm pretends every character is half the font size wide.
func halfEm(text string, size float64, _ bool) float64 {
	return float64(len(text)) * size * 0.5
}

func TestWrap(t *testing.T) {
	l := DefaultLayout()
	l.WrapWidth = 50

	got := l.Wrap("aaa bbb ccc dddddddddddddd e", 10, false, halfEm)
	want := []string{"aaa bbb", "ccc", "dddddddddddddd", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := l.Wrap("   ", 10, false, halfEm); got != nil {
		t.Errorf("expected no lines for blank text, got %q", got)
	}
}

func TestWrapRespectsWidth(t *testing.T) {
	l := DefaultLayout()
	text := strings.Repeat("entropy measures disorder ", 40)
	for _, line := range l.Wrap(text, l.BodySize, false, halfEm) {
		if w := halfEm(line, l.BodySize, false); w > l.WrapWidth {
			t.Errorf("line %q is %.0fpt wide", line, w)
		}
	}
}

func TestPaginateHeader(t *testing.T) {
	l := DefaultLayout()
	doc := Document{
		Title:     "Lecture Notes",
		Generated: time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
		Sections:  []Section{{Heading: "SUMMARY", Body: "- Entropy measures disorder"}},
	}
	pages := l.Paginate(doc, halfEm)
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	lines := pages[0].Lines
	want := []Line{
		{Text: "Lecture Notes", X: 40, Y: 750, Size: 16, Bold: true},
		{Text: "Generated on: 16-10-2026 09:30", X: 40, Y: 732, Size: 12},
		{Text: "SUMMARY", X: 40, Y: 706, Size: 14, Bold: true},
		{Text: "- Entropy measures disorder", X: 40, Y: 688, Size: 12},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %+v\nwant %+v", lines, want)
	}
}

func TestPaginateBreaksPages(t *testing.T) {
	l := DefaultLayout()
	body := strings.Repeat("word ", 3000)
	pages := l.Paginate(Document{
		Title:    "Long",
		Sections: []Section{{Heading: "TRANSCRIPT", Body: body}},
	}, halfEm)

	if len(pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(pages))
	}
	for i, p := range pages {
		if len(p.Lines) == 0 {
			t.Fatalf("page %d is empty", i)
		}
		if p.Lines[0].Y != l.Top {
			t.Errorf("page %d starts at %.0f, want %.0f", i, p.Lines[0].Y, l.Top)
		}
		for _, line := range p.Lines {
			if line.Y < l.Bottom {
				t.Errorf("page %d has a line below the margin at %.0f", i, line.Y)
			}
		}
	}
}

func TestPaginateSkipsEmptySections(t *testing.T) {
	pages := DefaultLayout().Paginate(Document{
		Title:    "T",
		Sections: []Section{{Heading: "TRANSLATION", Body: "  "}},
	}, halfEm)
	for _, line := range pages[0].Lines {
		if line.Text == "TRANSLATION" {
			t.Error("empty section should not get a heading")
		}
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	doc := Document{
		Title:     "Lecture Notes: thermo.wav",
		Generated: time.Now(),
		Sections: []Section{
			{Heading: "SUMMARY", Body: "- Entropy measures disorder"},
			{Heading: "TRANSLATION", Body: "L'entropie mesure le désordre."},
		},
	}
	data, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", data[:8])
	}

	fs := afero.NewMemMapFs()
	if err := r.WriteFile(fs, "/out/notes.pdf", doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if ok, _ := afero.Exists(fs, "/out/notes.pdf"); !ok {
		t.Error("expected pdf on the filesystem")
	}
}

func TestMeasureUsesFontMetrics(t *testing.T) {
	m := Measure()
	if m("WWW", 12, false) <= m("iii", 12, false) {
		t.Error("expected proportional widths")
	}
	if m("abc", 24, false) <= m("abc", 12, false) {
		t.Error("expected width to grow with size")
	}
}

func TestLoadFont(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "fonts/regular.ttf", []byte("regular"), 0o644)
	_ = afero.WriteFile(fs, "fonts/bold.ttf", []byte("bold"), 0o644)
	_ = afero.WriteFile(fs, "fonts/empty.ttf", nil, 0o644)

	f, err := LoadFont(fs, "fonts/regular.ttf", "")
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if string(f.Bold) != "regular" {
		t.Errorf("expected bold to reuse regular, got %q", f.Bold)
	}

	f, err = LoadFont(fs, "fonts/regular.ttf", "fonts/bold.ttf")
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if string(f.Bold) != "bold" {
		t.Errorf("unexpected bold face %q", f.Bold)
	}

	if _, err := LoadFont(fs, "fonts/missing.ttf", ""); err == nil {
		t.Error("expected error for a missing font")
	}
	if _, err := LoadFont(fs, "fonts/empty.ttf", ""); err == nil {
		t.Error("expected error for an empty font")
	}
	if _, err := LoadFont(fs, "fonts/regular.ttf", "fonts/missing.ttf"); err == nil {
		t.Error("expected error for a missing bold font")
	}
}

func TestRenderWithUTF8Font(t *testing.T) {
	const ttf = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	osFs := afero.NewOsFs()
	if ok, _ := afero.Exists(osFs, ttf); !ok {
		t.Skipf("%s not installed", ttf)
	}
	font, err := LoadFont(osFs, ttf, "")
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	doc := Document{
		Title: "Lecture Notes: thermo.wav",
		Sections: []Section{
			{Heading: "SUMMARY", Body: "- Entropy measures disorder"},
			{Heading: "TRANSLATION", Body: "Энтропия измеряет беспорядок."},
		},
	}
	data, err := NewRenderer(DefaultLayout()).WithFont(font).Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", data[:8])
	}
	if !bytes.Contains(data, []byte("/FontFile2")) {
		t.Error("expected the TrueType font to be embedded")
	}

	core, err := NewRenderer(DefaultLayout()).Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if bytes.Contains(core, []byte("/FontFile2")) {
		t.Error("core font output should not embed a font program")
	}
}
