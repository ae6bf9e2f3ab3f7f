package pdf

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/spf13/afero"
)

const (
	fontFamily     = "Helvetica"
	utf8FontFamily = "NotesSans"
)

// Font is a TrueType family embedded with UTF-8 support. Without one the
// renderer falls back to the core Helvetica font, which only covers
// cp1252, so Cyrillic, CJK, Devanagari or Arabic text comes out garbled.
type Font struct {
	Regular []byte
	Bold    []byte
}

// LoadFont reads TTF files from fs. An empty bold path reuses regular.
func LoadFont(fs afero.Fs, regular, bold string) (*Font, error) {
	reg, err := afero.ReadFile(fs, regular)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", regular, err)
	}
	if len(reg) == 0 {
		return nil, fmt.Errorf("font %s is empty", regular)
	}
	f := &Font{Regular: reg, Bold: reg}
	if bold != "" {
		b, err := afero.ReadFile(fs, bold)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", bold, err)
		}
		if len(b) == 0 {
			return nil, fmt.Errorf("font %s is empty", bold)
		}
		f.Bold = b
	}
	return f, nil
}

type Renderer struct {
	layout Layout
	font   *Font
}

func NewRenderer(layout Layout) *Renderer {
	return &Renderer{layout: layout}
}

// WithFont makes the renderer embed f instead of using the core font.
func (r *Renderer) WithFont(f *Font) *Renderer {
	r.font = f
	return r
}

// face is a document with the font family and text encoder to draw with.
type face struct {
	doc    *fpdf.Fpdf
	family string
	encode func(string) string
}

func newFace(font *Font) (*face, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	if font == nil {
		return &face{
			doc:    doc,
			family: fontFamily,
			encode: doc.UnicodeTranslatorFromDescriptor(""),
		}, nil
	}

	bold := font.Bold
	if len(bold) == 0 {
		bold = font.Regular
	}
	doc.AddUTF8FontFromBytes(utf8FontFamily, "", font.Regular)
	doc.AddUTF8FontFromBytes(utf8FontFamily, "B", bold)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("load utf-8 font: %w", err)
	}
	return &face{
		doc:    doc,
		family: utf8FontFamily,
		encode: func(s string) string { return s },
	}, nil
}

func (f *face) measure() MeasureFunc {
	return func(text string, size float64, bold bool) float64 {
		f.doc.SetFont(f.family, style(bold), size)
		return f.doc.GetStringWidth(f.encode(text))
	}
}

func style(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

// Measure uses the core font metrics fpdf ships with.
func Measure() MeasureFunc {
	f, _ := newFace(nil)
	return f.measure()
}

// Render lays doc out and returns the PDF bytes.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	f, err := newFace(r.font)
	if err != nil {
		return nil, err
	}
	pages := r.layout.Paginate(doc, f.measure())

	out := f.doc
	out.SetTitle(doc.Title, true)
	out.SetCreator("lecturenotes", false)
	if !doc.Generated.IsZero() {
		out.SetCreationDate(doc.Generated)
	}

	for _, page := range pages {
		out.AddPage()
		for _, line := range page.Lines {
			out.SetFont(f.family, style(line.Bold), line.Size)
			// fpdf measures y from the top of the page.
			out.Text(line.X, r.layout.PageHeight-line.Y, f.encode(line.Text))
		}
	}

	var buf bytes.Buffer
	if err := out.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders doc into path on fs.
func (r *Renderer) WriteFile(fs afero.Fs, path string, doc Document) error {
	data, err := r.Render(doc)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create pdf dir: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}
