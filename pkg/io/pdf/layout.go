// Package pdf lays notes out on letter pages and renders them with fpdf.
// Layout works in PDF user space: points, y measured up from the bottom.
package pdf

import (
	"strings"
	"time"
)

// MeasureFunc returns the width of text in points at the given font size.
type MeasureFunc func(text string, size float64, bold bool) float64

type Layout struct {
	PageWidth    float64
	PageHeight   float64
	Margin       float64
	Top          float64
	Bottom       float64
	WrapWidth    float64
	Leading      float64
	ParagraphGap float64
	TitleSize    float64
	HeadingSize  float64
	BodySize     float64
}

func DefaultLayout() Layout {
	return Layout{
		PageWidth:    612,
		PageHeight:   792,
		Margin:       40,
		Top:          750,
		Bottom:       100,
		WrapWidth:    430,
		Leading:      18,
		ParagraphGap: 8,
		TitleSize:    16,
		HeadingSize:  14,
		BodySize:     12,
	}
}

type Section struct {
	Heading string
	Body    string
}

type Document struct {
	Title     string
	Generated time.Time
	Sections  []Section
}

// Line is one placed run of text; Y is its baseline.
type Line struct {
	Text string
	X    float64
	Y    float64
	Size float64
	Bold bool
}

type Page struct {
	Lines []Line
}

// GeneratedLine formats the timestamp line under the title.
func GeneratedLine(t time.Time) string {
	return "Generated on: " + t.Format("02-01-2006 15:04")
}

// Wrap breaks text into lines no wider than WrapWidth. Words are never
// split; a word wider than the budget gets a line of its own.
func (l Layout) Wrap(text string, size float64, bold bool, measure MeasureFunc) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		candidate := cur + " " + w
		if measure(candidate, size, bold) <= l.WrapWidth {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	return append(lines, cur)
}

type cursor struct {
	layout Layout
	pages  []Page
	y      float64
}

func (c *cursor) place(text string, size float64, bold bool) {
	if c.y < c.layout.Bottom {
		c.pages = append(c.pages, Page{})
		c.y = c.layout.Top
	}
	p := &c.pages[len(c.pages)-1]
	p.Lines = append(p.Lines, Line{Text: text, X: c.layout.Margin, Y: c.y, Size: size, Bold: bold})
	c.y -= c.layout.Leading
}

// Paginate places the whole document and returns its pages.
func (l Layout) Paginate(doc Document, measure MeasureFunc) []Page {
	c := &cursor{layout: l, pages: []Page{{}}, y: l.Top}

	for _, line := range l.Wrap(doc.Title, l.TitleSize, true, measure) {
		c.place(line, l.TitleSize, true)
	}
	if !doc.Generated.IsZero() {
		c.place(GeneratedLine(doc.Generated), l.BodySize, false)
	}
	c.y -= l.ParagraphGap

	for _, sec := range doc.Sections {
		if strings.TrimSpace(sec.Body) == "" {
			continue
		}
		if sec.Heading != "" {
			c.place(sec.Heading, l.HeadingSize, true)
		}
		for _, para := range strings.Split(sec.Body, "\n") {
			lines := l.Wrap(para, l.BodySize, false, measure)
			for _, line := range lines {
				c.place(line, l.BodySize, false)
			}
			if len(lines) > 0 {
				c.y -= l.ParagraphGap
			}
		}
	}
	return c.pages
}
