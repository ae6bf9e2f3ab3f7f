package lecture

import (
	"strings"
	"time"

	"github.com/xpanvictor/lecturenotes/pkg/io/pdf"
)

// sectionBody drops the markdown heading the generators put first; the
// PDF prints its own.
func sectionBody(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Document lays notes out for the PDF renderer.
func (n *Notes) Document(title string, now time.Time) pdf.Document {
	if n.Filename != "" {
		title = title + ": " + n.Filename
	}
	doc := pdf.Document{
		Title:     title,
		Generated: now,
		Sections: []pdf.Section{
			{Heading: "SUMMARY", Body: sectionBody(n.Summary)},
			{Heading: "QUESTIONS", Body: sectionBody(n.Questions)},
			{Heading: "TRANSCRIPT", Body: n.Transcript},
		},
	}
	if n.Translation != "" {
		doc.Sections = append(doc.Sections, pdf.Section{
			Heading: "TRANSLATION (" + strings.ToUpper(n.TargetLanguage) + ")",
			Body:    n.Translation,
		})
	}
	return doc
}

func (l *Lecture) Notes() *Notes {
	return &Notes{
		Filename:       l.Filename,
		Language:       l.Language,
		TargetLanguage: l.TargetLanguage,
		RawTranscript:  l.RawTranscript,
		Transcript:     l.Transcript,
		Summary:        l.Summary,
		Questions:      l.Questions,
		Translation:    l.Translation,
		GeneratedAt:    l.UpdatedAt,
	}
}
