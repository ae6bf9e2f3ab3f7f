package lecture

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xpanvictor/lecturenotes/pkg/io/stt"
	"github.com/xpanvictor/lecturenotes/pkg/transcript"
)

func TestPipelineGenerate(t *testing.T) {
	p := newPipeline(&scriptedTranscriber{text: lectureText}, &taskGenerator{})
	notes, err := p.Generate(context.Background(), stt.AudioInput{
		Data: []byte("audio"), Filename: "thermo.wav", Language: "en",
	}, "de")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if notes.Language != "en" || notes.Duration != time.Minute {
		t.Errorf("unexpected metadata %+v", notes)
	}
	if !strings.HasPrefix(notes.Summary, "### Summary\n") || !strings.HasPrefix(notes.Questions, "### Questions\n") {
		t.Errorf("unexpected sections %q %q", notes.Summary, notes.Questions)
	}
	if !strings.HasPrefix(notes.Translation, "[de] ") {
		t.Errorf("unexpected translation %q", notes.Translation)
	}
	if notes.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt")
	}
}

func TestPipelineEmptyTranscript(t *testing.T) {
	p := newPipeline(&scriptedTranscriber{text: "   "}, &taskGenerator{})
	_, err := p.Generate(context.Background(), stt.AudioInput{Data: []byte("a"), Filename: "a.wav"}, "")
	if !errors.Is(err, transcript.ErrEmptyTranscript) {
		t.Errorf("expected ErrEmptyTranscript, got %v", err)
	}
}

func TestNotesDocument(t *testing.T) {
	n := &Notes{
		Filename:       "thermo.wav",
		TargetLanguage: "fr",
		Summary:        "### Summary\n- Entropy measures disorder\n",
		Questions:      "### Questions\n- What is entropy?\n",
		Transcript:     "Today we discuss entropy.",
		Translation:    "Aujourd'hui nous parlons d'entropie.",
	}
	doc := n.Document("Lecture Notes", time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC))
	if doc.Title != "Lecture Notes: thermo.wav" {
		t.Errorf("unexpected title %q", doc.Title)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Body != "- Entropy measures disorder" {
		t.Errorf("markdown heading not stripped: %q", doc.Sections[0].Body)
	}
	if doc.Sections[3].Heading != "TRANSLATION (FR)" {
		t.Errorf("unexpected heading %q", doc.Sections[3].Heading)
	}

	n.Translation = ""
	if got := len(n.Document("T", time.Now()).Sections); got != 3 {
		t.Errorf("expected translation section to be omitted, got %d sections", got)
	}
}
