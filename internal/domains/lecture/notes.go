package lecture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xpanvictor/lecturenotes/pkg/assistant"
	"github.com/xpanvictor/lecturenotes/pkg/io/stt"
	"github.com/xpanvictor/lecturenotes/pkg/transcript"
)

// Pipeline holds the collaborators that turn audio into notes.
type Pipeline struct {
	Transcriber stt.Transcriber
	Summarizer  *assistant.Summarizer
	Questions   *assistant.QuestionGenerator
	Translator  *assistant.Translator
}

// Notes is the synchronous result used by the CLI.
type Notes struct {
	Filename       string        `json:"filename" yaml:"filename"`
	Language       string        `json:"language,omitempty" yaml:"language,omitempty"`
	TargetLanguage string        `json:"targetLanguage,omitempty" yaml:"target_language,omitempty"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
	RawTranscript  string        `json:"rawTranscript" yaml:"raw_transcript"`
	Transcript     string        `json:"transcript" yaml:"transcript"`
	Summary        string        `json:"summary" yaml:"summary"`
	Questions      string        `json:"questions" yaml:"questions"`
	Translation    string        `json:"translation,omitempty" yaml:"translation,omitempty"`
	GeneratedAt    time.Time     `json:"generatedAt" yaml:"generated_at"`
}

// Transcribe runs speech to text and cleans the result. An empty cleaned
// transcript is returned as transcript.ErrEmptyTranscript.
func (p *Pipeline) Transcribe(ctx context.Context, in stt.AudioInput) (raw, clean, language string, dur time.Duration, err error) {
	res, err := p.Transcriber.Transcribe(ctx, in)
	if err != nil {
		if errors.Is(err, stt.ErrEmptyResult) {
			return "", "", "", 0, fmt.Errorf("transcribe %s: %w", in.Filename, transcript.ErrEmptyTranscript)
		}
		return "", "", "", 0, fmt.Errorf("transcribe %s: %w", in.Filename, err)
	}
	clean, err = transcript.Clean(res.Text)
	if err != nil {
		return res.Text, "", res.Language, res.Duration, err
	}
	language = in.Language
	if language == "" {
		language = res.Language
	}
	return res.Text, clean, language, res.Duration, nil
}

// Generate runs the whole pipeline without persistence.
func (p *Pipeline) Generate(ctx context.Context, in stt.AudioInput, target string) (*Notes, error) {
	raw, clean, lang, dur, err := p.Transcribe(ctx, in)
	if err != nil {
		return nil, err
	}
	notes := &Notes{
		Filename:       in.Filename,
		Language:       lang,
		TargetLanguage: target,
		Duration:       dur,
		RawTranscript:  raw,
		Transcript:     clean,
	}

	if notes.Summary, err = p.Summarizer.Summarize(ctx, clean); err != nil {
		return nil, err
	}
	if notes.Questions, err = p.Questions.Questions(ctx, clean); err != nil {
		return nil, err
	}
	if assistant.NeedsTranslation(lang, target) {
		if notes.Translation, err = p.Translator.Translate(ctx, clean, lang, target); err != nil {
			return nil, err
		}
	}
	notes.GeneratedAt = time.Now()
	return notes, nil
}
