package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/xpanvictor/lecturenotes/pkg/transcript"
)

const translateInstruction = "Translate the user's text into %s. Reply with the translation only."

// languageCodes maps the names some transcribers report to ISO 639-1 codes.
var languageCodes = map[string]string{
	"english":    "en",
	"french":     "fr",
	"german":     "de",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"russian":    "ru",
	"chinese":    "zh",
	"japanese":   "ja",
	"korean":     "ko",
	"arabic":     "ar",
	"hindi":      "hi",
	"yoruba":     "yo",
	"hausa":      "ha",
	"igbo":       "ig",
	"swahili":    "sw",
}

// NormalizeLanguage lowercases a language and turns known names into codes.
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

type TranslateOptions struct {
	// ChunkSize bounds each request in characters; sentences are never split.
	ChunkSize int
}

type Translator struct {
	gen  Generator
	opts TranslateOptions
}

func NewTranslator(gen Generator, opts TranslateOptions) *Translator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1000
	}
	return &Translator{gen: gen, opts: opts}
}

// NeedsTranslation reports whether text in source has to go to target.
// Non-Latin targets only render in PDF exports when a UTF-8 font is
// configured (pdf.Font); the core font covers cp1252.
func NeedsTranslation(source, target string) bool {
	target = NormalizeLanguage(target)
	return target != "" && target != NormalizeLanguage(source)
}

// Translate returns text unchanged when no translation is needed.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if !NeedsTranslation(source, target) {
		return text, nil
	}
	if transcript.IsBlank(text) {
		return "", transcript.ErrEmptyTranscript
	}
	target = NormalizeLanguage(target)

	chunks := chunkSentences(transcript.SplitSentences(text), t.opts.ChunkSize)
	out := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		resp, err := t.gen.Generate(ctx, Request{
			Task:          TaskTranslate,
			Instruction:   fmt.Sprintf(translateInstruction, target),
			Input:         chunk,
			Language:      target,
			Deterministic: true,
		})
		if err != nil {
			return "", fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if resp == nil || transcript.IsBlank(resp.Text) {
			return "", ErrEmptyResponse
		}
		out = append(out, resp.Text)
	}
	return transcript.Join(out), nil
}

func chunkSentences(sentences []string, size int) []string {
	var chunks []string
	var cur strings.Builder
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if cur.Len() > 0 && cur.Len()+1+len(s) > size {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(s)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
