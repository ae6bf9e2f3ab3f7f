// Package transcript cleans raw speech-recognition output before it is
// summarized, translated or exported.
//
// ASR models tend to loop on silence and noise, so a transcript can carry
// duplicated sentences and phrases repeated verbatim several times in a
// row. Normalize folds those back into a single occurrence.
package transcript

import (
	"errors"
	"strings"
)

// ErrEmptyTranscript is returned when nothing usable is left of a
// transcript, either because the recognizer produced blank text or because
// every sentence was filtered out.
var ErrEmptyTranscript = errors.New("empty transcript")

// Normalize runs the cleanup pipeline over raw:
//
//	whitespace -> sentence dedup -> phrase windows (5-15, 3-8, 1-3) -> words
//
// The cascade is repeated until it stops changing the text, so a repeat
// that only appears once a narrower pass has run is folded as well and
// Normalize(Normalize(x)) == Normalize(x). Every round after the first can
// only remove text, which bounds the number of rounds.
//
// Normalize is pure and safe for concurrent use.
func Normalize(raw string) string {
	text := pass(raw)
	for {
		next := pass(text)
		if next == text {
			return text
		}
		text = next
	}
}

func pass(s string) string {
	s = NormalizeWhitespace(s)
	s = DedupeSentences(s)
	for _, w := range PhraseWindows {
		s = CollapsePhrases(s, w)
	}
	s = CollapseWords(s)
	return strings.TrimSpace(s)
}

// Clean normalizes raw and enforces the empty-transcript contract: blank
// input, or input that normalizes to nothing, yields ErrEmptyTranscript.
func Clean(raw string) (string, error) {
	if IsBlank(raw) {
		return "", ErrEmptyTranscript
	}
	text := Normalize(raw)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

// IsBlank reports whether s holds nothing but whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Join concatenates per-chunk transcripts with single spaces, skipping
// blank chunks.
func Join(chunks []string) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
