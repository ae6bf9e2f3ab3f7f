package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinSentenceLength is the shortest trimmed sentence, in characters, that
// survives deduplication. Shorter units are stray fragments.
const MinSentenceLength = 5

// SplitSentences cuts s after every '.', '!' or '?' that is followed by
// whitespace. The punctuation stays with its sentence and the whitespace
// run between sentences is dropped.
func SplitSentences(s string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(s); i++ {
		if !isTerminator(s[i]) {
			continue
		}
		next, size := utf8.DecodeRuneInString(s[i+1:])
		if size == 0 || !unicode.IsSpace(next) {
			continue
		}
		sentences = append(sentences, s[start:i+1])

		j := i + 1
		for j < len(s) {
			r, size := utf8.DecodeRuneInString(s[j:])
			if !unicode.IsSpace(r) {
				break
			}
			j += size
		}
		start = j
		i = j - 1
	}
	return append(sentences, s[start:])
}

// DedupeSentences drops sentences shorter than MinSentenceLength and every
// sentence whose lowercase form was already seen, keeping the first
// occurrence with its original casing. Survivors are joined by one space.
func DedupeSentences(s string) string {
	seen := make(map[string]struct{})
	kept := make([]string, 0)

	for _, sentence := range SplitSentences(s) {
		sentence = strings.TrimSpace(sentence)
		if utf8.RuneCountInString(sentence) < MinSentenceLength {
			continue
		}
		key := strings.ToLower(sentence)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, sentence)
	}

	return strings.Join(kept, " ")
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}
