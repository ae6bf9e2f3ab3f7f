package transcript

import "strings"

// Window bounds the length, in words, of the phrases one collapsing pass
// looks for.
type Window struct {
	MinWords int
	MaxWords int
}

// PhraseWindows are applied in order, widest first, so a long loop is
// folded before a shorter window can latch onto a prefix it shares with
// a different long phrase.
var PhraseWindows = []Window{
	{MinWords: 5, MaxWords: 15},
	{MinWords: 3, MaxWords: 8},
	{MinWords: 1, MaxWords: 3},
}

// WordWindow is the final single-token pass.
var WordWindow = Window{MinWords: 1, MaxWords: 1}

// CollapsePhrases scans s left to right for a phrase of w.MinWords to
// w.MaxWords tokens that is immediately followed by one or more
// case-insensitive copies of itself and replaces the whole run with the
// first copy. At each position the longest repeating phrase wins.
//
// Tokens are the pieces between single spaces, so s is expected to be
// whitespace-normalized. An empty token, left by a doubled space, never
// takes part in a repeat.
func CollapsePhrases(s string, w Window) string {
	if s == "" || w.MinWords < 1 || w.MaxWords < w.MinWords {
		return s
	}

	tokens := strings.Split(s, " ")
	out := make([]string, 0, len(tokens))

	for i := 0; i < len(tokens); {
		n, end := longestRun(tokens, i, w)
		if n == 0 {
			out = append(out, tokens[i])
			i++
			continue
		}
		out = append(out, tokens[i:i+n]...)
		i = end
	}

	return strings.Join(out, " ")
}

// CollapseWords folds immediately repeated single tokens.
func CollapseWords(s string) string {
	return CollapsePhrases(s, WordWindow)
}

// longestRun returns the phrase length and the end index of the longest
// repeated run starting at i, or zero when no phrase in the window
// repeats there.
func longestRun(tokens []string, i int, w Window) (int, int) {
	maxWords := w.MaxWords
	if room := (len(tokens) - i) / 2; room < maxWords {
		maxWords = room
	}

	for n := maxWords; n >= w.MinWords; n-- {
		if !usable(tokens[i : i+n]) {
			continue
		}
		end := i + n
		for end+n <= len(tokens) && equalPhrase(tokens[i:i+n], tokens[end:end+n]) {
			end += n
		}
		if end > i+n {
			return n, end
		}
	}
	return 0, i
}

func usable(phrase []string) bool {
	for _, tok := range phrase {
		if tok == "" {
			return false
		}
	}
	return true
}

func equalPhrase(a, b []string) bool {
	for k := range a {
		if !strings.EqualFold(a[k], b[k]) {
			return false
		}
	}
	return true
}
