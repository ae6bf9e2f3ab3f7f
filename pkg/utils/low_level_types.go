package utils

import (
	"fmt"
	"unicode/utf8"
)

type Range[T any] struct {
	Min *T
	Max *T
}

// XError carries a reason plus whatever the failing collaborator returned.
// Meta is kept reachable through errors.Is/As when it is an error.
type XError struct {
	Reason string
	Meta   any
}

func (xe XError) ToError() error {
	if err, ok := xe.Meta.(error); ok {
		return fmt.Errorf("xerror: %v: %w", xe.Reason, err)
	}
	return fmt.Errorf("xerror: %v\nmeta: %v", xe.Reason, xe.Meta)
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Ellipsize is Truncate plus a trailing "..." when something was cut, for logs.
func Ellipsize(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return Truncate(s, n) + "..."
}
