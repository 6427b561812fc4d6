package model

import (
	"crypto/rand"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID returns a new time-ordered ULID string used as an opaque handle.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// Text coerces an arbitrary message value to display text.
// Strings pass through and nil, including a nil pointer, is empty. Errors,
// fmt.Stringers and anything else are formatted with fmt.Sprint, which
// turns a panicking Error or String method into text instead of a crash.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ""
	}
	return fmt.Sprint(v)
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Truncate shortens s to at most maxLen runes.
// If s is longer, it is cut and "..." is appended within the limit.
// A maxLen of zero or less disables truncation.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
