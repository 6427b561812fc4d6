package model

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input  string
		want   Kind
		wantOK bool
	}{
		{"success", KindSuccess, true},
		{"ERROR", KindError, true},
		{" warning ", KindWarning, true},
		{"custom", KindCustom, true},
		{"fatal", DefaultKind, false},
		{"", DefaultKind, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseKind(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestKind_Valid(t *testing.T) {
	for _, k := range ValidKinds() {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, Kind("purple").Valid())
}

func TestNormalizeTheme(t *testing.T) {
	assert.Equal(t, ThemeLight, NormalizeTheme("light"))
	assert.Equal(t, ThemeLight, NormalizeTheme("Light"))
	assert.Equal(t, ThemeDark, NormalizeTheme("dark"))
	assert.Equal(t, ThemeDark, NormalizeTheme("solarized"))
	assert.Equal(t, ThemeDark, NormalizeTheme(""))
}

type stringer struct{}

func (stringer) String() string { return "from stringer" }

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "hello", Text("hello"))
	assert.Equal(t, "boom", Text(errors.New("boom")))
	assert.Equal(t, "from stringer", Text(stringer{}))
	assert.Equal(t, "42", Text(42))
	assert.Equal(t, "true", Text(true))
}

type panicky struct{}

func (panicky) String() string { panic("broken stringer") }

func TestText_NeverPanics(t *testing.T) {
	var sb *strings.Builder
	var perr *os.PathError
	var nilStringer fmt.Stringer = sb

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil builder", sb, ""},
		{"nil path error", perr, ""},
		{"nil stringer in interface", nilStringer, ""},
		{"panicking stringer", panicky{}, "%!v(PANIC=String method: broken stringer)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, Text(tt.input))
			})
		})
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("  \n\t"))
	assert.False(t, IsBlank(" x "))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 8, "hello..."},
		{"tiny limit", "hello", 2, "he"},
		{"disabled", "hello world", 0, "hello world"},
		{"multibyte", "héllo wörld", 6, "hél..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	require.NotEqual(t, a, b)

	_, err := ulid.Parse(a)
	assert.NoError(t, err)
}
