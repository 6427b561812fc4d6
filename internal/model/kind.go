// Package model defines the core value types shared by toastui components.
package model

import "strings"

// Kind is the semantic category of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindDark    Kind = "dark"
	KindLight   Kind = "light"
	KindCustom  Kind = "custom"
)

// DefaultKind is substituted when a caller passes an unknown kind.
const DefaultKind = KindInfo

// ValidKinds returns all valid kind values.
func ValidKinds() []Kind {
	return []Kind{
		KindSuccess,
		KindError,
		KindInfo,
		KindWarning,
		KindDark,
		KindLight,
		KindCustom,
	}
}

// Valid reports whether k is one of the enumerated kinds.
func (k Kind) Valid() bool {
	for _, v := range ValidKinds() {
		if k == v {
			return true
		}
	}
	return false
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// ParseKind parses a kind name case-insensitively.
// Returns DefaultKind and false if the name is not recognised.
func ParseKind(name string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if k.Valid() {
		return k, true
	}
	return DefaultKind, false
}

// Theme is the binary color theme of a confirmation dialog.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// NormalizeTheme maps any input onto dark or light.
// Only "light" (case-insensitive) yields ThemeLight; everything else is dark.
func NormalizeTheme(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), string(ThemeLight)) {
		return ThemeLight
	}
	return ThemeDark
}
