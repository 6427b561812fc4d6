package config

import "strings"

// Position is one of the seven screen-anchor zones for toasts and dialogs.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopRight     Position = "top-right"
	PositionTopCenter    Position = "top-center"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
	PositionCenter       Position = "center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionTopCenter,
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
		PositionCenter,
	}
}

// Valid reports whether p is one of the seven positions.
func (p Position) Valid() bool {
	for _, v := range ValidPositions() {
		if p == v {
			return true
		}
	}
	return false
}

// IsTop reports whether the position is anchored to the top edge.
func (p Position) IsTop() bool {
	return strings.HasPrefix(string(p), "top-")
}

// IsBottom reports whether the position is anchored to the bottom edge.
func (p Position) IsBottom() bool {
	return strings.HasPrefix(string(p), "bottom-")
}

// ParsePosition parses a position name case-insensitively.
func ParsePosition(name string) (Position, bool) {
	p := Position(strings.ToLower(strings.TrimSpace(name)))
	return p, p.Valid()
}

// NormalizePosition returns the parsed position, or fallback if name is invalid.
// An empty name also yields fallback.
func NormalizePosition(name string, fallback Position) Position {
	if p, ok := ParsePosition(name); ok {
		return p
	}
	return fallback
}

// LiveRegion is the politeness of the accessibility live region announcing toasts.
type LiveRegion string

const (
	LiveRegionPolite    LiveRegion = "polite"
	LiveRegionAssertive LiveRegion = "assertive"
)

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}
