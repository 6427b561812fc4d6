// Package animation maps screen positions to named entrance, exit and
// attention animations. It is stateless.
package animation

import (
	"strings"
	"time"

	"github.com/jmylchreest/toastui/internal/config"
)

// Name identifies an animation the renderer knows how to play.
type Name string

const (
	SlideInUp     Name = "slide-in-up"
	SlideInDown   Name = "slide-in-down"
	SlideInLeft   Name = "slide-in-left"
	SlideInRight  Name = "slide-in-right"
	ScaleIn       Name = "scale-in"
	SlideOutUp    Name = "slide-out-up"
	SlideOutDown  Name = "slide-out-down"
	SlideOutLeft  Name = "slide-out-left"
	SlideOutRight Name = "slide-out-right"
	ScaleOutDown  Name = "scale-out-down"
	Shake         Name = "shake"
)

// Timing holds the fixed durations the core waits for before acting on an
// animation's completion.
type Timing struct {
	Entrance  time.Duration
	Exit      time.Duration
	Attention time.Duration
}

// DefaultTiming returns the built-in durations.
func DefaultTiming() Timing {
	return Timing{
		Entrance:  config.DefaultEntranceDuration,
		Exit:      config.DefaultExitDuration,
		Attention: config.DefaultAttentionDuration,
	}
}

// TimingFrom converts the [animation] config section.
// Negative values fall back to the defaults.
func TimingFrom(cfg config.AnimationConfig) Timing {
	def := DefaultTiming()
	return Timing{
		Entrance:  config.NormalizeTimeout(cfg.Entrance.Duration(), def.Entrance),
		Exit:      config.NormalizeTimeout(cfg.Exit.Duration(), def.Exit),
		Attention: config.NormalizeTimeout(cfg.Attention.Duration(), def.Attention),
	}
}

// Exit returns the exit animation for position. Top and bottom anchors take
// precedence over the horizontal one; center shrinks downward.
//
// The sideways exits apply to positions anchored only to the left or right
// edge. None of config.ValidPositions is, so today they are reached only by
// positions that callers build themselves; NormalizePosition never yields one.
func Exit(position config.Position) Name {
	switch {
	case position == config.PositionCenter:
		return ScaleOutDown
	case position.IsBottom():
		return SlideOutDown
	case position.IsTop():
		return SlideOutUp
	case strings.HasSuffix(string(position), "-left"):
		return SlideOutLeft
	case strings.HasSuffix(string(position), "-right"):
		return SlideOutRight
	default:
		return ScaleOutDown
	}
}

// Entrance returns the animation that mirrors Exit for position.
func Entrance(position config.Position) Name {
	switch Exit(position) {
	case SlideOutDown:
		return SlideInUp
	case SlideOutUp:
		return SlideInDown
	case SlideOutLeft:
		return SlideInRight
	case SlideOutRight:
		return SlideInLeft
	default:
		return ScaleIn
	}
}

// Attention returns the animation replayed on an already open dialog.
func Attention() Name {
	return Shake
}

// IsExit reports whether n leaves the element hidden when it finishes.
func (n Name) IsExit() bool {
	switch n {
	case SlideOutUp, SlideOutDown, SlideOutLeft, SlideOutRight, ScaleOutDown:
		return true
	}
	return false
}
