package confirm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
)

// Request is the canonical form of a confirmation call.
type Request struct {
	Message        string
	Description    string
	ConfirmLabel   string
	CancelLabel    string
	Theme          model.Theme
	Position       config.Position
	PrimaryColor   string
	SecondaryColor string
	Result         ResultChannel // nil when the caller wants no callbacks
	InitialLoading bool
}

// Defaults fill in what a request leaves unset.
type Defaults struct {
	ConfirmLabel string
	CancelLabel  string
	Theme        model.Theme
	Position     config.Position
}

// DefaultsFrom converts the [confirm] config section.
func DefaultsFrom(cfg config.ConfirmConfig) Defaults {
	d := Defaults{
		ConfirmLabel: strings.TrimSpace(cfg.ConfirmLabel),
		CancelLabel:  strings.TrimSpace(cfg.CancelLabel),
		Theme:        model.NormalizeTheme(cfg.Theme),
		Position:     config.NormalizePosition(cfg.Position, config.PositionCenter),
	}
	if d.ConfirmLabel == "" {
		d.ConfirmLabel = config.DefaultConfirmLabel
	}
	if d.CancelLabel == "" {
		d.CancelLabel = config.DefaultCancelLabel
	}
	return d
}

// Options is the parameter object accepted by Controller.Confirm.
// OnConfirm or OnCancel, when either is set, take precedence over Callback.
type Options struct {
	Description    string
	ConfirmLabel   string
	CancelLabel    string
	Theme          string
	Position       string
	PrimaryColor   string
	SecondaryColor string
	OnConfirm      ConfirmFunc
	OnCancel       CancelFunc
	Callback       DecisionFunc
	InitialLoading bool
}

// RequestBuilder assembles a Request field by field.
type RequestBuilder struct {
	message        string
	description    string
	confirmLabel   string
	cancelLabel    string
	theme          string
	position       string
	primary        string
	secondary      string
	onConfirm      ConfirmFunc
	onCancel       CancelFunc
	callback       DecisionFunc
	initialLoading bool
}

// NewRequest starts a request for message.
func NewRequest(message string) *RequestBuilder {
	return &RequestBuilder{message: message}
}

// Description sets the secondary text.
func (b *RequestBuilder) Description(description string) *RequestBuilder {
	b.description = description
	return b
}

// Labels sets the button labels. Empty labels keep the defaults.
func (b *RequestBuilder) Labels(confirm, cancel string) *RequestBuilder {
	b.confirmLabel, b.cancelLabel = confirm, cancel
	return b
}

// Theme sets the theme name. Anything but "light" becomes dark.
func (b *RequestBuilder) Theme(theme string) *RequestBuilder {
	b.theme = theme
	return b
}

// Position sets the position name. Unknown names fall back to the default.
func (b *RequestBuilder) Position(position string) *RequestBuilder {
	b.position = position
	return b
}

// Colors sets the custom gradient colors.
func (b *RequestBuilder) Colors(primary, secondary string) *RequestBuilder {
	b.primary, b.secondary = primary, secondary
	return b
}

// OnConfirm sets the confirm handler of a split result channel.
func (b *RequestBuilder) OnConfirm(fn ConfirmFunc) *RequestBuilder {
	b.onConfirm = fn
	return b
}

// OnCancel sets the cancel handler of a split result channel.
func (b *RequestBuilder) OnCancel(fn CancelFunc) *RequestBuilder {
	b.onCancel = fn
	return b
}

// Callback sets a unified handler. It is ignored when a split handler is set.
func (b *RequestBuilder) Callback(fn DecisionFunc) *RequestBuilder {
	b.callback = fn
	return b
}

// InitialLoading opens the dialog already loading, with the caller in control.
func (b *RequestBuilder) InitialLoading(loading bool) *RequestBuilder {
	b.initialLoading = loading
	return b
}

// Options applies every non-zero field of o.
func (b *RequestBuilder) Options(o Options) *RequestBuilder {
	if o.Description != "" {
		b.description = o.Description
	}
	if o.ConfirmLabel != "" {
		b.confirmLabel = o.ConfirmLabel
	}
	if o.CancelLabel != "" {
		b.cancelLabel = o.CancelLabel
	}
	if o.Theme != "" {
		b.theme = o.Theme
	}
	if o.Position != "" {
		b.position = o.Position
	}
	if o.PrimaryColor != "" || o.SecondaryColor != "" {
		b.primary, b.secondary = o.PrimaryColor, o.SecondaryColor
	}
	if o.OnConfirm != nil || o.OnCancel != nil || o.Callback != nil {
		b.onConfirm, b.onCancel, b.callback = o.OnConfirm, o.OnCancel, o.Callback
	}
	if o.InitialLoading {
		b.initialLoading = true
	}
	return b
}

// Build resolves the request against d. The returned Request is always
// usable; the error describes any value that was replaced by a default.
func (b *RequestBuilder) Build(d Defaults) (Request, error) {
	var problems []error

	req := Request{
		Message:        strings.TrimSpace(b.message),
		Description:    strings.TrimSpace(b.description),
		ConfirmLabel:   strings.TrimSpace(b.confirmLabel),
		CancelLabel:    strings.TrimSpace(b.cancelLabel),
		Theme:          d.Theme,
		Position:       d.Position,
		PrimaryColor:   b.primary,
		SecondaryColor: b.secondary,
		InitialLoading: b.initialLoading,
	}
	if req.ConfirmLabel == "" {
		req.ConfirmLabel = d.ConfirmLabel
	}
	if req.CancelLabel == "" {
		req.CancelLabel = d.CancelLabel
	}

	if b.theme != "" {
		req.Theme = model.NormalizeTheme(b.theme)
		if !strings.EqualFold(strings.TrimSpace(b.theme), string(req.Theme)) {
			problems = append(problems, fmt.Errorf("unknown theme %q, using %s", b.theme, req.Theme))
		}
	}
	if b.position != "" {
		if pos, ok := config.ParsePosition(b.position); ok {
			req.Position = pos
		} else {
			problems = append(problems, fmt.Errorf("unknown position %q, using %s", b.position, d.Position))
		}
	}

	switch {
	case b.onConfirm != nil || b.onCancel != nil:
		req.Result = Split{OnConfirm: b.onConfirm, OnCancel: b.onCancel}
	case b.callback != nil:
		req.Result = Unified{Fn: b.callback}
	}

	return req, errors.Join(problems...)
}

// Parse resolves the supported call shapes into a builder:
//
//	Confirm(msg)
//	Confirm(msg, callback)
//	Confirm(msg, description, callback)
//	Confirm(msg, options)
//	Confirm(msg, description, options)
//
// The shape is chosen by argument type. When a positional description and an
// options description are both given, the options value wins. Arguments of
// unsupported types are reported and ignored.
func Parse(message any, args ...any) (*RequestBuilder, error) {
	b := NewRequest(model.Text(message))
	var (
		problems []error
		opts     []Options
	)

	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
		case string:
			b.Description(v)
		case fmt.Stringer:
			b.Description(model.Text(v))
		case Options:
			opts = append(opts, v)
		case *Options:
			if v != nil {
				opts = append(opts, *v)
			}
		case DecisionFunc:
			b.Callback(v)
		case func(bool, *Handle) (Awaitable, error):
			b.Callback(v)
		case func(bool):
			b.Callback(func(confirmed bool, _ *Handle) (Awaitable, error) {
				v(confirmed)
				return nil, nil
			})
		case ConfirmFunc:
			b.OnConfirm(v)
		case func(*Handle) (Awaitable, error):
			b.OnConfirm(v)
		default:
			problems = append(problems, fmt.Errorf("ignoring argument %d of unsupported type %T", i+1, arg))
		}
	}

	// Options are the source of truth, whatever their position.
	for _, o := range opts {
		b.Options(o)
	}

	return b, errors.Join(problems...)
}
