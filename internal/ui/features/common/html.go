package common

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// HTML writes markup to w and remembers the first write error, so
// components can emit a sequence of fragments and check once at the end.
type HTML struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewHTML wraps w.
func NewHTML(ctx context.Context, w io.Writer) *HTML {
	return &HTML{ctx: ctx, w: w}
}

// Raw writes s unescaped.
func (h *HTML) Raw(s string) *HTML {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
	return h
}

// Rawf writes formatted markup. Arguments are not escaped.
func (h *HTML) Rawf(format string, args ...any) *HTML {
	return h.Raw(fmt.Sprintf(format, args...))
}

// Text writes s escaped for HTML content and attribute values.
func (h *HTML) Text(s string) *HTML {
	return h.Raw(templ.EscapeString(s))
}

// Component renders c in place.
func (h *HTML) Component(c templ.Component) *HTML {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
	return h
}

// Err returns the first write error.
func (h *HTML) Err() error {
	return h.err
}

// Component builds a templ component from a function writing through HTML.
func Component(fn func(h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(ctx, w)
		fn(h)
		return h.Err()
	})
}

// Attr escapes s for use inside a double-quoted attribute.
func Attr(s string) string {
	return templ.EscapeString(s)
}
