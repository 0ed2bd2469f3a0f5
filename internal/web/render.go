package web

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as the HTML response.
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return component.Render(c.Request().Context(), c.Response())
}

// html accumulates markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s HTML-escaped, suitable for element content and quoted
// attribute values.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// path writes a route with id path-escaped, for hx-* attributes.
func (h *html) path(prefix, id, suffix string) {
	h.text(prefix + url.PathEscape(id) + suffix)
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}
