package server

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/bobmcallan/tickerboard/internal/models"
	"github.com/bobmcallan/tickerboard/internal/services/dashboard"
)

//go:embed web
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/templates/index.html"))

const themeCookieMaxAge = 365 * 24 * 60 * 60

func staticHandler() http.Handler {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// handleIndex renders the dashboard for ?symbol=&range=.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	sel := dashboard.SelectionFromQuery(r.URL.Query(), s.app.Dashboard.Symbols())
	page := s.app.Dashboard.Page(r.Context(), sel, s.resolveTheme(r))

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render dashboard")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Accept-CH", dashboard.ColorSchemeHint)
	w.Write(buf.Bytes())
}

// resolveTheme picks the saved cookie, then the client colour-scheme hint,
// then the configured default.
func (s *Server) resolveTheme(r *http.Request) string {
	saved := ""
	if c, err := r.Cookie(dashboard.ThemeCookie); err == nil {
		saved = c.Value
	}
	hint := r.Header.Get(dashboard.ColorSchemeHint)
	if hint == "" {
		hint = s.app.Config.Dashboard.DefaultTheme
	}
	return dashboard.ResolveTheme(saved, hint)
}

// handleThemeToggle handles POST /theme: flips the theme cookie and returns
// to the page the form was posted from.
func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	next := dashboard.Toggle(s.resolveTheme(r))
	http.SetCookie(w, &http.Cookie{
		Name:     dashboard.ThemeCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   themeCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, safeReturnPath(r.FormValue("return")), http.StatusSeeOther)
}

// safeReturnPath only allows local absolute paths.
func safeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.ContainsAny(p, "\\\r\n") {
		return "/"
	}
	return p
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	s.handleChartImage(w, r, "image/png", s.app.Renderer.WritePNG)
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	s.handleChartImage(w, r, "image/svg+xml", s.app.Renderer.WriteSVG)
}

type frameWriter func(w io.Writer, frame models.ChartFrame, theme string) error

// handleChartImage draws the chart for ?symbol=&range=&theme=. The image is
// drawn from its own frame and never touches the main chart surface.
func (s *Server) handleChartImage(w http.ResponseWriter, r *http.Request, contentType string, draw frameWriter) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	q := r.URL.Query()
	sel := dashboard.SelectionFromQuery(q, s.app.Dashboard.Symbols())
	theme := q.Get("theme")
	if theme != dashboard.ThemeDark && theme != dashboard.ThemeLight {
		theme = s.resolveTheme(r)
	}

	frame := s.app.Dashboard.ChartFrame(r.Context(), sel)

	var buf bytes.Buffer
	if err := draw(&buf, frame, theme); err != nil {
		s.logger.Error().Err(err).Str("symbol", sel.Symbol).Str("range", string(sel.Range)).Msg("Failed to draw chart")
		WriteError(w, http.StatusInternalServerError, "Failed to draw chart")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
