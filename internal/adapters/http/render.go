package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gudlft/internal/adapters/http/middleware"
	"gudlft/internal/domain/competition"
)

//go:embed templates/*.html
var templateFS embed.FS

// staticFS holds static/; FileServerFS maps /static/x to static/x.
//
//go:embed static
var staticFS embed.FS

// mdRenderer renders competition descriptions. Raw HTML in the input is
// escaped because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// pageNames lists every page rendered inside layout.html.
var pageNames = []string{
	"index.html",
	"welcome.html",
	"booking.html",
	"points_board.html",
	"error.html",
}

// baseFuncs declares the template functions; request-bound ones are replaced per render.
var baseFuncs = template.FuncMap{
	"csrfField":      func() template.HTML { return "" },
	"currentEmail":   func() string { return "" },
	"isLoggedIn":     func() bool { return false },
	"renderMarkdown": renderMarkdown,
	"formatDate":     competition.FormatDate,
	"pathEscape":     url.PathEscape,
}

var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		out[name] = template.Must(template.New("layout.html").Funcs(baseFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return out
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// renderTemplate executes a page into a buffer and writes it with status.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	page, ok := pages[name]
	if !ok {
		internalError(w, errUnknownTemplate(name))
		return
	}
	tpl, err := page.Clone()
	if err != nil {
		internalError(w, err)
		return
	}

	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	tpl.Funcs(template.FuncMap{
		"csrfField":    func() template.HTML { return csrf.TemplateField(r) },
		"currentEmail": func() string { return sess.Email },
		"isLoggedIn":   func() bool { return loggedIn },
	})

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("render_write_failed", "page", name, "error", err)
	}
}

type errUnknownTemplate string

func (e errUnknownTemplate) Error() string { return "unknown template " + string(e) }

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
