package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageIndex         = "index"
	PageSignup        = "signup"
	PageLogin         = "login"
	PageSongs         = "songs"
	PagePhotos        = "photos"
	PageConcerts      = "concerts"
	PageConcertDetail = "concert_detail"
)

var pages = []string{
	PageIndex, PageSignup, PageLogin, PageSongs, PagePhotos, PageConcerts, PageConcertDetail,
}

// Data is the template context of a page.
type Data map[string]any

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages         map[string]*template.Template
	authenticated func(*http.Request) bool
}

// NewRenderer parses every page. authenticated decides whether the layout
// shows the logged-in navigation.
func NewRenderer(authenticated func(*http.Request) bool) (*Renderer, error) {
	rd := &Renderer{
		pages:         make(map[string]*template.Template, len(pages)),
		authenticated: authenticated,
	}
	for _, name := range pages {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rd.pages[name] = t
	}
	return rd, nil
}

// Render writes page with the given status. The page is executed into a
// buffer first so a template error never leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Data) {
	t, ok := rd.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = Data{}
	}
	data["Authenticated"] = rd.authenticated != nil && rd.authenticated(r)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
