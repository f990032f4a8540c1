package frontend

import (
	"context"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	"github.com/ayush/concert-capstone/internal/models"
	"github.com/ayush/concert-capstone/internal/web"
)

// SongLister fetches the song catalog.
type SongLister interface {
	ListSongs(ctx context.Context) ([]models.Song, error)
}

// PictureLister fetches the event pictures.
type PictureLister interface {
	ListPictures(ctx context.Context) ([]models.Picture, error)
}

// Handler serves the public pages of the front end.
type Handler struct {
	songs    SongLister
	pictures PictureLister
	views    *web.Renderer
}

func NewHandler(songs SongLister, pictures PictureLister, views *web.Renderer) *Handler {
	return &Handler{songs: songs, pictures: pictures, views: views}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "OK"})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, web.PageIndex, nil)
}

// Songs renders the song list. An upstream failure is logged and an empty
// list is shown.
func (h *Handler) Songs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.ListSongs(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("songs service request failed")
		songs = nil
	}
	h.views.Render(w, r, http.StatusOK, web.PageSongs, web.Data{"Songs": songs})
}

// Photos renders the picture list, degrading the same way as Songs.
func (h *Handler) Photos(w http.ResponseWriter, r *http.Request) {
	pics, err := h.pictures.ListPictures(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("pictures service request failed")
		pics = nil
	}
	h.views.Render(w, r, http.StatusOK, web.PagePhotos, web.Data{"Photos": pics})
}
