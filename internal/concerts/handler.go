package concerts

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ayush/concert-capstone/internal/auth"
	"github.com/ayush/concert-capstone/internal/middleware"
	"github.com/ayush/concert-capstone/internal/models"
	"github.com/ayush/concert-capstone/internal/store"
	"github.com/ayush/concert-capstone/internal/web"
)

// ConcertStore defines the interface for concert and attendance persistence.
type ConcertStore interface {
	ListConcertsForUser(ctx context.Context, userID int64) ([]models.ConcertStatus, error)
	GetConcertForUser(ctx context.Context, concertID, userID int64) (*models.ConcertStatus, error)
	SetAttendance(ctx context.Context, concertID, userID int64, attending models.Attending) error
}

// Handler serves the concert pages. Every route expects an authenticated
// request.
type Handler struct {
	concerts ConcertStore
	views    *web.Renderer
}

func NewHandler(concerts ConcertStore, views *web.Renderer) *Handler {
	return &Handler{concerts: concerts, views: views}
}

// Mount registers the concert routes. Pages send anonymous users to /login;
// the attend endpoint sends them to /.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/concerts", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth("/"))
			r.Post("/attend", h.Attend)
			r.Get("/attend", h.AttendRedirect)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth("/login"))
			r.Get("/", h.List)
			r.Get("/{id}", h.Detail)
		})
	})
}

// List shows every concert with the current user's status.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.concerts.ListConcertsForUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("list concerts")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.views.Render(w, r, http.StatusOK, web.PageConcerts, web.Data{"Concerts": list})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	cs, err := h.concerts.GetConcertForUser(r.Context(), id, auth.UserID(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("concert_id", id).Msg("get concert")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.views.Render(w, r, http.StatusOK, web.PageConcertDetail, web.Data{
		"Concert": cs.Concert,
		"Status":  cs.Status,
		"Choices": models.AttendingChoices,
	})
}

// Attend records the user's choice for a concert and goes back to the list.
func (h *Handler) Attend(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	concertID, err := strconv.ParseInt(r.PostFormValue("concert_id"), 10, 64)
	if err != nil || concertID <= 0 {
		http.Error(w, "invalid concert id", http.StatusBadRequest)
		return
	}
	choice := models.Attending(r.PostFormValue("attendee_choice"))
	if !choice.Valid() {
		http.Error(w, "invalid attendance choice", http.StatusBadRequest)
		return
	}

	err = h.concerts.SetAttendance(r.Context(), concertID, userID, choice)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("concert_id", concertID).Int64("user_id", userID).Msg("set attendance")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Info().Int64("concert_id", concertID).Int64("user_id", userID).Str("attending", string(choice)).Msg("attendance recorded")
	http.Redirect(w, r, "/concerts", http.StatusFound)
}

// AttendRedirect handles non-POST requests to the attend endpoint.
func (h *Handler) AttendRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/concerts", http.StatusFound)
}
