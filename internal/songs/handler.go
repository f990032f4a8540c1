package songs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	"github.com/ayush/concert-capstone/internal/models"
	"github.com/ayush/concert-capstone/internal/store"
)

const maxBodyBytes = 1 << 20

const (
	msgInvalidID         = "ERROR: Invalid ID format. Its actual value is '%s'"
	msgNonPositiveID     = "ERROR: ID must be a positive integer. Its actual value is %d"
	msgNonPositiveDelete = "ERROR: ID must be a positive integer. Its value is %d"
	msgNoData            = "ERROR: Request data not found"
	msgBadJSON           = "ERROR: Request body is not valid JSON"
	msgBadBodyID         = "ERROR: 'id' shall be a valid integer in the request body"
	msgNonPositiveBodyID = "ERROR: 'id' shall be a positive integer in the request body"
	msgBadFields         = "ERROR: 'title', 'artist' and 'lyrics' shall be strings"
	msgSongNotFound      = "Song not found"
	msgNothingUpdated    = "Song found, but nothing updated"
)

// SongStore defines the interface for song persistence.
type SongStore interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]models.Song, error)
	Get(ctx context.Context, id int64) (*models.Song, error)
	Insert(ctx context.Context, song *models.Song) (string, error)
	Update(ctx context.Context, id int64, fields models.SongFields) (before, after *models.Song, err error)
	Delete(ctx context.Context, id int64) error
}

// Handler holds the songs HTTP handlers.
type Handler struct {
	songs SongStore
}

func NewHandler(songs SongStore) *Handler {
	return &Handler{songs: songs}
}

// Mount registers the songs routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/count", h.Count)
	r.Route("/song", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "OK"})
}

func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.songs.Count(r.Context())
	if err != nil {
		h.internalError(w, r, err, "count songs")
		return
	}
	render.JSON(w, r, map[string]int64{"count": n})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.Context())
	if err != nil {
		h.internalError(w, r, err, "list songs")
		return
	}
	if songs == nil {
		songs = []models.Song{}
	}
	render.JSON(w, r, map[string][]models.Song{"songs": songs})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgNonPositiveID)
	if !ok {
		return
	}

	song, err := h.songs.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		message(w, r, http.StatusNotFound, fmt.Sprintf("ERROR: song whose id is %d not found", id))
		return
	}
	if err != nil {
		h.internalError(w, r, err, "get song")
		return
	}
	render.JSON(w, r, song)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	body, raw, ok := readObject(w, r)
	if !ok {
		return
	}

	id, err := coerceID(raw["id"])
	if err != nil {
		message(w, r, http.StatusBadRequest, msgBadBodyID)
		return
	}
	if id <= 0 {
		message(w, r, http.StatusBadRequest, msgNonPositiveBodyID)
		return
	}

	var fields models.SongFields
	if err := json.Unmarshal(body, &fields); err != nil {
		message(w, r, http.StatusBadRequest, msgBadFields)
		return
	}
	song := models.Song{SongID: id}.Apply(fields)

	insertedID, err := h.songs.Insert(r.Context(), &song)
	if errors.Is(err, store.ErrDuplicate) {
		// 302 is this API's conflict signal, kept for existing clients.
		message(w, r, http.StatusFound, fmt.Sprintf("song with id %d already present", id))
		return
	}
	if err != nil {
		h.internalError(w, r, err, "insert song")
		return
	}

	log.Info().Int64("song_id", id).Str("inserted_id", insertedID).Msg("song created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"inserted_id": insertedID})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgNonPositiveID)
	if !ok {
		return
	}

	body, _, ok := readObject(w, r)
	if !ok {
		return
	}
	var fields models.SongFields
	if err := json.Unmarshal(body, &fields); err != nil {
		message(w, r, http.StatusBadRequest, msgBadFields)
		return
	}

	before, after, err := h.songs.Update(r.Context(), id, fields)
	if errors.Is(err, store.ErrNotFound) {
		message(w, r, http.StatusNotFound, msgSongNotFound)
		return
	}
	if err != nil {
		h.internalError(w, r, err, "update song")
		return
	}

	changes := fields.Changes(*before, *after)
	if len(changes) == 0 {
		message(w, r, http.StatusOK, msgNothingUpdated)
		return
	}
	changes["_id"] = after.ObjectID.Hex()
	changes["id"] = id

	log.Info().Int64("song_id", id).Int("changed", len(changes)-2).Msg("song updated")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, changes)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgNonPositiveDelete)
	if !ok {
		return
	}

	err := h.songs.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		message(w, r, http.StatusNotFound, msgSongNotFound)
		return
	}
	if err != nil {
		h.internalError(w, r, err, "delete song")
		return
	}

	log.Info().Int64("song_id", id).Msg("song deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error, op string) {
	log.Error().Err(err).Str("op", op).Msg("songs store failure")
	message(w, r, http.StatusInternalServerError, "ERROR: Unexpected error")
}

// message writes {"message": msg} with the given status.
func message(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"message": msg})
}

// pathID parses the {id} URL parameter. nonPositive is the message format
// used for ids <= 0.
func pathID(w http.ResponseWriter, r *http.Request, nonPositive string) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		message(w, r, http.StatusBadRequest, fmt.Sprintf(msgInvalidID, raw))
		return 0, false
	}
	if id <= 0 {
		message(w, r, http.StatusBadRequest, fmt.Sprintf(nonPositive, id))
		return 0, false
	}
	return id, true
}

// readObject reads a non-empty JSON object body. It writes the 400 response
// itself when the body is missing, empty or malformed.
func readObject(w http.ResponseWriter, r *http.Request) ([]byte, map[string]json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		message(w, r, http.StatusBadRequest, msgBadJSON)
		return nil, nil, false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		message(w, r, http.StatusBadRequest, msgNoData)
		return nil, nil, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		message(w, r, http.StatusBadRequest, msgBadJSON)
		return nil, nil, false
	}
	if len(raw) == 0 {
		message(w, r, http.StatusBadRequest, msgNoData)
		return nil, nil, false
	}
	return body, raw, true
}

// coerceID accepts a JSON number (fractions truncated) or a string holding a
// base-10 integer.
func coerceID(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, errors.New("id missing")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0, fmt.Errorf("id %s out of range", n)
	}
	return int64(f), nil
}
