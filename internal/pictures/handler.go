package pictures

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	"github.com/ayush/concert-capstone/internal/models"
)

const maxBodyBytes = 1 << 20

const (
	msgMissingJSON    = "Missing JSON in request"
	msgInvalidPicture = "Invalid picture data"
	msgInvalidData    = "Invalid data in request"
)

// Handler serves the pictures API from a Store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Mount registers the pictures routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/count", h.Count)
	r.Route("/picture", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

type pictureResponse struct {
	Message string `json:"Message"`
	Picture any    `json:"picture"`
	ID      int    `json:"id"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "OK"})
}

func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]int{"length": h.store.Count()})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.store.List())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	notFound := map[string]string{"message": fmt.Sprintf("Picture with id %s not found", raw)}

	id, err := strconv.Atoi(raw)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, notFound)
		return
	}
	pic, err := h.store.Get(id)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, notFound)
		return
	}
	render.JSON(w, r, pic)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	fields, ok := readFields(w, r, msgInvalidPicture)
	if !ok {
		return
	}
	if fields.ID == nil {
		message(w, r, http.StatusBadRequest, msgInvalidPicture)
		return
	}

	pic := models.Picture{ID: *fields.ID}
	pic.Merge(fields)

	err := h.store.Create(pic)
	if errors.Is(err, ErrDuplicate) {
		render.Status(r, http.StatusFound)
		render.JSON(w, r, pictureResponse{
			Message: fmt.Sprintf("picture with id %d already present", pic.ID),
			Picture: pic,
			ID:      pic.ID,
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Int("picture_id", pic.ID).Msg("create picture")
		message(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info().Int("picture_id", pic.ID).Msg("picture created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, pictureResponse{Message: "Picture added successfully", Picture: pic, ID: pic.ID})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	fields, ok := readFields(w, r, msgInvalidData)
	if !ok {
		return
	}
	if fields.ID == nil {
		message(w, r, http.StatusBadRequest, msgInvalidData)
		return
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		message(w, r, http.StatusNotFound, fmt.Sprintf("Picture whose id is %s not found", raw))
		return
	}

	pic, err := h.store.Update(id, fields)
	if errors.Is(err, ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, pictureResponse{
			Message: fmt.Sprintf("Picture whose id is %d not found", id),
			Picture: fields,
			ID:      id,
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Int("picture_id", id).Msg("update picture")
		message(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info().Int("picture_id", id).Msg("picture updated")
	render.JSON(w, r, pictureResponse{Message: "Picture updated successfully", Picture: pic, ID: id})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		message(w, r, http.StatusBadRequest, msgInvalidData)
		return
	}

	if err := h.store.Delete(id); err != nil {
		message(w, r, http.StatusNotFound, fmt.Sprintf("Picture whose id is %d not found", id))
		return
	}

	log.Info().Int("picture_id", id).Msg("picture deleted")
	w.WriteHeader(http.StatusNoContent)
}

func message(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"Message": msg})
}

// readFields decodes a JSON object body. A non-JSON request gets the
// missing-JSON response; an empty or ill-typed object gets invalid.
func readFields(w http.ResponseWriter, r *http.Request, invalid string) (models.PictureFields, bool) {
	var fields models.PictureFields
	if !isJSON(r) {
		message(w, r, http.StatusBadRequest, msgMissingJSON)
		return fields, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		message(w, r, http.StatusBadRequest, msgMissingJSON)
		return fields, false
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		message(w, r, http.StatusBadRequest, msgMissingJSON)
		return fields, false
	}
	if len(raw) == 0 {
		message(w, r, http.StatusBadRequest, invalid)
		return fields, false
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		message(w, r, http.StatusBadRequest, invalid)
		return fields, false
	}
	return fields, true
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
