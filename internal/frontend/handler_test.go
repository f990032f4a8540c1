package frontend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/concert-capstone/internal/models"
	"github.com/ayush/concert-capstone/internal/web"
)

type stubSongs struct {
	songs []models.Song
	err   error
}

func (s stubSongs) ListSongs(ctx context.Context) ([]models.Song, error) { return s.songs, s.err }

type stubPictures struct {
	pics []models.Picture
	err  error
}

func (s stubPictures) ListPictures(ctx context.Context) ([]models.Picture, error) { return s.pics, s.err }

func newHandler(t *testing.T, songs SongLister, pics PictureLister) *Handler {
	t.Helper()
	views, err := web.NewRenderer(func(*http.Request) bool { return false })
	require.NoError(t, err)
	return NewHandler(songs, pics, views)
}

func get(h http.HandlerFunc, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestIndex(t *testing.T) {
	h := newHandler(t, stubSongs{}, stubPictures{})
	rr := get(h.Index, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Welcome")
}

func TestHealth(t *testing.T) {
	h := newHandler(t, stubSongs{}, stubPictures{})
	rr := get(h.Health, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rr.Body.String())
}

func TestSongsRendersList(t *testing.T) {
	h := newHandler(t, stubSongs{songs: []models.Song{{
		SongID: 1,
		Title:  "duis faucibus accumsan odio curabitur convallis",
		Lyrics: "Morbi non lectus. Aliquam sit amet diam in magna bibendum imperdiet.",
	}}}, stubPictures{})

	rr := get(h.Songs, "/songs")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "duis faucibus accumsan odio curabitur convallis")
	assert.Contains(t, rr.Body.String(), "Morbi non lectus.")
}

func TestSongsUpstreamFailure(t *testing.T) {
	h := newHandler(t, stubSongs{err: errors.New("connection refused")}, stubPictures{})

	rr := get(h.Songs, "/songs")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No songs available.")
}

func TestPhotosRendersList(t *testing.T) {
	h := newHandler(t, stubSongs{}, stubPictures{pics: []models.Picture{{
		ID:           1,
		PicURL:       "http://dummyimage.com/136x100.png/5fa2dd/ffffff",
		EventCountry: "United States",
		EventState:   "District of Columbia",
		EventCity:    "Washington",
		EventDate:    "11/16/2022",
	}}})

	rr := get(h.Photos, "/photos")
	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Washington")
	assert.Contains(t, body, "11/16/2022")
	assert.Contains(t, body, "dummyimage.com")
}

func TestPhotosUpstreamFailure(t *testing.T) {
	h := newHandler(t, stubSongs{}, stubPictures{err: errors.New("timeout")})

	rr := get(h.Photos, "/photos")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No photos available.")
}
