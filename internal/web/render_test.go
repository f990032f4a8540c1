package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/concert-capstone/internal/models"
)

func newRenderer(t *testing.T, authed bool) *Renderer {
	t.Helper()
	rd, err := NewRenderer(func(*http.Request) bool { return authed })
	require.NoError(t, err)
	return rd
}

func render(rd *Renderer, status int, page string, data Data) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	rd.Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), status, page, data)
	return rr
}

func TestAllPagesParse(t *testing.T) {
	rd := newRenderer(t, false)
	assert.Len(t, rd.pages, len(pages))
}

func TestRenderNavigation(t *testing.T) {
	rr := render(newRenderer(t, false), http.StatusOK, PageIndex, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `href="/login"`)
	assert.NotContains(t, rr.Body.String(), `href="/logout"`)

	rr = render(newRenderer(t, true), http.StatusOK, PageIndex, nil)
	assert.Contains(t, rr.Body.String(), `href="/logout"`)
	assert.Contains(t, rr.Body.String(), `href="/concerts"`)
}

func TestRenderSignupMessage(t *testing.T) {
	rr := render(newRenderer(t, false), http.StatusOK, PageSignup, Data{"Message": "User already exists"})
	assert.Contains(t, rr.Body.String(), "User already exists")
}

func TestRenderEscapesContent(t *testing.T) {
	rr := render(newRenderer(t, false), http.StatusOK, PageSongs, Data{
		"Songs": []models.Song{{Title: "<script>alert(1)</script>", Lyrics: "la la"}},
	})
	assert.NotContains(t, rr.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rr.Body.String(), "&lt;script&gt;")
}

func TestRenderConcertDetail(t *testing.T) {
	rr := render(newRenderer(t, true), http.StatusOK, PageConcertDetail, Data{
		"Concert": models.Concert{ID: 3, ConcertName: "Night Show", City: "Lagos", Duration: 90,
			Date: time.Date(2025, 5, 17, 0, 0, 0, 0, time.UTC)},
		"Status":  models.AttendingAttending,
		"Choices": models.AttendingChoices,
	})
	body := rr.Body.String()
	assert.Contains(t, body, "Night Show")
	assert.Contains(t, body, "2025-05-17")
	assert.Contains(t, body, `<option value="Attending" selected>`)
	assert.Contains(t, body, `name="concert_id" value="3"`)
}

func TestRenderUnknownPage(t *testing.T) {
	rr := render(newRenderer(t, false), http.StatusOK, "nope", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
