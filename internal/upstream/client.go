package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ayush/concert-capstone/internal/models"
)

// maxErrorBody caps how much of an upstream error body is kept in the error.
const maxErrorBody = 512

// checkResp returns an error if the status is not 2xx. The error includes the
// start of the upstream body.
func checkResp(resp *http.Response, service, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%s %s returned %d: %s", service, path, resp.StatusCode, strings.TrimSpace(string(body)))
}

// client is the shared GET-and-decode plumbing of the service clients.
type client struct {
	service    string
	baseURL    string
	httpClient *http.Client
}

func newClient(service, baseURL string, timeout time.Duration) client {
	return client{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.service, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.service, path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, c.service, path); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", c.service, path, err)
	}
	return nil
}

// SongsClient calls the songs service over HTTP.
type SongsClient struct {
	c client
}

func NewSongsClient(baseURL string, timeout time.Duration) *SongsClient {
	return &SongsClient{c: newClient("songs-service", baseURL, timeout)}
}

// ListSongs calls GET /song.
func (s *SongsClient) ListSongs(ctx context.Context) ([]models.Song, error) {
	var result struct {
		Songs []models.Song `json:"songs"`
	}
	if err := s.c.getJSON(ctx, "/song", &result); err != nil {
		return nil, err
	}
	return result.Songs, nil
}

// PicturesClient calls the pictures service over HTTP.
type PicturesClient struct {
	c client
}

func NewPicturesClient(baseURL string, timeout time.Duration) *PicturesClient {
	return &PicturesClient{c: newClient("pictures-service", baseURL, timeout)}
}

// ListPictures calls GET /picture.
func (p *PicturesClient) ListPictures(ctx context.Context) ([]models.Picture, error) {
	var pics []models.Picture
	if err := p.c.getJSON(ctx, "/picture", &pics); err != nil {
		return nil, err
	}
	return pics, nil
}
