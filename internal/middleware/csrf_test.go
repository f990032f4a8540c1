package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossOrigin(t *testing.T) {
	mw, err := CrossOrigin("https://trusted.example.com")
	require.NoError(t, err)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name    string
		method  string
		headers map[string]string
		want    int
	}{
		{"cross-site form post", http.MethodPost, map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
		{"same-site subdomain post", http.MethodPost, map[string]string{"Sec-Fetch-Site": "same-site"}, http.StatusForbidden},
		{"foreign origin post", http.MethodPost, map[string]string{"Origin": "https://evil.example.com"}, http.StatusForbidden},
		{"same-origin post", http.MethodPost, map[string]string{"Sec-Fetch-Site": "same-origin"}, http.StatusNoContent},
		{"matching origin post", http.MethodPost, map[string]string{"Origin": "http://capstone.local"}, http.StatusNoContent},
		{"trusted origin post", http.MethodPost, map[string]string{"Origin": "https://trusted.example.com", "Sec-Fetch-Site": "cross-site"}, http.StatusNoContent},
		{"non-browser post", http.MethodPost, nil, http.StatusNoContent},
		{"cross-site get", http.MethodGet, map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"concert_id": {"1"}, "attendee_choice": {"Attending"}}
			req := httptest.NewRequest(tt.method, "http://capstone.local/concerts/attend", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestCrossOriginBadTrustedOrigin(t *testing.T) {
	_, err := CrossOrigin("not a url")
	assert.Error(t, err)
}
