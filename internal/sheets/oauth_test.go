package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantCode   string
		wantError  string
		wantStatus int
	}{
		{name: "code delivered", query: "state=s1&code=abc", wantCode: "abc", wantStatus: http.StatusOK},
		{name: "wrong state", query: "state=other&code=abc", wantError: "state mismatch", wantStatus: http.StatusBadRequest},
		{name: "missing code", query: "state=s1", wantError: "no authorization code", wantStatus: http.StatusBadRequest},
		{name: "user denied", query: "error=access_denied&state=s1", wantError: "access_denied", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := make(chan string, 1)
			errs := make(chan error, 1)

			rec := httptest.NewRecorder()
			callbackHandler("s1", codes, errs).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				require.Len(t, errs, 1)
				assert.ErrorContains(t, <-errs, tt.wantError)
				assert.Empty(t, codes)
				return
			}
			require.Len(t, codes, 1)
			assert.Equal(t, tt.wantCode, <-codes)
			assert.Contains(t, rec.Body.String(), "Authentication successful")
		})
	}
}

func TestCallbackHandler_SecondRedirectDoesNotBlock(t *testing.T) {
	codes := make(chan string, 1)
	errs := make(chan error, 1)
	handler := callbackHandler("s1", codes, errs)

	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=abc", nil))
	}
	assert.Len(t, codes, 1)
}

func TestTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")

	require.NoError(t, saveToken(path, &oauth2.Token{AccessToken: "at", RefreshToken: "rt", TokenType: "Bearer"}))

	token, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "rt", token.RefreshToken)

	cached, err := GetOrCreateToken(context.Background(), OAuth2Config{TokenFile: path})
	require.NoError(t, err)
	assert.Equal(t, "at", cached.AccessToken)
}

func TestOAuth2Config_RedirectURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/callback", OAuth2Config{}.oauth().RedirectURL)
	assert.Equal(t, "http://localhost:9999/callback", OAuth2Config{ListenAddr: ":9999"}.oauth().RedirectURL)
}
