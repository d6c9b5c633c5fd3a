package zoomservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestService(oauthUrl string) *ZoomService {
	validity := time.Hour
	app := &config.AppConfig{
		ZoomInfo: config.ZoomInfo{
			AccountId:     "test-account",
			ClientId:      "test-client-id",
			ClientSecret:  "test-client-secret",
			OAuthUrl:      oauthUrl,
			TokenValidity: &validity,
		},
	}
	return New(app, logrus.New())
}

func TestZoomService_GetAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "account_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-account", r.PostForm.Get("account_id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-oauth-token","token_type":"bearer","expires_in":3599}`))
	}))
	defer server.Close()

	s := newTestService(server.URL)
	token, err := s.GetAccessToken(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "test-oauth-token", token)
}

func TestZoomService_GetAccessTokenNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"reason":"Invalid client credentials"}`))
	}))
	defer server.Close()

	s := newTestService(server.URL)
	_, err := s.GetAccessToken(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
