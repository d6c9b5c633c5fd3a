package zoomservice

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/sirupsen/logrus"
)

// ZoomService talks to the conferencing provider's OAuth endpoint. The
// server-to-server token is optional for Video SDK sessions; callers treat
// a failure here as informational.
type ZoomService struct {
	oauthUrl     string
	accountId    string
	clientId     string
	clientSecret string
	client       *http.Client
	logger       *logrus.Entry
}

func New(app *config.AppConfig, logger *logrus.Logger) *ZoomService {
	return &ZoomService{
		oauthUrl:     app.ZoomInfo.OAuthUrl,
		accountId:    app.ZoomInfo.AccountId,
		clientId:     app.ZoomInfo.ClientId,
		clientSecret: app.ZoomInfo.ClientSecret,
		client:       &http.Client{Timeout: 15 * time.Second},
		logger:       logger.WithField("service", "zoom"),
	}
}

// GetAccessToken fetches a server-to-server OAuth token using the
// account_credentials grant.
func (s *ZoomService) GetAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", s.accountId)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.oauthUrl, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	auth := base64.StdEncoding.EncodeToString([]byte(s.clientId + ":" + s.clientSecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("zoom: oauth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("zoom: non-2xx oauth response %d: %s", resp.StatusCode, string(data))
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("zoom: failed to decode oauth response: %w", err)
	}

	return parsed.AccessToken, nil
}
