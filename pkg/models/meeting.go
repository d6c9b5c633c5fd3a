package models

import (
	"context"
	"errors"
	"regexp"

	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/miniclay/miniclay-server/pkg/helpers"
	"github.com/miniclay/miniclay-server/pkg/services/registry"
	zoomservice "github.com/miniclay/miniclay-server/pkg/services/zoom"
	"github.com/sirupsen/logrus"
)

// ErrMissingSessionIdentifier is the client error for a join request that
// carries neither an explicit session id nor a parseable join link.
var ErrMissingSessionIdentifier = errors.New(config.SessionIdOrJoinLinkRequired)

// ErrSessionNotFound is surfaced when a session id is unknown or stale.
var ErrSessionNotFound = errors.New(config.RequestedSessionNotExist)

var (
	joinLinkIdRegex  = regexp.MustCompile(`/j/(\d+)`)
	joinLinkPwdRegex = regexp.MustCompile(`pwd=([^&]+)`)
)

// MeetingModel owns the session lifecycle: join, status, leave.
type MeetingModel struct {
	app             *config.AppConfig
	registry        *registry.SessionRegistry
	authToken       *AuthTokenModel
	zoomService     *zoomservice.ZoomService
	webhookNotifier *helpers.WebhookNotifier
	logger          *logrus.Entry
}

func NewMeetingModel(app *config.AppConfig, reg *registry.SessionRegistry, authToken *AuthTokenModel, zoomService *zoomservice.ZoomService, webhookNotifier *helpers.WebhookNotifier, logger *logrus.Logger) *MeetingModel {
	return &MeetingModel{
		app:             app,
		registry:        reg,
		authToken:       authToken,
		zoomService:     zoomService,
		webhookNotifier: webhookNotifier,
		logger:          logger.WithField("model", "meeting"),
	}
}

type JoinRequest struct {
	SessionId string `json:"sessionId"`
	Password  string `json:"password"`
	JoinLink  string `json:"joinLink"`
}

type JoinResponse struct {
	SessionId  string `json:"sessionId"`
	Password   string `json:"password"`
	Credential string `json:"credential"`
	BotName    string `json:"botName"`
	Status     string `json:"status"`
}

type StatusResponse struct {
	SessionId           string   `json:"sessionId"`
	IsActive            bool     `json:"isActive"`
	Participants        []string `json:"participants"`
	ConversationHistory []string `json:"conversationHistory"`
	LastActivity        int64    `json:"lastActivity"`
}

// resolveJoinLink fills session id and password from a shareable join link.
// First match wins; an explicit value is overridden by the link, matching
// the provider's share-link precedence.
func resolveJoinLink(req *JoinRequest) {
	if req.JoinLink == "" {
		return
	}
	if m := joinLinkIdRegex.FindStringSubmatch(req.JoinLink); m != nil {
		req.SessionId = m[1]
	}
	if m := joinLinkPwdRegex.FindStringSubmatch(req.JoinLink); m != nil {
		req.Password = m[1]
	}
}

// Join resolves the session id, mints a fresh access credential and
// registers the session. The password from a join link is stored as-is;
// validating it against the provider is the client SDK's concern.
func (m *MeetingModel) Join(ctx context.Context, req *JoinRequest) (*JoinResponse, error) {
	resolveJoinLink(req)

	if req.SessionId == "" {
		return nil, ErrMissingSessionIdentifier
	}

	sdkJwt, err := m.authToken.GenerateSdkJwt(req.SessionId)
	if err != nil {
		m.logger.WithError(err).Errorln("failed to generate sdk jwt")
		return nil, err
	}

	// The server-to-server OAuth token is not required for Video SDK
	// sessions; a failure here is informational only.
	if _, err := m.zoomService.GetAccessToken(ctx); err != nil {
		m.logger.WithError(err).Warnln("oauth token not available, continuing with sdk jwt only")
	}

	m.registry.Create(req.SessionId, req.Password, sdkJwt, m.app.BotSettings.Name)
	m.webhookNotifier.Notify(helpers.EventSessionCreated, req.SessionId)
	m.logger.Infof("registered session %s", req.SessionId)

	return &JoinResponse{
		SessionId:  req.SessionId,
		Password:   req.Password,
		Credential: sdkJwt,
		BotName:    m.app.BotSettings.Name,
		Status:     "ready",
	}, nil
}

// Status reports the live view of a session.
func (m *MeetingModel) Status(sessionId string) (*StatusResponse, error) {
	rec, ok := m.registry.Get(sessionId, config.MaxSessionIdleDuration)
	if !ok {
		return nil, ErrSessionNotFound
	}

	return &StatusResponse{
		SessionId:           rec.Id,
		IsActive:            rec.IsActive,
		Participants:        rec.Participants,
		ConversationHistory: rec.ConversationHistory,
		LastActivity:        rec.LastActivity.UnixMilli(),
	}, nil
}

// Leave removes the session record. The record must exist; leaving twice
// yields not-found on the second call.
func (m *MeetingModel) Leave(sessionId string) error {
	if _, ok := m.registry.Get(sessionId, config.MaxSessionIdleDuration); !ok {
		return ErrSessionNotFound
	}

	m.registry.Remove(sessionId)
	m.webhookNotifier.Notify(helpers.EventSessionEnded, sessionId)
	m.logger.Infof("session %s ended", sessionId)
	return nil
}

// SessionExists reports whether a usable (non-stale) record exists.
func (m *MeetingModel) SessionExists(sessionId string) bool {
	_, ok := m.registry.Get(sessionId, config.MaxSessionIdleDuration)
	return ok
}

// MarkActive flips the live-transport flag for a session.
func (m *MeetingModel) MarkActive(sessionId string, active bool) {
	m.registry.SetActive(sessionId, active)
}
