package helpers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/goccy/go-json"
	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/sirupsen/logrus"
)

const (
	EventSessionCreated = "session.created"
	EventSessionEnded   = "session.ended"
	EventSessionEvicted = "session.evicted"
)

// SessionEvent is the payload posted to the configured webhook url.
type SessionEvent struct {
	Event     string `json:"event"`
	SessionId string `json:"sessionId"`
	Timestamp int64  `json:"timestamp"`
}

// WebhookNotifier delivers session lifecycle events to an external url.
// Delivery is queued on a single worker and is strictly fire-and-forget:
// failures are logged and never propagated to the caller.
type WebhookNotifier struct {
	isEnabled bool
	url       string
	wp        *workerpool.WorkerPool
	client    *http.Client
	logger    *logrus.Entry
}

func NewWebhookNotifier(app *config.AppConfig, logger *logrus.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		isEnabled: app.Client.WebhookConf.Enable && app.Client.WebhookConf.Url != "",
		url:       app.Client.WebhookConf.Url,
		wp:        workerpool.New(1),
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger.WithField("helper", "webhookNotifier"),
	}
}

// Notify queues one event for delivery. No-op when webhooks are disabled.
func (w *WebhookNotifier) Notify(event, sessionId string) {
	if !w.isEnabled {
		return
	}

	payload := &SessionEvent{
		Event:     event,
		SessionId: sessionId,
		Timestamp: time.Now().UnixMilli(),
	}

	w.wp.Submit(func() {
		w.deliver(payload)
	})
}

func (w *WebhookNotifier) deliver(payload *SessionEvent) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.logger.WithError(err).Errorln("failed to marshal webhook payload")
		return
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		w.logger.WithError(err).Errorf("failed to deliver webhook event %s", payload.Event)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.logger.Errorf("webhook endpoint returned %d for event %s", resp.StatusCode, payload.Event)
	}
}

// Stop drains the queue and stops the worker.
func (w *WebhookNotifier) Stop() {
	w.wp.StopWait()
}
