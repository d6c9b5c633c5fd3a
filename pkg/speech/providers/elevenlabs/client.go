package elevenlabs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/sirupsen/logrus"
)

// Client implements speech.Synthesizer against the ElevenLabs
// text-to-speech API with a fixed voice and voice settings.
type Client struct {
	host            string
	apiKey          string
	voiceId         string
	modelId         string
	stability       float64
	similarityBoost float64
	client          *http.Client
	logger          *logrus.Entry
}

func NewClient(app *config.AppConfig, logger *logrus.Logger) (*Client, error) {
	info := app.TtsSettings.ElevenLabs
	if info == nil || info.ApiKey == "" {
		return nil, errors.New("elevenlabs provider requires api_key")
	}
	if info.VoiceId == "" {
		return nil, errors.New("elevenlabs provider requires voice_id")
	}

	return &Client{
		host:            info.Host,
		apiKey:          info.ApiKey,
		voiceId:         info.VoiceId,
		modelId:         info.ModelId,
		stability:       info.Stability,
		similarityBoost: info.SimilarityBoost,
		client:          &http.Client{Timeout: 30 * time.Second},
		logger:          logger.WithField("provider", "elevenlabs"),
	}, nil
}

// Synthesize turns reply text into mpeg audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]interface{}{
		"text":     text,
		"model_id": c.modelId,
		"voice_settings": map[string]float64{
			"stability":        c.stability,
			"similarity_boost": c.similarityBoost,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.host, c.voiceId)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs: non-2xx response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}
