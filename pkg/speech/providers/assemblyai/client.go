package assemblyai

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
	"github.com/miniclay/miniclay-server/pkg/helpers"
	"github.com/miniclay/miniclay-server/pkg/speech"
	"github.com/sirupsen/logrus"
)

// Client implements speech.Transcriber against the AssemblyAI v2 API.
// The protocol is submit-then-poll: upload the audio, create a transcript
// job, then poll the status endpoint until it completes or the attempt
// budget runs out.
type Client struct {
	host   string
	apiKey string
	client *http.Client
	logger *logrus.Entry

	pollInterval    time.Duration
	pollMaxAttempts int
}

func NewClient(app *config.AppConfig, logger *logrus.Logger) *Client {
	return &Client{
		host:            app.AssemblyAiInfo.Host,
		apiKey:          app.AssemblyAiInfo.ApiKey,
		client:          &http.Client{Timeout: 30 * time.Second},
		logger:          logger.WithField("provider", "assemblyai"),
		pollInterval:    config.TranscriptionPollInterval,
		pollMaxAttempts: config.TranscriptionPollMaxAttempts,
	}
}

type transcriptStatus struct {
	Id         string `json:"id"`
	Status     string `json:"status"`
	Text       string `json:"text"`
	Error      string `json:"error"`
	Utterances []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
		Start   int64  `json:"start"`
		End     int64  `json:"end"`
	} `json:"utterances"`
}

// Transcribe uploads the clip, submits a transcription job and polls until
// it is completed. Exhausting the poll budget yields
// speech.ErrTranscriptionTimeout.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (*speech.Transcription, error) {
	audioUrl, err := c.upload(ctx, audio)
	if err != nil {
		return nil, err
	}

	transcriptId, err := c.submit(ctx, audioUrl)
	if err != nil {
		return nil, err
	}

	status, err := helpers.Poll(ctx, c.pollInterval, c.pollMaxAttempts,
		func(ctx context.Context) (*transcriptStatus, bool, error) {
			st, err := c.fetchStatus(ctx, transcriptId)
			if err != nil {
				return nil, false, err
			}
			if st.Status == "error" {
				return nil, false, fmt.Errorf("assemblyai: transcription failed: %s", st.Error)
			}
			return st, st.Status == "completed", nil
		})
	if errors.Is(err, helpers.ErrPollExhausted) {
		return nil, speech.ErrTranscriptionTimeout
	}
	if err != nil {
		return nil, err
	}

	result := &speech.Transcription{Text: status.Text}
	for _, u := range status.Utterances {
		result.Speakers = append(result.Speakers, &speech.SpeakerLabel{
			Speaker: u.Speaker,
			Text:    u.Text,
			Start:   u.Start,
			End:     u.End,
		})
	}

	return result, nil
}

// upload pushes raw audio bytes and returns the temporary audio url.
func (c *Client) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/v2/upload", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var parsed struct {
		UploadUrl string `json:"upload_url"`
	}
	if err := c.do(req, &parsed); err != nil {
		return "", err
	}
	return parsed.UploadUrl, nil
}

// submit creates the transcription job and returns its id.
func (c *Client) submit(ctx context.Context, audioUrl string) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"audio_url":          audioUrl,
		"language_detection": true,
		"speaker_labels":     true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var parsed struct {
		Id string `json:"id"`
	}
	if err := c.do(req, &parsed); err != nil {
		return "", err
	}
	return parsed.Id, nil
}

func (c *Client) fetchStatus(ctx context.Context, transcriptId string) (*transcriptStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/v2/transcript/"+transcriptId, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	parsed := new(transcriptStatus)
	if err := c.do(req, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("assemblyai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("assemblyai: non-2xx response %d: %s", resp.StatusCode, string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
