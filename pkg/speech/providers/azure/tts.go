package azure

import (
	"context"
	"errors"
	"fmt"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/sirupsen/logrus"
)

// Client implements speech.Synthesizer using the Azure Cognitive Services
// speech SDK, as an alternative to the default ElevenLabs provider.
type Client struct {
	subscriptionKey string
	serviceRegion   string
	language        string
	voice           string
	logger          *logrus.Entry
}

func NewClient(app *config.AppConfig, logger *logrus.Logger) (*Client, error) {
	info := app.TtsSettings.Azure
	if info == nil || info.SubscriptionKey == "" || info.ServiceRegion == "" {
		return nil, errors.New("azure provider requires subscription_key and service_region")
	}

	return &Client{
		subscriptionKey: info.SubscriptionKey,
		serviceRegion:   info.ServiceRegion,
		language:        info.Language,
		voice:           info.Voice,
		logger:          logger.WithField("provider", "azure-tts"),
	}, nil
}

// Synthesize performs a full blocking synthesis and returns the resulting
// audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	conf, err := speech.NewSpeechConfigFromSubscription(c.subscriptionKey, c.serviceRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure speech config: %w", err)
	}
	defer conf.Close()

	if c.language != "" {
		if err = conf.SetSpeechSynthesisLanguage(c.language); err != nil {
			return nil, fmt.Errorf("failed to set synthesis language: %w", err)
		}
	}
	if c.voice != "" {
		if err = conf.SetSpeechSynthesisVoiceName(c.voice); err != nil {
			return nil, fmt.Errorf("failed to set synthesis voice: %w", err)
		}
	}

	// Audio config is nil as we take the bytes from the result.
	synthesizer, err := speech.NewSpeechSynthesizerFromConfig(conf, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech synthesizer: %w", err)
	}
	defer synthesizer.Close()

	task := synthesizer.SpeakTextAsync(text)
	var outcome speech.SpeechSynthesisOutcome
	select {
	case outcome = <-task:
	case <-ctx.Done():
		return nil, fmt.Errorf("context canceled while waiting for synthesis result: %w", ctx.Err())
	}
	defer outcome.Close()

	if outcome.Error != nil {
		return nil, fmt.Errorf("synthesis outcome error: %w", outcome.Error)
	}

	if outcome.Result.Reason != common.SynthesizingAudioCompleted {
		cancellation, _ := speech.NewCancellationDetailsFromSpeechSynthesisResult(outcome.Result)
		return nil, fmt.Errorf("synthesis failed: reason=%s, details=%s",
			outcome.Result.Reason.String(), cancellation.ErrorDetails)
	}

	return outcome.Result.AudioData, nil
}
