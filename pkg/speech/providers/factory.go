package providers

import (
	"context"
	"fmt"

	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/miniclay/miniclay-server/pkg/speech"
	"github.com/miniclay/miniclay-server/pkg/speech/providers/assemblyai"
	"github.com/miniclay/miniclay-server/pkg/speech/providers/azure"
	"github.com/miniclay/miniclay-server/pkg/speech/providers/elevenlabs"
	"github.com/miniclay/miniclay-server/pkg/speech/providers/google"
	"github.com/miniclay/miniclay-server/pkg/speech/providers/openrouter"
	"github.com/sirupsen/logrus"
)

// NewTranscriber returns the configured speech-to-text provider.
func NewTranscriber(app *config.AppConfig, logger *logrus.Logger) speech.Transcriber {
	return assemblyai.NewClient(app, logger)
}

// NewReplyGenerator returns the reply-generation provider selected by
// llm_settings.provider.
func NewReplyGenerator(ctx context.Context, app *config.AppConfig, logger *logrus.Logger) (speech.ReplyGenerator, error) {
	switch app.LlmSettings.Provider {
	case config.LlmProviderOpenRouter:
		return openrouter.NewClient(app, logger)
	case config.LlmProviderGoogle:
		return google.NewClient(ctx, app, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", app.LlmSettings.Provider)
	}
}

// NewSynthesizer returns the text-to-speech provider selected by
// tts_settings.provider.
func NewSynthesizer(app *config.AppConfig, logger *logrus.Logger) (speech.Synthesizer, error) {
	switch app.TtsSettings.Provider {
	case config.TtsProviderElevenLabs:
		return elevenlabs.NewClient(app, logger)
	case config.TtsProviderAzure:
		return azure.NewClient(app, logger)
	default:
		return nil, fmt.Errorf("unknown tts provider: %s", app.TtsSettings.Provider)
	}
}
