package providers

import (
	"context"
	"testing"

	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewReplyGenerator_ProviderSelection(t *testing.T) {
	logger := logrus.New()

	app := &config.AppConfig{
		LlmSettings: config.LlmSettings{
			Provider: config.LlmProviderOpenRouter,
			OpenRouter: &config.OpenRouterInfo{
				ApiKey:  "test-key",
				Model:   "openai/gpt-3.5-turbo",
				BaseUrl: "https://openrouter.ai/api/v1",
			},
		},
	}
	g, err := NewReplyGenerator(context.Background(), app, logger)
	assert.NoError(t, err)
	assert.NotNil(t, g)

	app.LlmSettings.Provider = "unknown"
	_, err = NewReplyGenerator(context.Background(), app, logger)
	assert.Error(t, err)
}

func TestNewSynthesizer_ProviderSelection(t *testing.T) {
	logger := logrus.New()

	app := &config.AppConfig{
		TtsSettings: config.TtsSettings{
			Provider: config.TtsProviderElevenLabs,
			ElevenLabs: &config.ElevenLabsInfo{
				ApiKey:  "test-key",
				VoiceId: "voice",
			},
		},
	}
	s, err := NewSynthesizer(app, logger)
	assert.NoError(t, err)
	assert.NotNil(t, s)

	app.TtsSettings.Provider = "unknown"
	_, err = NewSynthesizer(app, logger)
	assert.Error(t, err)
}

func TestNewTranscriber(t *testing.T) {
	app := &config.AppConfig{
		AssemblyAiInfo: config.AssemblyAiInfo{
			ApiKey: "test-key",
			Host:   config.DefaultAssemblyAiHost,
		},
	}
	assert.NotNil(t, NewTranscriber(app, logrus.New()))
}
