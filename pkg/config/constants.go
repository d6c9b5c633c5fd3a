package config

import "time"

const (
	DefaultBotName    = "Rohan - Sales Exec"
	DefaultBotPersona = "You are Rohan, a helpful sales executive AI assistant."

	DefaultZoomOAuthUrl   = "https://zoom.us/oauth/token"
	DefaultAssemblyAiHost = "https://api.assemblyai.com"
	DefaultElevenLabsHost = "https://api.elevenlabs.io"

	DefaultElevenLabsModelId    = "eleven_monolingual_v1"
	DefaultVoiceStability       = 0.5
	DefaultVoiceSimilarityBoost = 0.5

	LlmProviderOpenRouter = "openrouter"
	LlmProviderGoogle     = "google"
	TtsProviderElevenLabs = "elevenlabs"
	TtsProviderAzure      = "azure"

	// credential validity window, applied from issuance
	DefaultTokenValidity = 1 * time.Hour

	// transcription submit-then-poll budget: 30 attempts, 1s apart
	TranscriptionPollInterval     = 1 * time.Second
	TranscriptionPollMaxAttempts  = 30
	MaxReplyTokens                = 150
	ReplyTemperature              = 0.7
	ConversationContextNumEntries = 3

	// session records idle longer than MaxSessionIdleDuration are garbage;
	// the janitor evicts them on its next tick
	MaxSessionIdleDuration = 30 * time.Minute
	JanitorRunInterval     = 5 * time.Minute

	DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB, same cap as the upload transport
)
