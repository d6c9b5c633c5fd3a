package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/miniclay/miniclay-server/pkg/logging"
	"github.com/sirupsen/logrus"
)

var appCnf *AppConfig

// AppConfig is the root configuration object, loaded once at startup
// from a yaml file and shared by reference across the application.
type AppConfig struct {
	Logger *logrus.Logger

	RootWorkingDir string

	Client             ClientInfo          `yaml:"client"`
	LogSettings        logging.LogSettings `yaml:"log_settings"`
	ZoomInfo           ZoomInfo            `yaml:"zoom_info"`
	BotSettings        BotSettings         `yaml:"bot_settings"`
	AssemblyAiInfo     AssemblyAiInfo      `yaml:"assemblyai_info"`
	LlmSettings        LlmSettings         `yaml:"llm_settings"`
	TtsSettings        TtsSettings         `yaml:"tts_settings"`
	UploadFileSettings UploadFileSettings  `yaml:"upload_file_settings"`
}

type ClientInfo struct {
	Port           int            `yaml:"port"`
	Debug          bool           `yaml:"debug"`
	Path           string         `yaml:"path"`
	ProxyHeader    string         `yaml:"proxy_header"`
	WebhookConf    WebhookConf    `yaml:"webhook_conf"`
	PrometheusConf PrometheusConf `yaml:"prometheus"`
}

type WebhookConf struct {
	Enable bool   `yaml:"enable"`
	Url    string `yaml:"url,omitempty"`
}

type PrometheusConf struct {
	Enable      bool   `yaml:"enable"`
	MetricsPath string `yaml:"metrics_path"`
}

// ZoomInfo carries the conferencing provider credentials. The client secret
// doubles as the Video SDK signing key.
type ZoomInfo struct {
	AccountId     string         `yaml:"account_id"`
	ClientId      string         `yaml:"client_id"`
	ClientSecret  string         `yaml:"client_secret"`
	OAuthUrl      string         `yaml:"oauth_url"`
	TokenValidity *time.Duration `yaml:"token_validity"`
}

type BotSettings struct {
	Name    string `yaml:"name"`
	Persona string `yaml:"persona"`
}

type AssemblyAiInfo struct {
	ApiKey string `yaml:"api_key"`
	Host   string `yaml:"host"`
}

// LlmSettings selects and configures the reply-generation provider.
type LlmSettings struct {
	Provider   string          `yaml:"provider"`
	OpenRouter *OpenRouterInfo `yaml:"openrouter"`
	Google     *GoogleAiInfo   `yaml:"google"`
}

type OpenRouterInfo struct {
	ApiKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseUrl string `yaml:"base_url"`
}

type GoogleAiInfo struct {
	ApiKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// TtsSettings selects and configures the speech-synthesis provider.
type TtsSettings struct {
	Provider   string          `yaml:"provider"`
	ElevenLabs *ElevenLabsInfo `yaml:"elevenlabs"`
	Azure      *AzureTtsInfo   `yaml:"azure"`
}

type ElevenLabsInfo struct {
	ApiKey          string  `yaml:"api_key"`
	Host            string  `yaml:"host"`
	VoiceId         string  `yaml:"voice_id"`
	ModelId         string  `yaml:"model_id"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
}

type AzureTtsInfo struct {
	SubscriptionKey string `yaml:"subscription_key"`
	ServiceRegion   string `yaml:"service_region"`
	Language        string `yaml:"language"`
	Voice           string `yaml:"voice"`
}

type UploadFileSettings struct {
	Path         string   `yaml:"path"`
	MaxSize      int      `yaml:"max_size"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// New validates the parsed config, fills defaults and sets it for global usage.
func New(cnf *AppConfig) (*AppConfig, error) {
	if cnf.ZoomInfo.TokenValidity == nil || *cnf.ZoomInfo.TokenValidity <= 0 {
		validity := DefaultTokenValidity
		cnf.ZoomInfo.TokenValidity = &validity
	}
	if cnf.ZoomInfo.OAuthUrl == "" {
		cnf.ZoomInfo.OAuthUrl = DefaultZoomOAuthUrl
	}

	if cnf.AssemblyAiInfo.Host == "" {
		cnf.AssemblyAiInfo.Host = DefaultAssemblyAiHost
	}

	if cnf.LlmSettings.Provider == "" {
		cnf.LlmSettings.Provider = LlmProviderOpenRouter
	}
	if cnf.TtsSettings.Provider == "" {
		cnf.TtsSettings.Provider = TtsProviderElevenLabs
	}
	if cnf.TtsSettings.ElevenLabs != nil {
		el := cnf.TtsSettings.ElevenLabs
		if el.Host == "" {
			el.Host = DefaultElevenLabsHost
		}
		if el.ModelId == "" {
			el.ModelId = DefaultElevenLabsModelId
		}
		if el.Stability == 0 {
			el.Stability = DefaultVoiceStability
		}
		if el.SimilarityBoost == 0 {
			el.SimilarityBoost = DefaultVoiceSimilarityBoost
		}
	}

	if cnf.BotSettings.Name == "" {
		cnf.BotSettings.Name = DefaultBotName
	}
	if cnf.BotSettings.Persona == "" {
		cnf.BotSettings.Persona = DefaultBotPersona
	}

	if cnf.UploadFileSettings.Path == "" {
		cnf.UploadFileSettings.Path = "./uploads"
	}
	if cnf.UploadFileSettings.MaxSize <= 0 {
		cnf.UploadFileSettings.MaxSize = DefaultMaxUploadSize
	}

	p := cnf.UploadFileSettings.Path
	if strings.HasPrefix(p, "./") {
		p = filepath.Join(cnf.RootWorkingDir, p)
		cnf.UploadFileSettings.Path = p
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		if err = os.MkdirAll(p, 0755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", p, err)
		}
	}

	appCnf = cnf
	return cnf, nil
}

// GetConfig returns the global config set by New.
func GetConfig() *AppConfig {
	return appCnf
}
