package openrouter

import (
	"context"
	"errors"
	"fmt"

	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
)

// Client implements speech.ReplyGenerator on top of any OpenAI-compatible
// chat-completions endpoint; OpenRouter is the default target.
type Client struct {
	client  openai.Client
	model   string
	persona string
	logger  *logrus.Entry
}

func NewClient(app *config.AppConfig, logger *logrus.Logger) (*Client, error) {
	info := app.LlmSettings.OpenRouter
	if info == nil || info.ApiKey == "" {
		return nil, errors.New("openrouter provider requires api_key")
	}

	opts := []option.RequestOption{option.WithAPIKey(info.ApiKey)}
	if info.BaseUrl != "" {
		opts = append(opts, option.WithBaseURL(info.BaseUrl))
	}

	return &Client{
		client:  openai.NewClient(opts...),
		model:   info.Model,
		persona: app.BotSettings.Persona,
		logger:  logger.WithField("provider", "openrouter"),
	}, nil
}

// GenerateReply asks for a bounded-length completion primed with the bot
// persona and the recent conversation context.
func (c *Client) GenerateReply(ctx context.Context, transcript, contextBlock string) (string, error) {
	system := fmt.Sprintf("%s\n\nContext: %s\n\nRespond naturally to the conversation. Keep responses concise and professional.",
		c.persona, contextBlock)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage("Meeting transcript: " + transcript),
		},
		MaxTokens:   openai.Int(config.MaxReplyTokens),
		Temperature: openai.Float(config.ReplyTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("openrouter: empty completion response")
	}

	return completion.Choices[0].Message.Content, nil
}
