package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// Client implements speech.ReplyGenerator with Google's genai models as an
// alternative to the default OpenAI-compatible provider.
type Client struct {
	client  *genai.Client
	model   string
	persona string
	logger  *logrus.Entry
}

func NewClient(ctx context.Context, app *config.AppConfig, logger *logrus.Logger) (*Client, error) {
	info := app.LlmSettings.Google
	if info == nil || info.ApiKey == "" {
		return nil, errors.New("google provider requires api_key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: info.ApiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		client:  client,
		model:   info.Model,
		persona: app.BotSettings.Persona,
		logger:  logger.WithField("provider", "google"),
	}, nil
}

func (c *Client) GenerateReply(ctx context.Context, transcript, contextBlock string) (string, error) {
	system := fmt.Sprintf("%s\n\nContext: %s\n\nRespond naturally to the conversation. Keep responses concise and professional.",
		c.persona, contextBlock)

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens:   config.MaxReplyTokens,
		Temperature:       genai.Ptr[float32](config.ReplyTemperature),
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text("Meeting transcript: "+transcript), cfg)
	if err != nil {
		return "", fmt.Errorf("google: generate content failed: %w", err)
	}

	var builder strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				builder.WriteString(part.Text)
			}
		}
	}
	if builder.Len() == 0 {
		return "", errors.New("google: no reply content found in response")
	}

	return builder.String(), nil
}
