package ai

import (
	"context"
	"crossexam/internal/errors"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the model answers with no choices.
var ErrEmptyCompletion = errors.NewSentinel("completion contained no choices")

const MaxTokens = 4096

// Client wraps the OpenAI-compatible chat completion API in JSON mode. The
// model is instructed to emit a single machine-parseable JSON object; callers
// are responsible for validating its shape.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient builds a Client for the given API key and model. baseURL overrides
// the API endpoint when non-empty, which lets tests point the client at a stub
// server.
func NewClient(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// StructuredCompletion sends the full message history and returns the raw JSON
// text of the reply. Statefulness across turns comes from replaying the
// accumulated history on every call, so each call is a continuation of the
// same model conversation rather than a fresh request.
func (c *Client) StructuredCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages:  messages,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion", slog.String("model", c.model))
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return completion.Choices[0].Message.Content, nil
}
