package modelclient

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatClient captures the subset of the OpenAI SDK client used by the
// adapter, so callers can pass either a real client or a mock in tests.
type ChatClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIClient drafts text through the OpenAI Chat Completions API.
type OpenAIClient struct {
	chat  ChatClient
	model string
}

// NewOpenAI builds a Client from an OpenAI chat-completions client and the
// model identifier to use for every request.
func NewOpenAI(chat ChatClient, model string) (*OpenAIClient, error) {
	if chat == nil {
		return nil, errors.New("openai chat client is required")
	}
	if model == "" {
		return nil, errors.New("openai model identifier is required")
	}
	return &OpenAIClient{chat: chat, model: model}, nil
}

// NewOpenAIFromAPIKey constructs an OpenAIClient using the default OpenAI
// HTTP client, authenticated with apiKey (which must be non-empty).
func NewOpenAIFromAPIKey(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	oc := openai.NewClient(option.WithAPIKey(apiKey))
	return NewOpenAI(&oc.Chat.Completions, model)
}

// Generate issues a single-turn chat completion request and returns its
// first choice's message content.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
