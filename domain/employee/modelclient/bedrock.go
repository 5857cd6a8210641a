package modelclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	smithy "github.com/aws/smithy-go"
)

// ErrThrottled reports an AWS-side ThrottlingException, distinguished from
// other Bedrock failures so callers can apply their own backoff.
var ErrThrottled = errors.New("modelclient: bedrock throttled")

// ConverseClient captures the subset of the Bedrock runtime client used by
// the adapter, matching *bedrockruntime.Client so callers can pass either
// the real client or a mock in tests.
type ConverseClient interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient drafts text through the Bedrock Converse API.
type BedrockClient struct {
	rt      ConverseClient
	modelID string
}

// NewBedrock builds a Client from a Bedrock runtime client and the model
// ID to use for every request.
func NewBedrock(rt ConverseClient, modelID string) (*BedrockClient, error) {
	if rt == nil {
		return nil, errors.New("bedrock runtime client is required")
	}
	if modelID == "" {
		return nil, errors.New("bedrock model id is required")
	}
	return &BedrockClient{rt: rt, modelID: modelID}, nil
}

// Generate issues a single-turn Converse request and returns the
// concatenated text of the assistant's output message.
func (c *BedrockClient) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := c.rt.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		Messages: []brtypes.Message{
			{
				Role:    brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: prompt}},
			},
		},
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ThrottlingException" {
			return "", fmt.Errorf("%w: %w", ErrThrottled, err)
		}
		return "", err
	}

	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", ErrEmptyCompletion
	}
	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}
