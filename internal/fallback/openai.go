package fallback

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Compile-time interface check
var _ Classifier = (*OpenAI)(nil)

// ChatService is the slice of the OpenAI client the classifier needs. The
// abstraction enables testing without calling the real API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements the fallback Classifier on the OpenAI chat API.
type OpenAI struct {
	chat  ChatService
	model openai.ChatModel
}

// NewOpenAI creates an OpenAI-backed fallback classifier.
func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		chat:  client.Chat.Completions,
		model: openai.ChatModel(model),
	}
}

const systemPrompt = "You classify short development events. Reply with exactly one line: <category> <confidence>, where category is one of the offered values and confidence is a number between 0 and 1."

// Classify asks the model to pick one category from the enumeration. The
// reply must name an offered category; anything else is an error so the
// caller keeps its rule-based result.
func (o *OpenAI) Classify(ctx context.Context, text string, categories []string) (Result, error) {
	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf("Categories: %s\n\nText:\n%s", strings.Join(categories, ", "), text)),
		}),
		Model: openai.F(o.model),
	})
	if err != nil {
		return Result{}, fmt.Errorf("fallback classification failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("fallback classification failed: no choices returned")
	}
	return parseReply(resp.Choices[0].Message.Content, categories)
}

func parseReply(reply string, categories []string) (Result, error) {
	fields := strings.Fields(strings.TrimSpace(reply))
	if len(fields) == 0 {
		return Result{}, fmt.Errorf("empty fallback reply")
	}

	category := strings.ToLower(strings.Trim(fields[0], ".,:"))
	known := false
	for _, c := range categories {
		if category == c {
			known = true
			break
		}
	}
	if !known {
		return Result{}, fmt.Errorf("fallback reply names unknown category %q", category)
	}

	confidence := 0.5
	if len(fields) > 1 {
		parsed, err := strconv.ParseFloat(strings.Trim(fields[len(fields)-1], ".,"), 64)
		if err == nil {
			confidence = parsed
		}
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return Result{Category: category, Confidence: confidence}, nil
}
