package brain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

// Generation parameters are fixed: one candidate, non-streaming.
const (
	modelID         = "gemini-2.5-flash"
	maxOutputTokens = 600
	temperature     = 0.7
	topP            = 0.5
	topK            = 1
	candidateCount  = 1
)

// describePrompt is the fixed pre-step prompt used to summarize the post
// image before the main reply prompt is built.
const describePrompt = "Describe this social media post: the image content, " +
	"the caption context if visible, the overall tone, and the main visual " +
	"elements. Keep it under 120 words."

// GeminiBrain generates replies with a hosted multimodal Gemini model.
type GeminiBrain struct {
	client *genai.Client
	log    *slog.Logger
}

// NewGeminiBrain builds the inference adapter. The API key comes from apiKey
// or, when empty, from the first line of keyFile. A missing or unreadable key
// leaves the adapter unconstructed; callers substitute Disabled for the run.
func NewGeminiBrain(ctx context.Context, apiKey, keyFile string, log *slog.Logger) (*GeminiBrain, error) {
	if apiKey == "" && keyFile != "" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("reading API key file: %w", err)
		}
		apiKey = strings.TrimSpace(string(data))
	}
	if apiKey == "" {
		return nil, errors.New("inference API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}

	return &GeminiBrain{client: client, log: log}, nil
}

var _ ports.Brain = (*GeminiBrain)(nil)

func (b *GeminiBrain) GenerateReply(ctx context.Context, prompt string, image domain.InlineImage) (string, error) {
	return b.generate(ctx, prompt, image)
}

func (b *GeminiBrain) DescribeImage(ctx context.Context, image domain.InlineImage) (string, error) {
	return b.generate(ctx, describePrompt, image)
}

func (b *GeminiBrain) generate(ctx context.Context, prompt string, image domain.InlineImage) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image.Data, image.MIMEType),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		CandidateCount:   candidateCount,
		MaxOutputTokens:  maxOutputTokens,
		Temperature:      genai.Ptr[float32](temperature),
		TopP:             genai.Ptr[float32](topP),
		TopK:             genai.Ptr[float32](topK),
		FrequencyPenalty: genai.Ptr[float32](0),
		PresencePenalty:  genai.Ptr[float32](0),
	}

	b.log.Info("calling inference API", "model", modelID, "prompt_chars", len(prompt), "image_bytes", len(image.Data))

	result, err := b.client.Models.GenerateContent(ctx, modelID, contents, config)
	if err != nil {
		return "", &domain.InferenceError{Reason: "chat call failed", Err: err}
	}

	if result == nil || len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", &domain.InferenceError{Reason: "invalid or empty response"}
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}
