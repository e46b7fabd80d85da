package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/plagzap/plagzap/internal/model"
)

const detectionPrompt = `You are an AI content detector. Analyze the following text and decide whether it was written by an AI model or by a human.

Scoring guidelines:
- 0-20: clearly human (personal voice, imperfections, unique style)
- 20-40: probably human
- 40-60: mixed or uncertain
- 60-80: probably AI (formal, structured, generic)
- 80-100: clearly AI (uniform sentences, encyclopedic tone, no personality)

Respond with a single JSON object and nothing else:
{"score": <0-100 integer>, "reason": "<one sentence>", "language": "<language of the text>"}

Text to analyze:
`

// OpenAIDetector scores texts with an OpenAI-compatible chat model.
// Setting BaseURL points the client at any compatible endpoint.
type OpenAIDetector struct {
	client *openai.Client
	cfg    model.DetectorConfig
}

// NewOpenAIDetector creates a detector backed by the OpenAI API.
func NewOpenAIDetector(cfg model.DetectorConfig) (*OpenAIDetector, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai detector requires an API key")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIDetector{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name.
func (d *OpenAIDetector) Name() string { return "openai" }

// Detect asks the model for a JSON verdict and parses it.
func (d *OpenAIDetector) Detect(ctx context.Context, text string) (Detection, error) {
	modelName := d.cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	maxTokens := d.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You classify texts as AI-generated or human-written and answer only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: detectionPrompt + text,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return Detection{}, fmt.Errorf("openai detection: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Detection{}, fmt.Errorf("openai detection: empty response")
	}

	return parseVerdict(resp.Choices[0].Message.Content)
}

// parseVerdict extracts the JSON verdict from the model output, tolerating
// surrounding prose or markdown fences.
func parseVerdict(content string) (Detection, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Detection{}, fmt.Errorf("no JSON verdict in response")
	}

	var det Detection
	if err := json.Unmarshal([]byte(content[start:end+1]), &det); err != nil {
		return Detection{}, fmt.Errorf("parse verdict: %w", err)
	}

	if det.Score < 0 {
		det.Score = 0
	}
	if det.Score > 100 {
		det.Score = 100
	}
	if det.Language == "" {
		det.Language = "English"
	}
	return det, nil
}
