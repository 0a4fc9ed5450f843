package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Narrator is an implementation of the Narrator interface using OpenAI
type Narrator struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxReportSize int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewNarrator creates a new OpenAI narrator
func NewNarrator(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxReportSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Narrator {
	return &Narrator{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxReportSize: maxReportSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Narrate asks the model for an executive briefing of the report
func (n *Narrator) Narrate(ctx context.Context, report *core.AnalysisReport) (*core.Narrative, error) {
	digest := n.textProcessor.ProcessText(utils.FormatReportDigest(report), n.maxReportSize)
	prompt := fmt.Sprintf(utils.NarrativePrompt, digest)

	req := openai.ChatCompletionRequest{
		Model: n.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: utils.NarrativeSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   n.maxTokens,
		Temperature: n.temperature,
		TopP:        n.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := n.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	parsed, err := utils.ParseNarrativeResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	n.logger.Debug("Narrative generated",
		zap.String("model", n.modelName),
		zap.String("response_id", resp.ID),
		zap.Int("actions", len(parsed.Actions)))

	return &core.Narrative{
		Summary:     parsed.Summary,
		Actions:     parsed.Actions,
		ModelUsed:   n.modelName,
		GeneratedAt: time.Now(),
	}, nil
}
