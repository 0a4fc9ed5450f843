package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Narrator is an implementation of the Narrator interface using Google Gemini
type Narrator struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxReportSize int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewNarrator creates a new Gemini narrator
func NewNarrator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxReportSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Narrator, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(utils.NarrativeSystemPrompt)},
	}

	return &Narrator{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxReportSize: maxReportSize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (n *Narrator) Close() error {
	if n.client != nil {
		return n.client.Close()
	}
	return nil
}

// Narrate asks the model for an executive briefing of the report
func (n *Narrator) Narrate(ctx context.Context, report *core.AnalysisReport) (*core.Narrative, error) {
	digest := n.textProcessor.ProcessText(utils.FormatReportDigest(report), n.maxReportSize)
	prompt := fmt.Sprintf(utils.NarrativePrompt, digest)

	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	parsed, err := utils.ParseNarrativeResponse(text.String())
	if err != nil {
		return nil, err
	}

	n.logger.Debug("Narrative generated",
		zap.String("model", n.modelName),
		zap.Int("actions", len(parsed.Actions)))

	return &core.Narrative{
		Summary:     parsed.Summary,
		Actions:     parsed.Actions,
		ModelUsed:   n.modelName,
		GeneratedAt: time.Now(),
	}, nil
}
