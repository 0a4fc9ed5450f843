package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
	"go.uber.org/zap"
)

// InvokeModelAPI is the subset of the Bedrock runtime client the narrator uses
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Narrator is an implementation of the Narrator interface using Amazon Bedrock
type Narrator struct {
	client        InvokeModelAPI
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxReportSize int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewNarrator creates a new Bedrock narrator
func NewNarrator(
	client InvokeModelAPI,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxReportSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Narrator {
	return &Narrator{
		client:        client,
		modelID:       modelID,
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

	payload, err := n.requestPayload(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := n.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(n.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := n.responseText(resp.Body)
	if err != nil {
		return nil, err
	}

	parsed, err := utils.ParseNarrativeResponse(responseText)
	if err != nil {
		return nil, err
	}

	n.logger.Debug("Narrative generated",
		zap.String("model", n.modelID),
		zap.Int("actions", len(parsed.Actions)))

	return &core.Narrative{
		Summary:     parsed.Summary,
		Actions:     parsed.Actions,
		ModelUsed:   n.modelID,
		GeneratedAt: time.Now(),
	}, nil
}

// requestPayload builds the model-family specific request body
func (n *Narrator) requestPayload(prompt string) ([]byte, error) {
	switch {
	case n.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": n.maxTokens,
			"temperature":          n.temperature,
			"top_p":                n.topP,
		})
	case n.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": n.maxTokens,
				"temperature":   n.temperature,
				"topP":          n.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  n.maxTokens,
			"temperature": n.temperature,
			"top_p":       n.topP,
		})
	}
}

// responseText extracts the generated text from a model-family specific body
func (n *Narrator) responseText(body []byte) (string, error) {
	switch {
	case n.isAnthropicModel():
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case n.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case genericResp.Output != "":
			return genericResp.Output, nil
		case genericResp.Text != "":
			return genericResp.Text, nil
		case genericResp.Response != "":
			return genericResp.Response, nil
		default:
			return string(body), nil
		}
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (n *Narrator) isAnthropicModel() bool {
	return strings.HasPrefix(n.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (n *Narrator) isAmazonTitanModel() bool {
	return strings.HasPrefix(n.modelID, "amazon.titan")
}
