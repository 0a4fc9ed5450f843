package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/contract-sentinel/internal/adapters/openai"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
)

func newTestNarrator(t *testing.T, handler http.HandlerFunc) *openai.Narrator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := goopenai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	logger := zaptest.NewLogger(t)
	return openai.NewNarrator(goopenai.NewClientWithConfig(cfg), "gpt-4", 256, 0.2, 0.9, 4096,
		logger, utils.NewTextProcessor(logger))
}

func TestNarrator_Narrate(t *testing.T) {
	n := newTestNarrator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req goopenai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "pending: 3")
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, goopenai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "chatcmpl-1",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]string{
					"role":    "assistant",
					"content": `{"summary": "Three contracts pending.", "actions": ["Chase legal", "Book review"]}`,
				},
			}},
		})
	})

	narrative, err := n.Narrate(context.Background(), &core.AnalysisReport{TotalRecords: 5, TotalPending: 3})
	require.NoError(t, err)
	assert.Equal(t, "Three contracts pending.", narrative.Summary)
	assert.Equal(t, []string{"Chase legal", "Book review"}, narrative.Actions)
	assert.Equal(t, "gpt-4", narrative.ModelUsed)
}

func TestNarrator_EmptyChoices(t *testing.T) {
	n := newTestNarrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-2", "choices": []}`))
	})

	_, err := n.Narrate(context.Background(), &core.AnalysisReport{})
	assert.ErrorContains(t, err, "empty response")
}

func TestNarrator_APIError(t *testing.T) {
	n := newTestNarrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited", "type": "requests"}}`))
	})

	_, err := n.Narrate(context.Background(), &core.AnalysisReport{})
	assert.Error(t, err)
}
