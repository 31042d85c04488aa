package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicollab/study-api/pkg/config"
	appErrors "github.com/unicollab/study-api/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.AIConfig{
		BaseURL:     srv.URL + "/v1",
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.3,
		Timeout:     5 * time.Second,
	}, nil)
	return client, srv
}

func completionBody(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "cmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": content},
			},
		},
	}
}

func TestCompleteReturnsReply(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionBody("---SUMMARY--- hi ---QUIZ--- []"))
	})

	reply, err := client.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Contains(t, reply, "---SUMMARY---")
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestCompleteProviderFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "upstream down"}}`, http.StatusBadGateway)
	})

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAIProvider.Code, appErrors.FromError(err).Code)
}

func TestCompleteEmptyChoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAIProvider.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "no completion")
}
