package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type completionRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newRelayServer(t *testing.T, handler http.HandlerFunc) (*OpenAIRelay, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	relay := NewOpenAIRelay(RelayConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
	})
	return relay, server
}

func completionReply(w http.ResponseWriter, text string, finishReason string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": finishReason,
			"message":       map[string]string{"role": "assistant", "content": text},
		}},
	})
}

func TestReplyMapsHistoryAndSystemPrompt(t *testing.T) {
	var got completionRequest

	relay, _ := newRelayServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		completionReply(w, "  We build custom web apps.  ", "stop")
	})

	history := []Turn{
		UserTurn("hi"),
		ModelTurn(WelcomeMessage),
	}
	reply, err := relay.Reply(context.Background(), "what do you do?", history)
	require.NoError(t, err)
	require.Equal(t, "We build custom web apps.", reply)

	require.Equal(t, 250, got.MaxTokens)
	require.Len(t, got.Messages, 4)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Contains(t, got.Messages[0].Content, "Chetu")
	require.Equal(t, "user", got.Messages[1].Role)
	require.Equal(t, "hi", got.Messages[1].Content)
	require.Equal(t, "assistant", got.Messages[2].Role)
	require.Equal(t, WelcomeMessage, got.Messages[2].Content)
	require.Equal(t, "user", got.Messages[3].Role)
	require.Equal(t, "what do you do?", got.Messages[3].Content)
}

func TestReplySkipsEmptyHistoryTurns(t *testing.T) {
	var got completionRequest

	relay, _ := newRelayServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		completionReply(w, "ok", "stop")
	})

	_, err := relay.Reply(context.Background(), "hello", []Turn{
		{Role: RoleUser, Parts: []Part{{Text: "   "}}},
	})
	require.NoError(t, err)
	require.Len(t, got.Messages, 2, "blank turns must be dropped")
}

func TestReplyOverloadedClassification(t *testing.T) {
	relay, _ := newRelayServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"engine overloaded","type":"server_error"}}`))
	})

	_, err := relay.Reply(context.Background(), "hi", nil)
	require.ErrorIs(t, err, ErrOverloaded)
}

func TestReplySafetyBlockedFinishReason(t *testing.T) {
	relay, _ := newRelayServer(t, func(w http.ResponseWriter, _ *http.Request) {
		completionReply(w, "", "content_filter")
	})

	_, err := relay.Reply(context.Background(), "something nasty", nil)
	require.ErrorIs(t, err, ErrSafetyBlocked)
}

func TestTurnTextJoinsParts(t *testing.T) {
	turn := Turn{Role: RoleUser, Parts: []Part{{Text: "hello "}, {Text: "world"}}}
	require.Equal(t, "hello world", turn.Text())
	require.Equal(t, "solo", UserTurn("solo").Text())
	require.Equal(t, RoleModel, ModelTurn("x").Role)
}
