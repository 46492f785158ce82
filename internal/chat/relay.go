package chat

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Failure classification sentinels. Callers branch with errors.Is to pick
// status codes and user-safe copy.
var (
	ErrOverloaded    = errors.New("chat model overloaded")
	ErrSafetyBlocked = errors.New("chat reply blocked by safety filter")
	ErrNetwork       = errors.New("chat provider unreachable")
)

// Relay is the stateless request/response text collaborator: one message plus
// its history in, one reply out.
type Relay interface {
	Reply(ctx context.Context, message string, history []Turn) (string, error)
}

// ReplyFunc adapts a function to the Relay interface.
type ReplyFunc func(ctx context.Context, message string, history []Turn) (string, error)

func (f ReplyFunc) Reply(ctx context.Context, message string, history []Turn) (string, error) {
	return f(ctx, message, history)
}

// OpenAIRelay answers with a chat-completion model behind the OpenAI wire API.
type OpenAIRelay struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// RelayConfig wires the LLM client. BaseURL is optional and exists for
// API-compatible gateways and tests.
type RelayConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

func NewOpenAIRelay(cfg RelayConfig) *OpenAIRelay {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 250
	}
	return &OpenAIRelay{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Reply maps widget history onto chat-completion messages and returns the
// model's text. Failures come back wrapped in the classification sentinels.
func (r *OpenAIRelay) Reply(ctx context.Context, message string, history []Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		text := turn.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: text})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     r.model,
		Messages:  messages,
		MaxTokens: r.maxTokens,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", ErrNetwork)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", ErrSafetyBlocked
	}
	return strings.TrimSpace(choice.Message.Content), nil
}

// classify maps transport/API failures onto the relay sentinels.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429, 503:
			return fmt.Errorf("%w: %v", ErrOverloaded, err)
		case 400:
			if strings.Contains(strings.ToLower(fmt.Sprint(apiErr.Message)), "content") {
				return fmt.Errorf("%w: %v", ErrSafetyBlocked, err)
			}
		}
		return err
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case 429, 503:
			return fmt.Errorf("%w: %v", ErrOverloaded, err)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return err
}
