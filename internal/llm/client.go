// Package llm implements the chat and embedding capabilities on top of an
// OpenAI-compatible API, so local Ollama-style endpoints work with a
// base URL override.
package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"logwhisper/internal/domain"
)

// Config configures the API client.
type Config struct {
	BaseURL        string
	APIKeyEnv      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
}

// Client wraps the OpenAI-compatible API as both a domain.ChatModel and a
// domain.Embedder.
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel string
}

// New creates a client. A missing API key is a configuration error: the
// caller must not start a session without a working model capability.
func New(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s; run `logwhisper configure` first", cfg.APIKeyEnv)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	apiCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		api:            openai.NewClientWithConfig(apiCfg),
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
	}, nil
}

// Invoke sends the ordered message sequence to the chat model and returns
// its text output.
func (c *Client) Invoke(ctx context.Context, messages []domain.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    apiRole(m.Role),
			Content: m.Content,
		})
	}
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the embedding model identifier used for cache keying.
func (c *Client) Model() string { return c.embeddingModel }

// EmbedBatch embeds the given texts and L2-normalizes the vectors so the
// searcher can rank by dot product.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response size mismatch: got %d, want %d", len(resp.Data), len(texts))
	}
	vectors := make([][]float64, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("embeddings response index %d out of range", item.Index)
		}
		v := make([]float64, len(item.Embedding))
		for i, f := range item.Embedding {
			v[i] = float64(f)
		}
		normalize(v)
		vectors[item.Index] = v
	}
	return vectors, nil
}

func apiRole(role string) string {
	switch role {
	case domain.MessageRoleSystem:
		return openai.ChatMessageRoleSystem
	case domain.MessageRoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

func normalize(v []float64) {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}
