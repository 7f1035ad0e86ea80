package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const enhancePrompt = `Enhance this job posting for a reel video:
%s

Create engaging social media content with:
1. A catchy hook (max 30 characters)
2. Call-to-action text
3. Relevant hashtags

Keep the original job details intact. Return JSON with: hook, cta, hashtags`

// OpenAIConfig configures the chat completions client
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// OpenAIEnhancer asks a chat completion model for hook, cta and hashtags
type OpenAIEnhancer struct {
	cfg    OpenAIConfig
	client *openai.Client
}

func NewOpenAIEnhancer(cfg OpenAIConfig) *OpenAIEnhancer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIEnhancer{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (e *OpenAIEnhancer) Enhance(ctx context.Context, job JobPosting) (*Enhancement, error) {
	if e.cfg.APIKey == "" {
		return nil, ErrEnhancerUnavailable
	}

	jobJSON, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job posting: %w", err)
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(enhancePrompt, jobJSON)},
		},
		MaxTokens: e.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	return ParseEnhancement(resp.Choices[0].Message.Content)
}
