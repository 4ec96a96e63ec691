package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shipping/estimator/internal/config"
	"shipping/estimator/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Predictor sends a query to the knowledge-producing model and returns its raw text reply.
type Predictor interface {
	Predict(ctx context.Context, query domain.PredictorQuery) (string, error)
	Model() string
}

// ChatMessage is one chat completion message
type ChatMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is a text or image part of a message
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an inline image
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// ChatRequest is the chat completion request body
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

// ChatResponse is the subset of the chat completion response we read
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

var errEmptyReply = errors.New("predictor returned no content")

type chatPredictor struct {
	rl         ratelimit.Limiter
	config     config.PredictorConfig
	httpClient *resty.Client
}

// NewChatPredictor returns a Predictor backed by an OpenAI compatible
// /chat/completions endpoint. No retries are made.
func NewChatPredictor(cfg config.PredictorConfig) Predictor {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &chatPredictor{
		rl:         rl,
		config:     cfg,
		httpClient: client,
	}
}

func (p *chatPredictor) Model() string {
	return p.config.Model
}

func (p *chatPredictor) Predict(ctx context.Context, query domain.PredictorQuery) (string, error) {
	body := p.buildRequest(query)

	p.rl.Take()

	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to call predictor: %w", err)
	}

	var chat ChatResponse
	decodeErr := json.Unmarshal([]byte(resp.String()), &chat)

	if resp.IsError() {
		if decodeErr == nil && chat.Error != nil && chat.Error.Message != "" {
			return "", fmt.Errorf("predictor HTTP error: %d %s", resp.StatusCode(), chat.Error.Message)
		}
		return "", fmt.Errorf("predictor HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode predictor response: %w", decodeErr)
	}

	if len(chat.Choices) == 0 {
		return "", errEmptyReply
	}

	content := strings.TrimSpace(chat.Choices[0].Message.Content)
	if content == "" {
		return "", errEmptyReply
	}

	log.Debugf("Predictor replied with %d characters (finish_reason=%s)", len(content), chat.Choices[0].FinishReason)
	return content, nil
}

func (p *chatPredictor) buildRequest(query domain.PredictorQuery) *ChatRequest {
	user := []ContentPart{{Type: "text", Text: query.Prompt}}
	if query.Image != nil {
		user = append(user, ContentPart{
			Type: "image_url",
			ImageURL: &ImageURL{
				URL:    query.Image.DataURL(),
				Detail: "high",
			},
		})
	}

	messages := make([]ChatMessage, 0, 2)
	if query.System != "" {
		messages = append(messages, ChatMessage{
			Role:    "system",
			Content: []ContentPart{{Type: "text", Text: query.System}},
		})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: user})

	return &ChatRequest{
		Model:       p.config.Model,
		Messages:    messages,
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
	}
}
