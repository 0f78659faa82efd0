package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sentilens/backend/pkg/circuitbreaker"
	"github.com/sentilens/backend/pkg/logger"
	"github.com/sentilens/backend/pkg/retry"
)

// Client is the chat assistant. It forwards a text digest of the current
// dataset, as an opaque string, together with the user's question; it
// never interprets the digest itself.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewClient(apiKey, model string, temperature float32, maxTokens, timeoutSec int) *Client {
	client := openai.NewClient(apiKey)

	cb := circuitbreaker.NewCircuitBreaker("llm", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Logger:       logger.GetLogger(),
	}

	logger.Info("LLM client initialized", zap.String("model", model))

	return &Client{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     time.Duration(timeoutSec) * time.Second,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

// ChatWithData answers a question grounded only in the dataset digest.
func (c *Client) ChatWithData(ctx context.Context, question, digest string) (string, error) {
	systemPrompt := fmt.Sprintf(`You are a Data Analyst. Answer based ONLY on this summary:
%s
If the answer isn't there, say so. Keep answers concise.`, digest)

	return c.complete(ctx, systemPrompt, question)
}

// AutoInsights asks for high-level observations about the dataset's
// sentiment balance and volume.
func (c *Client) AutoInsights(ctx context.Context, filename, metadata string) (string, error) {
	prompt := fmt.Sprintf(`Analyze this dataset metadata for '%s': %s

Provide 3 brief, high-level business insights or observations in a numbered list.
Focus on sentiment balance and data volume.`, filename, metadata)

	return c.complete(ctx, "", prompt)
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var messages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	resp, err := retry.DoWithResult(ctx, c.retryConfig, func() (openai.ChatCompletionResponse, error) {
		var inner openai.ChatCompletionResponse
		cbErr := c.cb.Execute(ctx, func() error {
			var callErr error
			inner, callErr = c.client.CreateChatCompletion(ctx, req)
			return callErr
		})
		return inner, cbErr
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	logger.Debug("Chat completion finished",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}
