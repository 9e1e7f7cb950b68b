package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jokedex/internal/domain"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
	"github.com/kailas-cloud/jokedex/internal/metrics"
)

// Name is the registry name of the LLM generator.
const Name = "openai"

// DefaultPrompt asks for a single short joke as a JSON object.
const DefaultPrompt = `Write one short, original, family-friendly joke. ` +
	`Reply with a JSON object with exactly two string fields: "title" and "body".`

// Generator writes new jokes with an OpenAI-compatible chat completion API.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	prompt      string
	logger      *zap.Logger
	newID       func() string
}

// Config holds the generator settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Prompt      string
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible joke generator.
func NewGenerator(cfg *Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	prompt := cfg.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		prompt:      prompt,
		logger:      log,
		newID:       uuid.NewString,
	}
}

// Name implements generate.Generator.
func (g *Generator) Name() string { return Name }

// Generate asks the model for one joke. Generated jokes carry no score.
func (g *Generator) Generate(ctx context.Context) (joke.Joke, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: g.prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.GenerationErrorsTotal.WithLabelValues(g.model, "api_error").Inc()
		return joke.Joke{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationErrorsTotal.WithLabelValues(g.model, "empty_response").Inc()
		return joke.Joke{}, fmt.Errorf("empty completion response: %w", domain.ErrGenerationFailed)
	}

	metrics.GenerationRequestDuration.WithLabelValues(g.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	title, body, err := parseJoke(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.GenerationErrorsTotal.WithLabelValues(g.model, "bad_content").Inc()
		return joke.Joke{}, err
	}

	g.logger.Debug("joke generated",
		zap.String("model", g.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return joke.NewUnscored(g.newID(), title, body), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseJoke accepts the requested JSON object and falls back to plain text as the body.
func parseJoke(content string) (title, body string, err error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", "", fmt.Errorf("empty completion content: %w", domain.ErrGenerationFailed)
	}

	var parsed struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if json.Unmarshal([]byte(content), &parsed) == nil {
		if strings.TrimSpace(parsed.Body) == "" {
			return "", "", fmt.Errorf("completion has no joke body: %w", domain.ErrGenerationFailed)
		}
		return strings.TrimSpace(parsed.Title), strings.TrimSpace(parsed.Body), nil
	}
	return "", content, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrGenerationFailed for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrGenerationFailed

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("completion request: %w: %w", err, wrap)
	}
	return fmt.Errorf("completion request failed: %w", wrap)
}

// extractDetail returns the "detail" field of a JSON error body, or "" when the body has none.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
