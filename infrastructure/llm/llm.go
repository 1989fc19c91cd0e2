// Package llm is a thin text-generation client over the Gemini API. Callers
// keep their own fallbacks: when no API key is configured every call returns
// ErrNotConfigured.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kingjawir/marketplace/sdk/environment"
	"github.com/kingjawir/marketplace/sdk/logger"
	"google.golang.org/genai"
)

var (
	ErrNotConfigured = errors.New("llm: api key not configured")
	ErrEmptyResponse = errors.New("llm: empty response")
)

type Config struct {
	APIKey      string        `env:"GEMINI_API_KEY"`
	Model       string        `env:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	Timeout     time.Duration `env:"GEMINI_TIMEOUT" default:"60s"`
	Temperature float32       `env:"GEMINI_TEMPERATURE" default:"0.7"`
}

// Request is one generation call.
type Request struct {
	System      string
	Prompt      string
	Temperature *float32
	MaxTokens   int32
	// JSON asks the model for an application/json response.
	JSON bool
}

type Client struct {
	log    *logger.Logger
	cfg    Config
	models *genai.Models
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	c := &Client{log: log, cfg: cfg}
	if cfg.APIKey == "" {
		log.WarnContext(ctx, "GEMINI_API_KEY is not set, AI features will use fallbacks")
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.models = client.Models
	return c, nil
}

func NewClientFromEnv(ctx context.Context, log *logger.Logger, prefix string) (*Client, error) {
	var cfg Config
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing llm config: %w", err)
	}
	return NewClient(ctx, log, cfg)
}

// Configured reports whether calls can reach the model.
func (c *Client) Configured() bool {
	return c.models != nil
}

// Generate sends a single prompt and returns the trimmed text answer.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.models == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	temp := c.cfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = req.MaxTokens
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}

	started := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.Prompt), gc)
	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	c.log.DebugContext(ctx, "llm response", "model", c.cfg.Model, "chars", len(text), "took", time.Since(started))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
