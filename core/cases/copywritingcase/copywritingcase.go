// Package copywritingcase writes marketplace copy with the language model:
// product descriptions, per-platform marketing posts and the seller
// description tools. Every generator has a canned fallback so the endpoints
// keep answering when the model is down.
package copywritingcase

import (
	"context"
	"errors"

	"github.com/kingjawir/marketplace/infrastructure/llm"
	"github.com/kingjawir/marketplace/sdk/logger"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput    = errors.New("invalid product input")
	ErrInvalidPlatform = errors.New("invalid marketing input")
	ErrGeneration      = errors.New("ai generation failed")
	ErrMalformed       = errors.New("ai response has an invalid format")
)

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

type Case struct {
	log *logger.Logger
	llm Generator
}

func NewCase(log *logger.Logger, gen Generator) *Case {
	return &Case{log: log, llm: gen}
}

// generateAll runs the prompts concurrently and returns the answers in
// order. The first error cancels the rest.
func (c *Case) generateAll(ctx context.Context, system string, temp float32, prompts ...string) ([]string, error) {
	out := make([]string, len(prompts))
	g, ctx := errgroup.WithContext(ctx)
	for i, prompt := range prompts {
		g.Go(func() error {
			text, err := c.llm.Generate(ctx, llm.Request{
				System:      system,
				Prompt:      prompt,
				Temperature: &temp,
			})
			out[i] = text
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// jsonRequest asks for a JSON answer.
func jsonRequest(prompt string, temp float32, maxTokens int32) llm.Request {
	return llm.Request{Prompt: prompt, Temperature: &temp, MaxTokens: maxTokens, JSON: true}
}
