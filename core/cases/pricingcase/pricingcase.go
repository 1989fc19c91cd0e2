// Package pricingcase analyzes marketplace prices for a product query:
// it gathers listings from the scraper, computes statistics and asks the
// language model for a recommendation.
package pricingcase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kingjawir/marketplace/infrastructure/llm"
	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/validation"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
	// QuickCheckLimit keeps the seller quick check fast.
	QuickCheckLimit = 5
)

var (
	ErrEmptyQuery    = errors.New("query is required")
	ErrInvalidLimit  = fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	ErrNoProducts    = errors.New("no products found for the given query")
	ErrSourcesFailed = errors.New("failed to fetch products from both Tokopedia and Blibli")
	ErrInvalidPrice  = errors.New("price must be greater than zero")
)

// ProductSource searches one marketplace.
type ProductSource interface {
	Search(ctx context.Context, src scraper.Source, query string, limit int) ([]scraper.Product, error)
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

type Case struct {
	log     *logger.Logger
	source  ProductSource
	llm     Generator
	sources []scraper.Source
}

func NewCase(log *logger.Logger, source ProductSource, gen Generator) *Case {
	return &Case{log: log, source: source, llm: gen, sources: scraper.Sources}
}

func normalize(req Request) (Request, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, ErrEmptyQuery
	}
	if req.Limit == 0 {
		req.Limit = DefaultLimit
	}
	if req.Limit < 1 || req.Limit > MaxLimit {
		return req, ErrInvalidLimit
	}
	return req, nil
}

// Analyze runs a full analysis. progress, when set, receives an update
// before each stage.
func (c *Case) Analyze(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	req, err := normalize(req)
	if err != nil {
		return Result{}, err
	}
	report := func(stage, msg string, pct int) {
		if progress != nil {
			progress(Progress{Stage: stage, Message: msg, Progress: pct})
		}
	}

	start := time.Now()
	query := req.Query
	if req.Optimize {
		query = c.OptimizeQuery(ctx, query)
	}

	report(StageFetching, "Mengambil data produk dari marketplace...", 10)
	listings, err := c.fetchAll(ctx, query, req.Limit)
	if err != nil {
		return Result{}, err
	}

	report(StageCalculating, "Menghitung statistik harga...", 40)
	priced := make([]pricedProduct, 0, len(listings))
	prices := make([]int64, 0, len(listings))
	for _, p := range listings {
		v, ok := validation.ParsePrice(p.Price)
		if !ok {
			continue
		}
		priced = append(priced, pricedProduct{Product: p, value: v})
		prices = append(prices, v)
	}
	if len(priced) == 0 {
		return Result{}, ErrNoProducts
	}
	stats := CalculateStats(prices)

	report(StageAnalyzing, "Menganalisis harga dengan AI...", 70)
	analysis := c.analyze(ctx, query, priced, stats, req.UserPrice)

	products := make([]scraper.Product, len(priced))
	for i, p := range priced {
		products[i] = p.Product
	}

	c.log.InfoContext(ctx, "price analysis done",
		"query", query, "products", len(products), "median", stats.Median, "duration", time.Since(start))

	return Result{
		Query:      query,
		Products:   products,
		Statistics: stats,
		Analysis:   analysis,
	}, nil
}

// fetchAll queries every source concurrently. One failing source is
// tolerated.
func (c *Case) fetchAll(ctx context.Context, query string, limit int) ([]scraper.Product, error) {
	results := make([][]scraper.Product, len(c.sources))
	errs := make([]error, len(c.sources))

	var g errgroup.Group
	for i, src := range c.sources {
		g.Go(func() error {
			results[i], errs[i] = c.source.Search(ctx, src, query, limit)
			return nil
		})
	}
	_ = g.Wait()

	var all []scraper.Product
	for i, err := range errs {
		if err != nil {
			c.log.WarnContext(ctx, "price source failed", "source", c.sources[i], "error", err)
			continue
		}
		all = append(all, results[i]...)
	}
	if len(all) == 0 {
		if errors.Join(errs...) != nil {
			return nil, ErrSourcesFailed
		}
		return nil, ErrNoProducts
	}
	return all, nil
}

func (c *Case) analyze(ctx context.Context, query string, products []pricedProduct, stats Statistics, userPrice *int64) Analysis {
	temp := float32(0.7)
	text, err := c.llm.Generate(ctx, llm.Request{
		System:      analystSystem,
		Prompt:      buildAnalysisPrompt(query, products, stats, userPrice),
		Temperature: &temp,
		MaxTokens:   1000,
	})
	if err != nil {
		c.log.WarnContext(ctx, "price analysis falling back", "error", err)
		return fallbackAnalysis(stats)
	}
	return parseAnalysis(text, stats)
}

// OptimizeQuery asks the model to make a bare brand query more specific.
// Any failure keeps the original.
func (c *Case) OptimizeQuery(ctx context.Context, query string) string {
	temp := float32(0.3)
	answer, err := c.llm.Generate(ctx, llm.Request{
		Prompt:      queryOptimizationPrompt(query),
		Temperature: &temp,
		MaxTokens:   50,
	})
	if err != nil {
		c.log.DebugContext(ctx, "query optimization skipped", "error", err)
		return query
	}
	if optimized := cleanOptimizedQuery(answer); optimized != "" {
		if optimized != query {
			c.log.InfoContext(ctx, "query optimized", "from", query, "to", optimized)
		}
		return optimized
	}
	return query
}
