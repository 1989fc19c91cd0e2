// Package scraper renders marketplace search pages in a headless browser
// and extracts product cards from them.
package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kingjawir/marketplace/sdk/logger"
	"golang.org/x/sync/errgroup"
)

type source struct {
	target func(query string, limit int) Target
	parse  func(page string, limit int) ([]Product, error)
}

var sources = map[Source]source{
	Tokopedia: {target: tokopediaTarget, parse: ParseTokopedia},
	Blibli:    {target: blibliTarget, parse: ParseBlibli},
}

// Service runs searches against a Renderer, consulting the cache first when
// one is configured.
type Service struct {
	log      *logger.Logger
	renderer Renderer
	cache    *Cache
}

func NewService(log *logger.Logger, renderer Renderer, cache *Cache) *Service {
	return &Service{log: log, renderer: renderer, cache: cache}
}

// NormalizeLimit clamps a requested limit into 1..MaxLimit, using
// DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func (s *Service) Search(ctx context.Context, src Source, query string, limit int) ([]Product, error) {
	def, ok := sources[src]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", src)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		query = DefaultQuery
	}
	limit = NormalizeLimit(limit)

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, src, query, limit)
		if err != nil {
			s.log.WarnContext(ctx, "scrape cache read failed", "source", src, "error", err)
		}
		if hit && len(cached) >= limit {
			s.log.DebugContext(ctx, "scrape cache hit", "source", src, "query", query)
			return cached, nil
		}
	}

	start := time.Now()
	page, err := s.renderer.Render(ctx, def.target(query, limit))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", src, err)
	}
	products, err := def.parse(page, limit)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "scraped products", "source", src, "query", query, "count", len(products), "duration", time.Since(start))

	if s.cache != nil && len(products) >= limit {
		if err := s.cache.Put(ctx, src, query, products); err != nil {
			s.log.WarnContext(ctx, "scrape cache write failed", "source", src, "error", err)
		}
	}
	return products, nil
}

// SearchAll queries every source concurrently. A failing source is logged
// and skipped; an error is returned only when all of them fail.
func (s *Service) SearchAll(ctx context.Context, query string, limit int) ([]Product, error) {
	results := make([][]Product, len(Sources))
	errs := make([]error, len(Sources))

	var g errgroup.Group
	for i, src := range Sources {
		g.Go(func() error {
			results[i], errs[i] = s.Search(ctx, src, query, limit)
			return nil
		})
	}
	_ = g.Wait()

	var all []Product
	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			s.log.WarnContext(ctx, "source failed", "source", Sources[i], "error", err)
			continue
		}
		all = append(all, results[i]...)
	}
	if failed == len(Sources) {
		return nil, fmt.Errorf("all sources failed: %w", errs[0])
	}
	return all, nil
}
