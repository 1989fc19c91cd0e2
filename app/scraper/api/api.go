// Package api exposes the scraper over HTTP in the shape the marketplace
// scraper client reads.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
)

// Searcher runs one search against one source.
type Searcher interface {
	Search(ctx context.Context, src scraper.Source, query string, limit int) ([]scraper.Product, error)
}

type Config struct {
	Log      *logger.Logger
	Searcher Searcher
}

// SearchResponse is the body of /api/scraper/{source}. Failed scrapes still
// answer 200 with success false.
type SearchResponse struct {
	Success bool              `json:"success"`
	Data    []scraper.Product `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Count   int               `json:"count"`
}

func (s SearchResponse) Encode() ([]byte, string, error) {
	return web.NewJSONResponse(s).Encode()
}

type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (h Health) Encode() ([]byte, string, error) {
	return web.NewJSONResponse(h).Encode()
}

func AddHandlers(app *web.WebHandler, cfg Config) {
	h := handlers{log: cfg.Log, searcher: cfg.Searcher}

	app.GET("/health", h.health)
	app.GET("/api/scraper/{source}", h.search)
}

type handlers struct {
	log      *logger.Logger
	searcher Searcher
}

func (h handlers) health(ctx context.Context, r *http.Request) web.Encoder {
	return Health{Status: "ok", Service: "scraper"}
}

func (h handlers) search(ctx context.Context, r *http.Request) web.Encoder {
	src, err := scraper.ParseSource(web.Param(r, "source"))
	if err != nil {
		return errs.Newf(errs.NotFound, "Unknown source %q", web.Param(r, "source"))
	}

	query := web.QueryParam(r, "query")
	if query == "" {
		query = scraper.DefaultQuery
	}
	limit, err := web.QueryInt(r, "limit", scraper.DefaultLimit)
	if err != nil {
		return errs.Newf(errs.ValidationError, "limit must be a number")
	}
	limit = scraper.NormalizeLimit(limit)

	h.log.InfoContext(ctx, "scrape request", "source", src, "query", query, "limit", limit)

	products, err := h.searcher.Search(ctx, src, query, limit)
	if err != nil {
		h.log.ErrorContext(ctx, "scrape failed", "source", src, "query", query, "error", err)
		return SearchResponse{Success: false, Message: fmt.Sprintf("Failed to scrape: %v", err)}
	}
	if products == nil {
		products = []scraper.Product{}
	}
	return SearchResponse{Success: true, Data: products, Count: len(products)}
}
