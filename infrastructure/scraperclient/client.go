// Package scraperclient calls the scraper service over HTTP.
package scraperclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/kingjawir/marketplace/sdk/environment"
	"github.com/kingjawir/marketplace/sdk/logger"
)

type Config struct {
	URL     string        `env:"SCRAPER_URL" default:"http://localhost:4103"`
	Timeout time.Duration `env:"SCRAPER_TIMEOUT" default:"60s"`
}

type Client struct {
	log  *logger.Logger
	base string
	http *http.Client
}

func New(log *logger.Logger, cfg Config) *Client {
	return &Client{
		log:  log,
		base: strings.TrimSuffix(cfg.URL, "/"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func NewFromEnv(log *logger.Logger, prefix string) (*Client, error) {
	var cfg Config
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scraper client config: %w", err)
	}
	return New(log, cfg), nil
}

type searchResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    []scraper.Product `json:"data"`
	Count   int               `json:"count"`
}

// Search asks the scraper for up to limit products of query on src. Every
// returned product carries src.
func (c *Client) Search(ctx context.Context, src scraper.Source, query string, limit int) ([]scraper.Product, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/api/scraper/%s?%s", c.base, src, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("scraper %s: %w", src, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scraper %s returned %d: %s", src, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("scraper %s: decode: %w", src, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("scraper %s returned unsuccessful response: %s", src, out.Message)
	}

	for i := range out.Data {
		out.Data[i].Source = src
	}
	c.log.DebugContext(ctx, "scraper search", "source", src, "query", query, "count", len(out.Data), "duration", time.Since(start))
	return out.Data, nil
}
