package scraper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kingjawir/marketplace/sdk/validation"
	_ "modernc.org/sqlite"
)

type CacheConfig struct {
	Path string        `env:"SCRAPER_CACHE_PATH" default:"scraper-cache.db"`
	TTL  time.Duration `env:"SCRAPER_CACHE_TTL" default:"10m"`
}

// Cache keeps recent search results in a local SQLite file keyed by
// "{source}:{query}".
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func OpenCache(ctx context.Context, cfg CacheConfig) (*Cache, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS scrape_cache (
		key        TEXT PRIMARY KEY,
		products   TEXT NOT NULL,
		expires_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}
	return &Cache{db: db, ttl: cfg.TTL, now: time.Now}, nil
}

func cacheKey(src Source, query string) string {
	return string(src) + ":" + query
}

// Get returns cached products for the key, at most limit of them.
func (c *Cache) Get(ctx context.Context, src Source, query string, limit int) ([]Product, bool, error) {
	var products validation.JSONField[[]Product]
	err := c.db.QueryRowContext(ctx,
		`SELECT products FROM scrape_cache WHERE key = ? AND expires_at > ?`,
		cacheKey(src, query), c.now().UnixMilli(),
	).Scan(&products)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache: %w", err)
	}

	out := products.Data
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, true, nil
}

func (c *Cache) Put(ctx context.Context, src Source, query string, products []Product) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO scrape_cache (key, products, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET products = excluded.products, expires_at = excluded.expires_at`,
		cacheKey(src, query), validation.JSONField[[]Product]{Data: products}, c.now().Add(c.ttl).UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Prune drops expired rows.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM scrape_cache WHERE expires_at <= ?`, c.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}

func (c *Cache) Close() error {
	return c.db.Close()
}
