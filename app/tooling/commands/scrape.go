package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/spf13/cobra"
)

// ScrapeResult is what the scrape command prints.
type ScrapeResult struct {
	Query    string            `json:"query"`
	Source   string            `json:"source"`
	SortBy   string            `json:"sortBy,omitempty"`
	Count    int               `json:"count"`
	Products []scraper.Product `json:"products"`
}

type scrapeFlags struct {
	source    string
	query     string
	sort      string
	limit     int
	minRating float64
	maxPrice  int64
}

func newScrapeCmd(env Env) *cobra.Command {
	var f scrapeFlags

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape marketplace search results and print them as JSON",
		Long: `Runs the headless browser scraper locally, without the scraper service.

Example:
  tooling scrape --source tokopedia --query "iphone 13" --sort cheapest --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			source := strings.ToLower(strings.TrimSpace(f.source))
			var src scraper.Source
			if source != "all" {
				var err error
				if src, err = scraper.ParseSource(source); err != nil {
					return err
				}
			}
			if f.minRating < 0 || f.minRating > 5 {
				return fmt.Errorf("--min-rating must be between 0 and 5")
			}
			limit := scraper.NormalizeLimit(f.limit)

			s, closeFn, err := env.OpenScraper(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeFn(); err != nil {
					env.Log.WarnContext(ctx, "close scraper", "err", err)
				}
			}()

			var products []scraper.Product
			if source == "all" {
				products, err = s.SearchAll(ctx, f.query, limit)
			} else {
				products, err = s.Search(ctx, src, f.query, limit)
			}
			if err != nil {
				return fmt.Errorf("scrape: %w", err)
			}

			sortBy := scraper.ParseSortBy(f.sort)
			products = scraper.SortAndFilter(products, scraper.FilterOptions{
				SortBy:    sortBy,
				MinRating: f.minRating,
				MaxPrice:  f.maxPrice,
				Limit:     limit,
			})

			out, err := json.MarshalIndent(ScrapeResult{
				Query:    f.query,
				Source:   source,
				SortBy:   string(sortBy),
				Count:    len(products),
				Products: products,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.source, "source", "s", "all", "tokopedia, blibli or all")
	cmd.Flags().StringVarP(&f.query, "query", "q", scraper.DefaultQuery, "search query")
	cmd.Flags().StringVar(&f.sort, "sort", "", "cheapest, highest_rating, best_selling (default: rating then price)")
	cmd.Flags().IntVarP(&f.limit, "limit", "l", scraper.DefaultLimit, "maximum products per source")
	cmd.Flags().Float64Var(&f.minRating, "min-rating", 0, "drop products rated below this")
	cmd.Flags().Int64Var(&f.maxPrice, "max-price", 0, "drop products priced above this, in rupiah")
	return cmd
}
