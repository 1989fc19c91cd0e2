package scraper

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/kingjawir/marketplace/sdk/validation"
)

type SortBy string

const (
	SortDefault       SortBy = ""
	SortCheapest      SortBy = "cheapest"
	SortHighestRating SortBy = "highest_rating"
	SortBestSelling   SortBy = "best_selling"
)

type FilterOptions struct {
	SortBy    SortBy
	MinRating float64
	MaxPrice  int64
	Limit     int
}

var soldAmount = regexp.MustCompile(`(?i)([\d.,]+)\s*(rb|jt|k)?`)

// PriceValue is the product price in rupiah, zero when unparseable.
func (p Product) PriceValue() int64 {
	v, _ := validation.ParsePrice(p.Price)
	return v
}

func (p Product) RatingValue() float64 {
	if p.Rating == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(*p.Rating), ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// SoldValue reads counters such as "250+ terjual", "1rb+ terjual" or
// "Terjual 2,5rb".
func (p Product) SoldValue() int64 {
	if p.Sold == nil {
		return 0
	}
	m := soldAmount.FindStringSubmatch(*p.Sold)
	if m == nil {
		return 0
	}

	num := m[1]
	unit := strings.ToLower(m[2])
	if unit == "" {
		v, _ := strconv.ParseInt(strings.NewReplacer(".", "", ",", "").Replace(num), 10, 64)
		return v
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", "."), 64)
	if err != nil {
		return 0
	}
	switch unit {
	case "jt":
		f *= 1_000_000
	default:
		f *= 1_000
	}
	return int64(f)
}

// SortAndFilter applies the rating and price filters, orders the result and
// trims it to Limit. The input slice is not modified.
func SortAndFilter(products []Product, opts FilterOptions) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if opts.MinRating > 0 && p.RatingValue() < opts.MinRating {
			continue
		}
		if opts.MaxPrice > 0 && p.PriceValue() > opts.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch opts.SortBy {
	case SortCheapest:
		slices.SortStableFunc(out, func(a, b Product) int { return cmpInt(a.PriceValue(), b.PriceValue()) })
	case SortHighestRating:
		slices.SortStableFunc(out, func(a, b Product) int { return cmpFloat(b.RatingValue(), a.RatingValue()) })
	case SortBestSelling:
		slices.SortStableFunc(out, func(a, b Product) int { return cmpInt(b.SoldValue(), a.SoldValue()) })
	default:
		slices.SortStableFunc(out, func(a, b Product) int {
			if c := cmpFloat(b.RatingValue(), a.RatingValue()); c != 0 {
				return c
			}
			return cmpInt(a.PriceValue(), b.PriceValue())
		})
	}

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func ParseSortBy(s string) SortBy {
	switch v := SortBy(strings.ToLower(strings.TrimSpace(s))); v {
	case SortCheapest, SortHighestRating, SortBestSelling:
		return v
	}
	return SortDefault
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
