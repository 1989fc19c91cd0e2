package scraper

import (
	"fmt"
	"strings"
)

type Source string

const (
	Tokopedia Source = "tokopedia"
	Blibli    Source = "blibli"
)

// Sources lists every marketplace the scraper knows.
var Sources = []Source{Tokopedia, Blibli}

func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case Tokopedia, Blibli:
		return src, nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// Product is one search result card as shown on the marketplace.
type Product struct {
	Name         string  `json:"name"`
	Price        string  `json:"price"`
	Rating       *string `json:"rating,omitempty"`
	ImageURL     string  `json:"image_url"`
	ProductURL   string  `json:"product_url"`
	ShopLocation *string `json:"shop_location,omitempty"`
	Sold         *string `json:"sold,omitempty"`
	Source       Source  `json:"source,omitempty"`
}

const (
	DefaultQuery = "iphone"
	DefaultLimit = 10
	MaxLimit     = 50
)

// Cities are substrings that mark a span as the shop location.
var Cities = []string{
	"Jakarta", "Bandung", "Surabaya", "Malang", "Kab.", "Kota",
	"Semarang", "Yogyakarta", "Medan", "Makassar", "Bali",
}
