package pricingcase

import "github.com/kingjawir/marketplace/infrastructure/scraper"

// Statistics summarize the parsed market prices in rupiah.
type Statistics struct {
	Min           int64 `json:"min"`
	Max           int64 `json:"max"`
	Average       int64 `json:"average"`
	Median        int64 `json:"median"`
	TotalProducts int   `json:"totalProducts"`
}

type Analysis struct {
	Recommendation string   `json:"recommendation"`
	Insights       []string `json:"insights"`
	SuggestedPrice int64    `json:"suggestedPrice,omitempty"`
}

type Result struct {
	Query      string            `json:"query"`
	Products   []scraper.Product `json:"products"`
	Statistics Statistics        `json:"statistics"`
	Analysis   Analysis          `json:"analysis"`
}

// Request describes one analysis run.
type Request struct {
	Query     string
	Limit     int
	UserPrice *int64
	// Optimize lets the model rewrite a bare brand query into a product
	// query before scraping.
	Optimize bool
}

// Stages reported while an analysis runs.
const (
	StageFetching    = "fetching"
	StageCalculating = "calculating"
	StageAnalyzing   = "analyzing"
)

type Progress struct {
	Stage    string `json:"stage"`
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}

// ProgressFunc receives stage updates. It may be nil.
type ProgressFunc func(Progress)

// Price positions relative to the market.
const (
	PositionNotSpecified = "not_specified"
	PositionVeryLow      = "very_low"
	PositionLow          = "low"
	PositionBelowAverage = "below_average"
	PositionAverage      = "average"
	PositionAboveAverage = "above_average"
	PositionHigh         = "high"
	PositionVeryHigh     = "very_high"
)

type SellerGuidance struct {
	ShouldProceed bool     `json:"shouldProceed"`
	PricePosition string   `json:"pricePosition"`
	Warnings      []string `json:"warnings"`
	Suggestions   []string `json:"suggestions"`
}

type SellerResult struct {
	Result
	SellerGuidance SellerGuidance `json:"sellerGuidance"`
}

type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

type QuickCheck struct {
	UserPrice     int64      `json:"userPrice"`
	MarketAverage int64      `json:"marketAverage"`
	MarketRange   PriceRange `json:"marketRange"`
	Position      string     `json:"position"`
	ShouldProceed bool       `json:"shouldProceed"`
	QuickAdvice   string     `json:"quickAdvice"`
}
