package pricingcase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/kingjawir/marketplace/sdk/validation"
)

// Position places price against the market statistics.
func Position(stats Statistics, price *int64) string {
	if price == nil || *price <= 0 {
		return PositionNotSpecified
	}
	p := float64(*price)
	switch {
	case p < float64(stats.Min)*0.7:
		return PositionVeryLow
	case p < float64(stats.Min):
		return PositionLow
	case p <= float64(stats.Average)*0.9:
		return PositionBelowAverage
	case p <= float64(stats.Average)*1.1:
		return PositionAverage
	case p <= float64(stats.Max):
		return PositionAboveAverage
	case p <= float64(stats.Max)*1.2:
		return PositionHigh
	}
	return PositionVeryHigh
}

// ShouldProceed is false when price is more than 20% above the maximum or
// below half of the minimum.
func ShouldProceed(stats Statistics, price *int64) bool {
	if price == nil || *price <= 0 {
		return true
	}
	p := float64(*price)
	return p <= float64(stats.Max)*1.2 && p >= float64(stats.Min)*0.5
}

func Guidance(result Result, price *int64) SellerGuidance {
	return SellerGuidance{
		ShouldProceed: ShouldProceed(result.Statistics, price),
		PricePosition: Position(result.Statistics, price),
		Warnings:      warnings(result, price),
		Suggestions:   suggestions(result, price),
	}
}

func warnings(result Result, price *int64) []string {
	if price == nil || *price <= 0 {
		return []string{"Harga belum ditentukan. Pertimbangkan analisis di bawah."}
	}

	var out []string
	switch Position(result.Statistics, price) {
	case PositionVeryLow:
		out = append(out,
			"⚠️ Harga sangat rendah! Produk mungkin terlihat tidak berkualitas.",
			"Pastikan harga masih menguntungkan setelah dikurangi biaya operasional.")
	case PositionLow:
		out = append(out,
			"💡 Harga di bawah rata-rata market. Bisa menarik banyak pembeli.",
			"Pastikan margin profit masih cukup.")
	case PositionVeryHigh:
		out = append(out,
			"⚠️ Harga sangat tinggi! Produk mungkin sulit bersaing.",
			"Pastikan ada value proposition yang jelas (garansi, bonus, dll).")
	case PositionHigh:
		out = append(out, "💡 Harga di atas rata-rata. Pastikan produk memiliki keunggulan.")
	}
	if result.Statistics.TotalProducts < 5 {
		out = append(out, "⚠️ Data market terbatas. Pertimbangkan riset tambahan.")
	}
	return out
}

func suggestions(result Result, price *int64) []string {
	rp := validation.FormatRupiah
	stats := result.Statistics
	var out []string

	if suggested := result.Analysis.SuggestedPrice; suggested > 0 {
		out = append(out, "💰 Harga yang disarankan: "+rp(suggested))
		if price != nil && *price > 0 {
			diff := float64(*price-suggested) / float64(suggested) * 100
			if math.Abs(diff) > 10 {
				dir := "lebih tinggi"
				if diff < 0 {
					dir = "lebih rendah"
				}
				out = append(out, fmt.Sprintf("📊 Harga Anda %.1f%% %s dari saran AI.", math.Abs(diff), dir))
			}
		}
	}

	out = append(out,
		fmt.Sprintf("📈 Range harga market: %s - %s", rp(stats.Min), rp(stats.Max)),
		"📊 Harga rata-rata: "+rp(stats.Average),
		"📌 Harga median: "+rp(stats.Median),
	)

	if price != nil && *price > 0 {
		switch Position(stats, price) {
		case PositionBelowAverage, PositionLow:
			out = append(out, "💡 Strategi: Volume tinggi dengan margin rendah", "🎯 Fokus pada kecepatan pengiriman dan service")
		case PositionAboveAverage, PositionHigh:
			out = append(out, "💡 Strategi: Premium positioning", "🎯 Tonjolkan kualitas, garansi, atau bonus ekstra")
		default:
			out = append(out, "💡 Strategi: Kompetitif dengan harga median", "🎯 Bersaing melalui review, foto produk, dan deskripsi")
		}
	}
	return out
}

// AnalyzeForSeller runs an analysis for a product the seller is about to
// list and adds guidance for the intended price.
func (c *Case) AnalyzeForSeller(ctx context.Context, productName string, userPrice *int64, limit int) (SellerResult, error) {
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	result, err := c.Analyze(ctx, Request{Query: productName, Limit: limit, UserPrice: userPrice}, nil)
	if err != nil {
		return SellerResult{}, err
	}
	return SellerResult{Result: result, SellerGuidance: Guidance(result, userPrice)}, nil
}

// QuickCheck validates a price against a small sample of the market.
func (c *Case) QuickCheck(ctx context.Context, productName string, userPrice int64) (QuickCheck, error) {
	if strings.TrimSpace(productName) == "" {
		return QuickCheck{}, ErrEmptyQuery
	}
	if userPrice <= 0 {
		return QuickCheck{}, ErrInvalidPrice
	}

	result, err := c.Analyze(ctx, Request{Query: productName, Limit: QuickCheckLimit, UserPrice: &userPrice}, nil)
	if err != nil {
		return QuickCheck{}, err
	}

	position := Position(result.Statistics, &userPrice)
	advice := "Harga wajar"
	switch position {
	case PositionVeryLow, PositionVeryHigh:
		advice = "Harga ekstrem - pertimbangkan adjustment"
	case PositionAverage:
		advice = "Harga kompetitif"
	}

	return QuickCheck{
		UserPrice:     userPrice,
		MarketAverage: result.Statistics.Average,
		MarketRange:   PriceRange{Min: result.Statistics.Min, Max: result.Statistics.Max},
		Position:      position,
		ShouldProceed: ShouldProceed(result.Statistics, &userPrice),
		QuickAdvice:   advice,
	}, nil
}
