package pricingcase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/kingjawir/marketplace/sdk/validation"
)

const analystSystem = "You are a pricing analyst expert specializing in Indonesian e-commerce markets. Provide clear, actionable insights."

var priceDigits = regexp.MustCompile(`[\d.,]+`)

type pricedProduct struct {
	scraper.Product
	value int64
}

func buildAnalysisPrompt(query string, products []pricedProduct, stats Statistics, userPrice *int64) string {
	var b strings.Builder
	rp := validation.FormatRupiah

	fmt.Fprintf(&b, "Analyze the following price data for %q from Tokopedia and Blibli marketplaces:\n\n", query)

	b.WriteString("MARKET STATISTICS:\n")
	fmt.Fprintf(&b, "- Minimum Price: %s\n", rp(stats.Min))
	fmt.Fprintf(&b, "- Maximum Price: %s\n", rp(stats.Max))
	fmt.Fprintf(&b, "- Average Price: %s\n", rp(stats.Average))
	fmt.Fprintf(&b, "- Median Price: %s\n", rp(stats.Median))
	fmt.Fprintf(&b, "- Total Products Analyzed: %d\n\n", len(products))

	b.WriteString("TOP PRODUCTS:\n")
	for i, p := range products[:min(5, len(products))] {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Name)
		fmt.Fprintf(&b, "   Price: %s (%s)\n", p.Price, rp(p.value))
		if p.Rating != nil {
			fmt.Fprintf(&b, "   Rating: %s\n", *p.Rating)
		}
		if p.ShopLocation != nil {
			fmt.Fprintf(&b, "   Location: %s\n", *p.ShopLocation)
		}
		if p.Source != "" {
			fmt.Fprintf(&b, "   Source: %s\n", p.Source)
		}
		b.WriteString("\n")
	}

	if userPrice != nil && *userPrice > 0 {
		fmt.Fprintf(&b, "USER'S INTENDED PRICE: %s\n\n", rp(*userPrice))
		b.WriteString("Compare this price against the market data and provide specific feedback on whether it's competitive.\n\n")
	}

	b.WriteString("Please provide:\n")
	b.WriteString("1. RECOMMENDATION: A concise pricing recommendation (1-2 sentences)\n")
	b.WriteString("2. INSIGHTS: 3-5 key insights about this market segment\n")
	b.WriteString("3. SUGGESTED_PRICE: A single optimal price point in Indonesian Rupiah (just the number)\n\n")
	b.WriteString("Format your response as:\n")
	b.WriteString("RECOMMENDATION: [your recommendation]\n")
	b.WriteString("INSIGHTS:\n- [insight 1]\n- [insight 2]\n- [insight 3]\n")
	b.WriteString("SUGGESTED_PRICE: [numeric value only]\n")
	return b.String()
}

// parseAnalysis reads the labeled sections of a model answer. Missing parts
// are filled from the statistics.
func parseAnalysis(text string, stats Statistics) Analysis {
	var (
		a       Analysis
		section string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "RECOMMENDATION:"):
			section = "recommendation"
			a.Recommendation = strings.TrimSpace(strings.TrimPrefix(line, "RECOMMENDATION:"))
		case strings.HasPrefix(line, "INSIGHTS:"):
			section = "insights"
		case strings.HasPrefix(line, "SUGGESTED_PRICE:"):
			if m := priceDigits.FindString(line); m != "" {
				digits := strings.NewReplacer(".", "", ",", "").Replace(m)
				if v, err := strconv.ParseInt(digits, 10, 64); err == nil {
					a.SuggestedPrice = v
				}
			}
		case section == "recommendation" && a.Recommendation == "":
			a.Recommendation = line
		case section == "insights":
			a.Insights = append(a.Insights, strings.TrimSpace(strings.TrimLeft(line, "-")))
		}
	}

	if a.Recommendation == "" {
		a.Recommendation = fmt.Sprintf(
			"Based on market data, prices range from %s to %s. The median price of %s represents a competitive market position.",
			validation.FormatRupiah(stats.Min), validation.FormatRupiah(stats.Max), validation.FormatRupiah(stats.Median))
	}
	if len(a.Insights) == 0 {
		a.Insights = []string{
			"Market average is " + validation.FormatRupiah(stats.Average),
			fmt.Sprintf("Price range shows %s%% variability", variability(stats)),
			"Consider product condition, brand, and seller reputation when pricing",
		}
	}
	if a.SuggestedPrice <= 0 {
		a.SuggestedPrice = stats.Median
	}
	return a
}

// fallbackAnalysis is served when the model cannot be reached.
func fallbackAnalysis(stats Statistics) Analysis {
	rp := validation.FormatRupiah
	return Analysis{
		Recommendation: fmt.Sprintf(
			"Based on market analysis of available products, prices range from %s to %s. The median price of %s represents a competitive market position for your product.",
			rp(stats.Min), rp(stats.Max), rp(stats.Median)),
		Insights: []string{
			"Market average price is " + rp(stats.Average),
			fmt.Sprintf("Price volatility: %s%% range", variability(stats)),
			"Consider product condition, brand reputation, and seller location when setting your price",
			"Monitor competitor pricing regularly for optimal market positioning",
		},
		SuggestedPrice: stats.Median,
	}
}

func variability(stats Statistics) string {
	if stats.Average == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(stats.Max-stats.Min)/float64(stats.Average)*100, 'f', 1, 64)
}

func queryOptimizationPrompt(query string) string {
	return `Kamu adalah search query optimizer untuk marketplace Indonesia (Tokopedia).

Query user: "` + query + `"

Tugas:
1. Jika query hanya menyebutkan merek/model TANPA menyebut aksesori, tambahkan kata kunci spesifik produk utama
2. Jika query SUDAH menyebutkan aksesori/produk spesifik (case, charger, dll), JANGAN ubah
3. Gunakan bahasa Indonesia untuk marketplace lokal
4. Buat query lebih spesifik dan menghindari hasil yang tidak relevan

Contoh:
- "iphone" → "iphone smartphone" (tambahkan kata kunci produk utama)
- "samsung" → "samsung hp" (tambahkan kata kunci)
- "laptop asus" → "laptop asus" (sudah spesifik)
- "case iphone" → "case iphone" (JANGAN ubah, user memang cari case)
- "charger samsung" → "charger samsung" (JANGAN ubah, user memang cari charger)
- "macbook" → "macbook laptop" (tambahkan kata kunci)
- "iphone 15" → "iphone 15 smartphone" (tambahkan kata kunci)
- "sepatu nike" → "sepatu nike" (sudah spesifik)
- "tempered glass iphone" → "tempered glass iphone" (JANGAN ubah)

Outputkan HANYA query yang sudah dioptimasi, tanpa penjelasan tambahan.`
}

// cleanOptimizedQuery keeps the first line of the answer without quotes.
// Anything unusable yields "".
func cleanOptimizedQuery(answer string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(answer), "\n")
	line = strings.Trim(strings.TrimSpace(line), "\"'`")
	if len(line) > 100 {
		return ""
	}
	return strings.TrimSpace(line)
}
