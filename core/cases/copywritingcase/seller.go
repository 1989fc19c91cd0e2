package copywritingcase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type TargetMarket string

const (
	MarketPremium TargetMarket = "premium"
	MarketBudget  TargetMarket = "budget"
	MarketGeneral TargetMarket = "general"
)

// SellerDescriptionInput describes a product a seller is listing.
type SellerDescriptionInput struct {
	ProductName        string
	Category           string
	Specs              []string
	TargetMarket       TargetMarket
	CurrentDescription string
}

type SellerDescription struct {
	ShortDescription string   `json:"shortDescription"`
	LongDescription  string   `json:"longDescription"`
	KeyFeatures      []string `json:"keyFeatures"`
	SEOKeywords      []string `json:"seoKeywords"`
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// GenerateSellerDescription asks the model for a JSON description. Unlike
// GenerateDescription there is no fallback: the seller retries instead.
func (c *Case) GenerateSellerDescription(ctx context.Context, in SellerDescriptionInput) (SellerDescription, error) {
	if len([]rune(strings.TrimSpace(in.ProductName))) < 3 {
		return SellerDescription{}, fmt.Errorf("%w: product name must be at least 3 characters", ErrInvalidInput)
	}
	if in.TargetMarket == "" {
		in.TargetMarket = MarketGeneral
	}

	answer, err := c.llm.Generate(ctx, jsonRequest(sellerDescriptionPrompt(in), 0.7, 1000))
	if err != nil {
		c.log.ErrorContext(ctx, "seller description failed", "error", err)
		return SellerDescription{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	var out SellerDescription
	if err := decodeObject(answer, &out); err != nil {
		c.log.WarnContext(ctx, "seller description unparseable", "error", err)
		return SellerDescription{}, ErrMalformed
	}

	out.ShortDescription = strings.TrimSpace(out.ShortDescription)
	out.LongDescription = strings.TrimSpace(out.LongDescription)
	out.KeyFeatures = nonBlank(out.KeyFeatures)
	out.SEOKeywords = nonBlank(out.SEOKeywords)
	if out.ShortDescription == "" || out.LongDescription == "" || out.KeyFeatures == nil || out.SEOKeywords == nil {
		return SellerDescription{}, ErrMalformed
	}
	return out, nil
}

// ImproveDescription rewrites an existing description focusing on the
// requested improvements.
func (c *Case) ImproveDescription(ctx context.Context, current, productName string, improvements []string) (string, error) {
	if len(improvements) == 0 {
		return "", fmt.Errorf("%w: at least one improvement is required", ErrInvalidInput)
	}

	prompt := fmt.Sprintf(`Kamu adalah AI copywriter expert. Improve deskripsi produk berikut dengan fokus pada: %s.

Produk: %s

Deskripsi Saat Ini:
%s

Berikan versi yang lebih baik. Output dalam format JSON:
{
  "improvedDescription": "..."
}`, strings.Join(improvements, ", "), productName, current)

	answer, err := c.llm.Generate(ctx, jsonRequest(prompt, 0.6, 800))
	if err != nil {
		c.log.ErrorContext(ctx, "improve description failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	var out struct {
		ImprovedDescription string `json:"improvedDescription"`
	}
	if err := decodeObject(answer, &out); err != nil || strings.TrimSpace(out.ImprovedDescription) == "" {
		return "", ErrMalformed
	}
	return strings.TrimSpace(out.ImprovedDescription), nil
}

// decodeObject decodes the outermost JSON object in text, ignoring any
// prose or code fences around it.
func decodeObject(text string, v any) error {
	raw := jsonObject.FindString(text)
	if raw == "" {
		return errors.New("no json object in response")
	}
	return json.Unmarshal([]byte(raw), v)
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func sellerDescriptionPrompt(in SellerDescriptionInput) string {
	market, tone := "General (mass market)", "Conversational, engaging, trustworthy"
	switch in.TargetMarket {
	case MarketPremium:
		market, tone = "Premium (high-end, luxury)", "Elegant, sophisticated, profesional"
	case MarketBudget:
		market, tone = "Budget-friendly (value for money)", "Friendly, value-focused, relatable"
	}

	var b strings.Builder
	b.WriteString("Kamu adalah AI copywriter expert yang membantu UMKM Indonesia membuat deskripsi produk yang menarik dan SEO-friendly.\n\n")
	b.WriteString("Tugas: Generate deskripsi produk untuk marketplace e-commerce dalam Bahasa Indonesia.\n\n")
	b.WriteString("INFORMASI PRODUK:\n")
	fmt.Fprintf(&b, "- Nama Produk: %s\n", in.ProductName)
	if in.Category != "" {
		fmt.Fprintf(&b, "- Kategori: %s\n", in.Category)
	}
	if len(in.Specs) > 0 {
		fmt.Fprintf(&b, "- Spesifikasi: %s\n", strings.Join(in.Specs, ", "))
	}
	fmt.Fprintf(&b, "- Target Market: %s\n", market)
	if in.CurrentDescription != "" {
		fmt.Fprintf(&b, "- Deskripsi Saat Ini (untuk improvement): %s\n", in.CurrentDescription)
	}
	b.WriteString(`
REQUIREMENTS:
1. Short Description: 1-2 kalimat ringkas (max 150 karakter), hook yang menarik perhatian
2. Long Description: 3-4 paragraf detail (300-400 kata):
   - Paragraph 1: Perkenalan produk dan unique selling point
   - Paragraph 2: Fitur dan keunggulan detail
   - Paragraph 3: Manfaat untuk customer
   - Paragraph 4: Call-to-action yang persuasif
3. Key Features: 5-7 bullet points fitur utama (singkat, jelas)
4. SEO Keywords: 8-10 keywords untuk SEO (bahasa Indonesia, relevan)

TONE & STYLE:
`)
	fmt.Fprintf(&b, "- %s\n", tone)
	b.WriteString(`- Gunakan emoji secukupnya (1-2 per section)
- Fokus pada benefit untuk customer, bukan hanya fitur
- Hindari hyperbola berlebihan

OUTPUT FORMAT (JSON):
{
  "shortDescription": "...",
  "longDescription": "...",
  "keyFeatures": ["...", "..."],
  "seoKeywords": ["...", "..."]
}`)
	return b.String()
}
