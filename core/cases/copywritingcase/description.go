package copywritingcase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxProductInput = 500

	descriptionSystem = "Anda adalah AI yang membantu SMEs Indonesia membuat deskripsi produk yang menarik dan persuasif untuk marketplace."
)

// Description is a marketplace product description.
type Description struct {
	Short       string   `json:"short"`
	Long        string   `json:"long"`
	Bullets     []string `json:"bullets"`
	SEOKeywords []string `json:"seoKeywords"`
}

// GenerateDescription writes a description for a free-form product input.
// The long text is written in three parts alongside the main answer. Any
// model or parse failure returns the fallback description.
func (c *Case) GenerateDescription(ctx context.Context, productInput string) (Description, error) {
	if strings.TrimSpace(productInput) == "" || utf8.RuneCountInString(productInput) > MaxProductInput {
		return Description{}, ErrInvalidInput
	}

	c.log.InfoContext(ctx, "generating product description", "input_len", len(productInput))

	answers, err := c.generateAll(ctx, descriptionSystem, 0.3,
		descriptionPrompt(productInput),
		descriptionPartPrompt(1, productInput),
		descriptionPartPrompt(2, productInput),
		descriptionPartPrompt(3, productInput),
	)
	if err != nil {
		c.log.ErrorContext(ctx, "product description failed, using fallback", "error", err)
		return fallbackDescription(productInput), nil
	}

	d, ok := parseDescription(answers[0])
	if !ok {
		c.log.WarnContext(ctx, "product description unparseable, using fallback")
		return fallbackDescription(productInput), nil
	}
	d.Long = strings.Join(answers[1:], " ")
	return d, nil
}

func descriptionPrompt(productInput string) string {
	return `You are an expert Indonesian e-commerce copywriter for marketplaces like Tokopedia and Shopee. Produce marketplace-optimized product descriptions in Indonesian (id-ID). Return results in plain text with labeled sections.

PRODUCT INPUT: ` + productInput + `

INSTRUCTIONS:
1) Output four labeled sections exactly as below (use the labels on their own lines):
SHORT_DESCRIPTION: (one sentence, max 150 characters, catchy and persuasive)
LONG_DESCRIPTION: (detailed product description, max 700 characters, emphasize benefits and features)
BULLETS: (provide 3-6 bullet points; each bullet on its own line prefixed with '- ')
SEO_KEYWORDS: (provide 6-10 comma-separated keywords relevant to the product)

2) Emphasize benefits, use marketplace-friendly language, and include a call-to-action when appropriate.
3) Do not invent technical specs beyond provided input.
4) Keep descriptions compelling for Indonesian SMEs.

EXAMPLE OUTPUT FORMAT:
SHORT_DESCRIPTION: Kamera aksi 4K tahan air hingga 30m, stabilizer, WiFi.
LONG_DESCRIPTION: Kamera aksi 4K profesional dengan stabilisasi gambar, koneksi WiFi, dan bodi tahan air hingga 30 meter. Cocok untuk kegiatan outdoor dan vlogging.
BULLETS:
- Waterproof hingga 30m
- Rekaman 4K 60fps
- Stabilizer bawaan
SEO_KEYWORDS: kamera aksi, kamera 4K, kamera waterproof, kamera vlogging, stabilizer kamera, kamera olahraga`
}

var descriptionParts = map[int]struct{ focus, instruction string }{
	1: {"pengenalan produk", "perkenalkan produk, masalah yang diselesaikan, dan keunggulan utamanya"},
	2: {"fitur dan spesifikasi", "jelaskan fitur dan cara kerja produk berdasarkan input, tanpa mengarang spesifikasi"},
	3: {"manfaat dan ajakan membeli", "jelaskan manfaat untuk pembeli dan tutup dengan call-to-action yang persuasif"},
}

func descriptionPartPrompt(part int, productInput string) string {
	p := descriptionParts[part]
	return fmt.Sprintf(`You are an expert Indonesian e-commerce copywriter. Write one paragraph of a long marketplace product description. Focus on %s.

PRODUCT INPUT: %s

INSTRUCTIONS:
1) Write one paragraph (60-100 kata) in Indonesian that will %s.
2) Use marketplace-friendly language for Indonesian SMEs.
3) Output only the paragraph text, no labels or formatting.`, p.focus, productInput, p.instruction)
}

// parseDescription reads the labeled sections. It reports false when the
// short or long section is missing.
func parseDescription(text string) (Description, bool) {
	var (
		d       Description
		section string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SHORT_DESCRIPTION:"):
			section = "short"
			d.Short = strings.TrimSpace(strings.TrimPrefix(line, "SHORT_DESCRIPTION:"))
		case strings.HasPrefix(line, "LONG_DESCRIPTION:"):
			section = "long"
			d.Long = strings.TrimSpace(strings.TrimPrefix(line, "LONG_DESCRIPTION:"))
		case strings.HasPrefix(line, "BULLETS:"):
			section = "bullets"
		case strings.HasPrefix(line, "SEO_KEYWORDS:"):
			section = "seo"
			d.SEOKeywords = splitList(strings.TrimPrefix(line, "SEO_KEYWORDS:"), ",")
		case section == "bullets" && strings.HasPrefix(line, "- "):
			d.Bullets = append(d.Bullets, strings.TrimSpace(line[2:]))
		case line == "":
		case section == "short" && d.Short == "":
			d.Short = line
		case section == "long" && d.Long == "":
			d.Long = line
		}
	}
	return d, d.Short != "" && d.Long != ""
}

func fallbackDescription(productInput string) Description {
	title := productInput
	if utf8.RuneCountInString(title) > 50 {
		title = string([]rune(title)[:50]) + "..."
	}
	return Description{
		Short: title + " - Produk berkualitas tinggi untuk kebutuhan Anda.",
		Long: title + " adalah produk yang dirancang untuk memenuhi kebutuhan sehari-hari dengan kualitas terbaik. " +
			"Cocok digunakan oleh semua kalangan, mudah didapatkan dan terjangkau harganya.",
		Bullets:     []string{"Kualitas terjamin", "Mudah digunakan", "Harga terjangkau", "Cocok untuk berbagai kebutuhan"},
		SEOKeywords: []string{"produk", "kualitas", "terjangkau", "indonesia", "sme", "belanja"},
	}
}

func splitList(s, sep string) []string {
	var out []string
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
