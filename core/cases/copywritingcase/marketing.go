package copywritingcase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
)

type Platform string

const (
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	LinkedIn  Platform = "linkedin"
	Email     Platform = "email"
	TikTok    Platform = "tiktok"

	marketingSystem = "Anda adalah AI yang membantu SMEs Indonesia membuat konten pemasaran yang menarik dan efektif."
)

type platformProfile struct {
	maxLength int
	style     string
	// long platforms are written in three parallel parts.
	long     bool
	hashtags []string
	cta      string
}

var platforms = map[Platform]platformProfile{
	Instagram: {maxLength: 150, style: "short, engaging post with emojis",
		hashtags: []string{"#ProdukLokal", "#BelanjaOnline", "#UMKMIndonesia", "#SMEIndonesia"},
		cta:      "Pesan sekarang di link bio dan dapatkan diskon spesial!"},
	Facebook: {maxLength: 200, style: "engaging post with story",
		hashtags: []string{"#BisnisSME", "#ProdukLokal", "#BelanjaOnline"},
		cta:      `Klik "Pesan Sekarang" untuk detail produk dan harga spesial!`},
	Twitter: {maxLength: 280, style: "concise tweet with impact",
		hashtags: []string{"#SME", "#ProdukLokal", "#BelanjaOnline"},
		cta:      "DM untuk info & promo spesial! 📩"},
	LinkedIn: {maxLength: 600, style: "professional post with insights", long: true,
		hashtags: []string{"#DigitalMarketing", "#SME", "#BusinessTools", "#IndonesiaUMKM"},
		cta:      "Hubungi kami untuk konsultasi gratis dan demo produk!"},
	Email: {maxLength: 1000, style: "complete email with subject and body", long: true,
		hashtags: []string{"#BisnisSME", "#ContentMarketing", "#ProdukKualitas"},
		cta:      "Klik link di atas untuk memesan sekarang!"},
	TikTok: {maxLength: 200, style: "catchy caption for video",
		hashtags: []string{"#SME", "#Viral", "#ProdukLokal", "#TikTokShop"},
		cta:      "Cek keranjang kuning dan checkout sekarang!"},
}

// ParsePlatform accepts a platform name in any case.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	_, ok := platforms[p]
	return p, ok
}

// Marketing is generated content for one platform.
type Marketing struct {
	Platform     Platform `json:"platform"`
	Content      string   `json:"content"`
	Hashtags     []string `json:"hashtags"`
	CallToAction string   `json:"callToAction"`
}

// GenerateMarketing writes a marketing post for platform from a product
// description. Model failures return the platform fallback.
func (c *Case) GenerateMarketing(ctx context.Context, d Description, platform Platform) (Marketing, error) {
	profile, ok := platforms[platform]
	if !ok || strings.TrimSpace(d.Short) == "" {
		return Marketing{}, ErrInvalidPlatform
	}

	c.log.InfoContext(ctx, "generating marketing content", "platform", platform)

	if profile.long {
		parts, err := c.generateAll(ctx, marketingSystem, 0.7,
			marketingPartPrompt(d, platform, 1),
			marketingPartPrompt(d, platform, 2),
			marketingPartPrompt(d, platform, 3),
		)
		if err != nil {
			c.log.ErrorContext(ctx, "marketing content failed, using fallback", "platform", platform, "error", err)
			return fallbackMarketing(d, platform), nil
		}
		return Marketing{
			Platform:     platform,
			Content:      strings.Join(parts, " "),
			Hashtags:     slices.Clone(profile.hashtags),
			CallToAction: profile.cta,
		}, nil
	}

	answers, err := c.generateAll(ctx, marketingSystem, 0.7, marketingPrompt(d, platform, profile))
	if err != nil {
		c.log.ErrorContext(ctx, "marketing content failed, using fallback", "platform", platform, "error", err)
		return fallbackMarketing(d, platform), nil
	}
	return parseMarketing(answers[0], platform), nil
}

func describe(b *strings.Builder, d Description) {
	b.WriteString("PRODUCT DESCRIPTION:\n")
	fmt.Fprintf(b, "- Short: %s\n", d.Short)
	fmt.Fprintf(b, "- Long: %s\n", d.Long)
	fmt.Fprintf(b, "- Key Features: %s\n", strings.Join(d.Bullets, "; "))
	fmt.Fprintf(b, "- SEO Keywords: %s\n\n", strings.Join(d.SEOKeywords, ", "))
}

func marketingPrompt(d Description, platform Platform, profile platformProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert Indonesian marketing copywriter for SMEs. Create engaging marketing content for %s based on the product description below. Content must be in Indonesian, optimized for %s, and persuasive for small businesses.\n\n", platform, platform)
	describe(&b, d)
	b.WriteString("INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "1) Generate content suitable for %s (%s).\n", platform, profile.style)
	fmt.Fprintf(&b, "2) Content should be detailed and engaging, up to %d characters.\n", profile.maxLength)
	b.WriteString("3) Include relevant hashtags if applicable.\n")
	b.WriteString("4) Add a compelling call-to-action (CTA).\n")
	b.WriteString("5) Output in labeled sections: CONTENT, HASHTAGS, CTA.\n\n")
	b.WriteString("EXAMPLE OUTPUT:\n")
	b.WriteString("CONTENT: Rekam momen epik dengan kamera aksi 4K tahan air! Video tajam, stabil, dan siap adventure. 🚀📹\n")
	b.WriteString("HASHTAGS: #KameraAksi #4KVideo #SMEVlogger\n")
	b.WriteString("CTA: Pesan sekarang di link bio!")
	return b.String()
}

var marketingParts = map[int]struct{ focus, instruction string }{
	1: {"pengantar dan hook menarik", "Buat pengantar yang menarik perhatian, jelaskan masalah yang diselesaikan produk, dan buat hook yang membuat audiens tertarik."},
	2: {"fitur dan manfaat utama", "Jelaskan fitur-fitur utama produk dan manfaat spesifik yang didapat pelanggan, fokus pada nilai untuk bisnis mereka."},
	3: {"kesimpulan dan call-to-action", "Berikan kesimpulan yang persuasif, testimonial singkat, dan ajakan kuat untuk melakukan aksi (beli, hubungi, dll)."},
}

func marketingPartPrompt(d Description, platform Platform, part int) string {
	p := marketingParts[part]
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert Indonesian marketing copywriter for SMEs. Create a detailed section of marketing content for %s based on the product description below. Focus on %s.\n\n", platform, p.focus)
	describe(&b, d)
	b.WriteString("INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "1) Write a detailed paragraph (minimal 150 kata) about: %s\n", p.instruction)
	fmt.Fprintf(&b, "2) Content must be in Indonesian and optimized for %s.\n", platform)
	b.WriteString("3) Make it engaging and persuasive for small businesses.\n")
	b.WriteString("4) Output only the paragraph text, no labels or formatting.")
	return b.String()
}

// parseMarketing reads CONTENT, HASHTAGS and CTA sections. Labels may carry
// markdown or a colon. Missing sections get defaults.
func parseMarketing(text string, platform Platform) Marketing {
	m := Marketing{Platform: platform}
	section := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label, rest := splitLabel(line)
		switch {
		case label == "HASHTAGS":
			section = "hashtags"
			m.Hashtags = append(m.Hashtags, hashtags(rest)...)
		case label == "CTA":
			section = "cta"
			m.CallToAction = rest
		case label == "CONTENT":
			section = "content"
			m.Content = rest
		case section == "content":
			m.Content = strings.TrimSpace(m.Content + " " + line)
		case section == "hashtags" && strings.HasPrefix(line, "#"):
			m.Hashtags = append(m.Hashtags, hashtags(line)...)
		case section == "cta":
			m.CallToAction = strings.TrimSpace(m.CallToAction + " " + line)
		}
	}

	if m.Content == "" {
		m.Content = strings.TrimSpace(strings.ReplaceAll(text, "**", ""))
	}
	if len(m.Hashtags) == 0 {
		m.Hashtags = []string{"#ProdukKualitas", "#SMEIndonesia"}
	}
	if m.CallToAction == "" {
		m.CallToAction = "Pesan sekarang!"
	}
	return m
}

var marketingLabels = []string{"CONTENT", "HASHTAGS", "CTA"}

// splitLabel recognizes a section label at the start of line, with or
// without markdown emphasis, and returns the text after it.
func splitLabel(line string) (label, rest string) {
	bare := strings.TrimLeft(line, "*#- ")
	upper := strings.ToUpper(bare)
	for _, l := range marketingLabels {
		if !strings.HasPrefix(upper, l) {
			continue
		}
		after := bare[len(l):]
		if after == "" || !strings.ContainsRune("*: ", rune(after[0])) {
			continue
		}
		return l, strings.TrimSpace(strings.TrimLeft(after, "*: "))
	}
	return "", line
}

func hashtags(s string) []string {
	var out []string
	for _, f := range strings.Fields(s) {
		if strings.HasPrefix(f, "#") {
			out = append(out, f)
		}
	}
	return out
}

// fallbackMarketing builds a canned post around the product's short
// description.
func fallbackMarketing(d Description, platform Platform) Marketing {
	profile := platforms[platform]
	short := strings.TrimSpace(d.Short)

	var content string
	switch platform {
	case Twitter:
		content = short + " 🚀 Tingkatkan bisnis Anda sekarang!"
	case TikTok:
		content = "🎥 " + short + " Cocok banget buat kamu yang mau tampil beda! 💥"
	case Email:
		content = "Subjek: " + short + "\n\nHalo,\n\n" + strings.TrimSpace(d.Long) +
			"\n\nSalam sukses,\nTim King Jawir"
	case LinkedIn:
		content = "Sebagai pemilik usaha di Indonesia, Anda membutuhkan produk yang tepat. " + short + " " + strings.TrimSpace(d.Long)
	default:
		content = "✨ " + short + " " + strings.TrimSpace(d.Long)
	}

	tags := slices.Clone(profile.hashtags)
	for _, kw := range d.SEOKeywords[:min(3, len(d.SEOKeywords))] {
		tags = append(tags, "#"+strcase.ToCamel(kw))
	}

	return Marketing{
		Platform:     platform,
		Content:      strings.TrimSpace(content),
		Hashtags:     tags,
		CallToAction: profile.cta,
	}
}
