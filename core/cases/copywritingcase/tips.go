package copywritingcase

type Tip struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Example     string   `json:"example,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

type MarketGuide struct {
	Tone      string   `json:"tone"`
	Keywords  []string `json:"keywords"`
	Avoid     string   `json:"avoid,omitempty"`
	Highlight string   `json:"highlight,omitempty"`
}

type Tips struct {
	Tips              []Tip                        `json:"tips"`
	TargetMarketGuide map[TargetMarket]MarketGuide `json:"targetMarketGuide"`
}

// DescriptionTips is the static writing guide shown next to the seller
// description tools.
func DescriptionTips() Tips {
	return Tips{
		Tips: []Tip{
			{
				Title:       "🎯 Fokus pada Benefit, Bukan Fitur",
				Description: `Customer lebih tertarik dengan "apa manfaatnya untuk saya" dibanding spesifikasi teknis.`,
				Example:     `❌ "Kamera 48MP" → ✅ "Foto jernih seperti kamera profesional"`,
			},
			{
				Title:       "📝 Gunakan Storytelling",
				Description: "Ceritakan bagaimana produk ini menyelesaikan masalah customer.",
				Example:     "Bosan nasi bungkus biasa? Cobain nasi kotak premium kami dengan lauk homemade...",
			},
			{
				Title:       "🔍 SEO-Friendly Keywords",
				Description: "Masukkan kata kunci yang sering dicari customer di marketplace.",
				Keywords:    []string{"Nama produk + brand", "Manfaat utama", "Target audience", "Lokasi/origin (jika relevan)"},
			},
			{
				Title:       "✨ Call-to-Action Jelas",
				Description: "Ajak customer untuk action dengan urgency.",
				Examples:    []string{"Order sekarang, stok terbatas!", "Chat admin untuk diskon reseller", "Gratis ongkir untuk pembelian hari ini"},
			},
			{
				Title:       "📊 Struktur yang Rapi",
				Description: "Gunakan bullet points, emoji, dan paragraf pendek agar mudah dibaca.",
			},
		},
		TargetMarketGuide: map[TargetMarket]MarketGuide{
			MarketPremium: {
				Tone:     "Elegant, sophisticated, exclusive",
				Keywords: []string{"premium", "luxury", "exclusive", "limited edition", "high-quality"},
				Avoid:    `Kata-kata seperti "murah", "diskon", terlalu banyak emoji`,
			},
			MarketBudget: {
				Tone:      "Friendly, value-focused, relatable",
				Keywords:  []string{"terjangkau", "hemat", "value for money", "berkualitas", "ekonomis"},
				Highlight: "Harga kompetitif + kualitas yang tetap baik",
			},
			MarketGeneral: {
				Tone:      "Conversational, engaging, trustworthy",
				Keywords:  []string{"berkualitas", "terpercaya", "best seller", "recommended"},
				Highlight: "Balance antara kualitas dan harga",
			},
		},
	}
}
