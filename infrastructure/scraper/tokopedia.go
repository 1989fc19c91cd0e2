package scraper

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/kingjawir/marketplace/sdk/validation"
	"golang.org/x/net/html"
)

const tokopediaBaseURL = "https://www.tokopedia.com"

// tokopediaCountJS counts distinct product links inside the results grid.
const tokopediaCountJS = `() => {
	const container = document.querySelector('div[data-testid="divSRPContentProducts"]');
	if (!container) return 0;
	const seen = new Set();
	let n = 0;
	for (const link of container.querySelectorAll('a[href*="tokopedia.com"]')) {
		const href = link.getAttribute('href') || '';
		if (!href || /\/(search|discovery\/|top-ads\/|promo\/)/.test(href) || seen.has(href)) continue;
		seen.add(href);
		if (link.textContent.trim().length > 10) n++;
	}
	return n;
}`

var (
	ratingText  = regexp.MustCompile(`^\d\.\d$`)
	numericOnly = regexp.MustCompile(`^[\d.,]+$`)
)

func tokopediaSearchURL(query string) string {
	return fmt.Sprintf("%s/search?st=product&q=%s", tokopediaBaseURL, url.QueryEscape(query))
}

func tokopediaTarget(query string, limit int) Target {
	return Target{URL: tokopediaSearchURL(query), CountJS: tokopediaCountJS, Limit: limit}
}

// ParseTokopedia extracts products from a rendered search page. The embedded
// __NEXT_DATA__ payload is preferred; the DOM is the fallback.
func ParseTokopedia(page string, limit int) ([]Product, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse tokopedia html: %w", err)
	}

	products := parseNextData(doc)
	if len(products) == 0 {
		products = parseTokopediaDOM(doc)
	}
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	for i := range products {
		products[i].Source = Tokopedia
	}
	return products, nil
}

func skipTokopediaURL(u string) bool {
	for _, bad := range []string{"/search", "/discovery/", "/top-ads/", "/promo/"} {
		if strings.Contains(u, bad) {
			return true
		}
	}
	return false
}

func parseTokopediaDOM(doc *html.Node) []Product {
	root := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "div" && attr(n, "data-testid") == "divSRPContentProducts"
	})
	if root == nil {
		root = doc
	}

	links := findAll(root, func(n *html.Node) bool {
		return n.Data == "a" && strings.Contains(attr(n, "href"), "tokopedia.com/")
	})

	seen := make(map[string]bool)
	var products []Product
	for _, link := range links {
		href := attr(link, "href")
		if strings.HasPrefix(href, "/") {
			href = tokopediaBaseURL + href
		}
		if href == "" || skipTokopediaURL(href) || seen[href] {
			continue
		}
		seen[href] = true

		var spans []string
		for _, s := range findAll(link, tag("span")) {
			spans = append(spans, textOf(s))
		}

		name := longest(spans, func(t string) bool {
			return len(t) > 15 && !strings.HasPrefix(t, "Rp") && !strings.Contains(t, "terjual") && !numericOnly.MatchString(t)
		})
		price := longest(textNodes(link), func(t string) bool {
			return strings.HasPrefix(t, "Rp") && !strings.Contains(t, "Cashback") && !strings.Contains(t, "%")
		})
		if name == "" || price == "" {
			continue
		}

		p := Product{
			Name:       name,
			Price:      price,
			ProductURL: href,
			ImageURL: imageSrc(findFirst(link, func(n *html.Node) bool {
				return n.Data == "img" && attr(n, "alt") == "product-image"
			})),
		}
		for _, t := range spans {
			if p.Rating == nil && ratingText.MatchString(t) {
				p.Rating = validation.StringPtr(t)
			}
			if p.Sold == nil && strings.Contains(strings.ToLower(t), "terjual") {
				p.Sold = validation.StringPtr(t)
			}
			if isLocation(t) {
				p.ShopLocation = validation.StringPtr(t)
			}
		}
		products = append(products, p)
	}
	return products
}

func isLocation(t string) bool {
	for _, c := range Cities {
		if strings.Contains(t, c) {
			return true
		}
	}
	return false
}

func longest(texts []string, keep func(string) bool) string {
	best := ""
	for _, t := range texts {
		if keep(t) && len(t) > len(best) {
			best = t
		}
	}
	return best
}

// parseNextData walks the Next.js page payload for objects that look like
// products.
func parseNextData(doc *html.Node) []Product {
	script := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "script" && attr(n, "id") == "__NEXT_DATA__"
	})
	if script == nil || script.FirstChild == nil {
		return nil
	}

	var payload any
	if err := json.Unmarshal([]byte(script.FirstChild.Data), &payload); err != nil {
		return nil
	}

	var products []Product
	var visit func(v any)
	visit = func(v any) {
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				visit(item)
			}
		case map[string]any:
			if p, ok := productFromJSON(t); ok {
				products = append(products, p)
				return
			}
			for _, item := range t {
				visit(item)
			}
		}
	}
	visit(payload)
	return products
}

func productFromJSON(obj map[string]any) (Product, bool) {
	name := firstString(obj, "name", "title", "product_name")
	if len(name) < 3 {
		return Product{}, false
	}

	var price string
	switch v := firstOf(obj, "price", "priceInt", "product_price").(type) {
	case string:
		price = v
	case float64:
		price = validation.FormatRupiah(int64(v))
	default:
		return Product{}, false
	}

	p := Product{
		Name:       name,
		Price:      price,
		ImageURL:   firstString(obj, "imageUrl", "image", "imageURL"),
		ProductURL: firstString(obj, "url", "link", "productUrl"),
	}
	switch v := firstOf(obj, "rating", "ratingScore").(type) {
	case string:
		p.Rating = validation.StringPtr(v)
	case float64:
		p.Rating = validation.StringPtr(fmt.Sprintf("%.1f", v))
	}
	if shop, ok := obj["shop"].(map[string]any); ok {
		if loc, ok := shop["location"].(string); ok {
			p.ShopLocation = validation.StringPtr(loc)
		}
	}
	if p.ShopLocation == nil {
		if loc := firstString(obj, "shopLocation", "location"); loc != "" {
			p.ShopLocation = validation.StringPtr(loc)
		}
	}
	switch v := firstOf(obj, "sold", "soldCount", "totalSold").(type) {
	case string:
		p.Sold = validation.StringPtr(v)
	case float64:
		p.Sold = validation.StringPtr(fmt.Sprintf("%d", int64(v)))
	}
	return p, true
}

func firstOf(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(obj map[string]any, keys ...string) string {
	s, _ := firstOf(obj, keys...).(string)
	return s
}
