package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kingjawir/marketplace/sdk/validation"
	"golang.org/x/net/html"
)

const blibliBaseURL = "https://www.blibli.com"

const blibliCountJS = `() => document.querySelectorAll('a.elf-product-card').length`

func blibliSearchURL(query string) string {
	return fmt.Sprintf("%s/cari/%s", blibliBaseURL, url.PathEscape(query))
}

func blibliTarget(query string, limit int) Target {
	return Target{URL: blibliSearchURL(query), CountJS: blibliCountJS, Limit: limit}
}

// ParseBlibli extracts products from a rendered Blibli search page.
func ParseBlibli(page string, limit int) ([]Product, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse blibli html: %w", err)
	}

	cards := findAll(doc, func(n *html.Node) bool {
		return n.Data == "a" && hasClass(n, "elf-product-card")
	})

	seen := make(map[string]bool)
	var products []Product
	for _, card := range cards {
		if limit > 0 && len(products) >= limit {
			break
		}

		href := attr(card, "href")
		switch {
		case href == "":
			continue
		case strings.HasPrefix(href, "http"):
		case strings.HasPrefix(href, "/"):
			href = blibliBaseURL + href
		default:
			href = blibliBaseURL + "/" + href
		}
		if seen[href] {
			continue
		}
		seen[href] = true

		var texts []string
		for _, div := range findAll(card, tag("div")) {
			if hasDescendant(div, tag("div")) {
				continue
			}
			if t := textOf(div); t != "" {
				texts = append(texts, t)
			}
		}

		name := longest(texts, func(t string) bool {
			return len(t) > 10 && !strings.HasPrefix(t, "Rp") && !strings.Contains(t, "terjual")
		})
		if name == "" {
			name = "Unknown Product"
		}

		p := Product{
			Name:       name,
			Price:      blibliPrice(card),
			ImageURL:   imageSrc(findFirst(card, tag("img"))),
			ProductURL: href,
			Source:     Blibli,
		}
		for _, t := range texts {
			if p.Rating == nil && strings.Contains(t, ".") {
				if r, err := strconv.ParseFloat(t, 32); err == nil && r <= 5 {
					p.Rating = validation.StringPtr(t)
				}
			}
			if p.Sold == nil && strings.Contains(strings.ToLower(t), "terjual") {
				p.Sold = validation.StringPtr(t)
			}
			if p.ShopLocation == nil && isLocation(t) {
				p.ShopLocation = validation.StringPtr(t)
			}
		}
		products = append(products, p)
	}
	return products, nil
}

// blibliPrice prefers the discounted fixed price and otherwise reads the
// first well formed "Rp" amount in the card.
func blibliPrice(card *html.Node) string {
	if fixed := findFirst(card, func(n *html.Node) bool { return hasClass(n, "els-product__fixed-price") }); fixed != nil {
		digits := strings.NewReplacer("Rp", "", ".", "", ",", "", " ", "").Replace(strings.Join(textNodes(fixed), ""))
		if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
			return validation.FormatRupiah(n)
		}
	}

	for _, t := range textNodes(card) {
		if !strings.HasPrefix(t, "Rp") {
			continue
		}
		if n, ok := leadingRupiah(strings.TrimPrefix(t, "Rp")); ok {
			return validation.FormatRupiah(n)
		}
	}
	return "Rp0"
}

// leadingRupiah reads digits grouped by dots in threes, stopping at the first
// character that breaks the grouping: "58.05061.05" reads as 58050.
func leadingRupiah(s string) (int64, bool) {
	var digits strings.Builder
	group := -1
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if group == 3 {
				return finishRupiah(digits.String())
			}
			digits.WriteRune(r)
			if group >= 0 {
				group++
			}
		case r == '.' && digits.Len() > 0 && (group == -1 || group == 3):
			group = 0
		default:
			return finishRupiah(digits.String())
		}
	}
	return finishRupiah(digits.String())
}

func finishRupiah(digits string) (int64, bool) {
	if len(digits) < 3 {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	return n, err == nil
}
