package copywritingcasebridge

import (
	"strings"
	"unicode/utf8"

	"github.com/kingjawir/marketplace/core/cases/copywritingcase"
	"github.com/kingjawir/marketplace/sdk/validation"
)

type DescriptionInput struct {
	ProductInput string `json:"productInput"`
}

func (in *DescriptionInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.LenBetween(strings.TrimSpace(in.ProductInput), 1, copywritingcase.MaxProductInput),
		"productInput", "Input produk harus 1 sampai 500 karakter")
	return fe.Err()
}

type MarketingInput struct {
	ProductDescription copywritingcase.Description `json:"productDescription"`
	Platform           string                      `json:"platform"`
}

func (in *MarketingInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(strings.TrimSpace(in.ProductDescription.Short) != "", "productDescription.short", "Deskripsi singkat wajib diisi")
	_, ok := copywritingcase.ParsePlatform(in.Platform)
	fe.Check(ok, "platform", "Platform harus salah satu dari: instagram, facebook, twitter, linkedin, email, tiktok")
	return fe.Err()
}

type SellerDescriptionInput struct {
	ProductName        string   `json:"productName"`
	Category           string   `json:"category"`
	Specs              []string `json:"specs"`
	TargetMarket       string   `json:"targetMarket"`
	CurrentDescription string   `json:"currentDescription"`
}

func (in *SellerDescriptionInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.LenBetween(strings.TrimSpace(in.ProductName), 3, 200), "productName", "Nama produk minimal 3 karakter")
	fe.Check(utf8.RuneCountInString(in.Category) <= 100, "category", "Kategori maksimal 100 karakter")
	switch copywritingcase.TargetMarket(in.TargetMarket) {
	case "", copywritingcase.MarketPremium, copywritingcase.MarketBudget, copywritingcase.MarketGeneral:
	default:
		fe.Check(false, "targetMarket", "Target market harus premium, budget, atau general")
	}
	return fe.Err()
}

type ImproveInput struct {
	CurrentDescription string   `json:"currentDescription"`
	ProductName        string   `json:"productName"`
	Improvements       []string `json:"improvements"`
}

func (in *ImproveInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(utf8.RuneCountInString(strings.TrimSpace(in.CurrentDescription)) >= 10, "currentDescription", "Deskripsi minimal 10 karakter")
	fe.Check(utf8.RuneCountInString(strings.TrimSpace(in.ProductName)) >= 3, "productName", "Nama produk minimal 3 karakter")
	fe.Check(len(in.Improvements) >= 1, "improvements", "Pilih minimal satu aspek perbaikan")
	return fe.Err()
}

type Improved struct {
	ImprovedDescription string `json:"improvedDescription"`
}
