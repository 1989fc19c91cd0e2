package reviewsrepobridge

import (
	"strings"
	"time"

	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/sdk/validation"
)

type Reviewer struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	User      *Reviewer `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProductReviews struct {
	Reviews       []Review             `json:"reviews"`
	AverageRating float64              `json:"averageRating"`
	ReviewCount   int                  `json:"reviewCount"`
	Pagination    fopbridge.Pagination `json:"pagination"`
}

const ratingMessage = "Rating harus antara 1-5"

type CreateReviewInput struct {
	ProductID string  `json:"productId"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

func (in *CreateReviewInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(strings.TrimSpace(in.ProductID) != "", "productId", "productId harus diisi")
	fe.Check(in.Rating >= 1 && in.Rating <= 5, "rating", ratingMessage)
	checkComment(fe, in.Comment)
	return fe.Err()
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (in *UpdateReviewInput) Validate() error {
	fe := validation.FieldErrors{}
	if in.Rating != nil {
		fe.Check(*in.Rating >= 1 && *in.Rating <= 5, "rating", ratingMessage)
	}
	checkComment(fe, in.Comment)
	return fe.Err()
}

func checkComment(fe validation.FieldErrors, comment *string) {
	if comment != nil {
		fe.Check(validation.LenBetween(*comment, 0, 1000), "comment", "Komentar maksimal 1000 karakter")
	}
}
