package reviewsrepo

import (
	"math"
	"time"
)

type Review struct {
	ReviewID  string    `db:"review_id"`
	UserID    string    `db:"user_id"`
	ProductID string    `db:"product_id"`
	Rating    int       `db:"rating"`
	Comment   *string   `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ReviewWithUser carries the reviewer's public fields.
type ReviewWithUser struct {
	Review
	UserName   string  `db:"user_name"`
	UserAvatar *string `db:"user_avatar"`
}

// Summary aggregates every review of a product.
type Summary struct {
	AverageRating float64 `db:"average_rating"`
	ReviewCount   int     `db:"review_count"`
}

// RoundRating rounds an average to one decimal.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

type CreateReview struct {
	UserID    string
	ProductID string
	Rating    int
	Comment   *string
}

type UpdateReview struct {
	Rating  *int
	Comment *string
}
