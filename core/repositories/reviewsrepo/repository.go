package reviewsrepo

import (
	"context"
	"fmt"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/validation"
)

var (
	ErrReviewNotFound  = fmt.Errorf("review %w", repositories.ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", repositories.ErrNotFound)
	ErrAlreadyReviewed = fmt.Errorf("review %w", repositories.ErrAlreadyExists)
	ErrNotPurchased    = fmt.Errorf("%w: product not bought in a completed order", repositories.ErrForbidden)
	ErrNotOwner        = fmt.Errorf("review belongs to another user: %w", repositories.ErrNotOwner)
	ErrInvalidRating   = fmt.Errorf("%w: rating must be between 1 and 5", repositories.ErrInvalid)
)

type Storer interface {
	Create(ctx context.Context, input CreateReview) (Review, error)
	GetByID(ctx context.Context, reviewID string) (Review, error)
	ListByProduct(ctx context.Context, productID string, page fop.Page) ([]ReviewWithUser, int, error)
	Summary(ctx context.Context, productID string) (Summary, error)
	Update(ctx context.Context, reviewID string, input UpdateReview) (Review, error)
	Delete(ctx context.Context, reviewID string) error
	// ResolveProduct accepts a product id or slug and returns the id.
	ResolveProduct(ctx context.Context, idOrSlug string) (string, error)
	// HasCompletedPurchase reports whether the user has a DONE order holding
	// the product.
	HasCompletedPurchase(ctx context.Context, userID, productID string) (bool, error)
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// ProductReviews is a page of reviews with the product's overall summary.
type ProductReviews struct {
	Reviews []ReviewWithUser
	Summary Summary
	Total   int
}

func (r *Repository) ForProduct(ctx context.Context, idOrSlug string, page fop.Page) (ProductReviews, error) {
	productID, err := r.storer.ResolveProduct(ctx, idOrSlug)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("review repository for product: %w", err)
	}

	reviews, total, err := r.storer.ListByProduct(ctx, productID, page)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("review repository for product: %w", err)
	}
	summary, err := r.storer.Summary(ctx, productID)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("review repository for product: %w", err)
	}
	summary.AverageRating = RoundRating(summary.AverageRating)

	return ProductReviews{Reviews: reviews, Summary: summary, Total: total}, nil
}

// Create lets a buyer review a product from one of their completed orders,
// once.
func (r *Repository) Create(ctx context.Context, input CreateReview) (Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return Review{}, ErrInvalidRating
	}
	productID, err := r.storer.ResolveProduct(ctx, input.ProductID)
	if err != nil {
		return Review{}, fmt.Errorf("review repository create: %w", err)
	}
	input.ProductID = productID

	bought, err := r.storer.HasCompletedPurchase(ctx, input.UserID, input.ProductID)
	if err != nil {
		return Review{}, fmt.Errorf("review repository create: %w", err)
	}
	if !bought {
		return Review{}, ErrNotPurchased
	}

	input.Comment = validation.TrimToNil(input.Comment)
	review, err := r.storer.Create(ctx, input)
	if err != nil {
		return Review{}, fmt.Errorf("review repository create: %w", err)
	}
	return review, nil
}

func (r *Repository) Update(ctx context.Context, userID, reviewID string, input UpdateReview) (Review, error) {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return Review{}, ErrInvalidRating
	}

	current, err := r.storer.GetByID(ctx, reviewID)
	if err != nil {
		return Review{}, fmt.Errorf("review repository update: %w", err)
	}
	if current.UserID != userID {
		return Review{}, ErrNotOwner
	}

	review, err := r.storer.Update(ctx, reviewID, input)
	if err != nil {
		return Review{}, fmt.Errorf("review repository update: %w", err)
	}
	return review, nil
}

// Delete removes a review by its author or by an admin.
func (r *Repository) Delete(ctx context.Context, userID string, isAdmin bool, reviewID string) error {
	current, err := r.storer.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("review repository delete: %w", err)
	}
	if !isAdmin && current.UserID != userID {
		return ErrNotOwner
	}

	if err := r.storer.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("review repository delete: %w", err)
	}
	return nil
}
