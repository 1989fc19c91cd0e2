package reviewsrepobridge

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/reviewsrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type bridge struct {
	reviewRepository *reviewsrepo.Repository
}

func newBridge(cfg Config) *bridge {
	return &bridge{reviewRepository: cfg.Repository}
}

func reviewError(err error) *errs.Error {
	switch {
	case errors.Is(err, reviewsrepo.ErrProductNotFound):
		return errs.FromRepo(err, "Produk tidak ditemukan")
	case errors.Is(err, reviewsrepo.ErrNotPurchased):
		return errs.FromRepo(err, "Anda harus membeli produk terlebih dahulu sebelum memberikan review")
	case errors.Is(err, reviewsrepo.ErrAlreadyReviewed):
		return errs.FromRepo(err, "Anda sudah memberikan review untuk produk ini")
	case errors.Is(err, reviewsrepo.ErrNotOwner):
		return errs.FromRepo(err, "Anda tidak memiliki akses ke review ini")
	case errors.Is(err, reviewsrepo.ErrInvalidRating):
		return errs.Newf(errs.ValidationError, ratingMessage)
	}
	return errs.FromRepo(err, "Review tidak ditemukan")
}

func (b *bridge) httpForProduct(ctx context.Context, r *http.Request) web.Encoder {
	page, err := fopbridge.ParsePage(r, 10)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}

	result, err := b.reviewRepository.ForProduct(ctx, web.Param(r, "product"), page)
	if err != nil {
		return reviewError(err)
	}

	reviews := make([]Review, len(result.Reviews))
	for i, rv := range result.Reviews {
		reviews[i] = marshalWithUser(rv)
	}
	return fopbridge.NewResponse("Reviews berhasil diambil", ProductReviews{
		Reviews:       reviews,
		AverageRating: result.Summary.AverageRating,
		ReviewCount:   result.Summary.ReviewCount,
		Pagination:    fop.NewPageInfo(page, result.Total),
	})
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input CreateReviewInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	review, err := b.reviewRepository.Create(ctx, reviewsrepo.CreateReview{
		UserID:    userID,
		ProductID: strings.TrimSpace(input.ProductID),
		Rating:    input.Rating,
		Comment:   input.Comment,
	})
	if err != nil {
		return reviewError(err)
	}
	return fopbridge.NewCreatedResponse("Review berhasil dibuat", marshalReview(review))
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input UpdateReviewInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	review, err := b.reviewRepository.Update(ctx, userID, web.Param(r, "review_id"), reviewsrepo.UpdateReview{
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if err != nil {
		return reviewError(err)
	}
	return fopbridge.NewResponse("Review berhasil diupdate", marshalReview(review))
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	claims, err := mid.GetClaims(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	if err := b.reviewRepository.Delete(ctx, claims.UserID, claims.IsAdmin(), web.Param(r, "review_id")); err != nil {
		return reviewError(err)
	}
	return fopbridge.NewMessage("Review berhasil dihapus")
}
