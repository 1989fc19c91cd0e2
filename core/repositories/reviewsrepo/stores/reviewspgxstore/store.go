package reviewspgxstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/reviewsrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const reviewColumns = `r.review_id, r.user_id, r.product_id, r.rating, r.comment, r.created_at, r.updated_at`

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) Create(ctx context.Context, input reviewsrepo.CreateReview) (reviewsrepo.Review, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return reviewsrepo.Review{}, fmt.Errorf("generate id: %w", err)
	}

	query := `INSERT INTO reviews AS r (review_id, user_id, product_id, rating, comment)
		VALUES (@review_id, @user_id, @product_id, @rating, @comment)
		RETURNING ` + reviewColumns

	args := pgx.NamedArgs{
		"review_id":  id,
		"user_id":    input.UserID,
		"product_id": input.ProductID,
		"rating":     input.Rating,
		"comment":    input.Comment,
	}

	review, err := s.one(ctx, query, args)
	if errors.Is(err, postgresdb.ErrDBDuplicatedEntry) {
		return reviewsrepo.Review{}, reviewsrepo.ErrAlreadyReviewed
	}
	return review, err
}

func (s *Store) GetByID(ctx context.Context, reviewID string) (reviewsrepo.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews r WHERE r.review_id = @review_id`
	return s.one(ctx, query, pgx.NamedArgs{"review_id": reviewID})
}

func (s *Store) ListByProduct(ctx context.Context, productID string, page fop.Page) ([]reviewsrepo.ReviewWithUser, int, error) {
	args := pgx.NamedArgs{"product_id": productID}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews r WHERE r.product_id = @product_id`, args).Scan(&total); err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}

	buf := bytes.NewBufferString(`SELECT ` + reviewColumns + `, u.name AS user_name, u.avatar_url AS user_avatar
		FROM reviews r JOIN users u ON u.user_id = r.user_id
		WHERE r.product_id = @product_id`)
	if err := postgresdb.AddOrderByClause(buf, "r.created_at", "r.review_id", postgresdb.DESC); err != nil {
		return nil, 0, err
	}
	postgresdb.AddLimitOffsetClause(buf, args, page.Limit, page.Offset())

	rows, err := s.pool.Query(ctx, buf.String(), args)
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	reviews, err := pgx.CollectRows(rows, pgx.RowToStructByName[reviewsrepo.ReviewWithUser])
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	return reviews, total, nil
}

func (s *Store) Summary(ctx context.Context, productID string) (reviewsrepo.Summary, error) {
	rows, err := s.pool.Query(ctx, `SELECT COALESCE(AVG(rating), 0)::float8 AS average_rating, COUNT(*)::int AS review_count
		FROM reviews WHERE product_id = @product_id`, pgx.NamedArgs{"product_id": productID})
	if err != nil {
		return reviewsrepo.Summary{}, postgresdb.HandlePgError(err)
	}
	summary, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[reviewsrepo.Summary])
	if err != nil {
		return reviewsrepo.Summary{}, postgresdb.HandlePgError(err)
	}
	return summary, nil
}

func (s *Store) Update(ctx context.Context, reviewID string, input reviewsrepo.UpdateReview) (reviewsrepo.Review, error) {
	query := `UPDATE reviews AS r SET
			rating = COALESCE(@rating, r.rating),
			comment = CASE WHEN @comment::text IS NULL THEN r.comment ELSE NULLIF(TRIM(@comment::text), '') END,
			updated_at = NOW()
		WHERE r.review_id = @review_id
		RETURNING ` + reviewColumns

	args := pgx.NamedArgs{
		"review_id": reviewID,
		"rating":    input.Rating,
		"comment":   input.Comment,
	}
	return s.one(ctx, query, args)
}

func (s *Store) Delete(ctx context.Context, reviewID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reviews WHERE review_id = @review_id`, pgx.NamedArgs{"review_id": reviewID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return reviewsrepo.ErrReviewNotFound
	}
	return nil
}

func (s *Store) ResolveProduct(ctx context.Context, idOrSlug string) (string, error) {
	var productID string
	err := s.pool.QueryRow(ctx, `SELECT product_id FROM products WHERE product_id = @key OR slug = @key LIMIT 1`,
		pgx.NamedArgs{"key": idOrSlug}).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", reviewsrepo.ErrProductNotFound
		}
		return "", postgresdb.HandlePgError(err)
	}
	return productID, nil
}

func (s *Store) HasCompletedPurchase(ctx context.Context, userID, productID string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.order_id
			WHERE o.user_id = @user_id AND oi.product_id = @product_id AND o.status = 'DONE'
		)`, pgx.NamedArgs{"user_id": userID, "product_id": productID}).Scan(&ok)
	if err != nil {
		return false, postgresdb.HandlePgError(err)
	}
	return ok, nil
}

func (s *Store) one(ctx context.Context, query string, args pgx.NamedArgs) (reviewsrepo.Review, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return reviewsrepo.Review{}, postgresdb.HandlePgError(err)
	}
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[reviewsrepo.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reviewsrepo.Review{}, reviewsrepo.ErrReviewNotFound
		}
		return reviewsrepo.Review{}, postgresdb.HandlePgError(err)
	}
	return review, nil
}
