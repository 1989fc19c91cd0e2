package productspgxstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/productsrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const productColumns = `p.product_id, p.store_id, p.category_id, p.name, p.slug, p.description,
	p.price, p.stock, p.image_url, p.created_at, p.updated_at`

const detailColumns = productColumns + `,
	st.name AS store_name, st.slug AS store_slug, st.user_id AS store_user_id,
	c.name AS category_name, c.slug AS category_slug,
	COALESCE(rs.average, 0)::float8 AS average_rating,
	COALESCE(rs.total, 0)::int AS review_count`

const detailFrom = `
	FROM products p
	JOIN stores st ON st.store_id = p.store_id
	JOIN categories c ON c.category_id = p.category_id
	LEFT JOIN LATERAL (
		SELECT AVG(r.rating) AS average, COUNT(*) AS total
		FROM reviews r WHERE r.product_id = p.product_id
	) rs ON TRUE`

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

func (s *Store) Create(ctx context.Context, input productsrepo.CreateProduct) (productsrepo.Product, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return productsrepo.Product{}, fmt.Errorf("generate id: %w", err)
	}

	query := `INSERT INTO products AS p (product_id, store_id, category_id, name, slug, description, price, stock, image_url)
		VALUES (@product_id, @store_id, @category_id, @name, @slug, @description, @price, @stock, @image_url)
		RETURNING ` + productColumns

	args := pgx.NamedArgs{
		"product_id":  id,
		"store_id":    input.StoreID,
		"category_id": input.CategoryID,
		"name":        input.Name,
		"slug":        input.Slug,
		"description": input.Description,
		"price":       input.Price,
		"stock":       input.Stock,
		"image_url":   input.ImageURL,
	}
	return s.one(ctx, query, args)
}

func (s *Store) GetByID(ctx context.Context, productID string) (productsrepo.ProductDetail, error) {
	query := `SELECT ` + detailColumns + detailFrom + ` WHERE p.product_id = @product_id`
	return s.detail(ctx, query, pgx.NamedArgs{"product_id": productID})
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (productsrepo.ProductDetail, error) {
	query := `SELECT ` + detailColumns + detailFrom + ` WHERE p.slug = @slug`
	return s.detail(ctx, query, pgx.NamedArgs{"slug": slug})
}

func (s *Store) List(ctx context.Context, filter productsrepo.QueryFilter, orderBy fop.By, page fop.Page) ([]productsrepo.ProductDetail, int, error) {
	args := pgx.NamedArgs{}
	where := postgresdb.WhereClause(applyFilter(filter, args))

	var total int
	countQuery := `SELECT COUNT(*) FROM products p
		JOIN stores st ON st.store_id = p.store_id
		JOIN categories c ON c.category_id = p.category_id` + where
	if err := s.pool.QueryRow(ctx, countQuery, args).Scan(&total); err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}

	buf := bytes.NewBufferString(`SELECT ` + detailColumns + detailFrom)
	buf.WriteString(where)
	if err := postgresdb.AddOrderByClause(buf, orderBy.Field, "p.product_id", orderBy.Direction); err != nil {
		return nil, 0, err
	}
	postgresdb.AddLimitOffsetClause(buf, args, page.Limit, page.Offset())

	rows, err := s.pool.Query(ctx, buf.String(), args)
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[productsrepo.ProductDetail])
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	return products, total, nil
}

func applyFilter(filter productsrepo.QueryFilter, args pgx.NamedArgs) []string {
	var conds []string
	if filter.CategoryID != nil {
		conds = append(conds, "p.category_id = @category_id")
		args["category_id"] = *filter.CategoryID
	}
	if filter.CategorySlug != nil {
		conds = append(conds, "c.slug = @category_slug")
		args["category_slug"] = *filter.CategorySlug
	}
	if filter.StoreID != nil {
		conds = append(conds, "p.store_id = @store_id")
		args["store_id"] = *filter.StoreID
	}
	if filter.StoreSlug != nil {
		conds = append(conds, "st.slug = @store_slug")
		args["store_slug"] = *filter.StoreSlug
	}
	if filter.Search != nil {
		conds = append(conds, "(p.name ILIKE @search OR p.description ILIKE @search)")
		args["search"] = postgresdb.EscapeLike(*filter.Search)
	}
	if filter.MinPrice != nil {
		conds = append(conds, "p.price >= @min_price")
		args["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "p.price <= @max_price")
		args["max_price"] = *filter.MaxPrice
	}
	return conds
}

func (s *Store) Update(ctx context.Context, productID string, input productsrepo.UpdateProduct) (productsrepo.Product, error) {
	query := `UPDATE products AS p SET
			category_id = COALESCE(@category_id, p.category_id),
			name = COALESCE(@name, p.name),
			slug = COALESCE(@slug, p.slug),
			description = CASE WHEN @description::text IS NULL THEN p.description ELSE NULLIF(@description::text, '') END,
			price = COALESCE(@price, p.price),
			stock = COALESCE(@stock, p.stock),
			image_url = CASE WHEN @image_url::text IS NULL THEN p.image_url ELSE NULLIF(@image_url::text, '') END,
			updated_at = NOW()
		WHERE p.product_id = @product_id
		RETURNING ` + productColumns

	args := pgx.NamedArgs{
		"product_id":  productID,
		"category_id": input.CategoryID,
		"name":        input.Name,
		"slug":        input.Slug,
		"description": input.Description,
		"price":       input.Price,
		"stock":       input.Stock,
		"image_url":   input.ImageURL,
	}
	return s.one(ctx, query, args)
}

// Delete removes the product. Cart lines go with it; order items keep their
// snapshot and lose the reference.
func (s *Store) Delete(ctx context.Context, productID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE product_id = @product_id`,
		pgx.NamedArgs{"product_id": productID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return productsrepo.ErrProductNotFound
	}
	return nil
}

func (s *Store) StoreIDByUser(ctx context.Context, userID string) (string, error) {
	var storeID string
	err := s.pool.QueryRow(ctx, `SELECT store_id FROM stores WHERE user_id = @user_id`,
		pgx.NamedArgs{"user_id": userID}).Scan(&storeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", productsrepo.ErrNoStore
		}
		return "", postgresdb.HandlePgError(err)
	}
	return storeID, nil
}

func (s *Store) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE category_id = @category_id)`,
		pgx.NamedArgs{"category_id": categoryID}).Scan(&ok)
	if err != nil {
		return false, postgresdb.HandlePgError(err)
	}
	return ok, nil
}

func (s *Store) one(ctx context.Context, query string, args pgx.NamedArgs) (productsrepo.Product, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return productsrepo.Product{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[productsrepo.Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return productsrepo.Product{}, productsrepo.ErrProductNotFound
		}
		return productsrepo.Product{}, postgresdb.HandlePgError(err)
	}
	return product, nil
}

func (s *Store) detail(ctx context.Context, query string, args pgx.NamedArgs) (productsrepo.ProductDetail, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return productsrepo.ProductDetail{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[productsrepo.ProductDetail])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return productsrepo.ProductDetail{}, productsrepo.ErrProductNotFound
		}
		return productsrepo.ProductDetail{}, postgresdb.HandlePgError(err)
	}
	return product, nil
}
