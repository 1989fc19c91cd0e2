package categoriespgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/categoriesrepo"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const categoryColumns = `c.category_id, c.name, c.slug, c.description, c.created_at, c.updated_at`

const countColumns = categoryColumns + `,
	(SELECT COUNT(*) FROM products p WHERE p.category_id = c.category_id)::int AS product_count`

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

func (s *Store) Create(ctx context.Context, input categoriesrepo.CreateCategory) (categoriesrepo.Category, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return categoriesrepo.Category{}, fmt.Errorf("generate id: %w", err)
	}

	query := `INSERT INTO categories AS c (category_id, name, slug, description)
		VALUES (@category_id, @name, @slug, @description)
		RETURNING ` + categoryColumns

	args := pgx.NamedArgs{
		"category_id": id,
		"name":        input.Name,
		"slug":        input.Slug,
		"description": input.Description,
	}
	return s.one(ctx, query, args)
}

func (s *Store) GetByID(ctx context.Context, categoryID string) (categoriesrepo.CategoryWithCount, error) {
	query := `SELECT ` + countColumns + ` FROM categories c WHERE c.category_id = @category_id`
	return s.withCount(ctx, query, pgx.NamedArgs{"category_id": categoryID})
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (categoriesrepo.CategoryWithCount, error) {
	query := `SELECT ` + countColumns + ` FROM categories c WHERE c.slug = @slug`
	return s.withCount(ctx, query, pgx.NamedArgs{"slug": slug})
}

func (s *Store) List(ctx context.Context) ([]categoriesrepo.CategoryWithCount, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+countColumns+` FROM categories c ORDER BY c.name ASC`)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[categoriesrepo.CategoryWithCount])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return categories, nil
}

func (s *Store) Update(ctx context.Context, categoryID string, input categoriesrepo.UpdateCategory) (categoriesrepo.Category, error) {
	query := `UPDATE categories AS c SET
			name = COALESCE(@name, c.name),
			slug = COALESCE(@slug, c.slug),
			description = CASE WHEN @description::text IS NULL THEN c.description ELSE NULLIF(@description::text, '') END,
			updated_at = NOW()
		WHERE c.category_id = @category_id
		RETURNING ` + categoryColumns

	args := pgx.NamedArgs{
		"category_id": categoryID,
		"name":        input.Name,
		"slug":        input.Slug,
		"description": input.Description,
	}
	return s.one(ctx, query, args)
}

func (s *Store) Delete(ctx context.Context, categoryID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE category_id = @category_id`,
		pgx.NamedArgs{"category_id": categoryID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return categoriesrepo.ErrCategoryNotFound
	}
	return nil
}

func (s *Store) one(ctx context.Context, query string, args pgx.NamedArgs) (categoriesrepo.Category, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return categoriesrepo.Category{}, uniqueError(err)
	}
	defer rows.Close()

	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[categoriesrepo.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return categoriesrepo.Category{}, categoriesrepo.ErrCategoryNotFound
		}
		return categoriesrepo.Category{}, uniqueError(err)
	}
	return category, nil
}

func (s *Store) withCount(ctx context.Context, query string, args pgx.NamedArgs) (categoriesrepo.CategoryWithCount, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return categoriesrepo.CategoryWithCount{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[categoriesrepo.CategoryWithCount])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return categoriesrepo.CategoryWithCount{}, categoriesrepo.ErrCategoryNotFound
		}
		return categoriesrepo.CategoryWithCount{}, postgresdb.HandlePgError(err)
	}
	return category, nil
}

// uniqueError tells a taken name from a taken slug.
func uniqueError(err error) error {
	switch postgresdb.ConstraintName(err) {
	case "categories_name_key":
		return categoriesrepo.ErrNameTaken
	case "categories_slug_key":
		return categoriesrepo.ErrSlugTaken
	}
	return postgresdb.HandlePgError(err)
}
