package storespgxstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/storesrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const storeColumns = `s.store_id, s.user_id, s.name, s.slug, s.description, s.logo_url, s.created_at, s.updated_at`

const detailColumns = storeColumns + `,
	(SELECT COUNT(*) FROM products p WHERE p.store_id = s.store_id)::int AS product_count,
	u.name AS owner_name, u.avatar_url AS owner_avatar`

const detailFrom = ` FROM stores s JOIN users u ON u.user_id = s.user_id`

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

func (s *Store) Create(ctx context.Context, input storesrepo.CreateStore) (storesrepo.Store, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return storesrepo.Store{}, fmt.Errorf("generate id: %w", err)
	}

	query := `INSERT INTO stores AS s (store_id, user_id, name, slug, description, logo_url)
		VALUES (@store_id, @user_id, @name, @slug, @description, @logo_url)
		RETURNING ` + storeColumns

	args := pgx.NamedArgs{
		"store_id":    id,
		"user_id":     input.UserID,
		"name":        input.Name,
		"slug":        input.Slug,
		"description": input.Description,
		"logo_url":    input.LogoURL,
	}

	var store storesrepo.Store
	err = postgresdb.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args)
		if err != nil {
			return err
		}
		store, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[storesrepo.Store])
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE users SET role = 'SELLER', updated_at = NOW()
			WHERE user_id = @user_id AND role <> 'ADMIN'`, pgx.NamedArgs{"user_id": input.UserID})
		return err
	})
	if err != nil {
		err = postgresdb.HandlePgError(err)
		if errors.Is(err, postgresdb.ErrDBDuplicatedEntry) {
			return storesrepo.Store{}, storesrepo.ErrStoreExists
		}
		return storesrepo.Store{}, err
	}
	return store, nil
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (storesrepo.StoreDetail, error) {
	query := `SELECT ` + detailColumns + detailFrom + ` WHERE s.user_id = @user_id`
	return s.detail(ctx, query, pgx.NamedArgs{"user_id": userID})
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (storesrepo.StoreDetail, error) {
	query := `SELECT ` + detailColumns + detailFrom + ` WHERE s.slug = @slug`
	return s.detail(ctx, query, pgx.NamedArgs{"slug": slug})
}

func (s *Store) List(ctx context.Context, filter storesrepo.QueryFilter, page fop.Page) ([]storesrepo.StoreDetail, int, error) {
	args := pgx.NamedArgs{}
	var conds []string
	if filter.Search != nil {
		conds = append(conds, "(s.name ILIKE @search OR s.description ILIKE @search)")
		args["search"] = postgresdb.EscapeLike(*filter.Search)
	}
	where := postgresdb.WhereClause(conds)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stores s`+where, args).Scan(&total); err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}

	buf := bytes.NewBufferString(`SELECT ` + detailColumns + detailFrom)
	buf.WriteString(where)
	if err := postgresdb.AddOrderByClause(buf, "s.created_at", "s.store_id", postgresdb.DESC); err != nil {
		return nil, 0, err
	}
	postgresdb.AddLimitOffsetClause(buf, args, page.Limit, page.Offset())

	rows, err := s.pool.Query(ctx, buf.String(), args)
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	stores, err := pgx.CollectRows(rows, pgx.RowToStructByName[storesrepo.StoreDetail])
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	return stores, total, nil
}

func (s *Store) Update(ctx context.Context, storeID string, input storesrepo.UpdateStore) (storesrepo.Store, error) {
	query := `UPDATE stores AS s SET
			name = COALESCE(@name, s.name),
			slug = COALESCE(@slug, s.slug),
			description = CASE WHEN @description::text IS NULL THEN s.description ELSE NULLIF(@description::text, '') END,
			logo_url = CASE WHEN @logo_url::text IS NULL THEN s.logo_url ELSE NULLIF(@logo_url::text, '') END,
			updated_at = NOW()
		WHERE s.store_id = @store_id
		RETURNING ` + storeColumns

	args := pgx.NamedArgs{
		"store_id":    storeID,
		"name":        input.Name,
		"slug":        input.Slug,
		"description": input.Description,
		"logo_url":    input.LogoURL,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return storesrepo.Store{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	store, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[storesrepo.Store])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storesrepo.Store{}, storesrepo.ErrStoreNotFound
		}
		return storesrepo.Store{}, postgresdb.HandlePgError(err)
	}
	return store, nil
}

func (s *Store) HasActiveOrders(ctx context.Context, storeID string) (bool, error) {
	query := `SELECT EXISTS (
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.order_id
			WHERE oi.store_id = @store_id AND o.status IN ('PENDING', 'PAID', 'SHIPPED')
		)`

	var active bool
	if err := s.pool.QueryRow(ctx, query, pgx.NamedArgs{"store_id": storeID}).Scan(&active); err != nil {
		return false, postgresdb.HandlePgError(err)
	}
	return active, nil
}

func (s *Store) Delete(ctx context.Context, storeID string, userID string) error {
	args := pgx.NamedArgs{"store_id": storeID, "user_id": userID}

	err := postgresdb.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		stmts := []string{
			`DELETE FROM cart_items WHERE product_id IN (SELECT product_id FROM products WHERE store_id = @store_id)`,
			`DELETE FROM products WHERE store_id = @store_id`,
			`DELETE FROM stores WHERE store_id = @store_id`,
			`UPDATE users SET role = 'CUSTOMER', updated_at = NOW() WHERE user_id = @user_id AND role <> 'ADMIN'`,
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt, args); err != nil {
				return err
			}
		}
		return nil
	})
	return postgresdb.HandlePgError(err)
}

func (s *Store) detail(ctx context.Context, query string, args pgx.NamedArgs) (storesrepo.StoreDetail, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return storesrepo.StoreDetail{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	store, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[storesrepo.StoreDetail])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storesrepo.StoreDetail{}, storesrepo.ErrStoreNotFound
		}
		return storesrepo.StoreDetail{}, postgresdb.HandlePgError(err)
	}
	return store, nil
}
