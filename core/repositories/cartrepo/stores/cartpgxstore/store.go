package cartpgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/cartrepo"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const itemColumns = `ci.cart_item_id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at`

const lineColumns = itemColumns + `,
	p.name AS product_name, p.slug AS product_slug, p.image_url AS product_image_url,
	p.price AS product_price, p.stock AS product_stock,
	st.store_id, st.name AS store_name, st.slug AS store_slug`

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

func (s *Store) List(ctx context.Context, userID string) ([]cartrepo.CartLine, error) {
	query := `SELECT ` + lineColumns + `
		FROM cart_items ci
		JOIN products p ON p.product_id = ci.product_id
		JOIN stores st ON st.store_id = p.store_id
		WHERE ci.user_id = @user_id
		ORDER BY ci.created_at DESC, ci.cart_item_id DESC`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[cartrepo.CartLine])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return lines, nil
}

func (s *Store) Get(ctx context.Context, userID, cartItemID string) (cartrepo.CartItem, error) {
	query := `SELECT ` + itemColumns + ` FROM cart_items ci
		WHERE ci.cart_item_id = @cart_item_id AND ci.user_id = @user_id`
	return s.one(ctx, query, pgx.NamedArgs{"cart_item_id": cartItemID, "user_id": userID})
}

func (s *Store) GetByProduct(ctx context.Context, userID, productID string) (cartrepo.CartItem, error) {
	query := `SELECT ` + itemColumns + ` FROM cart_items ci
		WHERE ci.user_id = @user_id AND ci.product_id = @product_id`
	return s.one(ctx, query, pgx.NamedArgs{"user_id": userID, "product_id": productID})
}

func (s *Store) ProductStock(ctx context.Context, productID string) (int, error) {
	var stock int
	err := s.pool.QueryRow(ctx, `SELECT stock FROM products WHERE product_id = @product_id`,
		pgx.NamedArgs{"product_id": productID}).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, cartrepo.ErrProductNotFound
		}
		return 0, postgresdb.HandlePgError(err)
	}
	return stock, nil
}

func (s *Store) Upsert(ctx context.Context, userID, productID string, quantity int) (cartrepo.CartItem, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return cartrepo.CartItem{}, fmt.Errorf("generate id: %w", err)
	}

	query := `INSERT INTO cart_items AS ci (cart_item_id, user_id, product_id, quantity)
		VALUES (@cart_item_id, @user_id, @product_id, @quantity)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = ci.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING ` + itemColumns

	args := pgx.NamedArgs{
		"cart_item_id": id,
		"user_id":      userID,
		"product_id":   productID,
		"quantity":     quantity,
	}
	return s.one(ctx, query, args)
}

func (s *Store) SetQuantity(ctx context.Context, cartItemID string, quantity int) (cartrepo.CartItem, error) {
	query := `UPDATE cart_items AS ci SET quantity = @quantity, updated_at = NOW()
		WHERE ci.cart_item_id = @cart_item_id
		RETURNING ` + itemColumns
	return s.one(ctx, query, pgx.NamedArgs{"cart_item_id": cartItemID, "quantity": quantity})
}

func (s *Store) Delete(ctx context.Context, userID, cartItemID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_item_id = @cart_item_id AND user_id = @user_id`,
		pgx.NamedArgs{"cart_item_id": cartItemID, "user_id": userID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return cartrepo.ErrCartItemNotFound
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, userID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = @user_id`, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) one(ctx context.Context, query string, args pgx.NamedArgs) (cartrepo.CartItem, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return cartrepo.CartItem{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[cartrepo.CartItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cartrepo.CartItem{}, cartrepo.ErrCartItemNotFound
		}
		if errors.Is(postgresdb.HandlePgError(err), postgresdb.ErrForeignKey) {
			return cartrepo.CartItem{}, cartrepo.ErrProductNotFound
		}
		return cartrepo.CartItem{}, postgresdb.HandlePgError(err)
	}
	return item, nil
}
