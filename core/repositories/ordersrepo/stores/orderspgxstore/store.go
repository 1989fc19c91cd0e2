package orderspgxstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/ordersrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const orderColumns = `o.order_id, o.user_id, o.status, o.total_amount, o.created_at, o.updated_at`

const detailColumns = orderColumns + `,
	u.name AS customer_name, u.email AS customer_email,
	u.phone AS customer_phone, u.address AS customer_address`

const itemQuery = `SELECT oi.order_item_id, oi.order_id, oi.product_id, oi.store_id, oi.product_name,
		oi.price, oi.quantity, p.slug AS product_slug, p.image_url AS product_image_url,
		st.name AS store_name, st.slug AS store_slug, st.user_id AS store_user_id
	FROM order_items oi
	LEFT JOIN products p ON p.product_id = oi.product_id
	LEFT JOIN stores st ON st.store_id = oi.store_id
	WHERE oi.order_id = ANY(@order_ids)`

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

func (s *Store) Checkout(ctx context.Context, userID string, plan func([]ordersrepo.CheckoutLine) (int64, error)) (ordersrepo.Order, error) {
	orderID, err := cryptids.GenerateID()
	if err != nil {
		return ordersrepo.Order{}, fmt.Errorf("generate id: %w", err)
	}

	var order ordersrepo.Order
	err = postgresdb.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT p.product_id, p.name, p.price, p.stock, p.store_id, ci.quantity
			FROM cart_items ci
			JOIN products p ON p.product_id = ci.product_id
			WHERE ci.user_id = @user_id
			ORDER BY p.product_id
			FOR UPDATE OF p`, pgx.NamedArgs{"user_id": userID})
		if err != nil {
			return err
		}
		lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[ordersrepo.CheckoutLine])
		if err != nil {
			return err
		}

		total, err := plan(lines)
		if err != nil {
			return err
		}

		rows, err = tx.Query(ctx, `INSERT INTO orders AS o (order_id, user_id, status, total_amount)
			VALUES (@order_id, @user_id, @status, @total_amount)
			RETURNING `+orderColumns, pgx.NamedArgs{
			"order_id":     orderID,
			"user_id":      userID,
			"status":       ordersrepo.StatusPending,
			"total_amount": total,
		})
		if err != nil {
			return err
		}
		order, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[ordersrepo.Order])
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, l := range lines {
			itemID, err := cryptids.GenerateID()
			if err != nil {
				return fmt.Errorf("generate id: %w", err)
			}
			batch.Queue(`INSERT INTO order_items (order_item_id, order_id, product_id, store_id, product_name, price, quantity)
				VALUES (@order_item_id, @order_id, @product_id, @store_id, @product_name, @price, @quantity)`, pgx.NamedArgs{
				"order_item_id": itemID,
				"order_id":      orderID,
				"product_id":    l.ProductID,
				"store_id":      l.StoreID,
				"product_name":  l.Name,
				"price":         l.Price,
				"quantity":      l.Quantity,
			})
			batch.Queue(`UPDATE products SET stock = stock - @quantity, updated_at = NOW() WHERE product_id = @product_id`,
				pgx.NamedArgs{"product_id": l.ProductID, "quantity": l.Quantity})
		}
		batch.Queue(`DELETE FROM cart_items WHERE user_id = @user_id`, pgx.NamedArgs{"user_id": userID})

		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		var stockErr *ordersrepo.StockError
		if errors.Is(err, ordersrepo.ErrEmptyCart) || errors.As(err, &stockErr) {
			return ordersrepo.Order{}, err
		}
		return ordersrepo.Order{}, postgresdb.HandlePgError(err)
	}
	return order, nil
}

func (s *Store) GetByID(ctx context.Context, orderID string) (ordersrepo.OrderDetail, error) {
	query := `SELECT ` + detailColumns + `
		FROM orders o JOIN users u ON u.user_id = o.user_id
		WHERE o.order_id = @order_id`

	orders, err := s.collect(ctx, query, pgx.NamedArgs{"order_id": orderID}, nil)
	if err != nil {
		return ordersrepo.OrderDetail{}, err
	}
	if len(orders) == 0 {
		return ordersrepo.OrderDetail{}, ordersrepo.ErrOrderNotFound
	}
	return orders[0], nil
}

func (s *Store) ListByUser(ctx context.Context, userID string, page fop.Page) ([]ordersrepo.OrderDetail, int, error) {
	args := pgx.NamedArgs{"user_id": userID}
	where := postgresdb.WhereClause([]string{"o.user_id = @user_id"})
	return s.list(ctx, where, args, nil, page)
}

func (s *Store) ListByStore(ctx context.Context, storeID string, status *string, page fop.Page) ([]ordersrepo.OrderDetail, int, error) {
	args := pgx.NamedArgs{"store_id": storeID}
	conds := []string{"EXISTS (SELECT 1 FROM order_items x WHERE x.order_id = o.order_id AND x.store_id = @store_id)"}
	if status != nil {
		conds = append(conds, "o.status = @status")
		args["status"] = *status
	}
	return s.list(ctx, postgresdb.WhereClause(conds), args, &storeID, page)
}

func (s *Store) StoreIDByUser(ctx context.Context, userID string) (string, error) {
	var storeID string
	err := s.pool.QueryRow(ctx, `SELECT store_id FROM stores WHERE user_id = @user_id`,
		pgx.NamedArgs{"user_id": userID}).Scan(&storeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ordersrepo.ErrNoStore
		}
		return "", postgresdb.HandlePgError(err)
	}
	return storeID, nil
}

func (s *Store) SetStatus(ctx context.Context, orderID, from, to string) (ordersrepo.Order, error) {
	rows, err := s.pool.Query(ctx, `UPDATE orders AS o SET status = @to, updated_at = NOW()
		WHERE o.order_id = @order_id AND o.status = @from
		RETURNING `+orderColumns, pgx.NamedArgs{"order_id": orderID, "from": from, "to": to})
	if err != nil {
		return ordersrepo.Order{}, postgresdb.HandlePgError(err)
	}
	order, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[ordersrepo.Order])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ordersrepo.Order{}, ordersrepo.ErrStatusConflict
		}
		return ordersrepo.Order{}, postgresdb.HandlePgError(err)
	}
	return order, nil
}

func (s *Store) Cancel(ctx context.Context, orderID, from string) (ordersrepo.Order, error) {
	var order ordersrepo.Order
	err := postgresdb.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `UPDATE orders AS o SET status = @to, updated_at = NOW()
			WHERE o.order_id = @order_id AND o.status = @from
			RETURNING `+orderColumns, pgx.NamedArgs{
			"order_id": orderID,
			"from":     from,
			"to":       ordersrepo.StatusCancelled,
		})
		if err != nil {
			return err
		}
		order, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[ordersrepo.Order])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ordersrepo.ErrStatusConflict
			}
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE products p SET stock = p.stock + oi.quantity, updated_at = NOW()
			FROM order_items oi
			WHERE oi.order_id = @order_id AND oi.product_id = p.product_id`, pgx.NamedArgs{"order_id": orderID})
		return err
	})
	if err != nil {
		if errors.Is(err, ordersrepo.ErrStatusConflict) {
			return ordersrepo.Order{}, err
		}
		return ordersrepo.Order{}, postgresdb.HandlePgError(err)
	}
	return order, nil
}

func (s *Store) list(ctx context.Context, where string, args pgx.NamedArgs, storeID *string, page fop.Page) ([]ordersrepo.OrderDetail, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders o`+where, args).Scan(&total); err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}

	buf := bytes.NewBufferString(`SELECT ` + detailColumns + ` FROM orders o JOIN users u ON u.user_id = o.user_id`)
	buf.WriteString(where)
	if err := postgresdb.AddOrderByClause(buf, "o.created_at", "o.order_id", postgresdb.DESC); err != nil {
		return nil, 0, err
	}
	postgresdb.AddLimitOffsetClause(buf, args, page.Limit, page.Offset())

	orders, err := s.collect(ctx, buf.String(), args, storeID)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// collect reads orders and attaches their items. A non nil storeID keeps
// only that store's items.
func (s *Store) collect(ctx context.Context, query string, args pgx.NamedArgs, storeID *string) ([]ordersrepo.OrderDetail, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[ordersrepo.OrderDetail])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
		index[o.OrderID] = i
		orders[i].Items = []ordersrepo.OrderItem{}
	}

	q := itemQuery
	itemArgs := pgx.NamedArgs{"order_ids": ids}
	if storeID != nil {
		q += ` AND oi.store_id = @store_id`
		itemArgs["store_id"] = *storeID
	}
	q += ` ORDER BY oi.product_name, oi.order_item_id`

	rows, err = s.pool.Query(ctx, q, itemArgs)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[ordersrepo.OrderItem])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	for _, it := range items {
		i := index[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	return orders, nil
}
