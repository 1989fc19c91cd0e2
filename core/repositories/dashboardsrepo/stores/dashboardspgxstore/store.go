package dashboardspgxstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/dashboardsrepo"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/logger"
)

// storeOrders restricts an orders query aliased o to those holding items of
// @store_id.
const storeOrders = `EXISTS (SELECT 1 FROM order_items x WHERE x.order_id = o.order_id AND x.store_id = @store_id)`

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

func (s *Store) StoreIDByUser(ctx context.Context, userID string) (string, error) {
	var storeID string
	err := s.pool.QueryRow(ctx, `SELECT store_id FROM stores WHERE user_id = @user_id`,
		pgx.NamedArgs{"user_id": userID}).Scan(&storeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", dashboardsrepo.ErrNoStore
		}
		return "", postgresdb.HandlePgError(err)
	}
	return storeID, nil
}

func (s *Store) CountUsers(ctx context.Context, role *string) (int, error) {
	args := pgx.NamedArgs{}
	var conds []string
	if role != nil {
		conds = append(conds, "role = @role")
		args["role"] = *role
	}
	return s.count(ctx, `SELECT COUNT(*) FROM users`+postgresdb.WhereClause(conds), args)
}

func (s *Store) CountProducts(ctx context.Context, storeID *string) (int, error) {
	args := pgx.NamedArgs{}
	var conds []string
	if storeID != nil {
		conds = append(conds, "store_id = @store_id")
		args["store_id"] = *storeID
	}
	return s.count(ctx, `SELECT COUNT(*) FROM products`+postgresdb.WhereClause(conds), args)
}

func (s *Store) CountOrders(ctx context.Context, storeID *string, status *string) (int, error) {
	args := pgx.NamedArgs{}
	var conds []string
	if storeID != nil {
		conds = append(conds, storeOrders)
		args["store_id"] = *storeID
	}
	if status != nil {
		conds = append(conds, "o.status = @status")
		args["status"] = *status
	}
	return s.count(ctx, `SELECT COUNT(*) FROM orders o`+postgresdb.WhereClause(conds), args)
}

func (s *Store) Revenue(ctx context.Context, storeID *string) (int64, error) {
	query := `SELECT COALESCE(SUM(o.total_amount), 0)::bigint FROM orders o WHERE o.status = 'DONE'`
	args := pgx.NamedArgs{}
	if storeID != nil {
		query = `SELECT COALESCE(SUM(oi.price * oi.quantity), 0)::bigint
			FROM order_items oi JOIN orders o ON o.order_id = oi.order_id
			WHERE o.status = 'DONE' AND oi.store_id = @store_id`
		args["store_id"] = *storeID
	}

	var total int64
	if err := s.pool.QueryRow(ctx, query, args).Scan(&total); err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return total, nil
}

func (s *Store) RecentOrders(ctx context.Context, storeID *string, limit int) ([]dashboardsrepo.RecentOrder, error) {
	args := pgx.NamedArgs{"limit": limit}
	var conds []string
	if storeID != nil {
		conds = append(conds, storeOrders)
		args["store_id"] = *storeID
	}

	query := `SELECT o.order_id, o.status, o.total_amount, o.created_at,
			u.name AS customer_name, u.email AS customer_email
		FROM orders o JOIN users u ON u.user_id = o.user_id` + postgresdb.WhereClause(conds) + `
		ORDER BY o.created_at DESC, o.order_id DESC
		LIMIT @limit`

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[dashboardsrepo.RecentOrder])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return orders, nil
}

func (s *Store) TopProducts(ctx context.Context, storeID *string, limit int) ([]dashboardsrepo.TopProduct, error) {
	args := pgx.NamedArgs{"limit": limit}
	conds := []string{"o.status <> 'CANCELLED'"}
	if storeID != nil {
		conds = append(conds, "oi.store_id = @store_id")
		args["store_id"] = *storeID
	}

	query := `SELECT oi.product_id, MAX(oi.product_name) AS name,
			SUM(oi.quantity)::int AS sold, SUM(oi.price * oi.quantity)::bigint AS revenue
		FROM order_items oi JOIN orders o ON o.order_id = oi.order_id` + postgresdb.WhereClause(conds) + `
		GROUP BY oi.product_id
		ORDER BY sold DESC, revenue DESC
		LIMIT @limit`
	return s.products(ctx, query, args)
}

func (s *Store) OrdersByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*)::int FROM orders GROUP BY status`)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, postgresdb.HandlePgError(err)
		}
		out[status] = n
	}
	return out, postgresdb.HandlePgError(rows.Err())
}

func (s *Store) DailySales(ctx context.Context, storeID string, since time.Time) ([]dashboardsrepo.DailyPoint, error) {
	query := `SELECT date_trunc('day', o.created_at AT TIME ZONE 'UTC') AT TIME ZONE 'UTC' AS day,
			COALESCE(SUM(oi.price * oi.quantity) FILTER (WHERE o.status = 'DONE'), 0)::bigint AS revenue,
			COUNT(DISTINCT o.order_id)::int AS orders
		FROM orders o JOIN order_items oi ON oi.order_id = o.order_id
		WHERE oi.store_id = @store_id AND o.created_at >= @since
		GROUP BY day
		ORDER BY day`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"store_id": storeID, "since": since})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	points, err := pgx.CollectRows(rows, pgx.RowToStructByName[dashboardsrepo.DailyPoint])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return points, nil
}

func (s *Store) ProductPerformance(ctx context.Context, storeID string) ([]dashboardsrepo.TopProduct, error) {
	query := `SELECT p.product_id, p.name,
			COALESCE(SUM(oi.quantity) FILTER (WHERE o.status = 'DONE'), 0)::int AS sold,
			COALESCE(SUM(oi.price * oi.quantity) FILTER (WHERE o.status = 'DONE'), 0)::bigint AS revenue
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.product_id
		LEFT JOIN orders o ON o.order_id = oi.order_id
		WHERE p.store_id = @store_id
		GROUP BY p.product_id, p.name
		ORDER BY sold DESC, p.name ASC`
	return s.products(ctx, query, pgx.NamedArgs{"store_id": storeID})
}

func (s *Store) products(ctx context.Context, query string, args pgx.NamedArgs) ([]dashboardsrepo.TopProduct, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[dashboardsrepo.TopProduct])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return products, nil
}

func (s *Store) count(ctx context.Context, query string, args pgx.NamedArgs) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, query, args).Scan(&n); err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return n, nil
}
