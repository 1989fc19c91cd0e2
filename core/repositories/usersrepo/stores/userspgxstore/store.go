package userspgxstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const userColumns = `u.user_id, u.email, u.password_hash, u.name, u.role, u.email_verified,
	u.google_id, u.avatar_url, u.phone, u.address, u.bio, u.created_at, u.updated_at`

const detailColumns = userColumns + `,
	s.store_id, s.name AS store_name, s.slug AS store_slug,
	(SELECT COUNT(*) FROM products p WHERE p.store_id = s.store_id)::int AS store_product_count,
	(SELECT COUNT(*) FROM orders o WHERE o.user_id = u.user_id)::int AS order_count,
	(SELECT COUNT(*) FROM reviews r WHERE r.user_id = u.user_id)::int AS review_count,
	(SELECT COUNT(*) FROM cart_items c WHERE c.user_id = u.user_id)::int AS cart_count`

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

func (s *Store) Create(ctx context.Context, input usersrepo.CreateUser) (usersrepo.User, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return usersrepo.User{}, fmt.Errorf("generate id: %w", err)
	}

	query := `INSERT INTO users AS u (user_id, email, password_hash, name, role, email_verified, google_id, avatar_url)
		VALUES (@user_id, @email, @password_hash, @name, @role, @email_verified, @google_id, @avatar_url)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"user_id":        id,
		"email":          input.Email,
		"password_hash":  input.PasswordHash,
		"name":           input.Name,
		"role":           input.Role,
		"email_verified": input.EmailVerified,
		"google_id":      input.GoogleID,
		"avatar_url":     input.AvatarURL,
	}

	user, err := s.one(ctx, query, args)
	if errors.Is(err, postgresdb.ErrDBDuplicatedEntry) {
		return usersrepo.User{}, usersrepo.ErrEmailTaken
	}
	return user, err
}

func (s *Store) GetByID(ctx context.Context, userID string) (usersrepo.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.user_id = @user_id`
	return s.one(ctx, query, pgx.NamedArgs{"user_id": userID})
}

func (s *Store) GetByEmail(ctx context.Context, email string) (usersrepo.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = @email`
	return s.one(ctx, query, pgx.NamedArgs{"email": email})
}

func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (usersrepo.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.google_id = @google_id`
	return s.one(ctx, query, pgx.NamedArgs{"google_id": googleID})
}

func (s *Store) GetDetail(ctx context.Context, userID string) (usersrepo.UserDetail, error) {
	query := `SELECT ` + detailColumns + `
		FROM users u
		LEFT JOIN stores s ON s.user_id = u.user_id
		WHERE u.user_id = @user_id`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return usersrepo.UserDetail{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	detail, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersrepo.UserDetail])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return usersrepo.UserDetail{}, usersrepo.ErrUserNotFound
		}
		return usersrepo.UserDetail{}, postgresdb.HandlePgError(err)
	}
	return detail, nil
}

func (s *Store) List(ctx context.Context, filter usersrepo.QueryFilter, page fop.Page) ([]usersrepo.UserDetail, int, error) {
	args := pgx.NamedArgs{}
	var conds []string
	if filter.Search != nil {
		conds = append(conds, "(u.name ILIKE @search OR u.email ILIKE @search)")
		args["search"] = postgresdb.EscapeLike(*filter.Search)
	}
	if filter.Role != nil {
		conds = append(conds, "u.role = @role")
		args["role"] = *filter.Role
	}
	where := postgresdb.WhereClause(conds)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, args).Scan(&total); err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}

	buf := bytes.NewBufferString(`SELECT ` + detailColumns + `
		FROM users u
		LEFT JOIN stores s ON s.user_id = u.user_id`)
	buf.WriteString(where)
	if err := postgresdb.AddOrderByClause(buf, "u.created_at", "u.user_id", postgresdb.DESC); err != nil {
		return nil, 0, err
	}
	postgresdb.AddLimitOffsetClause(buf, args, page.Limit, page.Offset())

	rows, err := s.pool.Query(ctx, buf.String(), args)
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[usersrepo.UserDetail])
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	return users, total, nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, input usersrepo.UpdateProfile) (usersrepo.User, error) {
	query := `UPDATE users u SET
			name = COALESCE(@name, u.name),
			phone = CASE WHEN @phone::text IS NULL THEN u.phone ELSE NULLIF(@phone::text, '') END,
			address = CASE WHEN @address::text IS NULL THEN u.address ELSE NULLIF(@address::text, '') END,
			bio = CASE WHEN @bio::text IS NULL THEN u.bio ELSE NULLIF(@bio::text, '') END,
			updated_at = NOW()
		WHERE u.user_id = @user_id
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"user_id": userID,
		"name":    input.Name,
		"phone":   input.Phone,
		"address": input.Address,
		"bio":     input.Bio,
	}
	return s.one(ctx, query, args)
}

func (s *Store) UpdateAvatar(ctx context.Context, userID string, avatarURL string) (usersrepo.User, error) {
	query := `UPDATE users u SET avatar_url = @avatar_url, updated_at = NOW()
		WHERE u.user_id = @user_id
		RETURNING ` + userColumns
	return s.one(ctx, query, pgx.NamedArgs{"user_id": userID, "avatar_url": avatarURL})
}

func (s *Store) UpdateRole(ctx context.Context, userID string, role string) (usersrepo.User, error) {
	query := `UPDATE users u SET role = @role, updated_at = NOW()
		WHERE u.user_id = @user_id
		RETURNING ` + userColumns
	return s.one(ctx, query, pgx.NamedArgs{"user_id": userID, "role": role})
}

func (s *Store) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	query := `UPDATE users SET password_hash = @password_hash, updated_at = NOW() WHERE user_id = @user_id`
	return s.exec(ctx, query, pgx.NamedArgs{"user_id": userID, "password_hash": passwordHash})
}

func (s *Store) SetEmailVerified(ctx context.Context, userID string) error {
	query := `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE user_id = @user_id`
	return s.exec(ctx, query, pgx.NamedArgs{"user_id": userID})
}

func (s *Store) LinkGoogle(ctx context.Context, userID string, googleID string, avatarURL *string) (usersrepo.User, error) {
	query := `UPDATE users u SET
			google_id = @google_id,
			avatar_url = COALESCE(@avatar_url, u.avatar_url),
			email_verified = TRUE,
			updated_at = NOW()
		WHERE u.user_id = @user_id
		RETURNING ` + userColumns
	return s.one(ctx, query, pgx.NamedArgs{"user_id": userID, "google_id": googleID, "avatar_url": avatarURL})
}

// Delete removes the user and everything hanging off it in one transaction.
// Order items sold from the user's store keep their price snapshot.
func (s *Store) Delete(ctx context.Context, userID string) error {
	return postgresdb.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		args := pgx.NamedArgs{"user_id": userID}
		stmts := []string{
			`DELETE FROM reviews WHERE user_id = @user_id`,
			`DELETE FROM cart_items WHERE user_id = @user_id`,
			`DELETE FROM user_sessions WHERE user_id = @user_id`,
			`DELETE FROM verification_tokens WHERE user_id = @user_id`,
			`DELETE FROM price_analyses WHERE user_id = @user_id`,
			`DELETE FROM order_items WHERE order_id IN (SELECT order_id FROM orders WHERE user_id = @user_id)`,
			`DELETE FROM orders WHERE user_id = @user_id`,
			`DELETE FROM cart_items WHERE product_id IN (
				SELECT p.product_id FROM products p JOIN stores s ON s.store_id = p.store_id WHERE s.user_id = @user_id)`,
			`DELETE FROM products WHERE store_id IN (SELECT store_id FROM stores WHERE user_id = @user_id)`,
			`DELETE FROM stores WHERE user_id = @user_id`,
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt, args); err != nil {
				return postgresdb.HandlePgError(err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE user_id = @user_id`, args)
		if err != nil {
			return postgresdb.HandlePgError(err)
		}
		if tag.RowsAffected() == 0 {
			return usersrepo.ErrUserNotFound
		}
		return nil
	})
}

func (s *Store) one(ctx context.Context, query string, args pgx.NamedArgs) (usersrepo.User, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersrepo.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return usersrepo.User{}, usersrepo.ErrUserNotFound
		}
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}
	return user, nil
}

func (s *Store) exec(ctx context.Context, query string, args pgx.NamedArgs) error {
	tag, err := s.pool.Exec(ctx, query, args)
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return usersrepo.ErrUserNotFound
	}
	return nil
}
