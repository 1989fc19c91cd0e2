package commands

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/passwords"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultFixtures []byte

var roles = []string{"CUSTOMER", "SELLER", "ADMIN"}

type SeedUser struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type SeedCategory struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type SeedStore struct {
	Owner       string `yaml:"owner"`
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type SeedProduct struct {
	Store       string `yaml:"store"`
	Category    string `yaml:"category"`
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Image       string `yaml:"image"`
}

type SeedReview struct {
	User    string `yaml:"user"`
	Product string `yaml:"product"`
	Rating  int    `yaml:"rating"`
	Comment string `yaml:"comment"`
}

// Fixtures is the seed document. Stores, products and reviews reference
// users by email and everything else by slug.
type Fixtures struct {
	Users      []SeedUser     `yaml:"users"`
	Categories []SeedCategory `yaml:"categories"`
	Stores     []SeedStore    `yaml:"stores"`
	Products   []SeedProduct  `yaml:"products"`
	Reviews    []SeedReview   `yaml:"reviews"`
}

// SeedSummary counts the rows a seed run inserted.
type SeedSummary struct {
	Users      int64
	Categories int64
	Stores     int64
	Products   int64
	Reviews    int64
}

// LoadFixtures reads a seed document from path, or the embedded one when
// path is empty, and checks its references.
func LoadFixtures(path string) (Fixtures, error) {
	raw := defaultFixtures
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
		}
		raw = b
	}

	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return Fixtures{}, err
	}
	return fx, nil
}

func (fx Fixtures) Validate() error {
	var errs []error

	users := map[string]bool{}
	for _, u := range fx.Users {
		if u.Email == "" || u.Name == "" || u.Password == "" {
			errs = append(errs, fmt.Errorf("user %q: email, name and password are required", u.Email))
		}
		if !slices.Contains(roles, u.Role) {
			errs = append(errs, fmt.Errorf("user %q: unknown role %q", u.Email, u.Role))
		}
		users[u.Email] = true
	}

	categories := map[string]bool{}
	for _, c := range fx.Categories {
		categories[c.Slug] = true
	}

	stores := map[string]bool{}
	owners := map[string]bool{}
	for _, s := range fx.Stores {
		if !users[s.Owner] {
			errs = append(errs, fmt.Errorf("store %q: unknown owner %q", s.Slug, s.Owner))
		}
		if owners[s.Owner] {
			errs = append(errs, fmt.Errorf("store %q: %q already owns a store", s.Slug, s.Owner))
		}
		owners[s.Owner] = true
		stores[s.Slug] = true
	}

	products := map[string]bool{}
	for _, p := range fx.Products {
		if !stores[p.Store] {
			errs = append(errs, fmt.Errorf("product %q: unknown store %q", p.Slug, p.Store))
		}
		if !categories[p.Category] {
			errs = append(errs, fmt.Errorf("product %q: unknown category %q", p.Slug, p.Category))
		}
		if p.Price < 0 || p.Stock < 0 {
			errs = append(errs, fmt.Errorf("product %q: price and stock cannot be negative", p.Slug))
		}
		products[p.Slug] = true
	}

	for _, r := range fx.Reviews {
		if !users[r.User] || !products[r.Product] {
			errs = append(errs, fmt.Errorf("review of %q by %q: unknown user or product", r.Product, r.User))
		}
		if r.Rating < 1 || r.Rating > 5 {
			errs = append(errs, fmt.Errorf("review of %q by %q: rating must be 1-5", r.Product, r.User))
		}
	}

	return errors.Join(errs...)
}

// Seed inserts fx in one transaction. Existing rows are kept as they are.
func Seed(ctx context.Context, log *logger.Logger, pool *postgresdb.Pool, fx Fixtures) (SeedSummary, error) {
	var sum SeedSummary

	err := postgresdb.WithTx(ctx, pool, func(tx pgx.Tx) error {
		userIDs := map[string]string{}
		for _, u := range fx.Users {
			hash, err := passwords.Hash(u.Password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.Email, err)
			}
			n, err := insert(ctx, tx, `
				INSERT INTO users (user_id, email, password_hash, name, role, email_verified)
				VALUES (@id, @email, @hash, @name, @role, TRUE)
				ON CONFLICT DO NOTHING`,
				pgx.NamedArgs{"email": u.Email, "hash": hash, "name": u.Name, "role": u.Role})
			if err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
			sum.Users += n
			if userIDs[u.Email], err = lookup(ctx, tx, `SELECT user_id FROM users WHERE email = $1`, u.Email); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}

		categoryIDs := map[string]string{}
		for _, c := range fx.Categories {
			n, err := insert(ctx, tx, `
				INSERT INTO categories (category_id, name, slug)
				VALUES (@id, @name, @slug)
				ON CONFLICT DO NOTHING`,
				pgx.NamedArgs{"name": c.Name, "slug": c.Slug})
			if err != nil {
				return fmt.Errorf("seed category %s: %w", c.Slug, err)
			}
			sum.Categories += n
			if categoryIDs[c.Slug], err = lookup(ctx, tx, `SELECT category_id FROM categories WHERE slug = $1`, c.Slug); err != nil {
				return fmt.Errorf("seed category %s: %w", c.Slug, err)
			}
		}

		storeIDs := map[string]string{}
		for _, s := range fx.Stores {
			n, err := insert(ctx, tx, `
				INSERT INTO stores (store_id, user_id, name, slug, description)
				VALUES (@id, @user_id, @name, @slug, @description)
				ON CONFLICT DO NOTHING`,
				pgx.NamedArgs{"user_id": userIDs[s.Owner], "name": s.Name, "slug": s.Slug, "description": s.Description})
			if err != nil {
				return fmt.Errorf("seed store %s: %w", s.Slug, err)
			}
			sum.Stores += n
			if storeIDs[s.Slug], err = lookup(ctx, tx, `SELECT store_id FROM stores WHERE slug = $1`, s.Slug); err != nil {
				return fmt.Errorf("seed store %s: %w", s.Slug, err)
			}
		}

		productIDs := map[string]string{}
		for _, p := range fx.Products {
			n, err := insert(ctx, tx, `
				INSERT INTO products (product_id, store_id, category_id, name, slug, description, price, stock, image_url)
				VALUES (@id, @store_id, @category_id, @name, @slug, @description, @price, @stock, NULLIF(@image, ''))
				ON CONFLICT DO NOTHING`,
				pgx.NamedArgs{
					"store_id":    storeIDs[p.Store],
					"category_id": categoryIDs[p.Category],
					"name":        p.Name,
					"slug":        p.Slug,
					"description": p.Description,
					"price":       p.Price,
					"stock":       p.Stock,
					"image":       p.Image,
				})
			if err != nil {
				return fmt.Errorf("seed product %s: %w", p.Slug, err)
			}
			sum.Products += n
			if productIDs[p.Slug], err = lookup(ctx, tx, `SELECT product_id FROM products WHERE slug = $1`, p.Slug); err != nil {
				return fmt.Errorf("seed product %s: %w", p.Slug, err)
			}
		}

		for _, r := range fx.Reviews {
			n, err := insert(ctx, tx, `
				INSERT INTO reviews (review_id, user_id, product_id, rating, comment)
				VALUES (@id, @user_id, @product_id, @rating, @comment)
				ON CONFLICT (user_id, product_id) DO NOTHING`,
				pgx.NamedArgs{
					"user_id":    userIDs[r.User],
					"product_id": productIDs[r.Product],
					"rating":     r.Rating,
					"comment":    r.Comment,
				})
			if err != nil {
				return fmt.Errorf("seed review of %s: %w", r.Product, err)
			}
			sum.Reviews += n
		}
		return nil
	})
	if err != nil {
		return SeedSummary{}, err
	}

	log.InfoContext(ctx, "seed complete",
		"users", sum.Users, "categories", sum.Categories, "stores", sum.Stores,
		"products", sum.Products, "reviews", sum.Reviews)
	return sum, nil
}

// insert runs an INSERT with a fresh @id and reports how many rows it added.
func insert(ctx context.Context, tx pgx.Tx, sql string, args pgx.NamedArgs) (int64, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return 0, err
	}
	args["id"] = id
	tag, err := tx.Exec(ctx, sql, args)
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}

func lookup(ctx context.Context, tx pgx.Tx, sql, key string) (string, error) {
	var id string
	if err := tx.QueryRow(ctx, sql, key).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%q clashes with an existing row", key)
		}
		return "", err
	}
	return id, nil
}

func newSeedCmd(env Env) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users, stores, categories and products",
		Long: `Seeds the database from a YAML fixtures file. Without --file the built in
fixtures are used. Rows that already exist are skipped, so seeding twice is safe.

Test accounts:
  admin@marketplace.com    / admin123
  seller@marketplace.com   / seller123
  customer@marketplace.com / customer123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fx, err := LoadFixtures(file)
			if err != nil {
				return err
			}
			pool, err := env.OpenDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			sum, err := Seed(ctx, env.Log, pool, fx)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d categories, %d stores, %d products, %d reviews\n",
				sum.Users, sum.Categories, sum.Stores, sum.Products, sum.Reviews)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixtures file (default: built in seed.yaml)")
	return cmd
}
