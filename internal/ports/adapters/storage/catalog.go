package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
)

var productColumns = []string{"id", "name", "price", "sizes", "active", "created_at", "updated_at"}

// GetProductsByIDs resolves the given ids to currently-stored active
// products. Unknown ids are simply absent from the result map: checkout
// drops those cart lines instead of failing.
func (o *OrdersStoragePostgres) GetProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	if len(ids) == 0 {
		return map[string]models.Product{}, nil
	}

	sql, args, err := squirrel.Select(productColumns...).
		From("storefront.products").
		Where(squirrel.Eq{"id": ids, "active": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	rows, err := o.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't query products: %w", err)
	}
	defer rows.Close()

	found := make(map[string]models.Product, len(ids))
	for rows.Next() {
		var p models.Product
		if err = rows.Scan(&p.ID, &p.Name, &p.Price, &p.Sizes, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("couldn't scan product: %w", err)
		}
		found[p.ID] = p
	}

	return found, nil
}

func (o *OrdersStoragePostgres) GetProductByID(ctx context.Context, id string) (models.Product, error) {
	sql, args, err := squirrel.Select(productColumns...).
		From("storefront.products").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	var p models.Product
	err = o.pool.QueryRow(ctx, sql, args...).
		Scan(&p.ID, &p.Name, &p.Price, &p.Sizes, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, customerrors.ErrProductNotFound
		}
		return models.Product{}, fmt.Errorf("couldn't query product: %w", err)
	}

	return p, nil
}

func (o *OrdersStoragePostgres) ListProducts(ctx context.Context) ([]models.Product, error) {
	sql, args, err := squirrel.Select(productColumns...).
		From("storefront.products").
		Where(squirrel.Eq{"active": true}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	rows, err := o.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't query products: %w", err)
	}
	defer rows.Close()

	var products = make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err = rows.Scan(&p.ID, &p.Name, &p.Price, &p.Sizes, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("couldn't scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, nil
}

// UpsertProduct inserts or fully replaces the catalog row (admin path)
func (o *OrdersStoragePostgres) UpsertProduct(ctx context.Context, product models.Product) (models.Product, error) {
	sql, args, err := squirrel.
		Insert("storefront.products").
		Columns("id", "name", "price", "sizes", "active").
		Values(product.ID, product.Name, product.Price, product.Sizes, product.Active).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			sizes = EXCLUDED.sizes,
			active = EXCLUDED.active,
			updated_at = now()`).
		Suffix("RETURNING " + joinColumns(productColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	var p models.Product
	err = o.pool.QueryRow(ctx, sql, args...).
		Scan(&p.ID, &p.Name, &p.Price, &p.Sizes, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, fmt.Errorf("couldn't upsert product: %w", err)
	}

	return p, nil
}

// DeleteProduct removes the catalog row; order_items keep their snapshot
// (product_id goes NULL via the FK)
func (o *OrdersStoragePostgres) DeleteProduct(ctx context.Context, id string) error {
	sql, args, err := squirrel.
		Delete("storefront.products").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	result, err := o.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("couldn't exec delete product query: %w", err)
	}
	if result.RowsAffected() != 1 {
		return customerrors.ErrProductNotFound
	}
	return nil
}

// UpsertUserByPhone finds or creates the customer profile keyed by phone;
// last-submitted contact and address values win
func (o *OrdersStoragePostgres) UpsertUserByPhone(ctx context.Context, user models.User) (models.User, error) {
	sql, args, err := squirrel.
		Insert("storefront.users").
		Columns("id", "phone", "full_name", "email", "address", "city", "state", "zip_code").
		Values(user.ID, user.Phone, user.FullName, user.Email, user.Address, user.City, user.State, user.ZipCode).
		Suffix(`ON CONFLICT (phone) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			updated_at = now()`).
		Suffix("RETURNING id, phone, full_name, email, address, city, state, zip_code, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	var u models.User
	err = o.pool.QueryRow(ctx, sql, args...).Scan(
		&u.ID, &u.Phone, &u.FullName, &u.Email, &u.Address,
		&u.City, &u.State, &u.ZipCode, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("couldn't upsert user: %w", err)
	}

	return u, nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
