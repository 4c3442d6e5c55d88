package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"electromart/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{db: db, log: logger}
}

const productColumns = `id, seller_id, name, category, price, description, image_ref, stock, active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Category, &p.Price, &p.Description,
		&p.ImageRef, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresProductRepository) CreateProduct(product *domain.Product) (*domain.Product, error) {
	p := *product
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
        INSERT INTO products (id, seller_id, name, category, price, description, image_ref, stock, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(query,
		p.ID, p.SellerID, p.Name, p.Category, p.Price, p.Description, p.ImageRef, p.Stock, p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: product %q references unknown seller %s", p.Name, p.SellerID)
			return nil, fmt.Errorf("%w: seller %s", domain.ErrNotFound, p.SellerID)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Message)
		}
		r.log.Errorf("Repository: failed to create product %q: %v", p.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}

	r.log.Infof("Repository: product created with ID %s, name %q, seller %s", p.ID, p.Name, p.SellerID)
	return &p, nil
}

func (r *postgresProductRepository) GetProductByID(id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
		}
		r.log.Errorf("Repository: failed to get product %s: %v", id, err)
		return nil, fmt.Errorf("could not get product: %w", err)
	}
	return p, nil
}

func (r *postgresProductRepository) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $1, category = $2, price = $3, description = $4,
            image_ref = $5, stock = $6, active = $7, updated_at = NOW()
        WHERE id = $8
        RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRow(query,
		product.Name, product.Category, product.Price, product.Description,
		product.ImageRef, product.Stock, product.Active, product.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, product.ID)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Message)
		}
		r.log.Errorf("Repository: failed to update product %s: %v", product.ID, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}
	return p, nil
}

func (r *postgresProductRepository) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	clauses := []string{}
	args := []any{}

	if filter.ActiveOnly {
		clauses = append(clauses, "active = TRUE")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.SellerID != "" {
		args = append(args, filter.SellerID)
		clauses = append(clauses, fmt.Sprintf("seller_id = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.SearchText); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(description) LIKE $%d)", len(args), len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (r *postgresProductRepository) AdjustStock(id string, delta int) (*domain.Product, error) {
	query := `
        UPDATE products
        SET stock = stock + $1, updated_at = NOW()
        WHERE id = $2 AND stock + $1 >= 0
        RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRow(query, delta, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the product is gone or the decrement would underflow.
			if current, getErr := r.GetProductByID(id); getErr == nil {
				return nil, fmt.Errorf("%w: insufficient stock for %q (available: %d)", domain.ErrProductUnavailable, current.Name, current.Stock)
			}
			return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
		}
		r.log.Errorf("Repository: failed to adjust stock for product %s by %d: %v", id, delta, err)
		return nil, fmt.Errorf("could not adjust stock: %w", err)
	}
	return p, nil
}
