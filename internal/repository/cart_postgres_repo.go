package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"electromart/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresCartRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{db: db, log: logger}
}

func (r *postgresCartRepository) AddItem(userID, productID string, qty int) (*domain.CartItem, error) {
	// The upsert keeps the merge atomic; two concurrent adds both land.
	query := `
        INSERT INTO cart_items (user_id, product_id, quantity)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, product_id)
        DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
        RETURNING user_id, product_id, quantity, added_at`
	item := &domain.CartItem{}

	err := r.db.QueryRow(query, userID, productID, qty).Scan(
		&item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt,
	)
	if err != nil {
		r.log.Errorf("Repository: failed to add cart item (user %s, product %s): %v", userID, productID, err)
		return nil, fmt.Errorf("could not add cart item: %w", err)
	}
	return item, nil
}

func (r *postgresCartRepository) SetQuantity(userID, productID string, qty int) (*domain.CartItem, error) {
	if qty <= 0 {
		if err := r.RemoveItem(userID, productID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	query := `
        UPDATE cart_items
        SET quantity = $1
        WHERE user_id = $2 AND product_id = $3
        RETURNING user_id, product_id, quantity, added_at`
	item := &domain.CartItem{}

	err := r.db.QueryRow(query, qty, userID, productID).Scan(
		&item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s not in cart", domain.ErrNotFound, productID)
		}
		r.log.Errorf("Repository: failed to set cart quantity (user %s, product %s): %v", userID, productID, err)
		return nil, fmt.Errorf("could not update cart item: %w", err)
	}
	return item, nil
}

func (r *postgresCartRepository) RemoveItem(userID, productID string) error {
	result, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		r.log.Errorf("Repository: failed to remove cart item (user %s, product %s): %v", userID, productID, err)
		return fmt.Errorf("could not remove cart item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm cart item removal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s not in cart", domain.ErrNotFound, productID)
	}
	return nil
}

func (r *postgresCartRepository) Clear(userID string) error {
	if _, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		r.log.Errorf("Repository: failed to clear cart for user %s: %v", userID, err)
		return fmt.Errorf("could not clear cart: %w", err)
	}
	return nil
}

func (r *postgresCartRepository) ListItems(userID string) ([]domain.CartItem, error) {
	query := `
        SELECT user_id, product_id, quantity, added_at
        FROM cart_items
        WHERE user_id = $1
        ORDER BY added_at ASC, product_id ASC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.log.Errorf("Repository: failed to list cart items for user %s: %v", userID, err)
		return nil, fmt.Errorf("could not list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}
	return items, nil
}
