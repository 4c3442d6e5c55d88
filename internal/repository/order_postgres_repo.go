package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"electromart/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{db: db, log: logger}
}

func (r *postgresOrderRepository) CreateOrder(order *domain.Order) (*domain.Order, error) {
	o := *order
	o.Items = append([]domain.OrderItem(nil), order.Items...)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Repository: failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Repository: failed to rollback order creation: %v", rbErr)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (id, buyer_id, total, billing_name, billing_address, payment_method, payment_reference, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	err = tx.QueryRow(orderQuery,
		o.ID, o.BuyerID, o.Total, o.Billing.Name, o.Billing.Address,
		o.Payment.Method, o.Payment.Reference, o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		r.log.Errorf("Repository: failed to insert order for buyer %s: %v", o.BuyerID, err)
		return nil, fmt.Errorf("could not create order: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, product_name, seller_id, quantity, unit_price)
        VALUES ($1, $2, $3, $4, $5, $6)`
	stmt, err := tx.Prepare(itemQuery)
	if err != nil {
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range o.Items {
		if _, err = stmt.Exec(o.ID, item.ProductID, item.ProductName, item.SellerID, item.Quantity, item.UnitPrice); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
				return nil, fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Message)
			}
			r.log.Errorf("Repository: failed to insert order item (product %s) for order %s: %v", item.ProductID, o.ID, err)
			return nil, fmt.Errorf("could not create order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit order creation: %w", err)
	}

	r.log.Infof("Repository: order %s created for buyer %s with %d items, total %.2f", o.ID, o.BuyerID, len(o.Items), o.Total)
	return &o, nil
}

func (r *postgresOrderRepository) GetOrderByID(id string) (*domain.Order, error) {
	query := `
        SELECT id, buyer_id, total, billing_name, billing_address, payment_method, payment_reference, status, created_at, updated_at
        FROM orders
        WHERE id = $1`
	o := &domain.Order{}

	err := r.db.QueryRow(query, id).Scan(
		&o.ID, &o.BuyerID, &o.Total, &o.Billing.Name, &o.Billing.Address,
		&o.Payment.Method, &o.Payment.Reference, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
		}
		r.log.Errorf("Repository: failed to get order %s: %v", id, err)
		return nil, fmt.Errorf("could not get order: %w", err)
	}

	items, err := r.getOrderItems(id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *postgresOrderRepository) getOrderItems(orderID string) ([]domain.OrderItem, error) {
	query := `
        SELECT product_id, product_name, seller_id, quantity, unit_price
        FROM order_items
        WHERE order_id = $1`
	rows, err := r.db.Query(query, orderID)
	if err != nil {
		r.log.Errorf("Repository: failed to query items for order %s: %v", orderID, err)
		return nil, fmt.Errorf("could not get order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.SellerID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

func (r *postgresOrderRepository) UpdateStatus(id string, from, to domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
        RETURNING id`
	var updatedID string

	err := r.db.QueryRow(query, to, id, from).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			current, getErr := r.GetOrderByID(id)
			if getErr != nil {
				return nil, getErr
			}
			r.log.Warnf("Repository: stale status update for order %s: expected %s, found %s", id, from, current.Status)
			return nil, fmt.Errorf("%w: order %s is %s, not %s", domain.ErrInvalidTransition, id, current.Status, from)
		}
		r.log.Errorf("Repository: failed to update status for order %s: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	r.log.Infof("Repository: order %s status updated from %s to %s", id, from, to)
	return r.GetOrderByID(id)
}

func (r *postgresOrderRepository) ListOrders() ([]domain.Order, error) {
	return r.listOrders(`SELECT id FROM orders ORDER BY created_at DESC, id ASC`)
}

func (r *postgresOrderRepository) ListOrdersByBuyer(buyerID string) ([]domain.Order, error) {
	return r.listOrders(`SELECT id FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC, id ASC`, buyerID)
}

func (r *postgresOrderRepository) ListOrdersBySeller(sellerID string) ([]domain.Order, error) {
	return r.listOrders(`
        SELECT DISTINCT o.id
        FROM orders o
        JOIN order_items i ON i.order_id = o.id
        WHERE i.seller_id = $1`, sellerID)
}

func (r *postgresOrderRepository) listOrders(query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: failed to list orders: %v", err)
		return nil, fmt.Errorf("could not list orders: %w", err)
	}
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	orders := []domain.Order{}
	for _, id := range ids {
		o, err := r.GetOrderByID(id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func (r *postgresOrderRepository) DeleteOrder(id string) error {
	result, err := r.db.Exec(`DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: failed to delete order %s: %v", id, err)
		return fmt.Errorf("could not delete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm order deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	r.log.Infof("Repository: order %s deleted", id)
	return nil
}
