package repository

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// InitSchema creates the storefront tables if they do not exist yet. Keyed by
// uuid strings to match the JSON store layout.
func InitSchema(db *sql.DB, log *logrus.Logger) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		seller_id TEXT NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		description TEXT NOT NULL DEFAULT '',
		image_ref TEXT NOT NULL DEFAULT '',
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS cart_items (
		user_id TEXT NOT NULL REFERENCES users(id),
		product_id TEXT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		buyer_id TEXT NOT NULL REFERENCES users(id),
		total DOUBLE PRECISION NOT NULL,
		billing_name TEXT NOT NULL DEFAULT '',
		billing_address TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT '',
		payment_reference TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS order_items (
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price DOUBLE PRECISION NOT NULL CHECK (unit_price >= 0)
	);

	CREATE TABLE IF NOT EXISTS order_comments (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		author_id TEXT NOT NULL,
		author_role TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	if _, err := db.Exec(query); err != nil {
		log.Errorf("Failed to initialize schema: %v", err)
		return fmt.Errorf("could not initialize schema: %w", err)
	}
	log.Info("Database schema initialized.")
	return nil
}
