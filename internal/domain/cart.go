package domain

import "time"

// CartItem is keyed by (UserID, ProductID). Quantity is always >= 1; setting
// a quantity of zero or less removes the entry instead.
type CartItem struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type CartRepository interface {
	// AddItem merges qty into an existing (user, product) entry or inserts a
	// new one. The merge happens atomically inside the repository so two
	// concurrent adds never drop an increment.
	AddItem(userID, productID string, qty int) (*CartItem, error)

	// SetQuantity replaces the quantity for an existing entry; qty <= 0
	// deletes it. Fails with ErrNotFound when the entry is absent.
	SetQuantity(userID, productID string, qty int) (*CartItem, error)

	RemoveItem(userID, productID string) error
	Clear(userID string) error
	ListItems(userID string) ([]CartItem, error)
}
