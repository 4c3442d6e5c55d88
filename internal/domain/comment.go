package domain

import "time"

// OrderComment is one message in the append-only thread attached to an order.
type OrderComment struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	AuthorID   string    `json:"author_id"`
	AuthorRole Role      `json:"author_role"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

type CommentRepository interface {
	// AddComment appends with a monotonic timestamp: CreatedAt is always
	// strictly greater than that of the previously stored comment.
	AddComment(comment *OrderComment) (*OrderComment, error)

	// ListCommentsByOrder returns the thread ordered by CreatedAt ascending.
	ListCommentsByOrder(orderID string) ([]OrderComment, error)
}
