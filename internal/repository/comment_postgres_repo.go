package repository

import (
	"database/sql"
	"fmt"

	"electromart/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresCommentRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCommentRepository(db *sql.DB, logger *logrus.Logger) domain.CommentRepository {
	return &postgresCommentRepository{db: db, log: logger}
}

func (r *postgresCommentRepository) AddComment(comment *domain.OrderComment) (*domain.OrderComment, error) {
	c := *comment
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	// clock_timestamp() keeps the thread strictly ordered even within one
	// transaction's NOW() frame.
	query := `
        INSERT INTO order_comments (id, order_id, author_id, author_role, message, created_at)
        VALUES ($1, $2, $3, $4, $5, clock_timestamp())
        RETURNING created_at`

	err := r.db.QueryRow(query, c.ID, c.OrderID, c.AuthorID, c.AuthorRole, c.Message).Scan(&c.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, c.OrderID)
		}
		r.log.Errorf("Repository: failed to add comment to order %s: %v", c.OrderID, err)
		return nil, fmt.Errorf("could not add comment: %w", err)
	}

	r.log.Infof("Repository: comment %s added to order %s by %s", c.ID, c.OrderID, c.AuthorID)
	return &c, nil
}

func (r *postgresCommentRepository) ListCommentsByOrder(orderID string) ([]domain.OrderComment, error) {
	query := `
        SELECT id, order_id, author_id, author_role, message, created_at
        FROM order_comments
        WHERE order_id = $1
        ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(query, orderID)
	if err != nil {
		r.log.Errorf("Repository: failed to list comments for order %s: %v", orderID, err)
		return nil, fmt.Errorf("could not list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.OrderComment{}
	for rows.Next() {
		var c domain.OrderComment
		if err := rows.Scan(&c.ID, &c.OrderID, &c.AuthorID, &c.AuthorRole, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}
