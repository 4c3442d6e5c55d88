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

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{db: db, log: logger}
}

func (r *postgresUserRepository) CreateUser(user *domain.User) (*domain.User, error) {
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	query := `
        INSERT INTO users (id, username, email, password_hash, role, approved)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`

	err := r.db.QueryRow(query, u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Approved).Scan(&u.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: attempted to create user with duplicate email: %s", u.Email)
			return nil, fmt.Errorf("%w: %s", domain.ErrEmailTaken, u.Email)
		}
		r.log.Errorf("Repository: failed to create user %s: %v", u.Email, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	r.log.Infof("Repository: user created with ID %s, email %s, role %s", u.ID, u.Email, u.Role)
	return &u, nil
}

func (r *postgresUserRepository) GetUserByID(id string) (*domain.User, error) {
	return r.getUser("id = $1", id)
}

func (r *postgresUserRepository) GetUserByEmail(email string) (*domain.User, error) {
	return r.getUser("email = $1", strings.ToLower(strings.TrimSpace(email)))
}

func (r *postgresUserRepository) getUser(where string, arg any) (*domain.User, error) {
	query := `
        SELECT id, username, email, password_hash, role, approved, created_at
        FROM users
        WHERE ` + where
	u := &domain.User{}

	err := r.db.QueryRow(query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Approved, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %v", domain.ErrNotFound, arg)
		}
		r.log.Errorf("Repository: failed to get user (%v): %v", arg, err)
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) ListUsers() ([]domain.User, error) {
	query := `
        SELECT id, username, email, password_hash, role, approved, created_at
        FROM users
        ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Repository: failed to list users: %v", err)
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Approved, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (r *postgresUserRepository) SetSellerApproved(id string, approved bool) (*domain.User, error) {
	query := `
        UPDATE users
        SET approved = $1
        WHERE id = $2
        RETURNING id, username, email, password_hash, role, approved, created_at`
	u := &domain.User{}

	err := r.db.QueryRow(query, approved, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Approved, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
		}
		r.log.Errorf("Repository: failed to set approval for user %s: %v", id, err)
		return nil, fmt.Errorf("could not update user approval: %w", err)
	}

	r.log.Infof("Repository: seller %s approval set to %t", id, approved)
	return u, nil
}
