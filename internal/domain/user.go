package domain

import (
	"context"
	"time"
)

// User represents a registered user.
// swagger:model User
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser returns a new User. ID is set by the repository on create.
func NewUser(email, name string, createdAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		CreatedAt: createdAt,
	}
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// List returns users filtered by ids when ids is non-empty, paged otherwise.
	List(ctx context.Context, ids []int64, page PaginationParams) ([]*User, error)
	Delete(ctx context.Context, id int64) error
}

// UserService manages user accounts (admin API).
type UserService interface {
	AddUser(ctx context.Context, email, name string) (*User, error)
	ListUsers(ctx context.Context, ids []int64, page PaginationParams) ([]*User, error)
	DeleteUser(ctx context.Context, id int64) error
}
