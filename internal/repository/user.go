package repository

import (
	"context"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
)

// UserRepository is the credential store. Emails are expected to be
// normalised by the caller.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	// Create returns domain.ErrEmailAlreadyExists when the email is taken,
	// including when a concurrent insert wins the race.
	Create(ctx context.Context, email, passwordHash, fullName string) (*domain.User, error)
}
