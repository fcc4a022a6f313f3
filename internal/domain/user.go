package domain

import (
	"context"
	"time"
)

// User carries only the identity and profile fields the reservation engine
// needs. Credentials and authentication live outside this service.
type User struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

type UserRepository interface {
	GetById(ctx context.Context, id int) (*User, error)
}
