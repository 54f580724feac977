package repository

import (
	"context"

	"github.com/oksasatya/tasky/internal/domain/entity"
)

// UserUpdate is a partial-update struct applied in a single atomic write.
// Nil fields are left untouched. Role is deliberately absent; role changes go
// through UpdateRole so the profile-update path can never elevate a user.
type UserUpdate struct {
	Fullname  *string
	Email     *string
	Password  *string
	AvatarURL *string
}

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByProviderID(ctx context.Context, provider entity.OAuthProvider, providerID string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*entity.User, error)
	LinkProvider(ctx context.Context, id string, provider entity.OAuthProvider, providerID string) (*entity.User, error)
	UpdateRole(ctx context.Context, id string, role entity.Role) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}
