package repository

import (
	"context"
	"time"

	"github.com/staynest/booking-service/internal/domain/entity"
)

type UpdateUserParams struct {
	UserID string
	Fields map[string]interface{}
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByID(ctx context.Context, userID string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, params UpdateUserParams) (*entity.User, error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]entity.User, error)
	BannedIDs(ctx context.Context) ([]string, error)
	TouchLastSeen(ctx context.Context, userID string, at time.Time) error
	Count(ctx context.Context) (int64, error)
}
