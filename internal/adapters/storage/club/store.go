package club

import (
	"context"

	domain "gudlft/internal/domain/club"
)

// Store persists Club state.
type Store interface {
	GetByName(ctx context.Context, name string) (domain.Club, error)
	GetByEmail(ctx context.Context, email string) (domain.Club, error)
	List(ctx context.Context) ([]domain.Club, error)
	Save(ctx context.Context, value domain.Club) error
}
