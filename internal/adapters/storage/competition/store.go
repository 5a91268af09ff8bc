package competition

import (
	"context"

	domain "gudlft/internal/domain/competition"
)

// Store persists Competition state.
type Store interface {
	GetByName(ctx context.Context, name string) (domain.Competition, error)
	List(ctx context.Context) ([]domain.Competition, error)
	Save(ctx context.Context, value domain.Competition) error
}
