package competition

import (
	"context"
	"fmt"

	"gudlft/internal/adapters/storage/jsondoc"
	domain "gudlft/internal/domain/competition"
)

// JSONStore implements Store on top of competitions.json.
type JSONStore struct {
	repo *jsondoc.Repository
}

// NewJSONStore creates a new competition JSONStore.
func NewJSONStore(repo *jsondoc.Repository) *JSONStore {
	return &JSONStore{repo: repo}
}

// GetByName retrieves a Competition by its name.
// PRE: name is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *JSONStore) GetByName(_ context.Context, name string) (domain.Competition, error) {
	var found domain.Competition
	var ok bool
	err := s.repo.View(func(d *jsondoc.Documents) error {
		for _, rec := range d.Competitions {
			if rec.Name != name {
				continue
			}
			c, err := rec.ToCompetition()
			if err != nil {
				return err
			}
			found, ok = c, true
			return nil
		}
		return nil
	})
	if err != nil {
		return domain.Competition{}, err
	}
	if !ok {
		return domain.Competition{}, fmt.Errorf("%w: name %q", domain.ErrNotFound, name)
	}
	return found, nil
}

// List returns every competition in document order.
func (s *JSONStore) List(_ context.Context) ([]domain.Competition, error) {
	var results []domain.Competition
	err := s.repo.View(func(d *jsondoc.Documents) error {
		for _, rec := range d.Competitions {
			c, err := rec.ToCompetition()
			if err != nil {
				return err
			}
			results = append(results, c)
		}
		return nil
	})
	return results, err
}

// Save inserts or replaces a competition by name and rewrites competitions.json.
// PRE: value has been validated
// POST: Entity is persisted (insert or update)
func (s *JSONStore) Save(_ context.Context, value domain.Competition) error {
	return s.repo.Update(func(d *jsondoc.Documents) error {
		rec := jsondoc.FromCompetition(value)
		for i := range d.Competitions {
			if d.Competitions[i].Name == value.Name {
				d.Competitions[i] = rec
				return nil
			}
		}
		d.Competitions = append(d.Competitions, rec)
		return nil
	})
}
