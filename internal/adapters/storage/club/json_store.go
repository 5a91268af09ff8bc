package club

import (
	"context"
	"fmt"

	"gudlft/internal/adapters/storage/jsondoc"
	domain "gudlft/internal/domain/club"
)

// JSONStore implements Store on top of clubs.json.
type JSONStore struct {
	repo *jsondoc.Repository
}

// NewJSONStore creates a new club JSONStore.
func NewJSONStore(repo *jsondoc.Repository) *JSONStore {
	return &JSONStore{repo: repo}
}

// GetByName retrieves a Club by its name.
// PRE: name is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *JSONStore) GetByName(_ context.Context, name string) (domain.Club, error) {
	return s.find(func(c domain.Club) bool { return c.Name == name }, "name", name)
}

// GetByEmail retrieves a Club by email, ignoring case.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *JSONStore) GetByEmail(_ context.Context, email string) (domain.Club, error) {
	return s.find(func(c domain.Club) bool { return c.MatchesEmail(email) }, "email", email)
}

// List returns every club in document order.
func (s *JSONStore) List(_ context.Context) ([]domain.Club, error) {
	var results []domain.Club
	err := s.repo.View(func(d *jsondoc.Documents) error {
		for _, rec := range d.Clubs {
			c, err := rec.ToClub()
			if err != nil {
				return err
			}
			results = append(results, c)
		}
		return nil
	})
	return results, err
}

// Save inserts or replaces a club by name and rewrites clubs.json.
// PRE: value has been validated
// POST: Entity is persisted (insert or update)
func (s *JSONStore) Save(_ context.Context, value domain.Club) error {
	return s.repo.Update(func(d *jsondoc.Documents) error {
		rec := jsondoc.FromClub(value)
		for i := range d.Clubs {
			if d.Clubs[i].Name == value.Name {
				d.Clubs[i] = rec
				return nil
			}
		}
		d.Clubs = append(d.Clubs, rec)
		return nil
	})
}

func (s *JSONStore) find(match func(domain.Club) bool, field, value string) (domain.Club, error) {
	var found domain.Club
	var ok bool
	err := s.repo.View(func(d *jsondoc.Documents) error {
		for _, rec := range d.Clubs {
			c, err := rec.ToClub()
			if err != nil {
				return err
			}
			if match(c) {
				found, ok = c, true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return domain.Club{}, err
	}
	if !ok {
		return domain.Club{}, fmt.Errorf("%w: %s %q", domain.ErrNotFound, field, value)
	}
	return found, nil
}
