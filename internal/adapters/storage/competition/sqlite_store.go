package competition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gudlft/internal/adapters/storage"
	domain "gudlft/internal/domain/competition"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new competition SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByName retrieves a Competition by its name.
// PRE: name is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Competition, error) {
	row := s.db.QueryRowContext(ctx, "SELECT name, date, number_of_places, description FROM competition WHERE name = ?", name)
	c, err := scanCompetition(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Competition{}, fmt.Errorf("%w: name %q", domain.ErrNotFound, name)
	}
	return c, err
}

// List returns every competition ordered by date.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Competition, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, date, number_of_places, description FROM competition ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Competition
	for rows.Next() {
		c, err := scanCompetition(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Save persists a Competition to the database.
// PRE: value has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, value domain.Competition) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO competition (name, date, number_of_places, description) VALUES (?, ?, ?, ?) "+
			"ON CONFLICT(name) DO UPDATE SET date=excluded.date, number_of_places=excluded.number_of_places, description=excluded.description",
		value.Name, value.Date.UTC().Format(time.RFC3339Nano), value.NumberOfPlaces, value.Description,
	)
	return err
}

func scanCompetition(scan func(dest ...any) error) (domain.Competition, error) {
	var c domain.Competition
	var date string
	if err := scan(&c.Name, &date, &c.NumberOfPlaces, &c.Description); err != nil {
		return domain.Competition{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("competition %q: cannot parse date %q: %w", c.Name, date, err)
	}
	c.Date = t.In(time.Local)
	return c, nil
}
