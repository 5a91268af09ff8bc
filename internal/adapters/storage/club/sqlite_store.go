package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gudlft/internal/adapters/storage"
	domain "gudlft/internal/domain/club"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new club SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByName retrieves a Club by its name.
// PRE: name is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Club, error) {
	row := s.db.QueryRowContext(ctx, "SELECT name, email, points FROM club WHERE name = ?", name)
	return scanClub(row.Scan, "name", name)
}

// GetByEmail retrieves a Club by email. The email column is NOCASE.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Club, error) {
	row := s.db.QueryRowContext(ctx, "SELECT name, email, points FROM club WHERE email = ?", domain.NormalizeEmail(email))
	return scanClub(row.Scan, "email", email)
}

// List returns every club ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Club, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, email, points FROM club ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Club
	for rows.Next() {
		var c domain.Club
		if err := rows.Scan(&c.Name, &c.Email, &c.Points); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Save persists a Club to the database.
// PRE: value has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, value domain.Club) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO club (name, email, points) VALUES (?, ?, ?) ON CONFLICT(name) DO UPDATE SET email=excluded.email, points=excluded.points",
		value.Name, value.Email, value.Points,
	)
	return err
}

func scanClub(scan func(dest ...any) error, field, value string) (domain.Club, error) {
	var c domain.Club
	err := scan(&c.Name, &c.Email, &c.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Club{}, fmt.Errorf("%w: %s %q", domain.ErrNotFound, field, value)
	}
	return c, err
}
