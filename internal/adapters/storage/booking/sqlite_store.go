package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gudlft/internal/adapters/storage"
	domain "gudlft/internal/domain/booking"
	"gudlft/internal/domain/club"
	"gudlft/internal/domain/competition"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new booking SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CommitPurchase updates the club and competition counters and inserts the
// booking in a single transaction. Each UPDATE is guarded by the previous
// value so a concurrent purchase makes this one stale instead of lost.
// PRE: p.Booking has been validated
// POST: Transaction committed, or rolled back with nothing written
func (s *SQLiteStore) CommitPurchase(ctx context.Context, p Purchase) error {
	return storage.WithTx(ctx, s.db, "purchase", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE club SET points = ? WHERE name = ? AND points = ?",
			p.Club.Points, p.Club.Name, p.PreviousPoints)
		if err != nil {
			return err
		}
		if err := checkGuarded(ctx, tx, res, "SELECT 1 FROM club WHERE name = ?", p.Club.Name, club.ErrNotFound); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, "UPDATE competition SET number_of_places = ? WHERE name = ? AND number_of_places = ?",
			p.Competition.NumberOfPlaces, p.Competition.Name, p.PreviousPlaces)
		if err != nil {
			return err
		}
		if err := checkGuarded(ctx, tx, res, "SELECT 1 FROM competition WHERE name = ?", p.Competition.Name, competition.ErrNotFound); err != nil {
			return err
		}

		b := p.Booking
		_, err = tx.ExecContext(ctx,
			"INSERT INTO booking (id, reference, club_name, competition_name, places, points_spent, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			b.ID, b.Reference, b.ClubName, b.CompetitionName, b.Places, b.PointsSpent, b.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
}

// checkGuarded turns a zero-row guarded UPDATE into ErrStalePurchase, or into
// notFound when the row does not exist at all.
func checkGuarded(ctx context.Context, tx *sql.Tx, res sql.Result, existsQuery, name string, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var one int
	err = tx.QueryRowContext(ctx, existsQuery, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: name %q", notFound, name)
	}
	if err != nil {
		return err
	}
	return domain.ErrStalePurchase
}

// ListByClub returns the club's bookings, oldest first.
func (s *SQLiteStore) ListByClub(ctx context.Context, clubName string) ([]domain.Booking, error) {
	return s.list(ctx, "club_name", clubName)
}

// ListByCompetition returns the competition's bookings, oldest first.
func (s *SQLiteStore) ListByCompetition(ctx context.Context, competitionName string) ([]domain.Booking, error) {
	return s.list(ctx, "competition_name", competitionName)
}

func (s *SQLiteStore) list(ctx context.Context, column, value string) ([]domain.Booking, error) {
	query := "SELECT id, reference, club_name, competition_name, places, points_spent, created_at FROM booking WHERE " +
		column + " = ? ORDER BY created_at"
	rows, err := s.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Reference, &b.ClubName, &b.CompetitionName, &b.Places, &b.PointsSpent, &createdAt); err != nil {
			return nil, err
		}
		b.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("booking %q: cannot parse created_at: %w", b.ID, err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}
