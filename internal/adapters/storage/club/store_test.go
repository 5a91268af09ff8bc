package club

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"gudlft/internal/adapters/storage"
	"gudlft/internal/adapters/storage/jsondoc"
	domain "gudlft/internal/domain/club"
)

func newJSONStore(t *testing.T) Store {
	t.Helper()
	dir := t.TempDir()
	clubs := `{"clubs":[{"name":"Simply Lift","email":"john@simplylift.co","points":"13"},{"name":"Iron Temple","email":"admin@irontemple.com","points":"4"}]}`
	if err := os.WriteFile(filepath.Join(dir, jsondoc.ClubsFile), []byte(clubs), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, jsondoc.CompetitionsFile), []byte(`{"competitions":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewJSONStore(jsondoc.NewRepository(dir))
}

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	s := NewSQLiteStore(db)
	for _, c := range []domain.Club{
		{Name: "Simply Lift", Email: "john@simplylift.co", Points: 13},
		{Name: "Iron Temple", Email: "admin@irontemple.com", Points: 4},
	} {
		if err := s.Save(context.Background(), c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return s
}

// TestStores runs the same behavior checks against every Store implementation.
func TestStores(t *testing.T) {
	impls := map[string]func(*testing.T) Store{
		"json":   newJSONStore,
		"sqlite": newSQLiteStore,
	}
	for name, newStore := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("GetByName", func(t *testing.T) {
				s := newStore(t)
				c, err := s.GetByName(ctx, "Simply Lift")
				if err != nil {
					t.Fatalf("GetByName: %v", err)
				}
				if c.Email != "john@simplylift.co" || c.Points != 13 {
					t.Errorf("got %+v", c)
				}
			})

			t.Run("GetByEmail ignores case", func(t *testing.T) {
				s := newStore(t)
				c, err := s.GetByEmail(ctx, "Admin@IronTemple.com")
				if err != nil {
					t.Fatalf("GetByEmail: %v", err)
				}
				if c.Name != "Iron Temple" {
					t.Errorf("name = %q, want Iron Temple", c.Name)
				}
			})

			t.Run("not found", func(t *testing.T) {
				s := newStore(t)
				if _, err := s.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
					t.Errorf("GetByEmail error = %v, want ErrNotFound", err)
				}
				if _, err := s.GetByName(ctx, "Nobody"); !errors.Is(err, domain.ErrNotFound) {
					t.Errorf("GetByName error = %v, want ErrNotFound", err)
				}
			})

			t.Run("Save updates and inserts", func(t *testing.T) {
				s := newStore(t)
				if err := s.Save(ctx, domain.Club{Name: "Simply Lift", Email: "john@simplylift.co", Points: 1}); err != nil {
					t.Fatalf("Save update: %v", err)
				}
				if err := s.Save(ctx, domain.Club{Name: "She Lifts", Email: "kate@shelifts.co.uk", Points: 12}); err != nil {
					t.Fatalf("Save insert: %v", err)
				}
				got, err := s.GetByName(ctx, "Simply Lift")
				if err != nil || got.Points != 1 {
					t.Errorf("after update: %+v, %v", got, err)
				}
				list, err := s.List(ctx)
				if err != nil {
					t.Fatalf("List: %v", err)
				}
				if len(list) != 3 {
					t.Errorf("List len = %d, want 3", len(list))
				}
			})
		})
	}
}
