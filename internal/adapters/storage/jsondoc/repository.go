// Package jsondoc persists clubs, competitions and bookings as flat JSON
// documents that are read and rewritten wholesale.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gudlft/internal/adapters/http/perf"
)

// Document file names inside the data directory.
const (
	ClubsFile        = "clubs.json"
	CompetitionsFile = "competitions.json"
	BookingsFile     = "bookings.json"
)

// renameFile is a variable for testability.
var renameFile = os.Rename

// Documents is the in-memory form of every document.
type Documents struct {
	Clubs        []ClubRecord
	Competitions []CompetitionRecord
	Bookings     []BookingRecord
}

// Repository reads and writes the documents in one directory.
// All writers in the process go through Update, which holds an exclusive lock
// for the whole load-mutate-write cycle.
type Repository struct {
	mu        sync.RWMutex
	dir       string
	collector *perf.Collector
}

// NewRepository creates a Repository rooted at dir.
// PRE: dir contains clubs.json and competitions.json
// POST: Returns a repository; nothing is read until View or Update
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Instrument records the duration of every View and Update into c.
func (r *Repository) Instrument(c *perf.Collector) {
	r.collector = c
}

// Dir returns the data directory.
func (r *Repository) Dir() string {
	return r.dir
}

// View loads every document and passes it to fn.
// PRE: fn does not retain d after returning
// POST: No document is written
func (r *Repository) View(fn func(d *Documents) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defer r.record("jsondoc.View", time.Now())

	snap, err := r.load()
	if err != nil {
		return err
	}
	return fn(&snap.docs)
}

// Update loads every document, lets fn mutate it, and rewrites the documents
// that changed. Either every changed document is replaced or none is.
// PRE: fn returns an error to abort without writing
// POST: Changed documents are persisted atomically
func (r *Repository) Update(fn func(d *Documents) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.record("jsondoc.Update", time.Now())

	snap, err := r.load()
	if err != nil {
		return err
	}
	if err := fn(&snap.docs); err != nil {
		return err
	}

	encoded := map[string]any{
		ClubsFile:        clubsDocument{Clubs: snap.docs.Clubs},
		CompetitionsFile: competitionsDocument{Competitions: snap.docs.Competitions},
		BookingsFile:     bookingsDocument{Bookings: nonNil(snap.docs.Bookings)},
	}

	var writes []pendingWrite
	for _, name := range []string{ClubsFile, CompetitionsFile, BookingsFile} {
		data, err := json.MarshalIndent(encoded[name], "", "    ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		data = append(data, '\n')
		prev := snap.raw[name]
		if prev.exists && bytes.Equal(prev.data, data) {
			continue
		}
		writes = append(writes, pendingWrite{
			path: filepath.Join(r.dir, name),
			data: data,
			prev: prev,
		})
	}
	return commit(writes)
}

func (r *Repository) record(op string, start time.Time) {
	if r.collector == nil {
		return
	}
	r.collector.Record(perf.Entry{
		Kind:       perf.KindDocument,
		Path:       op,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}

type rawFile struct {
	data   []byte
	exists bool
}

type snapshot struct {
	docs Documents
	raw  map[string]rawFile
}

func (r *Repository) load() (snapshot, error) {
	snap := snapshot{raw: make(map[string]rawFile, 3)}

	var clubs clubsDocument
	if err := r.read(ClubsFile, &clubs, snap.raw, false); err != nil {
		return snapshot{}, err
	}
	var comps competitionsDocument
	if err := r.read(CompetitionsFile, &comps, snap.raw, false); err != nil {
		return snapshot{}, err
	}
	var books bookingsDocument
	if err := r.read(BookingsFile, &books, snap.raw, true); err != nil {
		return snapshot{}, err
	}

	snap.docs = Documents{
		Clubs:        clubs.Clubs,
		Competitions: comps.Competitions,
		Bookings:     books.Bookings,
	}
	return snap, nil
}

func (r *Repository) read(name string, v any, raw map[string]rawFile, optional bool) error {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, fs.ErrNotExist) && optional {
		raw[name] = rawFile{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	raw[name] = rawFile{data: data, exists: true}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

type pendingWrite struct {
	path string
	data []byte
	prev rawFile
	tmp  string
}

// commit stages every write as a synced temp file, then renames them into
// place. If a rename fails, documents already replaced are restored.
func commit(writes []pendingWrite) error {
	if len(writes) == 0 {
		return nil
	}

	for i := range writes {
		tmp, err := stage(writes[i].path, writes[i].data)
		if err != nil {
			cleanup(writes[:i])
			return err
		}
		writes[i].tmp = tmp
	}

	for i := range writes {
		if err := renameFile(writes[i].tmp, writes[i].path); err != nil {
			cleanup(writes[i:])
			restore(writes[:i])
			return fmt.Errorf("replace %s: %w", filepath.Base(writes[i].path), err)
		}
	}
	return nil
}

func stage(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", filepath.Base(path), err)
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("stage %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return name, nil
}

func cleanup(writes []pendingWrite) {
	for _, w := range writes {
		if w.tmp != "" {
			os.Remove(w.tmp)
		}
	}
}

func restore(replaced []pendingWrite) {
	for _, w := range replaced {
		if !w.prev.exists {
			if err := os.Remove(w.path); err != nil {
				slog.Error("jsondoc_restore_failed", "path", w.path, "error", err)
			}
			continue
		}
		tmp, err := stage(w.path, w.prev.data)
		if err == nil {
			err = os.Rename(tmp, w.path)
		}
		if err != nil {
			slog.Error("jsondoc_restore_failed", "path", w.path, "error", err)
		}
	}
}

func nonNil(b []BookingRecord) []BookingRecord {
	if b == nil {
		return []BookingRecord{}
	}
	return b
}
