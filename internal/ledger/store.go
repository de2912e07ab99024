package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

// DefaultDocumentKey is the well-known key the whole ledger document
// lives under, kept from the original storage layout.
const DefaultDocumentKey = "profitData"

// ErrNotFound is returned by Remove when no entry matches.
var ErrNotFound = errors.New("entry not found")

// PersistenceError wraps a failure of the underlying document store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "ledger " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store owns the canonical in-memory ledger and is the only path through
// which entries are created, edited or removed. Every mutation rewrites
// the whole document; a mutex serializes load and mutation calls so two
// rapid taps cannot race the read-modify-write cycle and lose an update.
//
// Memory is committed only after the write succeeds. On a write failure
// the in-memory ledger is left at its previous state and the caller
// should reload to resynchronize.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	key    string
	ledger core.Ledger
}

func NewStore(kv storage.KV, key string) *Store {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &Store{kv: kv, key: key, ledger: core.Ledger{}}
}

// Load replaces the in-memory ledger wholesale from storage. It is
// idempotent and safe to call on every screen focus. An absent document
// yields an empty ledger; an unparseable one is treated the same but
// logged, since the app must stay usable with a fresh ledger.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}
	if !ok {
		s.ledger = core.Ledger{}
		return nil
	}

	led, err := Normalize([]byte(raw))
	if err != nil {
		slog.WarnContext(ctx, "Stored ledger document is not valid JSON, starting empty",
			"key", s.key, "error", err)
		s.ledger = core.Ledger{}
		return nil
	}

	s.ledger = led
	slog.DebugContext(ctx, "Ledger loaded", "key", s.key, "dates", len(led), "entries", led.EntryCount())
	return nil
}

// Snapshot returns a deep copy of the current ledger for the read-side
// computations.
func (s *Store) Snapshot() core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// Upsert creates or edits one entry under date. A matching id replaces
// the existing entry in place, keeping its list position; otherwise the
// entry is appended. An empty id gets a fresh one. The whole ledger is
// persisted before memory is updated, and the stored entry is returned.
func (s *Store) Upsert(ctx context.Context, date string, entry core.Entry) (core.Entry, error) {
	if !core.ValidDate(date) {
		return core.Entry{}, core.ErrInvalidDate
	}
	if entry.ID == "" {
		entry.ID = NewEntryID(date)
	}
	if err := entry.Validate(); err != nil {
		return core.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.ledger.Clone()
	day := next[date]
	replaced := false
	for i, existing := range day {
		if existing.ID == entry.ID {
			day[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		day = append(day, entry)
	}
	next[date] = day

	if err := s.persist(ctx, next); err != nil {
		return core.Entry{}, &PersistenceError{Op: "upsert", Err: err}
	}
	s.ledger = next

	slog.InfoContext(ctx, "Entry saved",
		"date", date, "entry_id", entry.ID, "amount", entry.Amount,
		"type", string(entry.Type), "category_id", entry.CategoryID, "replaced", replaced)
	return entry, nil
}

// Remove deletes one entry from a date's list. When the list becomes
// empty the date key is dropped entirely; the store never keeps empty
// arrays, keeping the document compact.
func (s *Store) Remove(ctx context.Context, date, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.ledger[date]
	if !ok {
		return ErrNotFound
	}
	idx := -1
	for i, e := range day {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	next := s.ledger.Clone()
	remaining := append(append([]core.Entry(nil), day[:idx]...), day[idx+1:]...)
	if len(remaining) == 0 {
		delete(next, date)
	} else {
		next[date] = remaining
	}

	if err := s.persist(ctx, next); err != nil {
		return &PersistenceError{Op: "remove", Err: err}
	}
	s.ledger = next

	slog.InfoContext(ctx, "Entry removed", "date", date, "entry_id", entryID)
	return nil
}

func (s *Store) persist(ctx context.Context, l core.Ledger) error {
	data, err := MarshalCanonical(l)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(data))
}
