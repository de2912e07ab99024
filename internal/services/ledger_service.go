package services

import (
	"context"
	"log/slog"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/ledger"
)

// ChangePublisher publishes ledger change events. *amqp.Client satisfies
// it; tests substitute a stub.
type ChangePublisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// LedgerService orchestrates ledger mutations: the local document write
// comes first, then a change event is published for the backup worker.
// Publishing is best-effort; the entry is already saved locally, so a
// broker outage must never fail the user's request.
type LedgerService struct {
	store     *ledger.Store
	publisher ChangePublisher
}

func NewLedgerService(store *ledger.Store, publisher ChangePublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// Load refreshes the in-memory ledger from storage.
func (s *LedgerService) Load(ctx context.Context) error {
	return s.store.Load(ctx)
}

// Snapshot returns a stable copy of the ledger for read-side queries.
func (s *LedgerService) Snapshot() core.Ledger {
	return s.store.Snapshot()
}

// UpsertEntry saves one entry and announces the change.
func (s *LedgerService) UpsertEntry(ctx context.Context, date string, entry core.Entry) (core.Entry, error) {
	saved, err := s.store.Upsert(ctx, date, entry)
	if err != nil {
		return core.Entry{}, err
	}
	s.publish(ctx, amqp.NewChangeMessage(amqp.OpUpsert, date, saved.ID))
	return saved, nil
}

// RemoveEntry deletes one entry and announces the change.
func (s *LedgerService) RemoveEntry(ctx context.Context, date, entryID string) error {
	if err := s.store.Remove(ctx, date, entryID); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewChangeMessage(amqp.OpRemove, date, entryID))
	return nil
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.ChangeMessage) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No change publisher configured, skipping change message",
			"op", msg.Op, "date", msg.Date, "entry_id", msg.EntryID)
		return
	}
	if err := s.publisher.PublishChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"op", msg.Op, "date", msg.Date, "entry_id", msg.EntryID, "error", err)
	}
}
