package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kakeibo/internal/amqp"
	"kakeibo/internal/storage"
)

// BackupWorker mirrors the ledger document to timestamped JSON files on
// every change event, plus a periodic safety-net snapshot in case a
// message was lost. latest.json always holds the newest copy, so a
// restore never has to scan the directory.
type BackupWorker struct {
	kv     storage.KV
	docKey string
	dir    string
}

func NewBackupWorker(kv storage.KV, docKey, dir string) *BackupWorker {
	return &BackupWorker{
		kv:     kv,
		docKey: docKey,
		dir:    dir,
	}
}

// HandleChange processes one ledger change message by snapshotting the
// current document. The message only triggers the snapshot; the document
// itself is read fresh from storage, so replays and duplicates are safe.
func (w *BackupWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"op", msg.Op, "date", msg.Date, "entry_id", msg.EntryID)
	return w.Snapshot(ctx)
}

// Snapshot writes the current document to the backup directory. A
// missing document is not an error; there is simply nothing to back up
// yet.
func (w *BackupWorker) Snapshot(ctx context.Context) error {
	raw, ok, err := w.kv.Get(ctx, w.docKey)
	if err != nil {
		return fmt.Errorf("read document for backup: %w", err)
	}
	if !ok {
		slog.DebugContext(ctx, "No ledger document yet, skipping snapshot", "key", w.docKey)
		return nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	path := filepath.Join(w.dir, "ledger-"+stamp+".json")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, "latest.json"), []byte(raw), 0644); err != nil {
		return fmt.Errorf("write latest backup: %w", err)
	}

	slog.InfoContext(ctx, "Ledger snapshot written", "path", path, "bytes", len(raw))
	return nil
}

// RunPeriodic snapshots the document on a fixed interval until ctx is
// done. It backs up the consumer loop for the case where the broker and
// the server disagree about what was delivered.
func (w *BackupWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Snapshot(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic snapshot failed", "error", err)
			}
		}
	}
}
