package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"kakeibo/internal/core"
)

// rawEntry covers every field any historical schema version has carried.
// Amount is a pointer so an absent field can be told apart from zero.
type rawEntry struct {
	ID         string   `json:"id"`
	Amount     *float64 `json:"amount"`
	Type       string   `json:"type"`
	CategoryID string   `json:"categoryId"`
	Memo       string   `json:"memo"`
}

// Normalize upgrades a raw persisted document of unknown vintage into a
// canonical ledger. The store was migrated in place across app versions
// without a migration step, so three shapes coexist per date key: an
// array of entry objects (current), a single entry object (legacy), and
// garbage. Legacy objects are wrapped into one-element lists, missing
// ids are synthesized, and a missing type defaults to expense. Malformed
// values are dropped; a single bad date never aborts the whole load.
//
// Normalize is pure and idempotent: feeding it an already-canonical
// document yields the same ledger with no id churn. The only error it
// returns is a top-level JSON parse failure, which the caller decides
// how to recover from.
func Normalize(raw []byte) (core.Ledger, error) {
	out := core.Ledger{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse ledger document: %w", err)
	}

	seen := make(map[string]bool)
	for date, value := range doc {
		if !core.ValidDate(date) {
			continue
		}

		var items []json.RawMessage
		if err := json.Unmarshal(value, &items); err != nil {
			// Legacy shape: one entry object stored directly under the date.
			items = []json.RawMessage{value}
		}

		var entries []core.Entry
		for _, item := range items {
			entry, ok := normalizeOne(date, item)
			if !ok {
				continue
			}
			if seen[entry.ID] {
				// Duplicate ids have been observed after in-place schema
				// migrations; re-synthesize rather than drop the entry.
				entry.ID = NewEntryID(date)
			}
			seen[entry.ID] = true
			entries = append(entries, entry)
		}
		if len(entries) > 0 {
			out[date] = entries
		}
	}

	return out, nil
}

// normalizeOne converts one stored value into a canonical entry. A value
// that is not an object or has no amount is reported as unusable.
func normalizeOne(date string, raw json.RawMessage) (core.Entry, bool) {
	var r rawEntry
	if err := json.Unmarshal(raw, &r); err != nil {
		return core.Entry{}, false
	}
	if r.Amount == nil {
		return core.Entry{}, false
	}

	entry := core.Entry{
		ID:         r.ID,
		Amount:     int64(math.Round(math.Abs(*r.Amount))),
		Type:       core.EntryType(r.Type),
		CategoryID: r.CategoryID,
		Memo:       r.Memo,
	}
	if entry.ID == "" {
		entry.ID = NewEntryID(date)
	}
	if !entry.Type.IsValid() {
		entry.Type = core.Expense
	}
	return entry, true
}

// MarshalCanonical serializes a ledger in the canonical array-of-entries
// shape. Writing back always uses this form, so schema drift does not
// recur once a document has been loaded and saved.
func MarshalCanonical(l core.Ledger) ([]byte, error) {
	doc := make(map[string][]core.Entry, len(l))
	for date, entries := range l {
		if len(entries) == 0 {
			continue
		}
		doc[date] = entries
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal ledger document: %w", err)
	}
	return data, nil
}

// NewEntryID builds an entry id from the date's digits plus a random
// suffix, matching the ids already present in migrated documents.
func NewEntryID(date string) string {
	prefix := strings.ReplaceAll(date, "-", "")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return prefix + "-" + suffix
}
