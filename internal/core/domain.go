package core

import (
	"errors"
	"sort"
	"time"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"

	// DateLayout is the calendar-date format used as the ledger partition key.
	DateLayout = "2006-01-02"

	// MonthLayout identifies a calendar month for the monthly views.
	MonthLayout = "2006-01"
)

type (
	EntryType string

	// Entry is one recorded income or expense transaction. The date it
	// belongs to is the ledger key, not a field of the entry itself.
	Entry struct {
		ID         string    `json:"id"`
		Amount     int64     `json:"amount"`
		Type       EntryType `json:"type"`
		CategoryID string    `json:"categoryId,omitempty"`
		Memo       string    `json:"memo,omitempty"`
	}

	// Ledger is the full collection of entries partitioned by date
	// (YYYY-MM-DD). Invariants: no empty day slices, entry IDs are unique
	// across the whole ledger, and in-day order is creation order.
	Ledger map[string][]Entry
)

var (
	ErrInvalidAmount   = errors.New("amount must be a positive integer")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidType     = errors.New("type must be income or expense")
	ErrMissingCategory = errors.New("category is required")
	ErrEmptyID         = errors.New("entry id cannot be empty")
)

// IsValid reports whether t is one of the two known entry types.
func (t EntryType) IsValid() bool {
	return t == Income || t == Expense
}

// Signed returns the entry amount with expenses negated. Amounts are
// stored sign-free, so the magnitude is taken here regardless.
func (e Entry) Signed() int64 {
	amount := e.Amount
	if amount < 0 {
		amount = -amount
	}
	if e.Type == Expense {
		return -amount
	}
	return amount
}

// Validate checks an entry against the user-input rules. Legacy records
// loaded from storage are exempt; only new or edited entries pass
// through here.
func (e Entry) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !e.Type.IsValid() {
		return ErrInvalidType
	}
	if e.CategoryID == "" {
		return ErrMissingCategory
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// ValidMonth reports whether s is a well-formed YYYY-MM month.
func ValidMonth(s string) bool {
	_, err := time.Parse(MonthLayout, s)
	return err == nil
}

// MonthOf returns the YYYY-MM prefix of a YYYY-MM-DD date.
func MonthOf(date string) string {
	if len(date) < len(MonthLayout) {
		return date
	}
	return date[:len(MonthLayout)]
}

// Dates returns the ledger's dates in ascending calendar order. Go maps
// carry no iteration order, so this is the ledger's defined key order.
func (l Ledger) Dates() []string {
	dates := make([]string, 0, len(l))
	for date := range l {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Clone returns a deep copy of the ledger so read-side computations can
// run over a stable snapshot.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for date, entries := range l {
		out[date] = append([]Entry(nil), entries...)
	}
	return out
}

// EntryCount returns the total number of entries across all dates.
func (l Ledger) EntryCount() int {
	n := 0
	for _, entries := range l {
		n += len(entries)
	}
	return n
}
