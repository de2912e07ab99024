package ledger

import (
	"time"

	"kakeibo/internal/core"
)

const (
	FilterAll     TypeFilter = "all"
	FilterIncome  TypeFilter = "income"
	FilterExpense TypeFilter = "expense"
)

type (
	// TypeFilter selects which entry types a list query returns.
	TypeFilter string

	// DatedEntry is an entry with its ledger date attached, the unit of
	// the flat list used by the search screen.
	DatedEntry struct {
		Date  string     `json:"date"`
		Entry core.Entry `json:"entry"`
	}

	// DateGroup is one display section: a date, its matching entries,
	// and the signed total shown in the section header.
	DateGroup struct {
		Date    string       `json:"date"`
		Entries []core.Entry `json:"entries"`
		Total   int64        `json:"total"`
	}
)

// IsValid reports whether f is a known filter value.
func (f TypeFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterIncome, FilterExpense:
		return true
	}
	return false
}

// Matches reports whether an entry passes the filter. Entries with a
// missing or unknown type count as expenses, matching the normalizer
// default.
func (f TypeFilter) Matches(e core.Entry) bool {
	if f == FilterAll {
		return true
	}
	return effectiveType(e) == core.EntryType(f)
}

// Flatten produces the ledger's entries as a flat list, dates ascending
// and in-day insertion order preserved. The result is built from a
// snapshot, so callers can re-iterate freely.
func Flatten(l core.Ledger) []DatedEntry {
	out := make([]DatedEntry, 0, l.EntryCount())
	for _, date := range l.Dates() {
		for _, e := range l[date] {
			out = append(out, DatedEntry{Date: date, Entry: e})
		}
	}
	return out
}

// Filter keeps entries within the inclusive [from, to] calendar range
// that match the type filter, preserving relative order. Range bounds
// are compared as calendar dates, not strings.
func Filter(entries []DatedEntry, from, to string, f TypeFilter) ([]DatedEntry, error) {
	fromDay, err := core.ParseDate(from)
	if err != nil {
		return nil, err
	}
	toDay, err := core.ParseDate(to)
	if err != nil {
		return nil, err
	}
	if !f.IsValid() {
		f = FilterAll
	}

	var out []DatedEntry
	for _, de := range entries {
		day, err := core.ParseDate(de.Date)
		if err != nil {
			continue
		}
		if !inRange(day, fromDay, toDay) {
			continue
		}
		if !f.Matches(de.Entry) {
			continue
		}
		out = append(out, de)
	}
	return out, nil
}

// GroupByDate partitions a filtered sequence back into date sections,
// each annotated with its signed daily total. Section order follows the
// first appearance of each date in the input.
func GroupByDate(entries []DatedEntry) []DateGroup {
	index := make(map[string]int)
	var groups []DateGroup
	for _, de := range entries {
		i, ok := index[de.Date]
		if !ok {
			i = len(groups)
			index[de.Date] = i
			groups = append(groups, DateGroup{Date: de.Date})
		}
		groups[i].Entries = append(groups[i].Entries, de.Entry)
		groups[i].Total += de.Entry.Signed()
	}
	return groups
}

func inRange(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}
