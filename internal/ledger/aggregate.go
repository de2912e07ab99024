package ledger

import (
	"sort"
	"time"

	"kakeibo/internal/core"
)

type (
	// Series is the cumulative profit/loss line for one month, consumed
	// directly as chart data. Values[i] is the running sum of signed
	// daily totals up to and including Labels[i]; the last value is the
	// month's net total.
	Series struct {
		Labels []string `json:"labels"`
		Values []int64  `json:"values"`
		Net    int64    `json:"net"`
	}

	// CategorySum is one pie-chart slice.
	CategorySum struct {
		CategoryID string  `json:"categoryId"`
		Label      string  `json:"label"`
		Color      string  `json:"color"`
		Sum        int64   `json:"sum"`
		Percent    float64 `json:"percent"`
	}

	// Breakdown groups one month's entries of a single type by category.
	Breakdown struct {
		Type       core.EntryType `json:"type"`
		Slices     []CategorySum  `json:"slices"`
		GrandTotal int64          `json:"grandTotal"`
	}

	// MonthTotals summarizes a month for the report header.
	MonthTotals struct {
		Income  int64 `json:"income"`
		Expense int64 `json:"expense"`
		Balance int64 `json:"balance"`
	}
)

// DailyTotal returns the signed sum of a day's entries, zero when the
// date has none.
func DailyTotal(l core.Ledger, date string) int64 {
	var total int64
	for _, e := range l[date] {
		total += e.Signed()
	}
	return total
}

// MonthlySeries computes the cumulative profit/loss series for a month.
// Dates are taken in ascending order; a month with no entries yields
// empty labels and values and a net of zero.
func MonthlySeries(l core.Ledger, month string) Series {
	s := Series{}
	var running int64
	for _, date := range l.Dates() {
		if core.MonthOf(date) != month {
			continue
		}
		running += DailyTotal(l, date)
		s.Labels = append(s.Labels, date)
		s.Values = append(s.Values, running)
	}
	s.Net = running
	return s
}

// CategoryBreakdown sums entry magnitudes per category for one month and
// one entry type. Entries without a category fall into the synthetic
// uncategorized bucket. Percentages are fractions of the grand total and
// are zero when the grand total is zero; slices are ordered by sum
// descending, then category id, so output is deterministic.
func CategoryBreakdown(l core.Ledger, month string, typ core.EntryType) Breakdown {
	sums := make(map[string]int64)
	for _, date := range l.Dates() {
		if core.MonthOf(date) != month {
			continue
		}
		for _, e := range l[date] {
			if effectiveType(e) != typ {
				continue
			}
			id := e.CategoryID
			if id == "" {
				id = core.UncategorizedID
			}
			sums[id] += magnitude(e.Amount)
		}
	}

	b := Breakdown{Type: typ}
	for id, sum := range sums {
		cat := core.CategoryByID(id)
		b.Slices = append(b.Slices, CategorySum{
			CategoryID: id,
			Label:      cat.Label,
			Color:      cat.Color,
			Sum:        sum,
		})
		b.GrandTotal += sum
	}
	sort.Slice(b.Slices, func(i, j int) bool {
		if b.Slices[i].Sum != b.Slices[j].Sum {
			return b.Slices[i].Sum > b.Slices[j].Sum
		}
		return b.Slices[i].CategoryID < b.Slices[j].CategoryID
	})
	if b.GrandTotal > 0 {
		for i := range b.Slices {
			b.Slices[i].Percent = float64(b.Slices[i].Sum) / float64(b.GrandTotal)
		}
	}
	return b
}

// Totals sums income and expense magnitudes for a month.
func Totals(l core.Ledger, month string) MonthTotals {
	var t MonthTotals
	for date, entries := range l {
		if core.MonthOf(date) != month {
			continue
		}
		for _, e := range entries {
			if effectiveType(e) == core.Income {
				t.Income += magnitude(e.Amount)
			} else {
				t.Expense += magnitude(e.Amount)
			}
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

// Allowance returns how much of the month's balance can be spent per
// remaining day, counting today. Past months and negative balances
// allow nothing.
func Allowance(balance int64, month string, now time.Time) int64 {
	first, err := time.Parse(core.MonthLayout, month)
	if err != nil {
		return 0
	}
	last := first.AddDate(0, 1, -1)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	remaining := int(last.Sub(today).Hours()/24) + 1
	if remaining <= 0 || balance <= 0 {
		return 0
	}
	return balance / int64(remaining)
}

func effectiveType(e core.Entry) core.EntryType {
	if e.Type.IsValid() {
		return e.Type
	}
	return core.Expense
}

func magnitude(amount int64) int64 {
	if amount < 0 {
		return -amount
	}
	return amount
}
