package ledger

import (
	"math"
	"reflect"
	"testing"
	"time"

	"kakeibo/internal/core"
)

func sampleLedger() core.Ledger {
	return core.Ledger{
		"2025-06-01": {
			{ID: "a", Amount: 1000, Type: core.Income, CategoryID: "salary"},
		},
		"2025-06-02": {
			{ID: "b", Amount: 400, Type: core.Expense, CategoryID: ""},
		},
	}
}

func TestMonthlySeries(t *testing.T) {
	s := MonthlySeries(sampleLedger(), "2025-06")

	wantLabels := []string{"2025-06-01", "2025-06-02"}
	wantValues := []int64{1000, 600}
	if !reflect.DeepEqual(s.Labels, wantLabels) {
		t.Errorf("Labels = %v, want %v", s.Labels, wantLabels)
	}
	if !reflect.DeepEqual(s.Values, wantValues) {
		t.Errorf("Values = %v, want %v", s.Values, wantValues)
	}
	if s.Net != 600 {
		t.Errorf("Net = %d, want 600", s.Net)
	}
}

func TestMonthlySeries_EmptyMonth(t *testing.T) {
	s := MonthlySeries(sampleLedger(), "2025-07")
	if len(s.Labels) != 0 || len(s.Values) != 0 || s.Net != 0 {
		t.Errorf("empty month must yield an empty series, got %+v", s)
	}
}

func TestMonthlySeries_CumulativeLaw(t *testing.T) {
	l := core.Ledger{
		"2025-06-03": {{ID: "c", Amount: 50, Type: core.Expense}},
		"2025-06-01": {{ID: "a", Amount: 300, Type: core.Income}},
		"2025-06-02": {
			{ID: "b1", Amount: 120, Type: core.Expense},
			{ID: "b2", Amount: 80, Type: core.Income},
		},
	}

	s := MonthlySeries(l, "2025-06")
	var running int64
	for i, label := range s.Labels {
		running += DailyTotal(l, label)
		if s.Values[i] != running {
			t.Errorf("Values[%d] = %d, want running sum %d", i, s.Values[i], running)
		}
	}
	if len(s.Labels) > 0 && s.Net != s.Values[len(s.Values)-1] {
		t.Errorf("Net = %d, want last value %d", s.Net, s.Values[len(s.Values)-1])
	}
}

func TestCategoryBreakdown(t *testing.T) {
	b := CategoryBreakdown(sampleLedger(), "2025-06", core.Expense)

	if b.GrandTotal != 400 {
		t.Errorf("GrandTotal = %d, want 400", b.GrandTotal)
	}
	if len(b.Slices) != 1 {
		t.Fatalf("got %d slices, want 1", len(b.Slices))
	}
	slice := b.Slices[0]
	if slice.CategoryID != core.UncategorizedID {
		t.Errorf("CategoryID = %q, want the uncategorized bucket", slice.CategoryID)
	}
	if slice.Sum != 400 {
		t.Errorf("Sum = %d, want 400", slice.Sum)
	}
	if slice.Percent != 1 {
		t.Errorf("Percent = %v, want 1", slice.Percent)
	}
	if slice.Label == "" || slice.Color == "" {
		t.Errorf("slice must carry display metadata, got %+v", slice)
	}
}

func TestCategoryBreakdown_PercentagesSumToOne(t *testing.T) {
	l := core.Ledger{
		"2025-06-01": {
			{ID: "a", Amount: 300, Type: core.Expense, CategoryID: "food"},
			{ID: "b", Amount: 200, Type: core.Expense, CategoryID: "hobby"},
			{ID: "c", Amount: 100, Type: core.Expense, CategoryID: "transport"},
			{ID: "d", Amount: 5000, Type: core.Income, CategoryID: "salary"},
		},
	}

	b := CategoryBreakdown(l, "2025-06", core.Expense)
	if b.GrandTotal != 600 {
		t.Fatalf("GrandTotal = %d, want 600 (income must be excluded)", b.GrandTotal)
	}

	var sum float64
	for _, s := range b.Slices {
		sum += s.Percent
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("percentages sum to %v, want 1", sum)
	}

	for i := 1; i < len(b.Slices); i++ {
		if b.Slices[i-1].Sum < b.Slices[i].Sum {
			t.Errorf("slices not ordered by sum descending: %d before %d",
				b.Slices[i-1].Sum, b.Slices[i].Sum)
		}
	}
}

func TestCategoryBreakdown_ZeroGrandTotal(t *testing.T) {
	b := CategoryBreakdown(core.Ledger{}, "2025-06", core.Expense)
	if b.GrandTotal != 0 {
		t.Errorf("GrandTotal = %d, want 0", b.GrandTotal)
	}
	if len(b.Slices) != 0 {
		t.Errorf("got %d slices, want none", len(b.Slices))
	}
}

func TestTotals(t *testing.T) {
	got := Totals(sampleLedger(), "2025-06")
	want := MonthTotals{Income: 1000, Expense: 400, Balance: 600}
	if got != want {
		t.Errorf("Totals() = %+v, want %+v", got, want)
	}
}

func TestAllowance(t *testing.T) {
	now := time.Date(2025, time.June, 21, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		balance int64
		month   string
		want    int64
	}{
		{
			name:    "ten days left including today",
			balance: 1000,
			month:   "2025-06",
			want:    100,
		},
		{
			name:    "negative balance allows nothing",
			balance: -500,
			month:   "2025-06",
			want:    0,
		},
		{
			name:    "past month allows nothing",
			balance: 1000,
			month:   "2025-05",
			want:    0,
		},
		{
			name:    "bad month string",
			balance: 1000,
			month:   "june",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowance(tt.balance, tt.month, now); got != tt.want {
				t.Errorf("Allowance(%d, %q) = %d, want %d", tt.balance, tt.month, got, tt.want)
			}
		})
	}
}

func TestDailyTotal(t *testing.T) {
	l := core.Ledger{
		"2025-06-02": {
			{ID: "b1", Amount: 120, Type: core.Expense},
			{ID: "b2", Amount: 80, Type: core.Income},
		},
	}
	if got := DailyTotal(l, "2025-06-02"); got != -40 {
		t.Errorf("DailyTotal = %d, want -40", got)
	}
	if got := DailyTotal(l, "2025-06-03"); got != 0 {
		t.Errorf("DailyTotal for absent date = %d, want 0", got)
	}
}
