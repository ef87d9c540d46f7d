package report

import (
	"testing"

	"duitku/internal/core"
)

func TestHistoryFirstPage(t *testing.T) {
	p := BuildHistory(seedAlternating(), Filter{Type: FilterAll, Page: 1})

	if len(p.Rows) != PageSize {
		t.Fatalf("rows = %d, want %d", len(p.Rows), PageSize)
	}
	if p.TotalMatched != 12 {
		t.Errorf("total matched = %d, want 12", p.TotalMatched)
	}
	if p.Footer != "Menampilkan 1 sampai 10 dari 12 hasil" {
		t.Errorf("footer = %q", p.Footer)
	}
	if p.Rows[0].Date != "12 Okt 2023" || p.Rows[0].Amount != "+Rp 100.000" {
		t.Errorf("first row = %q %q", p.Rows[0].Date, p.Rows[0].Amount)
	}
	if p.Rows[0].TypeLabel != "Pemasukan" {
		t.Errorf("first row type label = %q", p.Rows[0].TypeLabel)
	}
}

func TestHistorySecondPage(t *testing.T) {
	p := BuildHistory(seedAlternating(), Filter{Page: 2})
	if len(p.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(p.Rows))
	}
	if p.Footer != "Menampilkan 11 sampai 12 dari 12 hasil" {
		t.Errorf("footer = %q", p.Footer)
	}
	if p.RangeStart != 11 || p.RangeEnd != 12 {
		t.Errorf("range = %d..%d, want 11..12", p.RangeStart, p.RangeEnd)
	}
}

func TestHistoryTypeFilter(t *testing.T) {
	p := BuildHistory(seedAlternating(), Filter{Type: FilterExpense, Page: 1})
	if p.TotalMatched != 6 {
		t.Fatalf("total matched = %d, want 6", p.TotalMatched)
	}
	if p.Footer != "Menampilkan 1 sampai 6 dari 6 hasil" {
		t.Errorf("footer = %q", p.Footer)
	}
	for _, row := range p.Rows {
		if row.Type != core.Expense {
			t.Errorf("row %d is %s, want expense", row.ID, row.Type)
		}
	}
}

func TestHistorySearch(t *testing.T) {
	p := BuildHistory(seedAlternating(), Filter{Search: "transaction 6", Page: 1})
	if p.TotalMatched != 1 {
		t.Fatalf("total matched = %d, want 1", p.TotalMatched)
	}
	if p.Rows[0].Amount != "-Rp 600.000" {
		t.Errorf("amount = %q, want -Rp 600.000", p.Rows[0].Amount)
	}
	if p.Footer != "Menampilkan 1 sampai 1 dari 1 hasil" {
		t.Errorf("footer = %q", p.Footer)
	}

	// Search also matches the category display name.
	p = BuildHistory(seedAlternating(), Filter{Search: "Makanan", Page: 1})
	if p.TotalMatched != 6 {
		t.Errorf("category search matched %d, want 6", p.TotalMatched)
	}

	// Search combines with the type filter.
	p = BuildHistory(seedAlternating(), Filter{Type: FilterIncome, Search: "makanan", Page: 1})
	if p.TotalMatched != 0 {
		t.Errorf("conflicting filter matched %d, want 0", p.TotalMatched)
	}
}

func TestHistoryPageClamping(t *testing.T) {
	txs := seedAlternating()

	// A page past the end clamps to the last valid page.
	p := BuildHistory(txs, Filter{Page: 99})
	if p.Number != 2 {
		t.Errorf("clamped page = %d, want 2", p.Number)
	}
	if len(p.Rows) != 2 {
		t.Errorf("clamped rows = %d, want 2", len(p.Rows))
	}

	// Page zero and negatives clamp to the first page.
	p = BuildHistory(txs, Filter{Page: 0})
	if p.Number != 1 || p.RangeStart != 1 {
		t.Errorf("page 0 gave page %d range start %d", p.Number, p.RangeStart)
	}
}

func TestHistoryEmpty(t *testing.T) {
	p := BuildHistory(nil, Filter{Page: 1})
	if p.TotalMatched != 0 || len(p.Rows) != 0 {
		t.Fatalf("empty store matched %d rows %d", p.TotalMatched, len(p.Rows))
	}
	if p.RangeStart != 0 || p.RangeEnd != 0 {
		t.Errorf("empty range = %d..%d, want 0..0", p.RangeStart, p.RangeEnd)
	}
	if p.Footer != "" {
		t.Errorf("empty footer = %q, want empty", p.Footer)
	}
}

// The range identity from the view contract:
// rangeEnd - rangeStart + 1 == min(pageSize, totalMatched-(page-1)*pageSize).
func TestHistoryRangeIdentity(t *testing.T) {
	txs := seedAlternating()
	filters := []Filter{
		{Page: 1},
		{Page: 2},
		{Type: FilterIncome, Page: 1},
		{Type: FilterExpense, Page: 1},
		{Search: "transaction 1", Page: 1}, // matches 1, 10, 11, 12
		{Search: "no such thing", Page: 1},
	}
	for i, f := range filters {
		p := BuildHistory(txs, f)
		if p.TotalMatched == 0 {
			continue
		}
		want := PageSize
		if rest := p.TotalMatched - (p.Number-1)*PageSize; rest < want {
			want = rest
		}
		if got := p.RangeEnd - p.RangeStart + 1; got != want {
			t.Errorf("filter %d: range width %d, want %d", i, got, want)
		}
		if got := len(p.Rows); got != want {
			t.Errorf("filter %d: rows %d, want %d", i, got, want)
		}
	}
}
