package report

import (
	"fmt"
	"strings"

	"duitku/internal/core"
)

const (
	FilterAll     = "all"
	FilterIncome  = string(core.Income)
	FilterExpense = string(core.Expense)
)

// PageSize is the fixed number of rows per history page.
const PageSize = 10

// Filter is the history screen's view state.
type Filter struct {
	Type   string // "all", "pemasukan", or "pengeluaran"; empty means all
	Search string
	Page   int // 1-based; out-of-range pages clamp
}

// Row is one formatted line of the history table.
type Row struct {
	ID          int64
	Date        string // "12 Okt 2023"
	Type        core.Type
	TypeLabel   string // "Pemasukan" / "Pengeluaran"
	Category    string // display name
	Amount      string // signed, "+Rp 100.000"
	Description string
}

// Page is one paginated slice of the filtered history.
type Page struct {
	Rows         []Row
	TotalMatched int
	Number       int // the clamped page actually shown
	TotalPages   int
	RangeStart   int // 1-based inclusive
	RangeEnd     int
	Footer       string // "Menampilkan 1 sampai 10 dari 12 hasil"
}

// BuildHistory runs the full pipeline: filter by type, search description
// and category, sort by recency, then slice the requested page. A page past
// the end clamps to the last valid page so matches are never hidden behind
// an empty page.
func BuildHistory(txs []core.Transaction, f Filter) Page {
	matched := make([]core.Transaction, 0, len(txs))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, tx := range txs {
		if !matchesType(tx, f.Type) {
			continue
		}
		if search != "" && !matchesSearch(tx, search) {
			continue
		}
		matched = append(matched, tx)
	}
	matched = sortByRecency(matched)

	total := len(matched)
	if total == 0 {
		return Page{Number: 1, TotalPages: 0}
	}

	totalPages := (total + PageSize - 1) / PageSize
	page := f.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}

	rows := make([]Row, 0, end-start)
	for _, tx := range matched[start:end] {
		rows = append(rows, Row{
			ID:          tx.ID,
			Date:        tx.Date.Display(),
			Type:        tx.Type,
			TypeLabel:   typeLabel(tx.Type),
			Category:    core.CategoryDisplayName(tx.Category),
			Amount:      tx.SignedAmount(),
			Description: tx.Description,
		})
	}

	rangeStart := start + 1
	rangeEnd := end
	return Page{
		Rows:         rows,
		TotalMatched: total,
		Number:       page,
		TotalPages:   totalPages,
		RangeStart:   rangeStart,
		RangeEnd:     rangeEnd,
		Footer:       fmt.Sprintf("Menampilkan %d sampai %d dari %d hasil", rangeStart, rangeEnd, total),
	}
}

func matchesType(tx core.Transaction, filter string) bool {
	switch filter {
	case "", FilterAll:
		return true
	default:
		return string(tx.Type) == filter
	}
}

// matchesSearch checks the description and the category (key and display
// name) for a case-insensitive substring match.
func matchesSearch(tx core.Transaction, search string) bool {
	if strings.Contains(strings.ToLower(tx.Description), search) {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Category), search) {
		return true
	}
	return strings.Contains(strings.ToLower(core.CategoryDisplayName(tx.Category)), search)
}

func typeLabel(t core.Type) string {
	if t == core.Income {
		return "Pemasukan"
	}
	return "Pengeluaran"
}
