// Package report derives the dashboard and history projections from a
// ledger snapshot. Everything here is a pure function of the snapshot and
// the reference time; no state is held between calls.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"duitku/internal/core"
)

const (
	SignPositive ChangeSign = "positive"
	SignNegative ChangeSign = "negative"
	SignZero     ChangeSign = "zero"
)

// ChangeSign is the qualitative color class of a month-over-month change.
type ChangeSign string

// ChangeStat is one month-over-month comparison, rounded to one decimal.
type ChangeStat struct {
	Percent   float64
	Sign      ChangeSign
	Favorable bool   // whether the direction is good for this metric
	Label     string // e.g. "+125.0% dari bulan lalu"
}

// RecentRow is one entry of the dashboard's recent-activity slice.
type RecentRow struct {
	ID       int64
	Type     core.Type
	Category string // display name
	Date     string // "12 Okt 2023"
	Amount   string // signed, "+Rp 100.000"
}

// Dashboard is the summary shown on the main screen.
type Dashboard struct {
	Balance        int64
	BalanceDisplay string
	MonthlyIncome  int64
	MonthlyExpense int64
	TotalCount     int
	Recent         []RecentRow

	// BalanceChange compares the current balance against the balance at
	// the end of the previous month. IncomeChange and ExpenseChange
	// compare this month's totals against the previous month's.
	BalanceChange ChangeStat
	IncomeChange  ChangeStat
	ExpenseChange ChangeStat
}

const recentLimit = 5

// BuildDashboard computes the dashboard summary from a snapshot. The
// reference time fixes which calendar month counts as "current".
func BuildDashboard(txs []core.Transaction, now time.Time) Dashboard {
	year, month := now.Year(), int(now.Month())
	prevYear, prevMonth := year, month-1
	if prevMonth < 1 {
		prevMonth = 12
		prevYear--
	}
	monthStart := core.NewDate(year, month, 1)

	var income, expense int64
	var curIncome, curExpense int64
	var prevIncome, prevExpense int64
	var incomeEOM, expenseEOM int64 // totals up to the end of last month
	for _, tx := range txs {
		amount := tx.Amount.Rupiah
		in := tx.Type == core.Income
		if in {
			income += amount
		} else {
			expense += amount
		}
		switch {
		case tx.Date.SameMonth(year, month):
			if in {
				curIncome += amount
			} else {
				curExpense += amount
			}
		case tx.Date.SameMonth(prevYear, prevMonth):
			if in {
				prevIncome += amount
			} else {
				prevExpense += amount
			}
		}
		if tx.Date.Before(monthStart) {
			if in {
				incomeEOM += amount
			} else {
				expenseEOM += amount
			}
		}
	}

	balance := income - expense
	balanceEOM := incomeEOM - expenseEOM

	return Dashboard{
		Balance:        balance,
		BalanceDisplay: core.FormatRupiah(balance),
		MonthlyIncome:  curIncome,
		MonthlyExpense: curExpense,
		TotalCount:     len(txs),
		Recent:         recentRows(txs),
		BalanceChange:  monthOverMonth(balance, balanceEOM, true),
		IncomeChange:   monthOverMonth(curIncome, prevIncome, true),
		ExpenseChange:  monthOverMonth(curExpense, prevExpense, false),
	}
}

// monthOverMonth computes one change stat. The previous value acts as the
// baseline: change% = (current - previous) / |previous| * 100. A zero
// baseline with activity counts as a full 100% change; a zero baseline with
// no activity is reported as no data.
func monthOverMonth(current, previous int64, higherIsBetter bool) ChangeStat {
	if previous == 0 && current == 0 {
		return ChangeStat{Sign: SignZero, Favorable: true, Label: "Data bulan lalu tidak tersedia"}
	}

	var pct float64
	switch {
	case previous != 0:
		pct = float64(current-previous) / math.Abs(float64(previous)) * 100
	default:
		pct = 100
	}
	pct = math.Round(pct*10) / 10

	stat := ChangeStat{Percent: pct}
	switch {
	case pct > 0:
		stat.Sign = SignPositive
	case pct < 0:
		stat.Sign = SignNegative
	default:
		stat.Sign = SignZero
	}
	if pct == 0 {
		stat.Favorable = true
		stat.Label = "Sama seperti bulan lalu"
		return stat
	}
	stat.Favorable = (higherIsBetter && pct > 0) || (!higherIsBetter && pct < 0)
	stat.Label = fmt.Sprintf("%+.1f%% dari bulan lalu", pct)
	return stat
}

func recentRows(txs []core.Transaction) []RecentRow {
	recent := sortByRecency(txs)
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	rows := make([]RecentRow, len(recent))
	for i, tx := range recent {
		rows[i] = RecentRow{
			ID:       tx.ID,
			Type:     tx.Type,
			Category: core.CategoryDisplayName(tx.Category),
			Date:     tx.Date.Display(),
			Amount:   tx.SignedAmount(),
		}
	}
	return rows
}

// sortByRecency returns a copy ordered for display: newest date first, ties
// broken by id descending so the most-recently-added same-day record
// surfaces first.
func sortByRecency(txs []core.Transaction) []core.Transaction {
	out := append([]core.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[j].Date.Before(out[i].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
