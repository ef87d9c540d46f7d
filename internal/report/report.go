package report

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"duitku/internal/core"
)

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodCustom  Period = "custom"
)

// Period selects the preset date window of a report. Weeks start on Sunday.
type Period string

// Range is an inclusive calendar-day window.
type Range struct {
	Start core.Date
	End   core.Date
}

// Contains reports whether the day falls inside the window.
func (r Range) Contains(d core.Date) bool {
	return !d.Before(r.Start) && !r.End.Before(d)
}

// seriesMonths is the width of the income/expense chart series.
const seriesMonths = 6

// MonthPoint is one month of the income/expense series.
type MonthPoint struct {
	Label   string // "Okt 2023"
	Income  int64
	Expense int64
}

// CategorySlice is one segment of the expense-by-category breakdown.
type CategorySlice struct {
	Category string // key
	Name     string // display name
	Total    int64
}

// Report is the totals screen: income, expense, and net over a date window,
// plus the chart series. The window bounds only the totals; the month
// series and category breakdown always cover the whole ledger, matching the
// dashboard charts they feed.
type Report struct {
	Period Period
	Start  core.Date
	End    core.Date

	Income         int64
	Expense        int64
	Net            int64
	IncomeDisplay  string
	ExpenseDisplay string
	NetDisplay     string

	Months     []MonthPoint    // oldest first, ending at the current month
	Categories []CategorySlice // largest total first
}

// RangeFor resolves a period to its calendar window relative to now. The
// custom range is consulted only for PeriodCustom and must be a valid
// non-empty window.
func RangeFor(period Period, custom Range, now time.Time) (Range, error) {
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())
	switch period {
	case PeriodDaily:
		return Range{Start: today, End: today}, nil
	case PeriodWeekly:
		sunday := now.AddDate(0, 0, -int(now.Weekday()))
		return Range{Start: core.NewDate(sunday.Year(), int(sunday.Month()), sunday.Day()), End: today}, nil
	case PeriodMonthly:
		return Range{Start: core.NewDate(now.Year(), int(now.Month()), 1), End: today}, nil
	case PeriodYearly:
		return Range{Start: core.NewDate(now.Year(), 1, 1), End: today}, nil
	case PeriodCustom:
		if custom.Start.IsZero() {
			return Range{}, &core.ValidationError{Field: "start", Reason: core.ErrZeroDate}
		}
		if custom.End.IsZero() {
			return Range{}, &core.ValidationError{Field: "end", Reason: core.ErrZeroDate}
		}
		if custom.End.Before(custom.Start) {
			return Range{}, &core.ValidationError{Field: "end", Reason: errors.New("end date precedes start date")}
		}
		return custom, nil
	default:
		return Range{}, &core.ValidationError{Field: "period", Reason: fmt.Errorf("unknown report period %q", period)}
	}
}

// BuildReport computes the report for the resolved window. Like the other
// projections it is a pure function of the snapshot and the reference time.
func BuildReport(txs []core.Transaction, period Period, custom Range, now time.Time) (Report, error) {
	r, err := RangeFor(period, custom, now)
	if err != nil {
		return Report{}, err
	}

	var income, expense int64
	for _, tx := range txs {
		if !r.Contains(tx.Date) {
			continue
		}
		if tx.Type == core.Income {
			income += tx.Amount.Rupiah
		} else {
			expense += tx.Amount.Rupiah
		}
	}
	net := income - expense

	return Report{
		Period:         period,
		Start:          r.Start,
		End:            r.End,
		Income:         income,
		Expense:        expense,
		Net:            net,
		IncomeDisplay:  core.FormatRupiah(income),
		ExpenseDisplay: core.FormatRupiah(expense),
		NetDisplay:     core.FormatRupiah(net),
		Months:         monthlySeries(txs, now),
		Categories:     expenseByCategory(txs),
	}, nil
}

func monthlySeries(txs []core.Transaction, now time.Time) []MonthPoint {
	points := make([]MonthPoint, 0, seriesMonths)
	for i := seriesMonths - 1; i >= 0; i-- {
		y, m := now.Year(), int(now.Month())-i
		for m < 1 {
			m += 12
			y--
		}
		point := MonthPoint{Label: core.FormatMonthYear(y, m)}
		for _, tx := range txs {
			if !tx.Date.SameMonth(y, m) {
				continue
			}
			if tx.Type == core.Income {
				point.Income += tx.Amount.Rupiah
			} else {
				point.Expense += tx.Amount.Rupiah
			}
		}
		points = append(points, point)
	}
	return points
}

// expenseByCategory orders segments by total descending with category key
// as the tiebreak, so equal totals render stably.
func expenseByCategory(txs []core.Transaction) []CategorySlice {
	totals := make(map[string]int64)
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		totals[tx.Category] += tx.Amount.Rupiah
	}

	out := make([]CategorySlice, 0, len(totals))
	for key, total := range totals {
		out = append(out, CategorySlice{
			Category: key,
			Name:     core.CategoryDisplayName(key),
			Total:    total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}
