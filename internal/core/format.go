// Package core provides the ledger's domain types and display formatting.
//
// This file renders monetary amounts and calendar dates exactly the way the
// dashboard and history screens show them. The output strings are load-bearing
// for UI compatibility and must stay bit-exact.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Indonesian month abbreviations, indexed by month-1.
var monthAbbr = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// FormatRupiah renders an amount with the currency prefix and dot thousands
// separators, no fraction digits: 100000 -> "Rp 100.000". Negative amounts
// carry a leading minus: -500000 -> "-Rp 500.000".
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Display renders the money amount without a sign: "Rp 100.000".
func (m Money) Display() string {
	return FormatRupiah(m.Rupiah)
}

// SignedAmount renders the amount signed by transaction type:
// "+Rp 100.000" for income, "-Rp 600.000" for expense.
func (t Transaction) SignedAmount() string {
	if t.Type == Income {
		return "+" + FormatRupiah(t.Amount.Rupiah)
	}
	return "-" + FormatRupiah(t.Amount.Rupiah)
}

// Display renders the date as "DD Mon YYYY" with localized month
// abbreviations, e.g. "12 Okt 2023".
func (d Date) Display() string {
	var b strings.Builder
	day := d.Day()
	if day < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(day))
	b.WriteByte(' ')
	b.WriteString(monthAbbr[d.Month()-1])
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(d.Year()))
	return b.String()
}

// FormatMonthYear renders a chart axis label with the localized month
// abbreviation, e.g. "Okt 2023".
func FormatMonthYear(year, month int) string {
	return monthAbbr[month-1] + " " + strconv.Itoa(year)
}

// ParseAmount converts a rupiah amount string to its integer value.
//
// It accepts plain digit runs ("100000") and dot-grouped thousands
// ("100.000"). Signs, decimals, and other characters are rejected; the
// currency has no subunits. The empty string is rejected.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	// Dot-grouped input must group by exactly three digits after the first.
	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		for i, p := range parts {
			if i > 0 && len(p) != 3 {
				return 0, ErrInvalidAmount
			}
			if p == "" {
				return 0, ErrInvalidAmount
			}
		}
		s = strings.Join(parts, "")
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
