package core

import "testing"

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1000, "Rp 1.000"},
		{100000, "Rp 100.000"},
		{600000, "Rp 600.000"},
		{1250000, "Rp 1.250.000"},
		{1000000000, "Rp 1.000.000.000"},
		{-500000, "-Rp 500.000"},
	}
	for _, tc := range cases {
		if got := FormatRupiah(tc.amount); got != tc.want {
			t.Errorf("FormatRupiah(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	income := Transaction{Type: Income, Amount: Money{Rupiah: 100000}}
	if got := income.SignedAmount(); got != "+Rp 100.000" {
		t.Errorf("income SignedAmount() = %q, want %q", got, "+Rp 100.000")
	}
	expense := Transaction{Type: Expense, Amount: Money{Rupiah: 600000}}
	if got := expense.SignedAmount(); got != "-Rp 600.000" {
		t.Errorf("expense SignedAmount() = %q, want %q", got, "-Rp 600.000")
	}
}

func TestDateDisplay(t *testing.T) {
	cases := []struct {
		d    Date
		want string
	}{
		{NewDate(2023, 10, 12), "12 Okt 2023"},
		{NewDate(2023, 10, 1), "01 Okt 2023"},
		{NewDate(2024, 5, 31), "31 Mei 2024"},
		{NewDate(2024, 8, 17), "17 Agu 2024"},
		{NewDate(2025, 12, 25), "25 Des 2025"},
	}
	for _, tc := range cases {
		if got := tc.d.Display(); got != tc.want {
			t.Errorf("Display(%s) = %q, want %q", tc.d.ISO(), got, tc.want)
		}
	}
}

func TestFormatMonthYear(t *testing.T) {
	cases := []struct {
		year, month int
		want        string
	}{
		{2023, 1, "Jan 2023"},
		{2023, 8, "Agu 2023"},
		{2023, 10, "Okt 2023"},
		{2024, 12, "Des 2024"},
	}
	for _, tc := range cases {
		if got := FormatMonthYear(tc.year, tc.month); got != tc.want {
			t.Errorf("FormatMonthYear(%d, %d) = %q, want %q", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"100000", 100000, true},
		{"100.000", 100000, true},
		{"1.250.000", 1250000, true},
		{" 500 ", 500, true},
		{"0", 0, true},
		{"", 0, false},
		{"-100", 0, false},
		{"+100", 0, false},
		{"100,5", 0, false},
		{"100.00", 0, false}, // bad grouping
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseAmount(%q) unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseAmount(%q) expected error", tc.in)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
