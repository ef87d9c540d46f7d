package core

import (
	"errors"
	"testing"
	"time"
)

func TestTypeValidate(t *testing.T) {
	if err := Income.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Expense.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Type("transfer").Validate(); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Rupiah: 0}).Validate(); err != nil {
		t.Fatalf("zero amount should be allowed, got %v", err)
	}
	if err := (Money{Rupiah: 100000}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Rupiah: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestValidCategory(t *testing.T) {
	cases := []struct {
		typ      Type
		category string
		ok       bool
	}{
		{Income, "gaji", true},
		{Income, "bonus", true},
		{Income, "lainnya", true},
		{Income, "makanan", false}, // expense category on income
		{Expense, "makanan", true},
		{Expense, "belanja", true},
		{Expense, "lainnya", true},
		{Expense, "gaji", false},
		{Expense, "unknown", false},
	}
	for i, tc := range cases {
		if got := ValidCategory(tc.typ, tc.category); got != tc.ok {
			t.Errorf("case %d: ValidCategory(%s, %s) = %v, want %v", i, tc.typ, tc.category, got, tc.ok)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-10-12")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2023 || d.Month() != 10 || d.Day() != 12 {
		t.Fatalf("parsed wrong date: %v", d)
	}
	if d.ISO() != "2023-10-12" {
		t.Fatalf("ISO() = %q, want 2023-10-12", d.ISO())
	}
	if _, err := ParseDate("12/10/2023"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:        Income,
		Amount:      Money{Rupiah: 100000},
		Category:    "gaji",
		Date:        NewDate(2023, 10, 12),
		Description: "monthly salary",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Empty description is fine.
	noDesc := good
	noDesc.Description = ""
	if err := noDesc.Validate(); err != nil {
		t.Fatalf("empty description should be allowed, got %v", err)
	}

	cases := []struct {
		name  string
		mut   func(tx *Transaction)
		field string
	}{
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, "type"},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Rupiah: -500} }, "amount"},
		{"cross-type category", func(tx *Transaction) { tx.Category = "makanan" }, "category"},
		{"missing category", func(tx *Transaction) { tx.Category = "" }, "category"},
		{"zero date", func(tx *Transaction) { tx.Date = Date{Time: time.Time{}} }, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mut(&tx)
			err := tx.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Field != tc.field {
				t.Errorf("offending field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	if !IsValidation(&ValidationError{Field: "amount", Reason: ErrNegativeAmount}) {
		t.Errorf("IsValidation should match ValidationError")
	}
	if !IsNotFound(&NotFoundError{ID: 7}) {
		t.Errorf("IsNotFound should match NotFoundError")
	}
	if IsNotFound(errors.New("other")) || IsValidation(errors.New("other")) {
		t.Errorf("predicates should not match arbitrary errors")
	}
}
