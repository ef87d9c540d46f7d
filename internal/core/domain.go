package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  Type = "pemasukan"
	Expense Type = "pengeluaran"
)

type (
	// Type distinguishes money coming in from money going out.
	Type string

	// Date is a calendar day; the time component is always midnight UTC.
	Date struct {
		time.Time
	}

	// Money is an amount in whole rupiah. The currency has no subunits
	// in this system, so no cents field is carried.
	Money struct {
		Rupiah int64
	}

	// Transaction is the sole ledger entity. ID is assigned by the store
	// on creation and never reused within a session.
	Transaction struct {
		ID          int64
		Type        Type
		Amount      Money
		Category    string
		Date        Date
		Description string
	}
)

var (
	ErrInvalidType     = errors.New("unknown transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrUnknownCategory = errors.New("category not allowed for type")
	ErrZeroDate        = errors.New("date cannot be zero")
	ErrTypeImmutable   = errors.New("type cannot change after creation")
)

// ValidationError reports malformed input, naming the offending field.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// NotFoundError reports an operation referencing a nonexistent transaction.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("transaction %d not found", e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Category keys per transaction type, mirroring the transaction form.
var (
	expenseCategories = []string{"makanan", "transportasi", "belanja", "tagihan", "kesehatan", "pendidikan", "hiburan", "lainnya"}
	incomeCategories  = []string{"gaji", "bonus", "lainnya"}

	categoryNames = map[string]string{
		"makanan":      "Makanan",
		"transportasi": "Transportasi",
		"belanja":      "Belanja",
		"tagihan":      "Tagihan",
		"kesehatan":    "Kesehatan",
		"pendidikan":   "Pendidikan",
		"hiburan":      "Hiburan",
		"gaji":         "Gaji",
		"bonus":        "Bonus",
		"lainnya":      "Lainnya",
	}
)

// CategoriesFor returns the allowed category keys for a transaction type.
func CategoriesFor(t Type) []string {
	switch t {
	case Income:
		return append([]string(nil), incomeCategories...)
	case Expense:
		return append([]string(nil), expenseCategories...)
	default:
		return nil
	}
}

// ValidCategory reports whether the category key belongs to the type's set.
func ValidCategory(t Type, category string) bool {
	for _, c := range CategoriesFor(t) {
		if c == category {
			return true
		}
	}
	return false
}

// CategoryDisplayName returns the human-readable name for a category key.
// Unknown keys are returned as-is, matching the history screen's behavior.
func CategoryDisplayName(key string) string {
	if name, ok := categoryNames[key]; ok {
		return name
	}
	return key
}

func (t Type) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (m Money) Validate() error {
	if m.Rupiah < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// ISO renders the date back in 2006-01-02 form for storage and transport.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// Year returns the calendar year.
func (d Date) Year() int { return d.Time.Year() }

// Month returns the calendar month, 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// SameMonth reports whether the date falls in the given year and month.
func (d Date) SameMonth(year, month int) bool {
	return d.Year() == year && d.Month() == month
}

// Validate checks every field of the transaction with the same rules the
// store applies on add and update. Description is optional and may be empty.
func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return &ValidationError{Field: "type", Reason: err}
	}
	if err := t.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Reason: err}
	}
	if !ValidCategory(t.Type, t.Category) {
		return &ValidationError{Field: "category", Reason: ErrUnknownCategory}
	}
	if err := t.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Reason: err}
	}
	if len(t.Description) > 200 {
		return &ValidationError{Field: "description", Reason: errors.New("description too long (max 200 characters)")}
	}
	return nil
}
