package core

import (
	"errors"
	"strings"
	"time"
)

const (
	BankIncome  TransactionKind = "bank_income"
	BankExpense TransactionKind = "bank_expense"
	CashIncome  TransactionKind = "cash_income"
	CashExpense TransactionKind = "cash_expense"
)

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

const (
	SourceBank     Source = "bank"
	SourceCash     Source = "cash"
	SourceCombined Source = "combined"
)

type (
	// TransactionKind tags a transaction with its source (bank or cash)
	// and its direction. The stored amount is always positive; the kind
	// decides the sign of its contribution to a balance.
	TransactionKind string

	// Direction is the income/expense axis of a fixed cost.
	Direction string

	// Source is the filter dimension over transactions.
	Source string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID       int64
		Kind     TransactionKind
		Amount   Money
		Category string
		Date     Date
		Note     string
	}

	// FixedCost is a recurring monthly income or expense entry. It is
	// deactivated rather than removed so past projections stay explainable.
	FixedCost struct {
		ID        int64
		Direction Direction
		Amount    Money
		Category  string
		StartDate Date
		Active    bool
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidDate      = errors.New("invalid date")
	ErrNotFound         = errors.New("record not found")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the calendar month this date falls in.
func (d Date) Month() Month {
	y, m, _ := d.Time.Date()
	return Month{Year: y, Month: m}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (k TransactionKind) Validate() error {
	switch k {
	case BankIncome, BankExpense, CashIncome, CashExpense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// Source returns the bank/cash axis of the kind.
func (k TransactionKind) Source() Source {
	switch k {
	case BankIncome, BankExpense:
		return SourceBank
	default:
		return SourceCash
	}
}

// IsIncome reports whether the kind contributes positively to a balance.
func (k TransactionKind) IsIncome() bool {
	return k == BankIncome || k == CashIncome
}

func (d Direction) Validate() error {
	switch d {
	case DirectionIncome, DirectionExpense:
		return nil
	default:
		return ErrInvalidDirection
	}
}

func (s Source) Validate() error {
	switch s {
	case SourceBank, SourceCash, SourceCombined:
		return nil
	default:
		return errors.New("invalid source")
	}
}

// Matches reports whether a transaction of the given kind belongs to
// this source filter.
func (s Source) Matches(k TransactionKind) bool {
	return s == SourceCombined || s == k.Source()
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Category) > 100 {
		return errors.New("category too long (max 100 characters)")
	}
	if len(t.Note) > 200 {
		return errors.New("note too long (max 200 characters)")
	}
	return t.Date.Validate()
}

// Signed returns the transaction's contribution to a balance:
// +amount for income kinds, -amount for expense kinds.
func (t Transaction) Signed() Money {
	if t.Kind.IsIncome() {
		return t.Amount
	}
	return t.Amount.Neg()
}

func (f FixedCost) Validate() error {
	if err := f.Direction.Validate(); err != nil {
		return err
	}
	if err := f.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(f.Category) == "" {
		return ErrEmptyCategory
	}
	if len(f.Category) > 100 {
		return errors.New("category too long (max 100 characters)")
	}
	return f.StartDate.Validate()
}

// Signed returns the fixed cost's monthly contribution to a balance.
func (f FixedCost) Signed() Money {
	if f.Direction == DirectionIncome {
		return f.Amount
	}
	return f.Amount.Neg()
}
