package report

import (
	"context"
	"testing"

	"tally/internal/core"
	"tally/internal/ledger/memory"
)

func mustAppend(t *testing.T, s *memory.Store, tx core.Transaction) {
	t.Helper()
	if _, err := s.Append(context.Background(), tx); err != nil {
		t.Fatalf("append %+v: %v", tx, err)
	}
}

func tx(kind core.TransactionKind, cents int64, category string, y, m, d int) core.Transaction {
	return core.Transaction{
		Kind:     kind,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     core.NewDate(y, m, d),
	}
}

func TestEmptyLedger(t *testing.T) {
	a := New(memory.New())
	ctx := context.Background()

	for _, src := range []core.Source{core.SourceBank, core.SourceCash, core.SourceCombined} {
		bal, err := a.Balance(ctx, src)
		if err != nil || bal.Cents != 0 {
			t.Fatalf("%s balance = %d, err=%v", src, bal.Cents, err)
		}
	}

	cats, err := a.ByCategory(ctx, core.SourceCombined, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	if err != nil || len(cats) != 0 {
		t.Fatalf("ByCategory = %v, err=%v", cats, err)
	}

	rows, err := a.MonthlyTotals(ctx, core.SourceCombined)
	if err != nil || len(rows) != 0 {
		t.Fatalf("MonthlyTotals = %v, err=%v", rows, err)
	}
}

func TestBalanceTracksSignedContributions(t *testing.T) {
	s := memory.New()
	a := New(s)
	ctx := context.Background()

	mustAppend(t, s, tx(core.BankIncome, 100000, "Salary", 2024, 1, 1))
	mustAppend(t, s, tx(core.BankExpense, 30000, "Rent", 2024, 1, 5))
	mustAppend(t, s, tx(core.CashExpense, 2500, "Food", 2024, 1, 7))
	mustAppend(t, s, tx(core.CashIncome, 1000, "Cashback", 2024, 1, 9))

	bank, _ := a.Balance(ctx, core.SourceBank)
	if bank.Cents != 70000 {
		t.Fatalf("bank balance = %d, want 70000", bank.Cents)
	}
	cash, _ := a.Balance(ctx, core.SourceCash)
	if cash.Cents != -1500 {
		t.Fatalf("cash balance = %d, want -1500", cash.Cents)
	}
	combined, _ := a.Balance(ctx, core.SourceCombined)
	if combined.Cents != bank.Cents+cash.Cents {
		t.Fatalf("combined = %d, want %d", combined.Cents, bank.Cents+cash.Cents)
	}
}

func TestByCategoryJanuaryScenario(t *testing.T) {
	s := memory.New()
	a := New(s)
	ctx := context.Background()

	mustAppend(t, s, tx(core.BankIncome, 100000, "Salary", 2024, 1, 1))
	mustAppend(t, s, tx(core.BankExpense, 30000, "Rent", 2024, 1, 5))

	cats, err := a.ByCategory(ctx, core.SourceBank, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if len(cats) != 2 || cats["Salary"].Cents != 100000 || cats["Rent"].Cents != -30000 {
		t.Fatalf("ByCategory = %v", cats)
	}
}

func TestByCategorySumsToBalance(t *testing.T) {
	s := memory.New()
	a := New(s)
	ctx := context.Background()

	mustAppend(t, s, tx(core.BankIncome, 100000, "Salary", 2024, 1, 1))
	mustAppend(t, s, tx(core.BankExpense, 30000, "Rent", 2024, 1, 5))
	mustAppend(t, s, tx(core.CashExpense, 1200, "Food", 2024, 2, 3))
	mustAppend(t, s, tx(core.CashExpense, 800, "food", 2024, 2, 4)) // distinct casing, distinct bucket

	for _, src := range []core.Source{core.SourceBank, core.SourceCash, core.SourceCombined} {
		cats, err := a.ByCategory(ctx, src, core.NewDate(2024, 1, 1), core.NewDate(2024, 2, 29))
		if err != nil {
			t.Fatalf("ByCategory(%s): %v", src, err)
		}
		var sum int64
		for _, v := range cats {
			sum += v.Cents
		}
		bal, _ := a.Balance(ctx, src)
		if sum != bal.Cents {
			t.Fatalf("%s: category sum %d != balance %d", src, sum, bal.Cents)
		}
	}
}

func TestByCategoryCaseSensitive(t *testing.T) {
	s := memory.New()
	a := New(s)
	ctx := context.Background()

	mustAppend(t, s, tx(core.CashExpense, 1200, "Food", 2024, 2, 3))
	mustAppend(t, s, tx(core.CashExpense, 800, "food", 2024, 2, 4))

	cats, _ := a.ByCategory(ctx, core.SourceCash, core.NewDate(2024, 2, 1), core.NewDate(2024, 2, 29))
	if len(cats) != 2 || cats["Food"].Cents != -1200 || cats["food"].Cents != -800 {
		t.Fatalf("case-sensitive buckets broken: %v", cats)
	}
}

func TestByCategoryIncludesFutureFixedCosts(t *testing.T) {
	s := memory.New()
	a := New(s)
	ctx := context.Background()

	mustAppend(t, s, tx(core.BankIncome, 100000, "Salary", 2024, 1, 1))
	if _, err := s.AppendFixedCost(ctx, core.FixedCost{
		Direction: core.DirectionExpense, Amount: core.Money{Cents: 50000},
		Category: "Rent", StartDate: core.NewDate(2024, 1, 1), Active: true,
	}); err != nil {
		t.Fatalf("append fixed: %v", err)
	}

	// Range covers January (has data) plus February and March (future):
	// Rent appears once per future month.
	cats, err := a.ByCategory(ctx, core.SourceCombined, core.NewDate(2024, 1, 1), core.NewDate(2024, 3, 31))
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if cats["Rent"].Cents != -100000 {
		t.Fatalf("Rent projected = %d, want -100000", cats["Rent"].Cents)
	}
	if cats["Salary"].Cents != 100000 {
		t.Fatalf("Salary = %d", cats["Salary"].Cents)
	}

	// A past-only range ignores fixed costs entirely.
	past, _ := a.ByCategory(ctx, core.SourceCombined, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	if _, ok := past["Rent"]; ok {
		t.Fatalf("past range picked up fixed costs: %v", past)
	}
}

func TestMonthlyTotalsChronological(t *testing.T) {
	s := memory.New()
	a := New(s)
	ctx := context.Background()

	mustAppend(t, s, tx(core.BankExpense, 500, "Food", 2024, 3, 2))
	mustAppend(t, s, tx(core.BankIncome, 100000, "Salary", 2024, 1, 1))
	mustAppend(t, s, tx(core.BankExpense, 30000, "Rent", 2024, 1, 5))

	rows, err := a.MonthlyTotals(ctx, core.SourceBank)
	if err != nil {
		t.Fatalf("MonthlyTotals: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Month.String() != "2024-01" || rows[1].Month.String() != "2024-03" {
		t.Fatalf("not chronological: %+v", rows)
	}
	if rows[0].Income.Cents != 100000 || rows[0].Expense.Cents != 30000 {
		t.Fatalf("january row = %+v", rows[0])
	}
	if rows[1].Income.Cents != 0 || rows[1].Expense.Cents != 500 {
		t.Fatalf("march row = %+v", rows[1])
	}
}

func TestSortedCategories(t *testing.T) {
	rows := SortedCategories(map[string]core.Money{
		"Food":   {Cents: -800},
		"Salary": {Cents: 100000},
		"Rent":   {Cents: -30000},
	})
	if rows[0].Category != "Salary" || rows[1].Category != "Rent" || rows[2].Category != "Food" {
		t.Fatalf("order = %+v", rows)
	}
}
