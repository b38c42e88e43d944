// Package seed provides the category taxonomy offered in entry forms and
// a deterministic demo ledger for fresh sessions.
package seed

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tally/internal/core"
	"tally/internal/ledger"
)

// defaultCategories mirrors the taxonomy the tracker shipped with.
var defaultCategories = []string{
	"Salary", "Cashback", "Other Income", "Family Support",
	"Food", "Groceries", "Rent", "Utility", "Subscription",
	"Petrol", "Travel", "Entertainment", "Clothes",
	"Medical Expenses", "Charity", "Self Care", "Bank charge",
	"Saving/Investment", "Miscellaneous Spending",
}

// Categories reads the taxonomy from <dir>/categories.txt, one name per
// line, '#' for comments. A missing or empty file falls back to the
// built-in list.
func Categories(dir string) []string {
	cats := readLines(filepath.Join(dir, "categories.txt"))
	if len(cats) == 0 {
		cats = append([]string(nil), defaultCategories...)
	}
	return cats
}

// Demo bulk-appends a small sample ledger into a fresh store: two months
// of bank and cash activity plus two fixed costs. It is a plain sequence
// of Append calls, not a persistence mechanism.
func Demo(ctx context.Context, store ledger.Store) error {
	txs := []core.Transaction{
		{Kind: core.BankIncome, Amount: core.Money{Cents: 250000}, Category: "Salary", Date: core.NewDate(2024, 1, 1), Note: "January payroll"},
		{Kind: core.BankExpense, Amount: core.Money{Cents: 80000}, Category: "Rent", Date: core.NewDate(2024, 1, 3)},
		{Kind: core.BankExpense, Amount: core.Money{Cents: 12500}, Category: "Groceries", Date: core.NewDate(2024, 1, 9)},
		{Kind: core.CashExpense, Amount: core.Money{Cents: 4200}, Category: "Food", Date: core.NewDate(2024, 1, 14), Note: "lunch out"},
		{Kind: core.BankIncome, Amount: core.Money{Cents: 250000}, Category: "Salary", Date: core.NewDate(2024, 2, 1), Note: "February payroll"},
		{Kind: core.BankExpense, Amount: core.Money{Cents: 80000}, Category: "Rent", Date: core.NewDate(2024, 2, 3)},
		{Kind: core.BankExpense, Amount: core.Money{Cents: 9900}, Category: "Subscription", Date: core.NewDate(2024, 2, 5)},
		{Kind: core.CashIncome, Amount: core.Money{Cents: 3000}, Category: "Cashback", Date: core.NewDate(2024, 2, 11)},
		{Kind: core.CashExpense, Amount: core.Money{Cents: 6700}, Category: "Groceries", Date: core.NewDate(2024, 2, 18)},
	}
	for _, tx := range txs {
		if _, err := store.Append(ctx, tx); err != nil {
			return fmt.Errorf("seed transaction %q: %w", tx.Category, err)
		}
	}

	fixed := []core.FixedCost{
		{Direction: core.DirectionExpense, Amount: core.Money{Cents: 80000}, Category: "Rent", StartDate: core.NewDate(2024, 1, 1), Active: true},
		{Direction: core.DirectionExpense, Amount: core.Money{Cents: 9900}, Category: "Subscription", StartDate: core.NewDate(2024, 2, 1), Active: true},
	}
	for _, fc := range fixed {
		if _, err := store.AppendFixedCost(ctx, fc); err != nil {
			return fmt.Errorf("seed fixed cost %q: %w", fc.Category, err)
		}
	}
	return nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	// Input order is preserved; the form renders names as given.
	return out
}
