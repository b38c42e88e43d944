// Package report computes derived views over a ledger store: balances,
// category breakdowns and monthly totals.
//
// Every query is a full synchronous pass over the current records. Nothing
// is cached; two identical calls against an unchanged store return
// identical results.
package report

import (
	"context"
	"fmt"
	"sort"

	"tally/internal/core"
	"tally/internal/ledger"
)

type Aggregator struct {
	store ledger.Store
}

func New(store ledger.Store) *Aggregator {
	return &Aggregator{store: store}
}

// MonthTotal is one row of the monthly trend: total income and total
// expense (both positive cents) for a single calendar month.
type MonthTotal struct {
	Month   core.Month
	Income  core.Money
	Expense core.Money
}

// CategoryTotal pairs a category name with its signed total.
type CategoryTotal struct {
	Category string
	Total    core.Money
}

// Balance returns the signed sum over all transactions matching the
// source: income amounts minus expense amounts.
func (a *Aggregator) Balance(ctx context.Context, src core.Source) (core.Money, error) {
	if err := src.Validate(); err != nil {
		return core.Money{}, err
	}
	txs, err := a.store.Transactions(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("read transactions: %w", err)
	}
	var total core.Money
	for _, tx := range txs {
		if src.Matches(tx.Kind) {
			total = total.Add(tx.Signed())
		}
	}
	return total, nil
}

// ByCategory groups transactions in [from, to] by category and returns
// category -> signed total for the requested source.
//
// Category names are case-sensitive and never normalized: "rent" and
// "Rent" are distinct buckets.
//
// When the range reaches past the last recorded transaction month, each
// active fixed cost contributes one monthly occurrence per covered future
// month (from its start month onward). Past-only ranges are computed from
// transactions alone.
func (a *Aggregator) ByCategory(ctx context.Context, src core.Source, from, to core.Date) (map[string]core.Money, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	txs, err := a.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	totals := make(map[string]core.Money)
	var lastMonth core.Month
	for _, tx := range txs {
		if m := tx.Date.Month(); lastMonth.IsZero() || m.After(lastMonth) {
			lastMonth = m
		}
		if !src.Matches(tx.Kind) {
			continue
		}
		if tx.Date.Before(from.Time) || tx.Date.After(to.Time) {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Signed())
	}

	// First month the range covers that no transaction can reach.
	futureStart := from.Month()
	if !lastMonth.IsZero() {
		futureStart = lastMonth.Next()
		if futureStart.Before(from.Month()) {
			futureStart = from.Month()
		}
	}
	if to.Month().Before(futureStart) {
		return totals, nil
	}

	fcs, err := a.store.FixedCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("read fixed costs: %w", err)
	}
	for m := futureStart; !m.After(to.Month()); m = m.Next() {
		for _, fc := range fcs {
			if !fc.Active || m.Before(fc.StartDate.Month()) {
				continue
			}
			totals[fc.Category] = totals[fc.Category].Add(fc.Signed())
		}
	}
	return totals, nil
}

// MonthlyTotals returns one row per month that has at least one matching
// transaction, in chronological order.
func (a *Aggregator) MonthlyTotals(ctx context.Context, src core.Source) ([]MonthTotal, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	txs, err := a.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	byMonth := make(map[core.Month]*MonthTotal)
	for _, tx := range txs {
		if !src.Matches(tx.Kind) {
			continue
		}
		m := tx.Date.Month()
		row, ok := byMonth[m]
		if !ok {
			row = &MonthTotal{Month: m}
			byMonth[m] = row
		}
		if tx.Kind.IsIncome() {
			row.Income = row.Income.Add(tx.Amount)
		} else {
			row.Expense = row.Expense.Add(tx.Amount)
		}
	}

	out := make([]MonthTotal, 0, len(byMonth))
	for _, row := range byMonth {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

// SortedCategories flattens a ByCategory result into rows ordered by
// descending absolute total, ties broken by name. Rendering helper.
func SortedCategories(totals map[string]core.Money) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, CategoryTotal{Category: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].Total.Cents, out[j].Total.Cents
		if ai < 0 {
			ai = -ai
		}
		if aj < 0 {
			aj = -aj
		}
		if ai != aj {
			return ai > aj
		}
		return out[i].Category < out[j].Category
	})
	return out
}
