// Package forecast extrapolates next-month income and expense from the
// ledger: active fixed costs carried forward, plus the average of recent
// months' transaction totals.
//
// This is direct arithmetic, not a statistical model. There are no
// confidence intervals and no seasonality.
package forecast

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/report"
)

// DefaultWindow is how many trailing months feed the variable-spend average.
const DefaultWindow = 3

type Projector struct {
	store  ledger.Store
	agg    *report.Aggregator
	window int
}

// New creates a projector over the given store. A window below 1 falls
// back to DefaultWindow.
func New(store ledger.Store, agg *report.Aggregator, window int) *Projector {
	if window < 1 {
		window = DefaultWindow
	}
	return &Projector{store: store, agg: agg, window: window}
}

// Projection is the extrapolated totals for a single future month.
type Projection struct {
	Month   core.Month
	Income  core.Money
	Expense core.Money
}

// CategoryProjection is the extrapolated totals for one category.
type CategoryProjection struct {
	Category string
	Income   core.Money
	Expense  core.Money
}

// ProjectNextMonth extrapolates the month after the latest recorded
// transaction (or after now, for an empty ledger): active fixed costs by
// direction, plus the average of the last window months' transaction
// income and expense. With no transaction history the variable component
// is zero and fixed costs alone are projected.
func (p *Projector) ProjectNextMonth(ctx context.Context, now time.Time) (Projection, error) {
	rows, err := p.agg.MonthlyTotals(ctx, core.SourceCombined)
	if err != nil {
		return Projection{}, fmt.Errorf("monthly totals: %w", err)
	}

	target := core.MonthOf(now).Next()
	if len(rows) > 0 {
		target = rows[len(rows)-1].Month.Next()
	}

	proj := Projection{Month: target}

	if n := len(rows); n > 0 {
		w := p.window
		if w > n {
			w = n
		}
		var income, expense int64
		for _, row := range rows[n-w:] {
			income += row.Income.Cents
			expense += row.Expense.Cents
		}
		proj.Income = core.Money{Cents: income / int64(w)}
		proj.Expense = core.Money{Cents: expense / int64(w)}
	}

	fcs, err := p.store.FixedCosts(ctx)
	if err != nil {
		return Projection{}, fmt.Errorf("read fixed costs: %w", err)
	}
	for _, fc := range fcs {
		if !fc.Active || target.Before(fc.StartDate.Month()) {
			continue
		}
		if fc.Direction == core.DirectionIncome {
			proj.Income = proj.Income.Add(fc.Amount)
		} else {
			proj.Expense = proj.Expense.Add(fc.Amount)
		}
	}
	return proj, nil
}

// ProjectByCategory applies the same carry-forward-plus-average rule per
// category, so the UI can render a projected breakdown. The variable part
// averages each category's totals over the last window recorded months;
// active fixed costs contribute their full monthly amount.
func (p *Projector) ProjectByCategory(ctx context.Context, now time.Time) ([]CategoryProjection, error) {
	txs, err := p.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	months := make(map[core.Month]struct{})
	for _, tx := range txs {
		months[tx.Date.Month()] = struct{}{}
	}
	ordered := make([]core.Month, 0, len(months))
	for m := range months {
		ordered = append(ordered, m)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	target := core.MonthOf(now).Next()
	if len(ordered) > 0 {
		target = ordered[len(ordered)-1].Next()
	}

	w := p.window
	if w > len(ordered) {
		w = len(ordered)
	}
	recent := make(map[core.Month]struct{}, w)
	for _, m := range ordered[len(ordered)-w:] {
		recent[m] = struct{}{}
	}

	type sums struct{ income, expense int64 }
	byCategory := make(map[string]*sums)
	bucket := func(category string) *sums {
		s, ok := byCategory[category]
		if !ok {
			s = &sums{}
			byCategory[category] = s
		}
		return s
	}

	if w > 0 {
		for _, tx := range txs {
			if _, ok := recent[tx.Date.Month()]; !ok {
				continue
			}
			s := bucket(tx.Category)
			if tx.Kind.IsIncome() {
				s.income += tx.Amount.Cents
			} else {
				s.expense += tx.Amount.Cents
			}
		}
		for _, s := range byCategory {
			s.income /= int64(w)
			s.expense /= int64(w)
		}
	}

	fcs, err := p.store.FixedCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("read fixed costs: %w", err)
	}
	for _, fc := range fcs {
		if !fc.Active || target.Before(fc.StartDate.Month()) {
			continue
		}
		s := bucket(fc.Category)
		if fc.Direction == core.DirectionIncome {
			s.income += fc.Amount.Cents
		} else {
			s.expense += fc.Amount.Cents
		}
	}

	out := make([]CategoryProjection, 0, len(byCategory))
	for name, s := range byCategory {
		if s.income == 0 && s.expense == 0 {
			continue
		}
		out = append(out, CategoryProjection{
			Category: name,
			Income:   core.Money{Cents: s.income},
			Expense:  core.Money{Cents: s.expense},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ti := out[i].Income.Cents + out[i].Expense.Cents
		tj := out[j].Income.Cents + out[j].Expense.Cents
		if ti != tj {
			return ti > tj
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
