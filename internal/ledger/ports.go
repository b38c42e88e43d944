package ledger

import (
	"context"

	"tally/internal/core"
)

// Store is the port every ledger backend implements. A store owns all
// transaction and fixed-cost records for one session; it is never shared
// across sessions.
//
// Append operations validate before mutating: a rejected record leaves
// the store unchanged.
type Store interface {
	// Append validates and stores a transaction, assigning its ID.
	Append(ctx context.Context, tx core.Transaction) (int64, error)

	// AppendFixedCost validates and stores a fixed cost, assigning its ID.
	AppendFixedCost(ctx context.Context, fc core.FixedCost) (int64, error)

	// Deactivate sets Active=false on the fixed cost with the given ID.
	// Returns core.ErrNotFound if no such fixed cost exists.
	Deactivate(ctx context.Context, id int64) error

	// Transactions returns all transactions in insertion order.
	Transactions(ctx context.Context) ([]core.Transaction, error)

	// FixedCosts returns all fixed costs in insertion order, including
	// deactivated ones.
	FixedCosts(ctx context.Context) ([]core.FixedCost, error)
}
