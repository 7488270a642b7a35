package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almacen-api/internal/application/stock"
)

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, construye los repositorios atados a la tx y
// ejecuta fn. Commit si fn retorna nil, Rollback en caso contrario.
func (r *TxRunner) Run(ctx context.Context, fn func(repos stock.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := stock.TxRepos{
		StockItems: NewStockItemRepository(tx),
		Movements:  NewStockMovementRepository(tx),
		Products:   NewProductRepository(tx),
		Locations:  NewLocationRepository(tx),
		Orders:     NewPurchaseOrderRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
