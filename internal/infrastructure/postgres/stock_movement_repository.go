package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del log de movimientos sobre PostgreSQL
// (usable con pool o tx). Sólo inserta y lista.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, product_id, location_id, from_location_id, to_location_id, type, quantity, reference, notes, created_at, created_by`

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ProductID, movement.LocationID,
		nullable(movement.FromLocationID), nullable(movement.ToLocationID),
		movement.Type, movement.Quantity, nullable(movement.Reference),
		nullable(movement.Notes), movement.CreatedAt, nullable(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	return r.listFiltered(query, productID, from, to, limit, offset)
}

// ListByLocation lista movimientos que tocan una ubicación, como destino
// directo o como origen/destino de una transferencia.
func (r *StockMovementRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE (location_id = $1 OR from_location_id = $1 OR to_location_id = $1)`
	return r.listFiltered(query, locationID, from, to, limit, offset)
}

func (r *StockMovementRepo) listFiltered(query, key string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	args := []any{key}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var fromLoc, toLoc, reference, notes, createdBy *string
	if err := row.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.LocationID,
		&fromLoc, &toLoc, &m.Type, &m.Quantity, &reference, &notes,
		&m.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	m.FromLocationID = deref(fromLoc)
	m.ToLocationID = deref(toLoc)
	m.Reference = deref(reference)
	m.Notes = deref(notes)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}
