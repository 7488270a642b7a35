package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL
// (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Get obtiene el stock actual de un producto en una ubicación. Si la fila no
// existe devuelve cantidad cero para la clave pedida.
func (r *StockItemRepo) Get(productID, locationID string) (*entity.StockItem, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock_items WHERE product_id = $1 AND location_id = $2`
	var s entity.StockItem
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockItem{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
func (r *StockItemRepo) GetForUpdate(productID, locationID string) (*entity.StockItem, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock_items WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	var s entity.StockItem
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockItem{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad (por producto y ubicación).
func (r *StockItemRepo) Upsert(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, item.ProductID, item.LocationID, item.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock item: %w", err)
	}
	return nil
}

// ListByLocation lista el stock de una ubicación con paginación.
func (r *StockItemRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockItem, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock_items WHERE location_id = $1 ORDER BY product_id LIMIT $2 OFFSET $3`
	return r.list(query, locationID, limit, offset)
}

// ListByProduct lista el stock de un producto en todas sus ubicaciones.
func (r *StockItemRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockItem, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock_items WHERE product_id = $1 ORDER BY location_id LIMIT $2 OFFSET $3`
	return r.list(query, productID, limit, offset)
}

func (r *StockItemRepo) list(query, key string, limit, offset int) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(context.Background(), query, key, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		var s entity.StockItem
		if err := rows.Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// AnyPositive informa si alguna de las ubicaciones tiene stock > 0.
func (r *StockItemRepo) AnyPositive(locationIDs []string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM stock_items
			 WHERE location_id = ANY($1)
			   AND quantity > 0
		)`
	var any bool
	if err := r.q.QueryRow(context.Background(), query, locationIDs).Scan(&any); err != nil {
		return false, fmt.Errorf("check stock in locations: %w", err)
	}
	return any, nil
}

// DeleteByLocations elimina las filas de stock de un lote de ubicaciones.
func (r *StockItemRepo) DeleteByLocations(locationIDs []string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_items WHERE location_id = ANY($1)`, locationIDs)
	if err != nil {
		return fmt.Errorf("delete stock items by locations: %w", err)
	}
	return nil
}
