package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del árbol de ubicaciones sobre PostgreSQL
// (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, company_id, parent_id, code, name, type, created_at, updated_at`

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(location *entity.Location) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.CompanyID, nullable(location.ParentID),
		location.Code, location.Name, location.Type,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	var l entity.Location
	var parentID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.CompanyID, &parentID, &l.Code, &l.Name, &l.Type,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	l.ParentID = deref(parentID)
	return &l, nil
}

// Update actualiza código y nombre de una ubicación.
func (r *LocationRepo) Update(location *entity.Location) error {
	query := `
		UPDATE locations SET code = $2, name = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.Code, location.Name, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// ListByCompany lista ubicaciones por empresa con paginación.
func (r *LocationRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations
		WHERE company_id = $1 ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return collectLocations(rows)
}

// ListTree devuelve todas las ubicaciones de la empresa sin paginar.
func (r *LocationRepo) ListTree(companyID string) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations
		WHERE company_id = $1 ORDER BY code`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list location tree: %w", err)
	}
	return collectLocations(rows)
}

// DeleteMany elimina un lote de ubicaciones en una sola sentencia.
func (r *LocationRepo) DeleteMany(ids []string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM locations WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete locations: %w", err)
	}
	return nil
}

func collectLocations(rows pgx.Rows) ([]*entity.Location, error) {
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		var parentID *string
		if err := rows.Scan(&l.ID, &l.CompanyID, &parentID, &l.Code, &l.Name, &l.Type,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		l.ParentID = deref(parentID)
		list = append(list, &l)
	}
	return list, rows.Err()
}
