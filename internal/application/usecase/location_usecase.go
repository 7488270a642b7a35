package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LocationUseCase CRUD del árbol de ubicaciones y borrado en cascada.
type LocationUseCase struct {
	txRunner  stock.TxRunner
	repo      repository.LocationRepository
	stockRepo repository.StockItemRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(txRunner stock.TxRunner, repo repository.LocationRepository, stockRepo repository.StockItemRepository) *LocationUseCase {
	return &LocationUseCase{txRunner: txRunner, repo: repo, stockRepo: stockRepo}
}

// childType tipo de hijo válido para cada tipo de padre.
var childType = map[string]string{
	entity.LocationTypeWarehouse: entity.LocationTypeCorridor,
	entity.LocationTypeCorridor:  entity.LocationTypeShelf,
}

// Create crea un nodo del árbol. Una bodega no lleva padre; pasillos y
// estantes exigen un padre del tipo inmediatamente superior.
func (uc *LocationUseCase) Create(companyID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	switch in.Type {
	case entity.LocationTypeWarehouse:
		if in.ParentID != "" {
			return nil, domain.ErrInvalidInput
		}
	case entity.LocationTypeCorridor, entity.LocationTypeShelf:
		if in.ParentID == "" {
			return nil, domain.ErrInvalidInput
		}
		parent, err := uc.repo.GetByID(in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.CompanyID != companyID {
			return nil, domain.ErrLocationNotFound
		}
		if childType[parent.Type] != in.Type {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ParentID:  in.ParentID,
		Code:      in.Code,
		Name:      in.Name,
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByID obtiene una ubicación de la empresa.
func (uc *LocationUseCase) GetByID(companyID, id string) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrLocationNotFound
	}
	return toLocationResponse(loc), nil
}

// Update renombra una ubicación (el tipo y el padre no cambian).
func (uc *LocationUseCase) Update(companyID, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrLocationNotFound
	}
	if in.Code != nil {
		loc.Code = *in.Code
	}
	if in.Name != nil {
		loc.Name = *in.Name
	}
	loc.UpdatedAt = time.Now()
	if err := uc.repo.Update(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// List lista ubicaciones de la empresa con paginación.
func (uc *LocationUseCase) List(companyID string, limit, offset int) (*dto.LocationListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Tree devuelve el árbol completo de la empresa sin paginar.
func (uc *LocationUseCase) Tree(companyID string) ([]dto.LocationResponse, error) {
	list, err := uc.repo.ListTree(companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return items, nil
}

// DeleteCascade borra una ubicación junto con toda su descendencia (bodega →
// pasillos → estantes) en una sola transacción. Si cualquier ubicación de la
// clausura tiene stock > 0 se rechaza completo: no hay borrado parcial.
func (uc *LocationUseCase) DeleteCascade(ctx context.Context, companyID, id string) (*dto.DeleteLocationResponse, error) {
	var deleted int
	err := uc.txRunner.Run(ctx, func(r stock.TxRepos) error {
		all, err := r.Locations.ListTree(companyID)
		if err != nil {
			return err
		}
		closure := descendantClosure(all, id)
		if len(closure) == 0 {
			return domain.ErrLocationNotFound
		}
		hasStock, err := r.StockItems.AnyPositive(closure)
		if err != nil {
			return err
		}
		if hasStock {
			return domain.ErrLocationHasStock
		}
		// Filas de stock en cero de la clausura se limpian junto con las
		// ubicaciones.
		if err := r.StockItems.DeleteByLocations(closure); err != nil {
			return err
		}
		if err := r.Locations.DeleteMany(closure); err != nil {
			return err
		}
		deleted = len(closure)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.DeleteLocationResponse{
		Success: true,
		Message: fmt.Sprintf("%d ubicaciones eliminadas", deleted),
		Deleted: deleted,
	}, nil
}

// descendantClosure calcula la clausura de descendientes de rootID (incluido)
// recorriendo los punteros a padre del árbol completo de la empresa. Devuelve
// vacío si rootID no está en el árbol.
func descendantClosure(all []*entity.Location, rootID string) []string {
	found := false
	children := make(map[string][]string, len(all))
	for _, l := range all {
		if l.ID == rootID {
			found = true
		}
		if l.ParentID != "" {
			children[l.ParentID] = append(children[l.ParentID], l.ID)
		}
	}
	if !found {
		return nil
	}
	closure := []string{rootID}
	for i := 0; i < len(closure); i++ {
		closure = append(closure, children[closure[i]]...)
	}
	return closure
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:        l.ID,
		CompanyID: l.CompanyID,
		ParentID:  l.ParentID,
		Code:      l.Code,
		Name:      l.Name,
		Type:      l.Type,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
