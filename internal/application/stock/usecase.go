package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase ajustes y transferencias de stock de forma transaccional, con
// bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback vía TxRunner.
// Las cantidades son enteras; se validan en la frontera.
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	stockRepo    repository.StockItemRepository
	movementRepo repository.StockMovementRepository
}

// NewUseCase construye el caso de uso. Los repos fuera de TxRepos se usan
// sólo para validaciones y consultas de lectura.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	stockRepo repository.StockItemRepository,
	movementRepo repository.StockMovementRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
	}
}

// validQuantity exige magnitud entera y estrictamente positiva.
func validQuantity(q decimal.Decimal) bool {
	return q.GreaterThan(decimal.Zero) && q.IsInteger()
}

// resolveProduct busca el producto por ID o por SKU de la empresa.
func (uc *UseCase) resolveProduct(companyID, productID, sku string) (*entity.Product, error) {
	var product *entity.Product
	var err error
	switch {
	case productID != "":
		product, err = uc.productRepo.GetByID(productID)
	case sku != "":
		product, err = uc.productRepo.GetByCompanyAndSKU(companyID, sku)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// resolveLocation valida que la ubicación exista y sea de la empresa.
func (uc *UseCase) resolveLocation(companyID, locationID string) (*entity.Location, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	loc, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrLocationNotFound
	}
	return loc, nil
}

// Adjust registra una entrada (in) o salida (out) de stock: en una sola
// transacción bloquea la fila, aplica el delta, rechaza resultados negativos
// y anota exactamente un movimiento de auditoría. No reintenta: el caller
// decide qué hacer ante INSUFFICIENT_STOCK.
func (uc *UseCase) Adjust(ctx context.Context, companyID, userID string, in dto.AdjustStockRequest) error {
	if in.Type != entity.MovementTypeIn && in.Type != entity.MovementTypeOut {
		return domain.ErrInvalidInput
	}
	if !validQuantity(in.Quantity) {
		return domain.ErrInvalidInput
	}
	product, err := uc.resolveProduct(companyID, in.ProductID, in.SKU)
	if err != nil {
		return err
	}
	if _, err := uc.resolveLocation(companyID, in.LocationID); err != nil {
		return err
	}

	delta := in.Quantity
	if in.Type == entity.MovementTypeOut {
		delta = in.Quantity.Neg()
	}
	now := time.Now()
	mov := &entity.StockMovement{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ProductID:  product.ID,
		LocationID: in.LocationID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
		CreatedAt:  now,
		CreatedBy:  userID,
	}
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		return Apply(r, now,
			[]Delta{{ProductID: product.ID, LocationID: in.LocationID, Quantity: delta}},
			[]*entity.StockMovement{mov})
	})
}

// Transfer mueve una cantidad positiva entre dos ubicaciones de la empresa en
// una sola transacción: resta en origen (con verificación de suficiencia),
// suma en destino y registra UN movimiento transfer que referencia ambas.
// La cantidad total se conserva.
func (uc *UseCase) Transfer(ctx context.Context, companyID, userID string, in dto.TransferStockRequest) error {
	if !validQuantity(in.Quantity) {
		return domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return domain.ErrSameLocation
	}
	product, err := uc.resolveProduct(companyID, in.ProductID, "")
	if err != nil {
		return err
	}
	if _, err := uc.resolveLocation(companyID, in.FromLocationID); err != nil {
		return err
	}
	if _, err := uc.resolveLocation(companyID, in.ToLocationID); err != nil {
		return err
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		ProductID:      product.ID,
		LocationID:     in.ToLocationID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Type:           entity.MovementTypeTransfer,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
		CreatedAt:      now,
		CreatedBy:      userID,
	}
	// El origen va primero: la verificación de suficiencia corta antes de
	// tocar el destino.
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		return Apply(r, now,
			[]Delta{
				{ProductID: product.ID, LocationID: in.FromLocationID, Quantity: in.Quantity.Neg()},
				{ProductID: product.ID, LocationID: in.ToLocationID, Quantity: in.Quantity},
			},
			[]*entity.StockMovement{mov})
	})
}

// ListByLocation lista el stock de una ubicación de la empresa.
func (uc *UseCase) ListByLocation(companyID, locationID string, limit, offset int) (*dto.StockListResponse, error) {
	if _, err := uc.resolveLocation(companyID, locationID); err != nil {
		return nil, err
	}
	list, err := uc.stockRepo.ListByLocation(locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toStockListResponse(list, limit, offset), nil
}

// ListByProduct lista el stock de un producto en todas sus ubicaciones.
func (uc *UseCase) ListByProduct(companyID, productID string, limit, offset int) (*dto.StockListResponse, error) {
	if _, err := uc.resolveProduct(companyID, productID, ""); err != nil {
		return nil, err
	}
	list, err := uc.stockRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toStockListResponse(list, limit, offset), nil
}

// Movements historial de movimientos de un producto en un rango de fechas.
func (uc *UseCase) Movements(companyID, productID string, from, to *time.Time, limit, offset int) (*dto.MovementListResponse, error) {
	if _, err := uc.resolveProduct(companyID, productID, ""); err != nil {
		return nil, err
	}
	list, err := uc.movementRepo.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementResponse{
			ID:             m.ID,
			ProductID:      m.ProductID,
			LocationID:     m.LocationID,
			FromLocationID: m.FromLocationID,
			ToLocationID:   m.ToLocationID,
			Type:           m.Type,
			Quantity:       m.Quantity,
			Reference:      m.Reference,
			Notes:          m.Notes,
			CreatedAt:      m.CreatedAt,
			CreatedBy:      m.CreatedBy,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toStockListResponse(list []*entity.StockItem, limit, offset int) *dto.StockListResponse {
	items := make([]dto.StockItemResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.StockItemResponse{
			ProductID:  s.ProductID,
			LocationID: s.LocationID,
			Quantity:   s.Quantity,
			UpdatedAt:  s.UpdatedAt,
		})
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}
