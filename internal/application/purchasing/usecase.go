package purchasing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/purchase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase órdenes de compra: creación, ciclo de estados y recepción.
// La recepción es el único camino autorizado para recibir mercancía; compone
// el motor de stock (stock.Apply) con la derivación pura de estado
// (purchase.DeriveStatus) dentro de una sola transacción.
type UseCase struct {
	txRunner    stock.TxRunner
	orderRepo   repository.PurchaseOrderRepository
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner stock.TxRunner, orderRepo repository.PurchaseOrderRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{txRunner: txRunner, orderRepo: orderRepo, productRepo: productRepo}
}

// Create crea una orden en estado draft con sus líneas. Cada línea exige un
// producto de la empresa y cantidad entera positiva.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if strings.TrimSpace(in.Supplier) == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Items))
	items := make([]entity.PurchaseOrderItem, 0, len(in.Items))
	orderID := uuid.New().String()
	for _, it := range in.Items {
		if !it.Quantity.GreaterThan(decimal.Zero) || !it.Quantity.IsInteger() {
			return nil, domain.ErrInvalidInput
		}
		if seen[it.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrProductNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		items = append(items, entity.PurchaseOrderItem{
			ID:                uuid.New().String(),
			OrderID:           orderID,
			ProductID:         it.ProductID,
			Quantity:          it.Quantity,
			ReceivedQuantity:  decimal.Zero,
			RemainingQuantity: it.Quantity,
		})
	}
	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:          orderID,
		CompanyID:   companyID,
		OrderNumber: "PO-" + strings.ToUpper(orderID[:8]),
		Supplier:    in.Supplier,
		Status:      entity.OrderStatusDraft,
		Notes:       in.Notes,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
	}
	// Cabecera + ítems en la misma transacción.
	err := uc.txRunner.Run(ctx, func(r stock.TxRepos) error {
		return r.Orders.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByID obtiene una orden de la empresa con sus líneas.
func (uc *UseCase) GetByID(companyID, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toOrderResponse(order), nil
}

// List lista órdenes de la empresa, opcionalmente filtradas por estado.
func (uc *UseCase) List(companyID, status string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.ListByCompany(companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// MarkOrdered pasa una orden de draft a ordered (se envió al proveedor).
func (uc *UseCase) MarkOrdered(ctx context.Context, companyID, id string) error {
	return uc.changeStatus(ctx, companyID, id, entity.OrderStatusOrdered, func(status string) bool {
		return status == entity.OrderStatusDraft
	})
}

// Cancel cancela una orden no terminal por acción explícita del usuario.
func (uc *UseCase) Cancel(ctx context.Context, companyID, id string) error {
	return uc.changeStatus(ctx, companyID, id, entity.OrderStatusCancelled, purchase.CanCancel)
}

// Archive archiva una orden (también las ya recibidas).
func (uc *UseCase) Archive(ctx context.Context, companyID, id string) error {
	return uc.changeStatus(ctx, companyID, id, entity.OrderStatusArchived, purchase.CanArchive)
}

func (uc *UseCase) changeStatus(ctx context.Context, companyID, id, target string, allowed func(string) bool) error {
	return uc.txRunner.Run(ctx, func(r stock.TxRepos) error {
		order, err := r.Orders.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if order.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if !allowed(order.Status) {
			return domain.ErrConflict
		}
		return r.Orders.UpdateStatus(order.ID, target, time.Now())
	})
}

// Receive procesa una o más recepciones sobre una orden en una sola
// transacción: bloquea la cabecera, valida 0 < cantidad ≤ pendiente por línea,
// actualiza recibido/pendiente, incrementa el stock de la ubicación destino a
// través de stock.Apply (un movimiento "in" por recepción) y recalcula el
// estado de la orden con purchase.DeriveStatus. Todo o nada: una línea
// inválida deshace la recepción completa.
func (uc *UseCase) Receive(ctx context.Context, companyID, userID, orderID string, in dto.ReceiveOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.OrderResponse
	err := uc.txRunner.Run(ctx, func(r stock.TxRepos) error {
		order, err := r.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if order.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if !purchase.CanReceive(order.Status) {
			return domain.ErrOrderNotReceivable
		}

		now := time.Now()
		deltas := make([]stock.Delta, 0, len(in.Items))
		movements := make([]*entity.StockMovement, 0, len(in.Items))
		for _, receipt := range in.Items {
			if !receipt.Quantity.GreaterThan(decimal.Zero) || !receipt.Quantity.IsInteger() {
				return domain.ErrInvalidInput
			}
			loc, err := r.Locations.GetByID(receipt.LocationID)
			if err != nil {
				return err
			}
			if loc == nil || loc.CompanyID != companyID {
				return domain.ErrLocationNotFound
			}
			item := findItem(order.Items, receipt.ProductID)
			if item == nil {
				return domain.ErrOrderItemNotFound
			}
			if receipt.Quantity.GreaterThan(item.RemainingQuantity) {
				return domain.ErrOverReceipt
			}
			item.ReceivedQuantity = item.ReceivedQuantity.Add(receipt.Quantity)
			item.RemainingQuantity = purchase.Remaining(item.Quantity, item.ReceivedQuantity)
			if err := r.Orders.UpdateItem(item); err != nil {
				return err
			}
			deltas = append(deltas, stock.Delta{
				ProductID:  receipt.ProductID,
				LocationID: receipt.LocationID,
				Quantity:   receipt.Quantity,
			})
			movements = append(movements, &entity.StockMovement{
				ID:         uuid.New().String(),
				CompanyID:  companyID,
				ProductID:  receipt.ProductID,
				LocationID: receipt.LocationID,
				Type:       entity.MovementTypeIn,
				Quantity:   receipt.Quantity,
				Reference:  order.OrderNumber,
				CreatedAt:  now,
				CreatedBy:  userID,
			})
		}

		if err := stock.Apply(r, now, deltas, movements); err != nil {
			return err
		}

		newStatus := purchase.DeriveStatus(order.Status, order.Items)
		if newStatus != order.Status {
			if err := r.Orders.UpdateStatus(order.ID, newStatus, now); err != nil {
				return err
			}
			order.Status = newStatus
		}
		order.UpdatedAt = now
		out = toOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func findItem(items []entity.PurchaseOrderItem, productID string) *entity.PurchaseOrderItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}

func toOrderResponse(o *entity.PurchaseOrder) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:                it.ID,
			ProductID:         it.ProductID,
			Quantity:          it.Quantity,
			ReceivedQuantity:  it.ReceivedQuantity,
			RemainingQuantity: it.RemainingQuantity,
		})
	}
	return &dto.OrderResponse{
		ID:          o.ID,
		CompanyID:   o.CompanyID,
		OrderNumber: o.OrderNumber,
		Supplier:    o.Supplier,
		Status:      o.Status,
		Notes:       o.Notes,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
