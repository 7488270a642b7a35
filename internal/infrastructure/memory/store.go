// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con un TxRunner que simula Commit/Rollback por snapshot. Se usa en
// las pruebas de los casos de uso; la implementación real vive en postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Store contiene todas las colecciones. Cero valor no utilizable: usar NewStore.
type Store struct {
	mu        sync.Mutex
	companies map[string]*entity.Company
	users     map[string]*entity.User
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	stock     map[string]*entity.StockItem // clave productID|locationID
	movements []*entity.StockMovement
	orders    map[string]*entity.PurchaseOrder
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		companies: make(map[string]*entity.Company),
		users:     make(map[string]*entity.User),
		products:  make(map[string]*entity.Product),
		locations: make(map[string]*entity.Location),
		stock:     make(map[string]*entity.StockItem),
		orders:    make(map[string]*entity.PurchaseOrder),
	}
}

func stockKey(productID, locationID string) string {
	return productID + "|" + locationID
}

// Repos construye el paquete de repositorios sobre el Store.
func (s *Store) Repos() stock.TxRepos {
	return stock.TxRepos{
		StockItems: s.StockItems(),
		Movements:  s.Movements(),
		Products:   s.Products(),
		Locations:  s.Locations(),
		Orders:     s.Orders(),
	}
}

func (s *Store) Companies() repository.CompanyRepository         { return &companyRepo{s} }
func (s *Store) Users() repository.UserRepository                { return &userRepo{s} }
func (s *Store) Products() repository.ProductRepository          { return &productRepo{s} }
func (s *Store) Locations() repository.LocationRepository        { return &locationRepo{s} }
func (s *Store) StockItems() repository.StockItemRepository      { return &stockItemRepo{s} }
func (s *Store) Movements() repository.StockMovementRepository   { return &movementRepo{s} }
func (s *Store) Orders() repository.PurchaseOrderRepository      { return &orderRepo{s} }

// Run implementa stock.TxRunner: toma un snapshot del estado, ejecuta fn y,
// si falla, restaura el snapshot. Emula el todo-o-nada de una transacción.
func (s *Store) Run(_ context.Context, fn func(r stock.TxRepos) error) error {
	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

var _ stock.TxRunner = (*Store)(nil)

type snapshot struct {
	stock     map[string]*entity.StockItem
	movements []*entity.StockMovement
	orders    map[string]*entity.PurchaseOrder
	locations map[string]*entity.Location
	products  map[string]*entity.Product
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		stock:     make(map[string]*entity.StockItem, len(s.stock)),
		movements: append([]*entity.StockMovement(nil), s.movements...),
		orders:    make(map[string]*entity.PurchaseOrder, len(s.orders)),
		locations: make(map[string]*entity.Location, len(s.locations)),
		products:  make(map[string]*entity.Product, len(s.products)),
	}
	for k, v := range s.stock {
		c := *v
		snap.stock[k] = &c
	}
	for k, v := range s.orders {
		snap.orders[k] = copyOrder(v)
	}
	for k, v := range s.locations {
		c := *v
		snap.locations[k] = &c
	}
	for k, v := range s.products {
		c := *v
		snap.products[k] = &c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = snap.stock
	s.movements = snap.movements
	s.orders = snap.orders
	s.locations = snap.locations
	s.products = snap.products
}

func copyOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	c.Items = append([]entity.PurchaseOrderItem(nil), o.Items...)
	return &c
}

// ── CompanyRepository ────────────────────────────────────────────────────────

type companyRepo struct{ s *Store }

func (r *companyRepo) Create(company *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *company
	r.s.companies[company.ID] = &c
	return nil
}

func (r *companyRepo) GetByID(id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

// ── UserRepository ───────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := *user
	r.s.users[user.ID] = &u
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email && u.CompanyID == companyID {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

// ── ProductRepository ────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) Create(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := *product
	r.s.products[product.ID] = &p
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (r *productRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := *product
	r.s.products[product.ID] = &p
	return nil
}

func (r *productRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, limit, offset), nil
}

func (r *productRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

// ── LocationRepository ───────────────────────────────────────────────────────

type locationRepo struct{ s *Store }

func (r *locationRepo) Create(location *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l := *location
	r.s.locations[location.ID] = &l
	return nil
}

func (r *locationRepo) GetByID(id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	out := *l
	return &out, nil
}

func (r *locationRepo) Update(location *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l := *location
	r.s.locations[location.ID] = &l
	return nil
}

func (r *locationRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error) {
	all, _ := r.ListTree(companyID)
	return paginate(all, limit, offset), nil
}

func (r *locationRepo) ListTree(companyID string) ([]*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.CompanyID == companyID {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *locationRepo) DeleteMany(ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		delete(r.s.locations, id)
	}
	return nil
}

// ── StockItemRepository ──────────────────────────────────────────────────────

type stockItemRepo struct{ s *Store }

func (r *stockItemRepo) Get(productID, locationID string) (*entity.StockItem, error) {
	return r.GetForUpdate(productID, locationID)
}

func (r *stockItemRepo) GetForUpdate(productID, locationID string) (*entity.StockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.stock[stockKey(productID, locationID)]
	if !ok {
		return &entity.StockItem{
			ProductID:  productID,
			LocationID: locationID,
			Quantity:   decimal.Zero,
		}, nil
	}
	out := *item
	return &out, nil
}

func (r *stockItemRepo) Upsert(item *entity.StockItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *item
	r.s.stock[stockKey(item.ProductID, item.LocationID)] = &c
	return nil
}

func (r *stockItemRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockItem
	for _, it := range r.s.stock {
		if it.LocationID == locationID {
			c := *it
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return paginate(out, limit, offset), nil
}

func (r *stockItemRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockItem
	for _, it := range r.s.stock {
		if it.ProductID == productID {
			c := *it
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return paginate(out, limit, offset), nil
}

func (r *stockItemRepo) AnyPositive(locationIDs []string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		ids[id] = true
	}
	for _, it := range r.s.stock {
		if ids[it.LocationID] && it.Quantity.GreaterThan(decimal.Zero) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stockItemRepo) DeleteByLocations(locationIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		ids[id] = true
	}
	for k, it := range r.s.stock {
		if ids[it.LocationID] {
			delete(r.s.stock, k)
		}
	}
	return nil
}

// ── StockMovementRepository ──────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := *movement
	r.s.movements = append(r.s.movements, &m)
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			out := *m
			return &out, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.ProductID == productID }, from, to, limit, offset)
}

func (r *movementRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool {
		return m.LocationID == locationID || m.FromLocationID == locationID || m.ToLocationID == locationID
	}, from, to, limit, offset)
}

func (r *movementRepo) list(match func(*entity.StockMovement) bool, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if !match(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return paginate(out, limit, offset), nil
}

// ── PurchaseOrderRepository ──────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(order *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *orderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r *orderRepo) GetByIDForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(id)
}

func (r *orderRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}

func (r *orderRepo) UpdateItem(item *entity.PurchaseOrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[item.OrderID]
	if !ok {
		return nil
	}
	for i := range o.Items {
		if o.Items[i].ID == item.ID {
			o.Items[i] = *item
			return nil
		}
	}
	return nil
}

func (r *orderRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseOrder
	for _, o := range r.s.orders {
		if o.CompanyID != companyID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, copyOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return paginate(out, limit, offset), nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
