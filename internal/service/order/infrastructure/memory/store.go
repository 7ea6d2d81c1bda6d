// internal/service/order/infrastructure/memory/store.go

// Package memory 是存储网关的内存实现，模拟数据库的行级排他锁与事务语义：
// FindByIDForUpdate 在已被其他事务锁住的商品行上阻塞，写操作先暂存在
// 事务内，提交时一次性生效，回滚则整体丢弃。测试与本地运行使用它来
// 复现加锁读的串行化行为，不需要真实的 MySQL。
package memory

import (
	"context"
	"sync"
	"time"

	"tienda/internal/service/order/domain"
)

// Store 持有已提交的数据和每个商品行的锁。
type Store struct {
	mu       sync.Mutex
	orders   map[uint]domain.Order
	details  map[uint]domain.OrderDetail
	products map[uint]domain.Product
	rowLocks map[uint]*sync.Mutex

	nextOrderID   uint
	nextDetailID  uint
	nextProductID uint
}

// NewStore 创建一个空的内存存储。
func NewStore() *Store {
	return &Store{
		orders:   make(map[uint]domain.Order),
		details:  make(map[uint]domain.OrderDetail),
		products: make(map[uint]domain.Product),
		rowLocks: make(map[uint]*sync.Mutex),
	}
}

// Do 实现 domain.UnitOfWork。回调返回错误时暂存的写操作随事务丢弃，
// 已获取的行锁在提交或回滚后释放。
func (s *Store) Do(ctx context.Context, fn func(repos domain.Repositories) error) error {
	t := &tx{
		store:          s,
		held:           make(map[uint]*sync.Mutex),
		orderOverlay:   make(map[uint]domain.Order),
		productOverlay: make(map[uint]domain.Product),
	}
	defer t.release()
	if err := fn(t); err != nil {
		return err
	}
	t.commit()
	return nil
}

// SeedOrder 直接写入一笔已提交的订单（测试与初始化数据用）。
// ID 为零时自动分配。
func (s *Store) SeedOrder(order domain.Order) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == 0 {
		s.nextOrderID++
		order.ID = s.nextOrderID
	} else if order.ID > s.nextOrderID {
		s.nextOrderID = order.ID
	}
	s.orders[order.ID] = order
	return order
}

// SeedProduct 直接写入一个已提交的商品。ID 为零时自动分配。
func (s *Store) SeedProduct(product domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == 0 {
		s.nextProductID++
		product.ID = s.nextProductID
	} else if product.ID > s.nextProductID {
		s.nextProductID = product.ID
	}
	s.products[product.ID] = product
	return product
}

// SeedDetail 直接写入一条已提交的订单行。ID 为零时自动分配。
func (s *Store) SeedDetail(detail domain.OrderDetail) domain.OrderDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if detail.ID == 0 {
		s.nextDetailID++
		detail.ID = s.nextDetailID
	} else if detail.ID > s.nextDetailID {
		s.nextDetailID = detail.ID
	}
	s.details[detail.ID] = detail
	return detail
}

// DeleteProduct 删除一个已提交的商品，用于模拟商品在订单取消前消失。
func (s *Store) DeleteProduct(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

// Product 返回某商品的已提交快照。
func (s *Store) Product(id uint) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// Order 返回某订单的已提交快照。
func (s *Store) Order(id uint) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// DetailsByOrder 返回某订单全部已提交的订单行。
func (s *Store) DetailsByOrder(orderID uint) []domain.OrderDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.OrderDetail
	for _, d := range s.details {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out
}

// tx 是一次进行中的事务：行锁集合加写覆盖层。
// 行锁按调用顺序获取，与数据库一样，交叉的加锁顺序可能互相等待。
type tx struct {
	store *Store
	done  bool

	held           map[uint]*sync.Mutex
	orderOverlay   map[uint]domain.Order
	productOverlay map[uint]domain.Product
	detailInserts  []domain.OrderDetail
}

func (t *tx) Orders() domain.OrderRepository        { return ordersRepo{t} }
func (t *tx) Details() domain.OrderDetailRepository { return detailsRepo{t} }
func (t *tx) Products() domain.ProductRepository    { return productsRepo{t} }

func (t *tx) commit() {
	s := t.store
	s.mu.Lock()
	for id, o := range t.orderOverlay {
		s.orders[id] = o
	}
	for id, p := range t.productOverlay {
		s.products[id] = p
	}
	for _, d := range t.detailInserts {
		s.details[d.ID] = d
	}
	s.mu.Unlock()
	t.release()
}

func (t *tx) release() {
	if t.done {
		return
	}
	t.done = true
	for _, lock := range t.held {
		lock.Unlock()
	}
}

// lockRow 获取商品行的排他锁。同一事务重复加锁同一行直接复用，
// 不会自己等自己。
func (t *tx) lockRow(id uint) {
	if _, ok := t.held[id]; ok {
		return
	}
	s := t.store
	s.mu.Lock()
	lock, ok := s.rowLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.rowLocks[id] = lock
	}
	s.mu.Unlock()

	lock.Lock() // 阻塞直到持锁事务提交或回滚
	t.held[id] = lock
}

type ordersRepo struct{ t *tx }

func (r ordersRepo) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	if o, ok := r.t.orderOverlay[id]; ok {
		cp := o
		return &cp, nil
	}
	s := r.t.store
	s.mu.Lock()
	o, ok := s.orders[id]
	s.mu.Unlock()
	if !ok {
		return nil, &domain.NotFoundError{Entity: "Order", ID: id}
	}
	return &o, nil
}

func (r ordersRepo) Create(ctx context.Context, order *domain.Order) error {
	s := r.t.store
	s.mu.Lock()
	s.nextOrderID++
	order.ID = s.nextOrderID
	s.mu.Unlock()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.t.orderOverlay[order.ID] = *order
	return nil
}

func (r ordersRepo) Update(ctx context.Context, order *domain.Order) error {
	r.t.orderOverlay[order.ID] = *order
	return nil
}

type detailsRepo struct{ t *tx }

func (r detailsRepo) Create(ctx context.Context, detail *domain.OrderDetail) error {
	s := r.t.store
	s.mu.Lock()
	s.nextDetailID++
	detail.ID = s.nextDetailID
	s.mu.Unlock()
	if detail.CreatedAt.IsZero() {
		detail.CreatedAt = time.Now()
	}
	r.t.detailInserts = append(r.t.detailInserts, *detail)
	return nil
}

func (r detailsRepo) ListByOrder(ctx context.Context, orderID uint) ([]*domain.OrderDetail, error) {
	s := r.t.store
	s.mu.Lock()
	var out []*domain.OrderDetail
	for _, d := range s.details {
		if d.OrderID == orderID {
			cp := d
			out = append(out, &cp)
		}
	}
	s.mu.Unlock()
	for _, d := range r.t.detailInserts {
		if d.OrderID == orderID {
			cp := d
			out = append(out, &cp)
		}
	}
	return out, nil
}

type productsRepo struct{ t *tx }

func (r productsRepo) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	return r.read(id)
}

func (r productsRepo) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	// 先确认商品存在，再去等锁，避免在不存在的行上永久阻塞。
	if _, err := r.read(id); err != nil {
		return nil, err
	}
	r.t.lockRow(id)
	// 等锁期间行可能已被删除或修改，拿到锁后重读当前值。
	return r.read(id)
}

func (r productsRepo) Create(ctx context.Context, product *domain.Product) error {
	s := r.t.store
	s.mu.Lock()
	s.nextProductID++
	product.ID = s.nextProductID
	s.mu.Unlock()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	r.t.productOverlay[product.ID] = *product
	return nil
}

func (r productsRepo) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now()
	r.t.productOverlay[product.ID] = *product
	return nil
}

func (r productsRepo) read(id uint) (*domain.Product, error) {
	if p, ok := r.t.productOverlay[id]; ok {
		cp := p
		return &cp, nil
	}
	s := r.t.store
	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		return nil, &domain.NotFoundError{Entity: "Product", ID: id}
	}
	return &p, nil
}
