// internal/service/order/infrastructure/persistence/repository.go
package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tienda/internal/service/order/domain"
)

// Repositories 把同一个 gorm 句柄（通常是事务内的 *gorm.DB）
// 绑定到全部仓储，是 domain.Repositories 的 GORM 实现。
type Repositories struct {
	db *gorm.DB
}

// NewRepositories 创建绑定到 db 的仓储集合。
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{db: db}
}

func (r Repositories) Orders() domain.OrderRepository {
	return &orderRepository{db: r.db}
}

func (r Repositories) Details() domain.OrderDetailRepository {
	return &detailRepository{db: r.db}
}

func (r Repositories) Products() domain.ProductRepository {
	return &productRepository{db: r.db}
}

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var model OrderModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err, "Order", id)
	}
	return toDomainOrder(&model), nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := fromDomainOrder(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, "Order", order.ID)
	}
	order.ID = model.ID
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id = ?", order.ID).
		Update("status", int(order.Status)).Error
	return translateError(err, "Order", order.ID)
}

type detailRepository struct {
	db *gorm.DB
}

func (r *detailRepository) Create(ctx context.Context, detail *domain.OrderDetail) error {
	model := fromDomainDetail(detail)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, "OrderDetail", detail.ID)
	}
	detail.ID = model.ID
	detail.CreatedAt = model.CreatedAt
	return nil
}

func (r *detailRepository) ListByOrder(ctx context.Context, orderID uint) ([]*domain.OrderDetail, error) {
	var models []*OrderDetailModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&models).Error; err != nil {
		return nil, translateError(err, "OrderDetail", orderID)
	}
	details := make([]*domain.OrderDetail, len(models))
	for i, m := range models {
		details[i] = toDomainDetail(m)
	}
	return details, nil
}

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err, "Product", id)
	}
	return toDomainProduct(&model), nil
}

// FindByIDForUpdate 生成 SELECT ... FOR UPDATE，在行上取排他锁。
// 锁随所在事务的提交或回滚释放，期间其他加锁读对同一行阻塞。
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error
	if err != nil {
		return nil, translateError(err, "Product", id)
	}
	return toDomainProduct(&model), nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	model := fromDomainProduct(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, "Product", product.ID)
	}
	product.ID = model.ID
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	err := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ?", product.ID).
		Update("stock", product.Stock).Error
	return translateError(err, "Product", product.ID)
}
