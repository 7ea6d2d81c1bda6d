// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 定义订单聚合的持久化接口。位于领域层，由基础设施层实现。
type OrderRepository interface {
	// FindByID 按主键普通读订单，不加锁。
	FindByID(ctx context.Context, id uint) (*Order, error)

	// Create 写入一个新订单（测试与初始化数据用，本核心不通过它创建订单）。
	Create(ctx context.Context, order *Order) error

	// Update 将订单的当前状态写回存储。
	Update(ctx context.Context, order *Order) error
}

// OrderDetailRepository 定义订单行的持久化接口。
type OrderDetailRepository interface {
	// Create 写入一个新的订单行，并回填生成的主键。
	Create(ctx context.Context, detail *OrderDetail) error

	// ListByOrder 返回某订单的全部订单行。
	ListByOrder(ctx context.Context, orderID uint) ([]*OrderDetail, error)
}

// ProductRepository 定义商品的持久化接口。
type ProductRepository interface {
	// FindByID 按主键普通读商品，不加锁。
	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindByIDForUpdate 以排他锁读取商品行。锁保持到所在事务结束，
	// 其他尝试加锁同一行的事务在此期间阻塞而不是失败。
	FindByIDForUpdate(ctx context.Context, id uint) (*Product, error)

	// Create 写入一个新商品（测试与初始化数据用）。
	Create(ctx context.Context, product *Product) error

	// Update 将商品的当前库存写回存储。
	Update(ctx context.Context, product *Product) error
}

// Repositories 聚合同一事务内可用的全部仓储。
type Repositories interface {
	Orders() OrderRepository
	Details() OrderDetailRepository
	Products() ProductRepository
}

// UnitOfWork 管理事务边界。回调收到的 Repositories 已绑定到活动事务：
// 回调返回 nil 则提交，返回错误则回滚并把错误原样抛给调用方。
// 事务内获取的行锁在提交或回滚时统一释放。
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
