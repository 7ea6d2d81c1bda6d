// internal/service/order/domain/product.go
package domain

import (
	"math"
	"time"
)

// PriceEpsilon 是订单行价格与商品当前价格比对时允许的最大偏差。
const PriceEpsilon = 0.01

// Product 是被多个请求路径并发争用的共享库存实体。
// 对 Stock 的任何修改都必须在持有该商品行排他锁的事务内进行。
type Product struct {
	ID        uint
	Name      string
	Stock     int
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reserve 校验数量与价格并在内存中扣减库存。
// 调用方必须已持有该商品行的排他锁，并负责在同一事务中提交扣减结果；
// 这里不做任何独立提交。
func (p *Product) Reserve(quantity int, expectedPrice float64) error {
	if p.Stock < quantity {
		return &InsufficientStockError{Available: p.Stock, Requested: quantity}
	}
	if math.Abs(expectedPrice-p.Price) > PriceEpsilon {
		return &PriceMismatchError{Expected: p.Price, Received: expectedPrice}
	}
	p.Stock -= quantity
	return nil
}

// Restore 将取消订单行的数量加回库存。与 Reserve 相同，
// 提交由调用方的事务负责。
func (p *Product) Restore(quantity int) {
	p.Stock += quantity
}
