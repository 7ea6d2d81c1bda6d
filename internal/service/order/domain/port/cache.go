// internal/service/order/domain/port/cache.go
package port

import "context"

// StockCache 缓存商品的最新已提交库存，供读路径低成本查询。
// 缓存永远不是库存的权威来源，准入校验只信任加锁后的行数据。
type StockCache interface {
	// SetStock 覆盖写入某商品的最新库存。
	SetStock(ctx context.Context, productID uint, stock int) error

	// GetStock 读取缓存库存。第二个返回值为 false 表示缓存未命中。
	GetStock(ctx context.Context, productID uint) (int, bool, error)
}
