// internal/service/order/infrastructure/adapter/stock_cache_redis_adapter.go
package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// stockKeyFormat 使用 hash tag，集群模式下同一商品的 Key 落在同一槽位。
const stockKeyFormat = "stock:{%d}"

// StockCacheRedisAdapter 是 port.StockCache 的 Redis 实现。
// 只缓存已提交的库存值，写入失败由调用方降级处理。
type StockCacheRedisAdapter struct {
	client *redis.Client
}

func NewStockCacheRedisAdapter(client *redis.Client) *StockCacheRedisAdapter {
	return &StockCacheRedisAdapter{client: client}
}

func (a *StockCacheRedisAdapter) SetStock(ctx context.Context, productID uint, stock int) error {
	key := fmt.Sprintf(stockKeyFormat, productID)
	return a.client.Set(ctx, key, stock, 0).Err()
}

func (a *StockCacheRedisAdapter) GetStock(ctx context.Context, productID uint) (int, bool, error) {
	key := fmt.Sprintf(stockKeyFormat, productID)
	val, err := a.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}
