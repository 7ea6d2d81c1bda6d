// internal/service/order/domain/port/publisher.go
package port

import (
	"context"

	"tienda/internal/service/order/domain"
)

// EventPublisher 把领域事件发布给下游消费者。
// 发布发生在事务提交之后，实现必须是尽力而为：
// 发布失败不得影响已提交的业务结果。
type EventPublisher interface {
	PublishStockReserved(ctx context.Context, ev *domain.StockReserved) error
	PublishOrderCanceled(ctx context.Context, ev *domain.OrderCanceled) error
}
