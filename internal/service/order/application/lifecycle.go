// internal/service/order/application/lifecycle.go
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tienda/internal/pkg/logger"
	"tienda/internal/service/order/domain"
	"tienda/internal/service/order/domain/port"
)

// LifecycleService 负责订单状态流转。检测到取消边时，
// 在同一事务内把订单全部行项目的数量回补到对应商品。
type LifecycleService struct {
	uow    domain.UnitOfWork
	events port.EventPublisher
	cache  port.StockCache
	tracer trace.Tracer
}

// NewLifecycleService 创建生命周期服务。events 和 cache 允许为 nil。
func NewLifecycleService(uow domain.UnitOfWork, events port.EventPublisher, cache port.StockCache) *LifecycleService {
	return &LifecycleService{
		uow:    uow,
		events: events,
		cache:  cache,
		tracer: otel.Tracer("order-service"),
	}
}

// Transition 把订单流转到 next 并返回更新后的订单。
// 只有从非取消状态进入取消状态时才回补库存，重复取消不再回补。
func (s *LifecycleService) Transition(ctx context.Context, orderID uint, next domain.Status) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "lifecycle.Transition")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("order.id", int64(orderID)),
		attribute.String("order.next_status", next.String()),
	)

	var (
		order   *domain.Order
		credits []domain.StockCredit
	)
	err := s.uow.Do(ctx, func(repos domain.Repositories) error {
		var err error
		order, err = repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if order.CancellationEdge(next) {
			credits, err = s.restoreStock(ctx, repos, orderID)
			if err != nil {
				return err
			}
		}

		order.TransitionTo(next)
		return repos.Orders().Update(ctx, order)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition failed")
		return nil, err
	}

	if len(credits) > 0 {
		span.SetAttributes(attribute.Int("order.restored_lines", len(credits)))
		s.afterCancel(ctx, orderID, credits)
	}
	return order, nil
}

// restoreStock 把订单每一行的数量加回对应商品的库存。
// 回补与准入取同一把排他锁，两者对同一商品的修改因此串行化。
// 商品已被删除时无处可补，跳过该行。
func (s *LifecycleService) restoreStock(ctx context.Context, repos domain.Repositories, orderID uint) ([]domain.StockCredit, error) {
	details, err := repos.Details().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var credits []domain.StockCredit
	for _, d := range details {
		product, err := repos.Products().FindByIDForUpdate(ctx, d.ProductID)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		product.Restore(d.Quantity)
		if err := repos.Products().Update(ctx, product); err != nil {
			return nil, err
		}
		logger.Ctx(ctx).Info().
			Uint("product_id", product.ID).
			Int("quantity", d.Quantity).
			Int("stock", product.Stock).
			Msg("stock restored")
		credits = append(credits, domain.StockCredit{
			ProductID: product.ID,
			Quantity:  d.Quantity,
			Stock:     product.Stock,
		})
	}
	return credits, nil
}

// afterCancel 执行取消提交后的尽力而为动作。失败只记日志。
func (s *LifecycleService) afterCancel(ctx context.Context, orderID uint, credits []domain.StockCredit) {
	for _, c := range credits {
		stockRestoredTotal.Add(float64(c.Quantity))
		if s.cache != nil {
			if err := s.cache.SetStock(ctx, c.ProductID, c.Stock); err != nil {
				logger.Ctx(ctx).Warn().Err(err).
					Uint("product_id", c.ProductID).
					Msg("failed to refresh stock cache")
			}
		}
	}
	if s.events != nil {
		ev := &domain.OrderCanceled{
			EventID: uuid.NewString(),
			OrderID: orderID,
			Credits: credits,
			At:      time.Now(),
		}
		if err := s.events.PublishOrderCanceled(ctx, ev); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Uint("order_id", orderID).
				Msg("failed to publish order canceled event")
		}
	}
}
