// internal/service/order/application/admission.go
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

// AdmissionRequest 携带一次订单行准入所需的全部字段。
// 字段的格式校验由上游完成，这里只做业务校验。
type AdmissionRequest struct {
	OrderID   uint
	ProductID uint
	Quantity  int
	Price     float64
}

// AdmissionService 负责订单行准入：确认父订单存在、以排他锁预占库存、
// 持久化订单行，三步在同一事务内完成，要么全部生效要么全部不生效。
type AdmissionService struct {
	uow    domain.UnitOfWork
	events port.EventPublisher
	cache  port.StockCache
	tracer trace.Tracer
}

// NewAdmissionService 创建准入服务。events 和 cache 允许为 nil，
// 对应的提交后动作会被跳过。
func NewAdmissionService(uow domain.UnitOfWork, events port.EventPublisher, cache port.StockCache) *AdmissionService {
	return &AdmissionService{
		uow:    uow,
		events: events,
		cache:  cache,
		tracer: otel.Tracer("order-service"),
	}
}

// CreateDetail 执行一次准入。任何一步失败都会让整个事务回滚，
// 错误原样返回给调用方，不在本层做恢复。
func (s *AdmissionService) CreateDetail(ctx context.Context, req AdmissionRequest) (*domain.OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "admission.CreateDetail")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("order.id", int64(req.OrderID)),
		attribute.Int64("product.id", int64(req.ProductID)),
		attribute.Int("order_detail.quantity", req.Quantity),
	)

	var (
		detail     *domain.OrderDetail
		stockAfter int
	)
	start := time.Now()
	err := s.uow.Do(ctx, func(repos domain.Repositories) error {
		// 第一步：父订单必须已存在。普通读即可，订单行本身不会被并发争用。
		if _, err := repos.Orders().FindByID(ctx, req.OrderID); err != nil {
			return err
		}

		// 第二步：锁行并预占库存。排他锁保持到事务结束，
		// 争用同一商品的并发准入在此阻塞（而非失败），依次看到
		// 前一个已提交事务扣减后的库存。
		product, err := repos.Products().FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if err := product.Reserve(req.Quantity, req.Price); err != nil {
			return err
		}
		if err := repos.Products().Update(ctx, product); err != nil {
			return err
		}
		logger.Ctx(ctx).Info().
			Uint("product_id", product.ID).
			Int("quantity", req.Quantity).
			Int("stock", product.Stock).
			Msg("stock reserved")

		// 第三步：持久化订单行。与库存扣减同事务提交，
		// 不存在只见其一的中间状态。
		detail = &domain.OrderDetail{
			OrderID:   req.OrderID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     req.Price,
		}
		if err := repos.Details().Create(ctx, detail); err != nil {
			return err
		}
		stockAfter = product.Stock
		return nil
	})
	admissionDuration.Observe(time.Since(start).Seconds())
	admissionsTotal.WithLabelValues(admissionOutcome(err)).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "admission failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("product.stock", stockAfter))

	s.afterCommit(ctx, detail, stockAfter)
	return detail, nil
}

// afterCommit 执行事务提交后的尽力而为动作：事件发布与库存缓存刷新。
// 两者的失败都只记日志，不影响已提交的准入结果。
func (s *AdmissionService) afterCommit(ctx context.Context, detail *domain.OrderDetail, stock int) {
	if s.events != nil {
		ev := &domain.StockReserved{
			EventID:   uuid.NewString(),
			OrderID:   detail.OrderID,
			DetailID:  detail.ID,
			ProductID: detail.ProductID,
			Quantity:  detail.Quantity,
			Stock:     stock,
			At:        time.Now(),
		}
		if err := s.events.PublishStockReserved(ctx, ev); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Uint("order_id", detail.OrderID).
				Msg("failed to publish stock reserved event")
		}
	}
	if s.cache != nil {
		if err := s.cache.SetStock(ctx, detail.ProductID, stock); err != nil {
			logger.Ctx(ctx).Warn().Err(err).
				Uint("product_id", detail.ProductID).
				Msg("failed to refresh stock cache")
		}
	}
}
