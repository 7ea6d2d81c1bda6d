// internal/service/order/interfaces/consumer.go
package interfaces

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/mq"
	"tienda/internal/service/order/application"
	"tienda/internal/service/order/domain"
)

// 命令类型写在消息头里，与事件共用同一套 header 约定。
const (
	commandTypeHeader      = "command_type"
	commandDetailCreate    = "order_detail.create"
	commandOrderTransition = "order.transition"
)

// DetailCreateCommand 是上游 API 层发来的订单行准入命令。
// 字段已由上游完成格式校验。
type DetailCreateCommand struct {
	OrderID   uint    `json:"order_id"`
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// TransitionCommand 是订单状态流转命令。
type TransitionCommand struct {
	OrderID uint `json:"order_id"`
	Status  int  `json:"status"`
}

// Admitter 是消费者对准入服务的依赖。
type Admitter interface {
	CreateDetail(ctx context.Context, req application.AdmissionRequest) (*domain.OrderDetail, error)
}

// Transitioner 是消费者对生命周期服务的依赖。
type Transitioner interface {
	Transition(ctx context.Context, orderID uint, next domain.Status) (*domain.Order, error)
}

// MessageReader 抽象 kafka.Reader，测试时可以替换。
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// CommandConsumer 从命令主题消费消息并调用对应的应用服务。
// 每条消息在独立的 goroutine 中处理：单条消息在行锁上的阻塞
// 不会拖住其他消息的消费。
type CommandConsumer struct {
	reader       MessageReader
	admitter     Admitter
	transitioner Transitioner
}

func NewCommandConsumer(reader MessageReader, admitter Admitter, transitioner Transitioner) *CommandConsumer {
	return &CommandConsumer{
		reader:       reader,
		admitter:     admitter,
		transitioner: transitioner,
	}
}

// Run 进入消费循环，ctx 取消后返回。
func (c *CommandConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Ctx(ctx).Error().Err(err).Msg("failed to read command message, retrying")
			time.Sleep(time.Second)
			continue
		}
		go c.Handle(ctx, msg)
	}
}

// Handle 路由并执行单条命令。错误只记日志：业务失败是终态，
// 可重试的存储故障留给上游按事件重新投递。
func (c *CommandConsumer) Handle(ctx context.Context, msg kafka.Message) {
	ctx = mq.ExtractHeaders(ctx, msg.Headers)

	switch commandType(msg) {
	case commandDetailCreate:
		var cmd DetailCreateCommand
		if err := json.Unmarshal(msg.Value, &cmd); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("malformed detail create command")
			return
		}
		_, err := c.admitter.CreateDetail(ctx, application.AdmissionRequest{
			OrderID:   cmd.OrderID,
			ProductID: cmd.ProductID,
			Quantity:  cmd.Quantity,
			Price:     cmd.Price,
		})
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).
				Uint("order_id", cmd.OrderID).
				Bool("retryable", domain.IsRetryable(err)).
				Msg("detail admission rejected")
		}
	case commandOrderTransition:
		var cmd TransitionCommand
		if err := json.Unmarshal(msg.Value, &cmd); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("malformed transition command")
			return
		}
		_, err := c.transitioner.Transition(ctx, cmd.OrderID, domain.Status(cmd.Status))
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).
				Uint("order_id", cmd.OrderID).
				Bool("retryable", domain.IsRetryable(err)).
				Msg("order transition rejected")
		}
	default:
		logger.Ctx(ctx).Warn().Str("command_type", commandType(msg)).Msg("unknown command type, skipping")
	}
}

func commandType(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == commandTypeHeader {
			return string(h.Value)
		}
	}
	return ""
}
