// internal/service/order/domain/order.go
package domain

import "time"

// Status 定义订单的生命周期状态，取值与存储层的整型编码保持一致。
type Status int

const (
	StatusPending   Status = iota + 1 // 已创建，等待确认
	StatusConfirmed                   // 已确认
	StatusShipped                     // 已发货
	StatusCanceled                    // 已取消
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusShipped:
		return "SHIPPED"
	case StatusCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// Order 是订单聚合的根实体。本核心只负责状态流转，不负责创建或删除订单。
type Order struct {
	ID        uint
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CancellationEdge 判断向 next 的流转是否构成“取消边”：
// 即从任意非取消状态进入取消状态。重复取消不构成取消边，
// 库存回补因此天然幂等。
func (o *Order) CancellationEdge(next Status) bool {
	return next == StatusCanceled && o.Status != StatusCanceled
}

// TransitionTo 应用状态变更。状态值由上游校验，这里不做合法性检查。
func (o *Order) TransitionTo(next Status) {
	o.Status = next
	o.UpdatedAt = time.Now()
}

// OrderDetail 是订单中的一个行项目，引用且仅引用一个订单和一个商品。
// 创建之后在本核心范围内不可变。
type OrderDetail struct {
	ID        uint
	OrderID   uint
	ProductID uint
	Quantity  int
	Price     float64
	CreatedAt time.Time
}
