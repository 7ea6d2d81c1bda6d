// internal/service/order/domain/event.go
package domain

import "time"

// StockReserved 在一次订单行准入成功提交后发布。
type StockReserved struct {
	EventID   string    `json:"event_id"`
	OrderID   uint      `json:"order_id"`
	DetailID  uint      `json:"detail_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Stock     int       `json:"stock"` // 扣减后的剩余库存
	At        time.Time `json:"at"`
}

// StockCredit 记录一次取消回补中单个商品的库存变化。
type StockCredit struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
	Stock     int  `json:"stock"` // 回补后的库存
}

// OrderCanceled 在取消边生效并提交后发布，携带本次回补的全部明细。
type OrderCanceled struct {
	EventID string        `json:"event_id"`
	OrderID uint          `json:"order_id"`
	Credits []StockCredit `json:"credits"`
	At      time.Time     `json:"at"`
}
