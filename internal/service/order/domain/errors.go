// internal/service/order/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// NotFoundError 表示按主键查找的实体不存在。
// Entity 字段用于区分父订单缺失和商品缺失这两种 404。
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// InsufficientStockError 表示商品剩余库存不足以满足本次准入请求。
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

// PriceMismatchError 表示订单行携带的价格与商品当前价格偏差超过 PriceEpsilon，
// 用于拦截价格篡改。
type PriceMismatchError struct {
	Expected float64
	Received float64
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("price mismatch: expected %.2f, received %.2f", e.Expected, e.Received)
}

// StorageError 包装存储层故障（锁等待超时、死锁、连接丢失）。
// Retryable 为 true 时调用方可以安全地重试整个事务。
type StorageError struct {
	Retryable bool
	Err       error
}

func (e *StorageError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("retryable storage failure: %v", e.Err)
	}
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsRetryable 报告 err 链上是否存在可重试的存储故障。
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Retryable
}

// IsNotFound 报告 err 链上是否存在 NotFoundError。
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
