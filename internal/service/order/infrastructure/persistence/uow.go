// internal/service/order/infrastructure/persistence/uow.go
package persistence

import (
	"context"

	"gorm.io/gorm"

	"tienda/internal/service/order/domain"
)

// UnitOfWork 基于 gorm 的事务实现 domain.UnitOfWork。
// 回调返回错误时 gorm 回滚事务，业务错误因此原样穿透到调用方，
// 行锁随事务结束释放。
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(repos domain.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
