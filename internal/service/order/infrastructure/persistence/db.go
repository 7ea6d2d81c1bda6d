// internal/service/order/infrastructure/persistence/db.go
package persistence

import (
	"errors"

	gomysql "github.com/go-sql-driver/mysql"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tienda/internal/service/order/domain"
)

// MySQL 错误码，见 https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// Open 建立 MySQL 连接并返回 gorm 句柄。
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open mysql")
	}
	return db, nil
}

// Migrate 建表。只新增列，不删除不修改既有列。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&OrderModel{}, &OrderDetailModel{}, &ProductModel{})
}

// translateError 把存储层错误翻译成领域错误：
// 记录不存在归为 NotFoundError；锁等待超时与死锁归为可重试的
// StorageError，交给调用方决定是否重放整个事务；其余一律包装为
// 不可重试的 StorageError。
func translateError(err error, entity string, id uint) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrLockWaitTimeout, mysqlErrDeadlock:
			return &domain.StorageError{Retryable: true, Err: err}
		}
	}
	return &domain.StorageError{Retryable: false, Err: err}
}
