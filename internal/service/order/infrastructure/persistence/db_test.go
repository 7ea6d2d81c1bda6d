package persistence

import (
	"errors"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"tienda/internal/service/order/domain"
)

func TestTranslateRecordNotFound(t *testing.T) {
	err := translateError(gorm.ErrRecordNotFound, "Product", 3)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Entity != "Product" || nf.ID != 3 {
		t.Fatalf("unexpected fields: %+v", nf)
	}
}

func TestTranslateRetryableMySQLErrors(t *testing.T) {
	tests := []struct {
		name   string
		number uint16
	}{
		{"lock wait timeout", mysqlErrLockWaitTimeout},
		{"deadlock", mysqlErrDeadlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(&gomysql.MySQLError{Number: tt.number, Message: tt.name}, "Product", 1)
			if !domain.IsRetryable(err) {
				t.Fatalf("expected retryable storage error, got %v", err)
			}
		})
	}
}

func TestTranslateOtherErrorsNotRetryable(t *testing.T) {
	err := translateError(errors.New("connection refused"), "Order", 1)
	var se *domain.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if se.Retryable {
		t.Fatalf("unexpected retryable flag")
	}
}

func TestTranslateNil(t *testing.T) {
	if err := translateError(nil, "Order", 1); err != nil {
		t.Fatalf("nil should stay nil, got %v", err)
	}
}
