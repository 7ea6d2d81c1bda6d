// internal/service/order/application/metrics.go
package application

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tienda/internal/service/order/domain"
)

var (
	admissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_admissions_total",
		Help: "Order detail admissions by outcome.",
	}, []string{"outcome"})

	admissionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_admission_duration_seconds",
		Help:    "Wall time of a full admission transaction, lock wait included.",
		Buckets: prometheus.DefBuckets,
	})

	stockRestoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_stock_restored_total",
		Help: "Units of stock credited back by order cancellations.",
	})
)

// admissionOutcome 把错误归入 admissionsTotal 的 outcome 标签。
func admissionOutcome(err error) string {
	if err == nil {
		return "success"
	}
	var (
		nf *domain.NotFoundError
		is *domain.InsufficientStockError
		pm *domain.PriceMismatchError
		se *domain.StorageError
	)
	switch {
	case errors.As(err, &is):
		return "insufficient_stock"
	case errors.As(err, &pm):
		return "price_mismatch"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &se):
		return "storage_failure"
	default:
		return "error"
	}
}
