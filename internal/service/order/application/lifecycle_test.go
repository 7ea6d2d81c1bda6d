package application

import (
	"context"
	"errors"
	"testing"

	"tienda/internal/service/order/domain"
	"tienda/internal/service/order/infrastructure/memory"
)

func TestCancellationRestoresEachLine(t *testing.T) {
	store := memory.NewStore()
	order := store.SeedOrder(domain.Order{Status: domain.StatusPending})
	productA := store.SeedProduct(domain.Product{Stock: 0, Price: 5.00})
	productB := store.SeedProduct(domain.Product{Stock: 2, Price: 7.00})
	store.SeedDetail(domain.OrderDetail{OrderID: order.ID, ProductID: productA.ID, Quantity: 3, Price: 5.00})
	store.SeedDetail(domain.OrderDetail{OrderID: order.ID, ProductID: productB.ID, Quantity: 5, Price: 7.00})

	events := &fakePublisher{}
	cache := newFakeCache()
	svc := NewLifecycleService(store, events, cache)

	updated, err := svc.Transition(context.Background(), order.ID, domain.StatusCanceled)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if updated.Status != domain.StatusCanceled {
		t.Fatalf("status = %v, want CANCELED", updated.Status)
	}

	if got, _ := store.Product(productA.ID); got.Stock != 3 {
		t.Fatalf("product A stock = %d, want 3", got.Stock)
	}
	if got, _ := store.Product(productB.ID); got.Stock != 7 {
		t.Fatalf("product B stock = %d, want 7", got.Stock)
	}

	if len(events.canceled) != 1 {
		t.Fatalf("published %d canceled events, want 1", len(events.canceled))
	}
	if len(events.canceled[0].Credits) != 2 {
		t.Fatalf("event carries %d credits, want 2", len(events.canceled[0].Credits))
	}
	if stock, ok, _ := cache.GetStock(context.Background(), productB.ID); !ok || stock != 7 {
		t.Fatalf("cache stock = %d (hit=%v), want 7", stock, ok)
	}
}

func TestCancellationIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	order := store.SeedOrder(domain.Order{ID: 7, Status: domain.StatusPending})
	product := store.SeedProduct(domain.Product{ID: 1, Stock: 6, Price: 9.99})
	store.SeedDetail(domain.OrderDetail{OrderID: order.ID, ProductID: product.ID, Quantity: 4, Price: 9.99})

	events := &fakePublisher{}
	svc := NewLifecycleService(store, events, nil)

	if _, err := svc.Transition(context.Background(), order.ID, domain.StatusCanceled); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if got, _ := store.Product(product.ID); got.Stock != 10 {
		t.Fatalf("stock after cancel = %d, want 10", got.Stock)
	}

	// 已取消的订单再次取消：不回补，不发事件
	if _, err := svc.Transition(context.Background(), order.ID, domain.StatusCanceled); err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if got, _ := store.Product(product.ID); got.Stock != 10 {
		t.Fatalf("stock after repeated cancel = %d, want 10", got.Stock)
	}
	if len(events.canceled) != 1 {
		t.Fatalf("published %d canceled events, want 1", len(events.canceled))
	}
}

func TestCancellationSkipsVanishedProduct(t *testing.T) {
	store := memory.NewStore()
	order := store.SeedOrder(domain.Order{Status: domain.StatusPending})
	gone := store.SeedProduct(domain.Product{Stock: 0, Price: 3.00})
	kept := store.SeedProduct(domain.Product{Stock: 1, Price: 4.00})
	store.SeedDetail(domain.OrderDetail{OrderID: order.ID, ProductID: gone.ID, Quantity: 2, Price: 3.00})
	store.SeedDetail(domain.OrderDetail{OrderID: order.ID, ProductID: kept.ID, Quantity: 3, Price: 4.00})
	store.DeleteProduct(gone.ID)

	svc := NewLifecycleService(store, nil, nil)
	updated, err := svc.Transition(context.Background(), order.ID, domain.StatusCanceled)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if updated.Status != domain.StatusCanceled {
		t.Fatalf("status = %v, want CANCELED", updated.Status)
	}
	if got, _ := store.Product(kept.ID); got.Stock != 4 {
		t.Fatalf("surviving product stock = %d, want 4", got.Stock)
	}
}

func TestNonCancellationTransitionDoesNotRestore(t *testing.T) {
	store := memory.NewStore()
	order := store.SeedOrder(domain.Order{Status: domain.StatusPending})
	product := store.SeedProduct(domain.Product{Stock: 6, Price: 9.99})
	store.SeedDetail(domain.OrderDetail{OrderID: order.ID, ProductID: product.ID, Quantity: 4, Price: 9.99})

	svc := NewLifecycleService(store, nil, nil)
	updated, err := svc.Transition(context.Background(), order.ID, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if updated.Status != domain.StatusConfirmed {
		t.Fatalf("status = %v, want CONFIRMED", updated.Status)
	}
	if got, _ := store.Product(product.ID); got.Stock != 6 {
		t.Fatalf("stock changed on non-cancel transition: %d", got.Stock)
	}
}

func TestTransitionOrderNotFound(t *testing.T) {
	store := memory.NewStore()
	svc := NewLifecycleService(store, nil, nil)

	_, err := svc.Transition(context.Background(), 404, domain.StatusCanceled)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

// 准入扣减与取消回补首尾相接：最终库存回到初始值。
func TestAdmitThenCancelRoundTrip(t *testing.T) {
	store := memory.NewStore()
	order := store.SeedOrder(domain.Order{ID: 7, Status: domain.StatusPending})
	product := store.SeedProduct(domain.Product{ID: 1, Stock: 10, Price: 9.99})

	admit := NewAdmissionService(store, nil, nil)
	lifecycle := NewLifecycleService(store, nil, nil)

	if _, err := admit.CreateDetail(context.Background(), AdmissionRequest{
		OrderID: order.ID, ProductID: product.ID, Quantity: 4, Price: 9.99,
	}); err != nil {
		t.Fatalf("admission failed: %v", err)
	}
	if got, _ := store.Product(product.ID); got.Stock != 6 {
		t.Fatalf("stock after admission = %d, want 6", got.Stock)
	}

	if _, err := lifecycle.Transition(context.Background(), order.ID, domain.StatusCanceled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got, _ := store.Product(product.ID); got.Stock != 10 {
		t.Fatalf("stock after cancel = %d, want 10", got.Stock)
	}
}
