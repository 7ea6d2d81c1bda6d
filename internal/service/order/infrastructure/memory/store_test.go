package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tienda/internal/service/order/domain"
)

func TestCommitMakesWritesVisible(t *testing.T) {
	s := NewStore()
	product := s.SeedProduct(domain.Product{Stock: 10, Price: 9.99})

	err := s.Do(context.Background(), func(repos domain.Repositories) error {
		p, err := repos.Products().FindByIDForUpdate(context.Background(), product.ID)
		if err != nil {
			return err
		}
		p.Stock = 4
		return repos.Products().Update(context.Background(), p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := s.Product(product.ID)
	if !ok || got.Stock != 4 {
		t.Fatalf("committed stock = %d, want 4", got.Stock)
	}
}

func TestRollbackDiscardsWrites(t *testing.T) {
	s := NewStore()
	product := s.SeedProduct(domain.Product{Stock: 10, Price: 9.99})
	order := s.SeedOrder(domain.Order{Status: domain.StatusPending})

	boom := errors.New("boom")
	err := s.Do(context.Background(), func(repos domain.Repositories) error {
		p, err := repos.Products().FindByIDForUpdate(context.Background(), product.ID)
		if err != nil {
			return err
		}
		p.Stock = 0
		if err := repos.Products().Update(context.Background(), p); err != nil {
			return err
		}
		detail := &domain.OrderDetail{OrderID: order.ID, ProductID: product.ID, Quantity: 10, Price: 9.99}
		if err := repos.Details().Create(context.Background(), detail); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error not propagated: %v", err)
	}

	got, _ := s.Product(product.ID)
	if got.Stock != 10 {
		t.Fatalf("stock changed after rollback: %d", got.Stock)
	}
	if details := s.DetailsByOrder(order.ID); len(details) != 0 {
		t.Fatalf("detail persisted after rollback: %d", len(details))
	}
}

func TestRowLockSerializesWriters(t *testing.T) {
	s := NewStore()
	product := s.SeedProduct(domain.Product{Stock: 0})

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(context.Background(), func(repos domain.Repositories) error {
				p, err := repos.Products().FindByIDForUpdate(context.Background(), product.ID)
				if err != nil {
					return err
				}
				// 制造一个写偏斜窗口：没有行锁时这里会丢更新
				time.Sleep(time.Millisecond)
				p.Stock++
				return repos.Products().Update(context.Background(), p)
			})
		}()
	}
	wg.Wait()

	got, _ := s.Product(product.ID)
	if got.Stock != writers {
		t.Fatalf("lost update: stock = %d, want %d", got.Stock, writers)
	}
}

func TestLockWaiterSeesCommittedValue(t *testing.T) {
	s := NewStore()
	product := s.SeedProduct(domain.Product{Stock: 10})

	firstLocked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = s.Do(context.Background(), func(repos domain.Repositories) error {
			p, _ := repos.Products().FindByIDForUpdate(context.Background(), product.ID)
			close(firstLocked)
			<-release
			p.Stock -= 4
			return repos.Products().Update(context.Background(), p)
		})
	}()

	<-firstLocked
	var observed int
	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		_ = s.Do(context.Background(), func(repos domain.Repositories) error {
			p, err := repos.Products().FindByIDForUpdate(context.Background(), product.ID)
			if err != nil {
				return err
			}
			observed = p.Stock
			return nil
		})
	}()

	// 第二个事务必须阻塞在行锁上，直到第一个提交
	select {
	case <-secondDone:
		t.Fatalf("second transaction acquired the lock while first held it")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-done
	<-secondDone

	if observed != 6 {
		t.Fatalf("waiter observed stale stock %d, want 6", observed)
	}
}

func TestReentrantLockSameProduct(t *testing.T) {
	s := NewStore()
	product := s.SeedProduct(domain.Product{Stock: 10})

	// 同一订单的两行引用同一商品时，事务会对同一行加锁两次
	err := s.Do(context.Background(), func(repos domain.Repositories) error {
		for i := 0; i < 2; i++ {
			p, err := repos.Products().FindByIDForUpdate(context.Background(), product.ID)
			if err != nil {
				return err
			}
			p.Stock--
			if err := repos.Products().Update(context.Background(), p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := s.Product(product.ID)
	if got.Stock != 8 {
		t.Fatalf("stock = %d, want 8", got.Stock)
	}
}

func TestFindByIDForUpdateNotFound(t *testing.T) {
	s := NewStore()
	err := s.Do(context.Background(), func(repos domain.Repositories) error {
		_, err := repos.Products().FindByIDForUpdate(context.Background(), 404)
		return err
	})
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Entity != "Product" || nf.ID != 404 {
		t.Fatalf("unexpected error fields: %+v", nf)
	}
}

func TestListByOrderSeesUncommittedInserts(t *testing.T) {
	s := NewStore()
	order := s.SeedOrder(domain.Order{Status: domain.StatusPending})
	s.SeedDetail(domain.OrderDetail{OrderID: order.ID, ProductID: 1, Quantity: 2})

	err := s.Do(context.Background(), func(repos domain.Repositories) error {
		if err := repos.Details().Create(context.Background(), &domain.OrderDetail{
			OrderID: order.ID, ProductID: 2, Quantity: 3,
		}); err != nil {
			return err
		}
		details, err := repos.Details().ListByOrder(context.Background(), order.ID)
		if err != nil {
			return err
		}
		if len(details) != 2 {
			t.Fatalf("tx sees %d details, want 2", len(details))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
