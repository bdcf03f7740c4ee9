package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/everyonewrite/writeguide/internal/models"
	"github.com/everyonewrite/writeguide/internal/utools"
	"github.com/google/uuid"
)

type memStore struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*models.Order
	balances map[int64]float64
}

func newMemStore() *memStore {
	return &memStore{
		orders:   make(map[uuid.UUID]*models.Order),
		balances: make(map[int64]float64),
	}
}

func (m *memStore) InitializeDatabase(ctx context.Context) error { return nil }

func (m *memStore) Create(ctx context.Context, ord *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ord
	m.orders[ord.OrderID] = &cp
	return nil
}

func (m *memStore) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *ord
	return &cp, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Order
	for _, ord := range m.orders {
		if ord.UserID == userID {
			cp := *ord
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) AttachGoods(ctx context.Context, orderID uuid.UUID, goodsID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	ord.GoodsID = goodsID
	return nil
}

func (m *memStore) MarkPaidAndCredit(ctx context.Context, orderID uuid.UUID, utoolsOrderID string, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[orderID]
	if !ok {
		return false, ErrNotFound
	}
	if ord.PaymentStatus == models.PaymentStatusPaid {
		return false, nil
	}
	ord.PaymentStatus = models.PaymentStatusPaid
	ord.OrderStatus = models.OrderStatusCompleted
	ord.PaidAt = &paidAt
	if utoolsOrderID != "" {
		ord.UtoolsOrderID = &utoolsOrderID
	}
	m.balances[ord.UserID] += float64(ord.TokenAdded)
	return true, nil
}

func (m *memStore) MarkFailed(ctx context.Context, orderID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ord, ok := m.orders[orderID]; ok {
		ord.OrderStatus = models.OrderStatusFailed
	}
	return nil
}

func (m *memStore) balance(userID int64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID]
}

type fakeGateway struct {
	status   int
	goodsID  string
	goodsErr error
	queryErr error
}

func (g *fakeGateway) CreateGoods(ctx context.Context, title string, feeMinorUnits int) (string, error) {
	if g.goodsErr != nil {
		return "", g.goodsErr
	}
	return g.goodsID, nil
}

func (g *fakeGateway) QueryPaymentStatus(ctx context.Context, utoolsOrderID string) (*utools.PaymentRecord, error) {
	if g.queryErr != nil {
		return nil, g.queryErr
	}
	return &utools.PaymentRecord{Status: g.status, OrderID: "ut-" + utoolsOrderID}, nil
}

func TestCreatePending(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &fakeGateway{goodsID: "g-1"}, 10)

	usr := &models.User{ID: 7, UtoolID: "open-7"}
	ord, err := svc.CreatePending(context.Background(), usr, "100 tokens", 10.00)
	if err != nil {
		t.Fatalf("CreatePending: %v", err)
	}
	if ord.PayFee != 1000 {
		t.Errorf("PayFee = %d, want 1000", ord.PayFee)
	}
	if ord.TokenAdded != 100 {
		t.Errorf("TokenAdded = %d, want 100", ord.TokenAdded)
	}
	if ord.OrderStatus != models.OrderStatusPending || ord.PaymentStatus != models.PaymentStatusUnpaid {
		t.Errorf("unexpected initial status %s/%s", ord.OrderStatus, ord.PaymentStatus)
	}
	if ord.GoodsID != "g-1" {
		t.Errorf("GoodsID = %q, want g-1", ord.GoodsID)
	}
}

func TestCreatePendingRejectsBadAmount(t *testing.T) {
	svc := NewService(newMemStore(), &fakeGateway{goodsID: "g"}, 10)
	if _, err := svc.CreatePending(context.Background(), &models.User{ID: 1}, "x", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreatePendingGoodsFailureMarksOrderFailed(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &fakeGateway{goodsErr: utools.ErrGateway}, 10)

	if _, err := svc.CreatePending(context.Background(), &models.User{ID: 1}, "x", 5); !errors.Is(err, utools.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}

	orders, err := store.ListByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d persisted orders, want 1", len(orders))
	}
	if orders[0].OrderStatus != models.OrderStatusFailed {
		t.Errorf("OrderStatus = %s, want failed", orders[0].OrderStatus)
	}
	if orders[0].GoodsID != "" {
		t.Errorf("GoodsID = %q, want empty for a failed registration", orders[0].GoodsID)
	}
}

func TestConfirmCreditsExactlyOnce(t *testing.T) {
	store := newMemStore()
	gw := &fakeGateway{goodsID: "g", status: utools.PaymentConfirmed}
	svc := NewService(store, gw, 10)

	usr := &models.User{ID: 1}
	ord, err := svc.CreatePending(context.Background(), usr, "tokens", 10.00)
	if err != nil {
		t.Fatalf("CreatePending: %v", err)
	}

	confirmed, err := svc.Confirm(context.Background(), ord.OrderID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("PaymentStatus = %s, want paid", confirmed.PaymentStatus)
	}
	if confirmed.PaidAt == nil {
		t.Error("PaidAt not set")
	}
	if got := store.balance(1); got != 100 {
		t.Fatalf("balance = %v, want 100", got)
	}

	// Re-confirming the same paid order must not credit again.
	if _, err := svc.Confirm(context.Background(), ord.OrderID); err != nil {
		t.Fatalf("second Confirm: %v", err)
	}
	if got := store.balance(1); got != 100 {
		t.Fatalf("balance after re-confirm = %v, want 100", got)
	}
}

func TestConfirmUnknownOrder(t *testing.T) {
	svc := NewService(newMemStore(), &fakeGateway{status: utools.PaymentConfirmed}, 10)
	if _, err := svc.Confirm(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirmUnpaidUpstream(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &fakeGateway{goodsID: "g", status: 0}, 10)

	ord, err := svc.CreatePending(context.Background(), &models.User{ID: 1}, "tokens", 10.00)
	if err != nil {
		t.Fatalf("CreatePending: %v", err)
	}
	if _, err := svc.Confirm(context.Background(), ord.OrderID); !errors.Is(err, ErrPaymentNotConfirmed) {
		t.Fatalf("expected ErrPaymentNotConfirmed, got %v", err)
	}
	if got := store.balance(1); got != 0 {
		t.Fatalf("balance = %v, want 0", got)
	}
}

func TestConcurrentConfirmationsDoNotLoseCredits(t *testing.T) {
	store := newMemStore()
	gw := &fakeGateway{goodsID: "g", status: utools.PaymentConfirmed}
	svc := NewService(store, gw, 10)

	usr := &models.User{ID: 1}
	ordA, err := svc.CreatePending(context.Background(), usr, "a", 10.00)
	if err != nil {
		t.Fatalf("CreatePending: %v", err)
	}
	ordB, err := svc.CreatePending(context.Background(), usr, "b", 10.00)
	if err != nil {
		t.Fatalf("CreatePending: %v", err)
	}

	var wg sync.WaitGroup
	for _, id := range []uuid.UUID{ordA.OrderID, ordB.OrderID} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := svc.Confirm(context.Background(), id); err != nil {
				t.Errorf("Confirm(%s): %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	if got := store.balance(1); got != 200 {
		t.Fatalf("balance = %v, want exactly 200", got)
	}
}
