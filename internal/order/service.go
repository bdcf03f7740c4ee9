package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/everyonewrite/writeguide/internal/logger"
	"github.com/everyonewrite/writeguide/internal/models"
	"github.com/everyonewrite/writeguide/internal/utools"
	"github.com/google/uuid"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// PaymentGateway is the slice of the plugin-platform client the order flow
// needs: registering a sellable item and checking whether it was paid.
type PaymentGateway interface {
	CreateGoods(ctx context.Context, title string, feeMinorUnits int) (string, error)
	QueryPaymentStatus(ctx context.Context, utoolsOrderID string) (*utools.PaymentRecord, error)
}

type Service struct {
	orders        Repository
	gateway       PaymentGateway
	tokensPerYuan int
}

func NewService(orders Repository, gateway PaymentGateway, tokensPerYuan int) *Service {
	return &Service{
		orders:        orders,
		gateway:       gateway,
		tokensPerYuan: tokensPerYuan,
	}
}

// CreatePending records a pending, unpaid order and then registers the
// sellable item with the platform. A goods-registration failure marks the
// order failed so it never becomes payable. token_added is fixed at
// creation from the amount.
func (s *Service) CreatePending(ctx context.Context, usr *models.User, body string, amount float64) (*models.Order, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payFee := int(math.Round(amount * 100))
	ord := &models.Order{
		OrderID:       uuid.New(),
		UserID:        usr.ID,
		Body:          body,
		OrderStatus:   models.OrderStatusPending,
		Amount:        amount,
		PayFee:        payFee,
		PaymentStatus: models.PaymentStatusUnpaid,
		PaymentMethod: models.PaymentMethodWechat,
		Currency:      "CNY",
		TokenAdded:    int(math.Round(amount * float64(s.tokensPerYuan))),
	}
	if err := s.orders.Create(ctx, ord); err != nil {
		return nil, err
	}

	goodsID, err := s.gateway.CreateGoods(ctx, body, payFee)
	if err != nil {
		if failErr := s.orders.MarkFailed(ctx, ord.OrderID); failErr != nil {
			logger.Log.Error("failed to mark order failed",
				"order_id", ord.OrderID.String(), "error", failErr)
		}
		return nil, fmt.Errorf("creating sellable item: %w", err)
	}
	if err := s.orders.AttachGoods(ctx, ord.OrderID, goodsID); err != nil {
		return nil, err
	}
	ord.GoodsID = goodsID
	return ord, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Confirm checks payment with the platform and, when confirmed, flips the
// order to paid and credits the owner. The flip-and-credit is idempotent
// per order: re-confirming an already-paid order changes nothing.
func (s *Service) Confirm(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	ord, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	record, err := s.gateway.QueryPaymentStatus(ctx, ord.OrderID.String())
	if err != nil {
		return nil, fmt.Errorf("querying payment status: %w", err)
	}
	if !record.Confirmed() {
		return nil, ErrPaymentNotConfirmed
	}

	if _, err := s.orders.MarkPaidAndCredit(ctx, orderID, record.OrderID, time.Now()); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}
