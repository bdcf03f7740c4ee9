package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/everyonewrite/writeguide/internal/models"
	"github.com/everyonewrite/writeguide/internal/user"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound            = errors.New("order not found")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
)

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	Create(ctx context.Context, ord *models.Order) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	AttachGoods(ctx context.Context, orderID uuid.UUID, goodsID string) error
	MarkPaidAndCredit(ctx context.Context, orderID uuid.UUID, utoolsOrderID string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, orderID uuid.UUID) error
}

type OrderRepository struct {
	db *bun.DB
}

func NewOrderRepository(db *bun.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.OrderDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.OrderDB)(nil)).
		Index("idx_orders_user_id").
		Column("user_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *OrderRepository) Create(ctx context.Context, ord *models.Order) error {
	orderDB := models.OrderFromDomain(ord)
	orderDB.CreatedAt = time.Now()
	orderDB.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(orderDB).Exec(ctx)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	orderDB := new(models.OrderDB)
	err := r.db.NewSelect().
		Model(orderDB).
		Where("order_id = ?", orderID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return orderDB.ToOrder(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	var orderDBs []*models.OrderDB
	err := r.db.NewSelect().
		Model(&orderDBs).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]*models.Order, 0, len(orderDBs))
	for _, o := range orderDBs {
		orders = append(orders, o.ToOrder())
	}
	return orders, nil
}

func (r *OrderRepository) AttachGoods(ctx context.Context, orderID uuid.UUID, goodsID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.OrderDB)(nil)).
		Set("goods_id = ?", goodsID).
		Set("updated_at = ?", time.Now()).
		Where("order_id = ?", orderID).
		Exec(ctx)
	return err
}

// MarkPaidAndCredit flips the order to paid and credits token_added to the
// owning user inside one transaction. The flip is guarded by the current
// payment status, so re-confirming an already-paid order credits nothing
// and reports credited=false.
func (r *OrderRepository) MarkPaidAndCredit(ctx context.Context, orderID uuid.UUID, utoolsOrderID string, paidAt time.Time) (bool, error) {
	credited := false
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var flipped struct {
			UserID     int64 `bun:"user_id"`
			TokenAdded int   `bun:"token_added"`
		}
		q := tx.NewUpdate().
			Model((*models.OrderDB)(nil)).
			Set("payment_status = ?", models.PaymentStatusPaid).
			Set("order_status = ?", models.OrderStatusCompleted).
			Set("paid_at = ?", paidAt).
			Set("updated_at = ?", time.Now()).
			Where("order_id = ?", orderID).
			Where("payment_status != ?", models.PaymentStatusPaid).
			Returning("user_id, token_added")
		if utoolsOrderID != "" {
			q = q.Set("utools_order_id = ?", utoolsOrderID)
		}
		err := q.Scan(ctx, &flipped)
		if errors.Is(err, sql.ErrNoRows) {
			// Missing row or already paid; disambiguate for the caller.
			exists, existsErr := tx.NewSelect().
				Model((*models.OrderDB)(nil)).
				Where("order_id = ?", orderID).
				Exists(ctx)
			if existsErr != nil {
				return existsErr
			}
			if !exists {
				return ErrNotFound
			}
			return nil
		}
		if err != nil {
			return err
		}

		if err := user.CreditTx(ctx, tx, flipped.UserID, float64(flipped.TokenAdded)); err != nil {
			return err
		}
		credited = true
		return nil
	})
	return credited, err
}

func (r *OrderRepository) MarkFailed(ctx context.Context, orderID uuid.UUID) error {
	_, err := r.db.NewUpdate().
		Model((*models.OrderDB)(nil)).
		Set("order_status = ?", models.OrderStatusFailed).
		Set("updated_at = ?", time.Now()).
		Where("order_id = ?", orderID).
		Exec(ctx)
	return err
}
