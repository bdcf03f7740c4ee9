package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusUnpaid    OrderStatus = "unpaid"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodWechat       PaymentMethod = "wechat"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

type Order struct {
	OrderID       uuid.UUID     `json:"order_id"`
	UserID        int64         `json:"user_id"`
	UtoolsOrderID *string       `json:"utools_order_id,omitempty"`
	GoodsID       string        `json:"goods_id"`
	Body          string        `json:"body"`
	Attach        string        `json:"attach,omitempty"`
	OrderStatus   OrderStatus   `json:"order_status"`
	Amount        float64       `json:"amount"`
	PayFee        int           `json:"pay_fee"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Currency      string        `json:"currency"`
	Description   string        `json:"description,omitempty"`
	TokenAdded    int           `json:"token_added"`
	CreatedAt     time.Time     `json:"created_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
