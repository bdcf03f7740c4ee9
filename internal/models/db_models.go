package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserDB struct {
	bun.BaseModel `bun:"table:utools_user,alias:u"`

	ID               int64      `bun:"id,pk,autoincrement" json:"id"`
	UtoolID          string     `bun:"utool_id,notnull,unique" json:"utool_id"`
	TokenBalance     float64    `bun:"token_balance,notnull,default:0,type:numeric(10,2)" json:"token_balance"`
	RegistrationTime time.Time  `bun:"registration_time,notnull,default:current_timestamp" json:"registration_time"`
	UpdateTime       time.Time  `bun:"update_time,notnull,default:current_timestamp" json:"update_time"`
	DeleteTime       *time.Time `bun:"delete_time" json:"delete_time,omitempty"`
}

func (u *UserDB) ToUser() *User {
	return &User{
		ID:               u.ID,
		UtoolID:          u.UtoolID,
		TokenBalance:     u.TokenBalance,
		RegistrationTime: u.RegistrationTime,
		UpdateTime:       u.UpdateTime,
		DeleteTime:       u.DeleteTime,
	}
}

func UserFromDomain(u *User) *UserDB {
	return &UserDB{
		ID:               u.ID,
		UtoolID:          u.UtoolID,
		TokenBalance:     u.TokenBalance,
		RegistrationTime: u.RegistrationTime,
		UpdateTime:       u.UpdateTime,
		DeleteTime:       u.DeleteTime,
	}
}

type OrderDB struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	OrderID       uuid.UUID     `bun:"order_id,pk,type:uuid" json:"order_id"`
	UserID        int64         `bun:"user_id,notnull" json:"user_id"`
	User          *UserDB       `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	UtoolsOrderID *string       `bun:"utools_order_id,unique,nullzero" json:"utools_order_id,omitempty"`
	GoodsID       string        `bun:"goods_id" json:"goods_id"`
	Body          string        `bun:"body,notnull" json:"body"`
	Attach        string        `bun:"attach" json:"attach,omitempty"`
	OrderStatus   OrderStatus   `bun:"order_status,notnull,default:'unpaid'" json:"order_status"`
	Amount        float64       `bun:"amount,notnull,type:numeric(10,2)" json:"amount"`
	PayFee        int           `bun:"pay_fee,notnull" json:"pay_fee"`
	PaymentStatus PaymentStatus `bun:"payment_status,notnull,default:'unpaid'" json:"payment_status"`
	PaymentMethod PaymentMethod `bun:"payment_method,notnull,default:'wechat'" json:"payment_method"`
	Currency      string        `bun:"currency,notnull,default:'CNY'" json:"currency"`
	Description   string        `bun:"description" json:"description,omitempty"`
	TokenAdded    int           `bun:"token_added,notnull,default:0" json:"token_added"`
	CreatedAt     time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	PaidAt        *time.Time    `bun:"paid_at" json:"paid_at,omitempty"`
	UpdatedAt     time.Time     `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (o *OrderDB) ToOrder() *Order {
	return &Order{
		OrderID:       o.OrderID,
		UserID:        o.UserID,
		UtoolsOrderID: o.UtoolsOrderID,
		GoodsID:       o.GoodsID,
		Body:          o.Body,
		Attach:        o.Attach,
		OrderStatus:   o.OrderStatus,
		Amount:        o.Amount,
		PayFee:        o.PayFee,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Currency:      o.Currency,
		Description:   o.Description,
		TokenAdded:    o.TokenAdded,
		CreatedAt:     o.CreatedAt,
		PaidAt:        o.PaidAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func OrderFromDomain(o *Order) *OrderDB {
	return &OrderDB{
		OrderID:       o.OrderID,
		UserID:        o.UserID,
		UtoolsOrderID: o.UtoolsOrderID,
		GoodsID:       o.GoodsID,
		Body:          o.Body,
		Attach:        o.Attach,
		OrderStatus:   o.OrderStatus,
		Amount:        o.Amount,
		PayFee:        o.PayFee,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Currency:      o.Currency,
		Description:   o.Description,
		TokenAdded:    o.TokenAdded,
		CreatedAt:     o.CreatedAt,
		PaidAt:        o.PaidAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type WritingTaskDB struct {
	bun.BaseModel `bun:"table:writing_tasks,alias:wt"`

	TaskID                 uuid.UUID  `bun:"task_id,pk,type:uuid" json:"task_id"`
	UserID                 int64      `bun:"user_id,notnull" json:"user_id"`
	User                   *UserDB    `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	SourceLanguage         string     `bun:"source_language,notnull" json:"source_language"`
	TargetLanguage         string     `bun:"target_language,notnull" json:"target_language"`
	ModelType              string     `bun:"model_type,notnull" json:"model_type"`
	AIUnderstandingContent string     `bun:"ai_understanding_content" json:"ai_understanding_content"`
	UserAttemptContent     string     `bun:"user_attempt_content" json:"user_attempt_content"`
	AIGuidanceContent      string     `bun:"ai_guidance_content" json:"ai_guidance_content"`
	TokenSpent             int        `bun:"token_spent,notnull,default:0" json:"token_spent"`
	TaskQuota              int        `bun:"task_quota,notnull,default:0" json:"task_quota"`
	Status                 TaskStatus `bun:"status,notnull,default:'pending'" json:"status"`
	Description            string     `bun:"description" json:"description,omitempty"`
	CreatedAt              time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (t *WritingTaskDB) ToWritingTask() *WritingTask {
	return &WritingTask{
		TaskID:                 t.TaskID,
		UserID:                 t.UserID,
		SourceLanguage:         t.SourceLanguage,
		TargetLanguage:         t.TargetLanguage,
		ModelType:              t.ModelType,
		AIUnderstandingContent: t.AIUnderstandingContent,
		UserAttemptContent:     t.UserAttemptContent,
		AIGuidanceContent:      t.AIGuidanceContent,
		TokenSpent:             t.TokenSpent,
		TaskQuota:              t.TaskQuota,
		Status:                 t.Status,
		Description:            t.Description,
		CreatedAt:              t.CreatedAt,
	}
}

func WritingTaskFromDomain(t *WritingTask) *WritingTaskDB {
	return &WritingTaskDB{
		TaskID:                 t.TaskID,
		UserID:                 t.UserID,
		SourceLanguage:         t.SourceLanguage,
		TargetLanguage:         t.TargetLanguage,
		ModelType:              t.ModelType,
		AIUnderstandingContent: t.AIUnderstandingContent,
		UserAttemptContent:     t.UserAttemptContent,
		AIGuidanceContent:      t.AIGuidanceContent,
		TokenSpent:             t.TokenSpent,
		TaskQuota:              t.TaskQuota,
		Status:                 t.Status,
		Description:            t.Description,
		CreatedAt:              t.CreatedAt,
	}
}
