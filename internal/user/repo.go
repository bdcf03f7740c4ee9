package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/everyonewrite/writeguide/internal/models"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrNegativeAmount      = errors.New("amount must be non-negative")
	ErrInsufficientBalance = errors.New("insufficient token balance")
)

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	GetByUtoolID(ctx context.Context, utoolID string) (*models.User, error)
	GetOrCreate(ctx context.Context, utoolID string, defaultBalance float64) (*models.User, bool, error)
	Credit(ctx context.Context, userID int64, amount float64) error
	Debit(ctx context.Context, userID int64, amount float64) error
	GetBalance(ctx context.Context, userID int64) (float64, error)
}

type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.UserDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.UserDB)(nil)).
		Index("idx_utools_user_utool_id").
		Column("utool_id").
		Unique().
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

func (r *UserRepository) GetByUtoolID(ctx context.Context, utoolID string) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("utool_id = ?", utoolID).
		Where("delete_time IS NULL").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

// GetOrCreate inserts the account if it does not exist yet. The insert uses
// ON CONFLICT DO NOTHING against the utool_id unique index, so two racing
// logins for the same identity create at most one row.
func (r *UserRepository) GetOrCreate(ctx context.Context, utoolID string, defaultBalance float64) (*models.User, bool, error) {
	now := time.Now()
	userDB := models.UserFromDomain(&models.User{
		UtoolID:          utoolID,
		TokenBalance:     defaultBalance,
		RegistrationTime: now,
		UpdateTime:       now,
	})

	res, err := r.db.NewInsert().
		Model(userDB).
		On("CONFLICT (utool_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, false, err
	}

	created := false
	if rows, err := res.RowsAffected(); err == nil && rows > 0 {
		created = true
	}

	user, err := r.GetByUtoolID(ctx, utoolID)
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// Credit applies an additive balance change as a single atomic SQL
// increment so concurrent confirmations never lose an update.
func (r *UserRepository) Credit(ctx context.Context, userID int64, amount float64) error {
	return CreditTx(ctx, r.db, userID, amount)
}

// CreditTx runs the increment on any bun query runner, so callers can
// fold the credit into their own transaction.
func CreditTx(ctx context.Context, db bun.IDB, userID int64, amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	res, err := db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("token_balance = token_balance + ?", amount).
		Set("update_time = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Debit subtracts from the balance only when the guarded update matches,
// so the balance can never go negative.
func (r *UserRepository) Debit(ctx context.Context, userID int64, amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	res, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("token_balance = token_balance - ?", amount).
		Set("update_time = ?", time.Now()).
		Where("id = ?", userID).
		Where("token_balance >= ?", amount).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, userID); err != nil {
			return err
		}
		return ErrInsufficientBalance
	}
	return nil
}

func (r *UserRepository) GetBalance(ctx context.Context, userID int64) (float64, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Column("token_balance").
		Where("id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return userDB.TokenBalance, nil
}
