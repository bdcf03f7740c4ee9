package assistant

import (
	"context"
	"time"

	"github.com/everyonewrite/writeguide/internal/models"
	"github.com/uptrace/bun"
)

type TaskRepository interface {
	InitializeDatabase(ctx context.Context) error
	Create(ctx context.Context, task *models.WritingTask) error
	ListByUser(ctx context.Context, userID int64) ([]*models.WritingTask, error)
}

type WritingTaskRepository struct {
	db *bun.DB
}

func NewWritingTaskRepository(db *bun.DB) *WritingTaskRepository {
	return &WritingTaskRepository{db: db}
}

func (r *WritingTaskRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.WritingTaskDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.WritingTaskDB)(nil)).
		Index("idx_writing_tasks_user_id").
		Column("user_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *WritingTaskRepository) Create(ctx context.Context, task *models.WritingTask) error {
	taskDB := models.WritingTaskFromDomain(task)
	taskDB.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(taskDB).Exec(ctx)
	return err
}

func (r *WritingTaskRepository) ListByUser(ctx context.Context, userID int64) ([]*models.WritingTask, error) {
	var taskDBs []*models.WritingTaskDB
	err := r.db.NewSelect().
		Model(&taskDBs).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]*models.WritingTask, 0, len(taskDBs))
	for _, t := range taskDBs {
		tasks = append(tasks, t.ToWritingTask())
	}
	return tasks, nil
}
