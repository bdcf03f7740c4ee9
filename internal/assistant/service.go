// Package assistant sequences one writing-guidance request: optional
// translation of the reference expression, prompt composition, model
// dispatch and the bookkeeping around it. The three upstream calls are
// data-dependent and strictly ordered; nothing is retried.
package assistant

import (
	"context"
	"errors"

	"github.com/everyonewrite/writeguide/internal/llm"
	"github.com/everyonewrite/writeguide/internal/logger"
	"github.com/everyonewrite/writeguide/internal/models"
	"github.com/everyonewrite/writeguide/internal/prompt"
	"github.com/everyonewrite/writeguide/internal/translate"
	"github.com/google/uuid"
)

var ErrValidation = errors.New("missing required fields")

type Request struct {
	UserInput        string `json:"user_input"`
	AssistExpression string `json:"assist_expression"`
	NativeLanguage   string `json:"native_language"`
	LearningLanguage string `json:"learning_language"`
	ModelChoice      string `json:"model_choice"`
}

type Result struct {
	Completion *llm.Completion
	Task       *models.WritingTask
}

type Dispatcher interface {
	Supported(modelID string) bool
	Dispatch(ctx context.Context, modelID string, messages []llm.Message) (*llm.Completion, error)
}

// BalanceStore is the slice of the user store the orchestrator consumes.
type BalanceStore interface {
	Debit(ctx context.Context, userID int64, amount float64) error
}

type Service struct {
	translator translate.Translator
	dispatcher Dispatcher
	balances   BalanceStore
	tasks      TaskRepository
}

func NewService(translator translate.Translator, dispatcher Dispatcher, balances BalanceStore, tasks TaskRepository) *Service {
	return &Service{
		translator: translator,
		dispatcher: dispatcher,
		balances:   balances,
		tasks:      tasks,
	}
}

// Guide runs the linear pipeline for one request. The token cost is fixed
// before any balance mutation and charged exactly once, on success.
func (s *Service) Guide(ctx context.Context, usr *models.User, req Request) (*Result, error) {
	if req.NativeLanguage == "" || req.LearningLanguage == "" || req.ModelChoice == "" {
		return nil, ErrValidation
	}
	if req.UserInput == "" && req.AssistExpression == "" {
		return nil, prompt.ErrMissingInput
	}
	if !s.dispatcher.Supported(req.ModelChoice) {
		return nil, llm.ErrUnsupportedModel
	}

	reference := ""
	if req.AssistExpression != "" {
		translated, err := s.translator.Translate(ctx, req.AssistExpression, req.NativeLanguage, req.LearningLanguage)
		if err != nil {
			return nil, err
		}
		reference = translated
	}

	messages, err := prompt.Compose(prompt.Input{
		UserAttempt:      req.UserInput,
		ReferenceText:    reference,
		NativeLanguage:   req.NativeLanguage,
		LearningLanguage: req.LearningLanguage,
	})
	if err != nil {
		return nil, err
	}

	cost := TokenCost(req.UserInput + req.AssistExpression)
	task := &models.WritingTask{
		TaskID:                 uuid.New(),
		UserID:                 usr.ID,
		SourceLanguage:         req.NativeLanguage,
		TargetLanguage:         req.LearningLanguage,
		ModelType:              req.ModelChoice,
		AIUnderstandingContent: reference,
		UserAttemptContent:     req.UserInput,
		TokenSpent:             cost,
		Status:                 models.TaskStatusPending,
	}

	completion, err := s.dispatcher.Dispatch(ctx, req.ModelChoice, messages)
	if err != nil {
		task.Status = models.TaskStatusFailed
		s.recordTask(ctx, task)
		return nil, err
	}

	if err := s.balances.Debit(ctx, usr.ID, float64(cost)); err != nil {
		task.Status = models.TaskStatusFailed
		s.recordTask(ctx, task)
		return nil, err
	}

	task.AIGuidanceContent = completion.Text
	task.Status = models.TaskStatusCompleted
	s.recordTask(ctx, task)

	return &Result{Completion: completion, Task: task}, nil
}

// recordTask persists the invocation record; failing to write history must
// not fail a request that already produced guidance.
func (s *Service) recordTask(ctx context.Context, task *models.WritingTask) {
	if err := s.tasks.Create(ctx, task); err != nil {
		logger.Log.Error("failed to record writing task",
			"task_id", task.TaskID.String(), "error", err)
	}
}

func (s *Service) History(ctx context.Context, userID int64) ([]*models.WritingTask, error) {
	return s.tasks.ListByUser(ctx, userID)
}
