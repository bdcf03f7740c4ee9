package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/everyonewrite/writeguide/internal/llm"
	"github.com/everyonewrite/writeguide/internal/models"
	"github.com/everyonewrite/writeguide/internal/prompt"
	"github.com/everyonewrite/writeguide/internal/translate"
	"github.com/everyonewrite/writeguide/internal/user"
)

type fakeTranslator struct {
	out   string
	err   error
	calls int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeDispatcher struct {
	completion *llm.Completion
	err        error
	calls      int
	lastMsgs   []llm.Message
	lastModel  string
}

func (f *fakeDispatcher) Supported(modelID string) bool {
	return modelID != "unknown-model"
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, modelID string, messages []llm.Message) (*llm.Completion, error) {
	f.calls++
	f.lastModel = modelID
	f.lastMsgs = messages
	if f.err != nil {
		return nil, f.err
	}
	return f.completion, nil
}

type fakeBalances struct {
	mu      sync.Mutex
	balance float64
	debits  int
}

func (f *fakeBalances) Debit(ctx context.Context, userID int64, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if amount < 0 {
		return user.ErrNegativeAmount
	}
	if f.balance < amount {
		return user.ErrInsufficientBalance
	}
	f.balance -= amount
	f.debits++
	return nil
}

type fakeTasks struct {
	mu    sync.Mutex
	tasks []*models.WritingTask
}

func (f *fakeTasks) InitializeDatabase(ctx context.Context) error { return nil }

func (f *fakeTasks) Create(ctx context.Context, task *models.WritingTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *task
	f.tasks = append(f.tasks, &cp)
	return nil
}

func (f *fakeTasks) ListByUser(ctx context.Context, userID int64) ([]*models.WritingTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks, nil
}

func newTestService(tr *fakeTranslator, d *fakeDispatcher, b *fakeBalances, tk *fakeTasks) *Service {
	return NewService(tr, d, b, tk)
}

var testUser = &models.User{ID: 42, UtoolID: "open-42", TokenBalance: 500}

func TestGuideDirectFeedbackSkipsTranslation(t *testing.T) {
	tr := &fakeTranslator{out: "should not be used"}
	d := &fakeDispatcher{completion: &llm.Completion{Text: "well done"}}
	b := &fakeBalances{balance: 500}
	tk := &fakeTasks{}
	svc := newTestService(tr, d, b, tk)

	res, err := svc.Guide(context.Background(), testUser, Request{
		UserInput:        "I goed home",
		NativeLanguage:   "zh",
		LearningLanguage: "en",
		ModelChoice:      "Qwen/Qwen2-7B-Instruct",
	})
	if err != nil {
		t.Fatalf("Guide: %v", err)
	}
	if tr.calls != 0 {
		t.Errorf("translator invoked %d times, want 0", tr.calls)
	}
	if !strings.Contains(d.lastMsgs[1].Content, "direct feedback") {
		t.Errorf("expected direct-feedback template, got:\n%s", d.lastMsgs[1].Content)
	}
	if res.Task.Status != models.TaskStatusCompleted {
		t.Errorf("task status = %s, want completed", res.Task.Status)
	}
	if b.debits != 1 {
		t.Errorf("debits = %d, want 1", b.debits)
	}
}

func TestGuideReferenceOnlyTranslatesFirst(t *testing.T) {
	tr := &fakeTranslator{out: "I went home"}
	d := &fakeDispatcher{completion: &llm.Completion{Text: "explanation"}}
	svc := newTestService(tr, d, &fakeBalances{balance: 500}, &fakeTasks{})

	res, err := svc.Guide(context.Background(), testUser, Request{
		AssistExpression: "我回家了",
		NativeLanguage:   "zh",
		LearningLanguage: "en",
		ModelChoice:      "gpt-4o",
	})
	if err != nil {
		t.Fatalf("Guide: %v", err)
	}
	if tr.calls != 1 {
		t.Fatalf("translator invoked %d times, want 1", tr.calls)
	}
	if !strings.Contains(d.lastMsgs[1].Content, "I went home") {
		t.Errorf("prompt does not embed the translation:\n%s", d.lastMsgs[1].Content)
	}
	if !strings.Contains(d.lastMsgs[1].Content, "Explain its structure") {
		t.Errorf("expected explain-the-reference template:\n%s", d.lastMsgs[1].Content)
	}
	if res.Task.AIUnderstandingContent != "I went home" {
		t.Errorf("task AIUnderstandingContent = %q", res.Task.AIUnderstandingContent)
	}
}

func TestGuideBothInputsUsesComparativeTemplate(t *testing.T) {
	tr := &fakeTranslator{out: "I went home"}
	d := &fakeDispatcher{completion: &llm.Completion{Text: "comparison"}}
	svc := newTestService(tr, d, &fakeBalances{balance: 500}, &fakeTasks{})

	_, err := svc.Guide(context.Background(), testUser, Request{
		UserInput:        "I goed home",
		AssistExpression: "我回家了",
		NativeLanguage:   "zh",
		LearningLanguage: "en",
		ModelChoice:      "gpt-4o",
	})
	if err != nil {
		t.Fatalf("Guide: %v", err)
	}
	if !strings.Contains(d.lastMsgs[1].Content, "Compare the attempt with the reference") {
		t.Errorf("expected comparative template:\n%s", d.lastMsgs[1].Content)
	}
}

func TestGuideMissingBothInputs(t *testing.T) {
	d := &fakeDispatcher{completion: &llm.Completion{Text: "x"}}
	svc := newTestService(&fakeTranslator{}, d, &fakeBalances{balance: 500}, &fakeTasks{})

	_, err := svc.Guide(context.Background(), testUser, Request{
		NativeLanguage:   "zh",
		LearningLanguage: "en",
		ModelChoice:      "gpt-4o",
	})
	if !errors.Is(err, prompt.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if d.calls != 0 {
		t.Fatalf("dispatcher invoked %d times, want 0", d.calls)
	}
}

func TestGuideMissingLanguagePair(t *testing.T) {
	svc := newTestService(&fakeTranslator{}, &fakeDispatcher{}, &fakeBalances{}, &fakeTasks{})
	_, err := svc.Guide(context.Background(), testUser, Request{
		UserInput:   "hello",
		ModelChoice: "gpt-4o",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGuideUnsupportedModelNeverDispatches(t *testing.T) {
	d := &fakeDispatcher{completion: &llm.Completion{Text: "x"}}
	svc := newTestService(&fakeTranslator{}, d, &fakeBalances{balance: 500}, &fakeTasks{})

	_, err := svc.Guide(context.Background(), testUser, Request{
		UserInput:        "hello",
		NativeLanguage:   "zh",
		LearningLanguage: "en",
		ModelChoice:      "unknown-model",
	})
	if !errors.Is(err, llm.ErrUnsupportedModel) {
		t.Fatalf("expected ErrUnsupportedModel, got %v", err)
	}
	if d.calls != 0 {
		t.Fatalf("dispatcher invoked %d times, want 0", d.calls)
	}
}

func TestGuideTranslationFailureShortCircuits(t *testing.T) {
	tr := &fakeTranslator{err: translate.ErrTranslation}
	d := &fakeDispatcher{completion: &llm.Completion{Text: "x"}}
	svc := newTestService(tr, d, &fakeBalances{balance: 500}, &fakeTasks{})

	_, err := svc.Guide(context.Background(), testUser, Request{
		AssistExpression: "我回家了",
		NativeLanguage:   "zh",
		LearningLanguage: "en",
		ModelChoice:      "gpt-4o",
	})
	if !errors.Is(err, translate.ErrTranslation) {
		t.Fatalf("expected ErrTranslation, got %v", err)
	}
	if d.calls != 0 {
		t.Fatalf("dispatcher invoked %d times after translation failure, want 0", d.calls)
	}
}

func TestGuideModelFailureRecordsFailedTask(t *testing.T) {
	d := &fakeDispatcher{err: llm.ErrModel}
	b := &fakeBalances{balance: 500}
	tk := &fakeTasks{}
	svc := newTestService(&fakeTranslator{}, d, b, tk)

	_, err := svc.Guide(context.Background(), testUser, Request{
		UserInput:        "hello",
		NativeLanguage:   "zh",
		LearningLanguage: "en",
		ModelChoice:      "gpt-4o",
	})
	if !errors.Is(err, llm.ErrModel) {
		t.Fatalf("expected ErrModel, got %v", err)
	}
	if b.debits != 0 {
		t.Errorf("balance debited on failure, debits = %d", b.debits)
	}
	if len(tk.tasks) != 1 || tk.tasks[0].Status != models.TaskStatusFailed {
		t.Fatalf("expected one failed task, got %+v", tk.tasks)
	}
}

func TestGuideInsufficientBalance(t *testing.T) {
	d := &fakeDispatcher{completion: &llm.Completion{Text: "x"}}
	b := &fakeBalances{balance: 1}
	svc := newTestService(&fakeTranslator{}, d, b, &fakeTasks{})

	_, err := svc.Guide(context.Background(), testUser, Request{
		UserInput:        "hello world this costs tokens",
		NativeLanguage:   "zh",
		LearningLanguage: "en",
		ModelChoice:      "gpt-4o",
	})
	if !errors.Is(err, user.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestTokenCostImmutableAndPositive(t *testing.T) {
	if got, want := TokenCost(""), baseTokenCost; got != want {
		t.Fatalf("TokenCost(\"\") = %d, want %d", got, want)
	}
	first := TokenCost("hello world")
	second := TokenCost("hello world")
	if first != second {
		t.Fatal("TokenCost not deterministic")
	}
	if TokenCost("你好世界") != baseTokenCost+4 {
		t.Fatalf("CJK runes should count one token each, got %d", TokenCost("你好世界"))
	}
}
