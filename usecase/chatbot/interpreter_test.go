package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

type mockTaskRepo struct {
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Task, error)
	ListFunc                 func(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error)
	ListRecentFunc           func(ctx context.Context, userID string, limit int) ([]domain.Task, error)
	CreateFunc               func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	UpdateFunc               func(ctx context.Context, task *domain.Task) error
	CompleteByTitleMatchFunc func(ctx context.Context, match repository.TitleMatch) (*domain.Task, error)
	DeleteFunc               func(ctx context.Context, userID, id string) error

	creates int
	updates int
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockTaskRepo) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	m.creates++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	task.ID = "task-1"
	return task, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	m.updates++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *mockTaskRepo) CompleteByTitleMatch(ctx context.Context, match repository.TitleMatch) (*domain.Task, error) {
	if m.CompleteByTitleMatchFunc != nil {
		return m.CompleteByTitleMatchFunc(ctx, match)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepo) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

type mockEnhancer struct {
	EnhanceFunc func(ctx context.Context, title string) (*domain.Enhancement, error)
}

func (m *mockEnhancer) Enhance(ctx context.Context, title string) (*domain.Enhancement, error) {
	if m.EnhanceFunc != nil {
		return m.EnhanceFunc(ctx, title)
	}
	return nil, errors.New("enhancer not configured")
}

func newTestUseCase(repo *mockTaskRepo, enhancer *mockEnhancer) *UseCase {
	// A typed nil must not reach the interface field.
	if enhancer == nil {
		return New(repo, nil, nil, nil, Config{})
	}
	return New(repo, enhancer, nil, nil, Config{})
}

func TestFreeTextTodoMarkerCreatesTask(t *testing.T) {
	repo := &mockTaskRepo{}
	uc := newTestUseCase(repo, nil)

	result, err := uc.Interpret(context.Background(), Request{
		Intent:  IntentFreeText,
		Message: "#to-do buy milk",
		UserID:  "user-1",
	})
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if result.Intent != IntentAdd {
		t.Errorf("Expected intent %v, got %v", IntentAdd, result.Intent)
	}
	if result.Task == nil {
		t.Fatal("Expected a created task")
	}
	if !strings.Contains(result.Task.Title, "buy milk") {
		t.Errorf("Expected title to contain 'buy milk', got %q", result.Task.Title)
	}
	if result.Task.Completed {
		t.Error("New task should not be completed")
	}
	if result.Task.UserID != "user-1" {
		t.Errorf("Expected user-1 owner, got %q", result.Task.UserID)
	}
	if !strings.Contains(result.Reply, "buy milk") {
		t.Errorf("Reply should include the title, got %q", result.Reply)
	}
}

func TestAddSurvivesEnhancerFailure(t *testing.T) {
	repo := &mockTaskRepo{}
	enhancer := &mockEnhancer{
		EnhanceFunc: func(ctx context.Context, title string) (*domain.Enhancement, error) {
			return nil, errors.New("enrichment service down")
		},
	}
	uc := newTestUseCase(repo, enhancer)

	result, err := uc.Interpret(context.Background(), Request{
		Intent: IntentAdd,
		Title:  "water the plants",
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("Add must not fail on enhancer error: %v", err)
	}
	if result.Task == nil || result.Task.Title != "water the plants" {
		t.Fatalf("Expected fallback title, got %+v", result.Task)
	}
	if result.Enhancement == nil || !result.Enhancement.Fallback {
		t.Error("Expected fallback enhancement")
	}
	if result.Task.Enhanced {
		t.Error("Fallback tasks must not be flagged enhanced")
	}
	if repo.creates != 1 {
		t.Errorf("Expected exactly one create, got %d", repo.creates)
	}
}

func TestAddUsesEnhancedTitle(t *testing.T) {
	repo := &mockTaskRepo{}
	enhancer := &mockEnhancer{
		EnhanceFunc: func(ctx context.Context, title string) (*domain.Enhancement, error) {
			return &domain.Enhancement{
				Title:       "Buy 2L of whole milk",
				Description: "From the corner store",
				Steps:       []string{"go to store", "buy milk"},
			}, nil
		},
	}
	uc := newTestUseCase(repo, enhancer)

	result, err := uc.Interpret(context.Background(), Request{
		Intent:  IntentAdd,
		Message: "add task: buy milk",
		UserID:  "user-1",
	})
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if result.Task.Title != "Buy 2L of whole milk" {
		t.Errorf("Expected enhanced title, got %q", result.Task.Title)
	}
	if result.Task.Description != "From the corner store" {
		t.Errorf("Expected enhanced description, got %q", result.Task.Description)
	}
	if !result.Task.Enhanced {
		t.Error("Expected Enhanced flag on the task")
	}
}

func TestEnhanceDoesNotPersist(t *testing.T) {
	repo := &mockTaskRepo{}
	enhancer := &mockEnhancer{
		EnhanceFunc: func(ctx context.Context, title string) (*domain.Enhancement, error) {
			return &domain.Enhancement{Title: "Plan the trip", Steps: []string{"pick dates"}}, nil
		},
	}
	uc := newTestUseCase(repo, enhancer)

	result, err := uc.Interpret(context.Background(), Request{
		Intent: IntentEnhance,
		Title:  "trip",
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if repo.creates != 0 {
		t.Errorf("Enhance must not persist, got %d creates", repo.creates)
	}
	if !strings.Contains(result.Reply, "trip") || !strings.Contains(result.Reply, "Plan the trip") {
		t.Errorf("Reply should show original and enhanced titles, got %q", result.Reply)
	}
	if !strings.Contains(result.Reply, "pick dates") {
		t.Errorf("Reply should include suggested steps, got %q", result.Reply)
	}
}

func TestListFormatsMarkersNewestFirst(t *testing.T) {
	repo := &mockTaskRepo{
		ListRecentFunc: func(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
			if limit != 10 {
				t.Errorf("Expected default limit 10, got %d", limit)
			}
			return []domain.Task{
				{Title: "A", Completed: false},
				{Title: "B", Completed: true},
			}, nil
		},
	}
	uc := newTestUseCase(repo, nil)

	result, err := uc.Interpret(context.Background(), Request{
		Intent: IntentList,
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(result.Tasks))
	}

	lines := strings.Split(result.Reply, "\n")
	var taskLines []string
	for _, line := range lines {
		if strings.HasPrefix(line, "⭕") || strings.HasPrefix(line, "✅") {
			taskLines = append(taskLines, line)
		}
	}
	if len(taskLines) != 2 {
		t.Fatalf("Expected 2 task lines, got %d in %q", len(taskLines), result.Reply)
	}
	if taskLines[0] != "⭕ A" {
		t.Errorf("Expected first line '⭕ A', got %q", taskLines[0])
	}
	if taskLines[1] != "✅ B" {
		t.Errorf("Expected second line '✅ B', got %q", taskLines[1])
	}
}

func TestListRendersWithZeroTasks(t *testing.T) {
	uc := newTestUseCase(&mockTaskRepo{}, nil)

	result, err := uc.Interpret(context.Background(), Request{
		Intent: IntentList,
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if !strings.Contains(result.Reply, "Your recent tasks") {
		t.Errorf("Empty listing should still render the template, got %q", result.Reply)
	}
}

func TestCompleteMarksMatchedTask(t *testing.T) {
	repo := &mockTaskRepo{
		CompleteByTitleMatchFunc: func(ctx context.Context, match repository.TitleMatch) (*domain.Task, error) {
			if match.UserID != "user-1" {
				t.Errorf("Expected user-1, got %q", match.UserID)
			}
			if match.Substring != "milk" {
				t.Errorf("Expected search key 'milk', got %q", match.Substring)
			}
			if match.ExcludeCompleted {
				t.Error("Default policy keeps completed tasks in the match pool")
			}
			return &domain.Task{ID: "task-1", Title: "buy milk", Completed: true}, nil
		},
	}
	uc := newTestUseCase(repo, nil)

	result, err := uc.Interpret(context.Background(), Request{
		Intent: IntentComplete,
		Title:  "milk",
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if result.Task == nil || !result.Task.Completed {
		t.Fatal("Expected a completed task in the result")
	}
	if !strings.Contains(result.Reply, "buy milk") {
		t.Errorf("Reply should confirm with the stored title, got %q", result.Reply)
	}
}

func TestCompleteNoMatchReturnsNotFound(t *testing.T) {
	repo := &mockTaskRepo{}
	uc := newTestUseCase(repo, nil)

	_, err := uc.Interpret(context.Background(), Request{
		Intent: IntentComplete,
		Title:  "xyz",
		UserID: "user-1",
	})
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("Expected NotFound, got %v", err)
	}
	if repo.creates != 0 || repo.updates != 0 {
		t.Error("Failed complete must not mutate the store")
	}
}

func TestCompleteExcludesCompletedWhenConfigured(t *testing.T) {
	var seen repository.TitleMatch
	repo := &mockTaskRepo{
		CompleteByTitleMatchFunc: func(ctx context.Context, match repository.TitleMatch) (*domain.Task, error) {
			seen = match
			return &domain.Task{Title: "buy milk", Completed: true}, nil
		},
	}
	uc := New(repo, nil, nil, nil, Config{MatchCompleted: false})

	if _, err := uc.Interpret(context.Background(), Request{
		Intent: IntentComplete,
		Title:  "milk",
		UserID: "user-1",
	}); err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if !seen.ExcludeCompleted {
		t.Error("Expected ExcludeCompleted to be forwarded to the store")
	}
}

func TestFreeTextListKeyword(t *testing.T) {
	repo := &mockTaskRepo{
		ListRecentFunc: func(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
			return nil, nil
		},
	}
	uc := newTestUseCase(repo, nil)

	result, err := uc.Interpret(context.Background(), Request{
		Intent:  IntentFreeText,
		Message: "list my tasks",
		UserID:  "user-1",
	})
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if result.Intent != IntentList {
		t.Errorf("Expected list intent, got %v", result.Intent)
	}
}

func TestFreeTextCompleteStripsCommandWords(t *testing.T) {
	repo := &mockTaskRepo{
		CompleteByTitleMatchFunc: func(ctx context.Context, match repository.TitleMatch) (*domain.Task, error) {
			if match.Substring != "buy milk" {
				t.Errorf("Expected key 'buy milk', got %q", match.Substring)
			}
			return &domain.Task{Title: "buy milk", Completed: true}, nil
		},
	}
	uc := newTestUseCase(repo, nil)

	result, err := uc.Interpret(context.Background(), Request{
		Intent:  IntentFreeText,
		Message: "done buy milk",
		UserID:  "user-1",
	})
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if result.Intent != IntentComplete {
		t.Errorf("Expected complete intent, got %v", result.Intent)
	}
}

func TestFreeTextUnmatchedReturnsHelp(t *testing.T) {
	repo := &mockTaskRepo{}
	uc := newTestUseCase(repo, nil)

	result, err := uc.Interpret(context.Background(), Request{
		Intent:  IntentFreeText,
		Message: "hello there",
		UserID:  "user-1",
	})
	if err != nil {
		t.Fatalf("Interpret returned error: %v", err)
	}
	if result.Intent != IntentNone {
		t.Errorf("Expected no intent executed, got %v", result.Intent)
	}
	if !strings.Contains(result.Reply, "#to-do") {
		t.Errorf("Help reply should mention the to-do marker, got %q", result.Reply)
	}
	if repo.creates != 0 {
		t.Error("Help path must not create tasks")
	}
}

func TestInterpretRequiresUser(t *testing.T) {
	uc := newTestUseCase(&mockTaskRepo{}, nil)
	if _, err := uc.Interpret(context.Background(), Request{Intent: IntentList}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("Expected invalid payload, got %v", err)
	}
}

func TestAddStoreFaultPropagates(t *testing.T) {
	repo := &mockTaskRepo{
		CreateFunc: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
			return nil, errors.New("connection refused")
		},
	}
	uc := newTestUseCase(repo, nil)

	_, err := uc.Interpret(context.Background(), Request{
		Intent: IntentAdd,
		Title:  "buy milk",
		UserID: "user-1",
	})
	if !domain.IsDomainError(err, domain.ErrCodeInternal) {
		t.Fatalf("Expected internal error, got %v", err)
	}
}
