package task

import (
	"context"
	"errors"
	"testing"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

type mockTaskRepo struct {
	CreateFunc func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	UpdateFunc func(ctx context.Context, task *domain.Task) error
	DeleteFunc func(ctx context.Context, userID, id string) error
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}

func (m *mockTaskRepo) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
	return nil, nil
}

func (m *mockTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return task, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *mockTaskRepo) CompleteByTitleMatch(ctx context.Context, match repository.TitleMatch) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepo) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

type mockBuffer struct {
	tasks []string
	fail  bool
}

func (m *mockBuffer) BufferUser(ctx context.Context, operation string, user *domain.User) error {
	return nil
}

func (m *mockBuffer) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if m.fail {
		return errors.New("buffer full")
	}
	m.tasks = append(m.tasks, operation)
	return nil
}

func TestCreateTaskBuffersOnStoreFault(t *testing.T) {
	repo := &mockTaskRepo{
		CreateFunc: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
			return nil, errors.New("connection refused")
		},
	}
	buf := &mockBuffer{}
	uc := New(repo, buf, nil)

	task := &domain.Task{UserID: "user-1", Title: "buy milk"}
	created, err := uc.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("Expected buffered create to succeed, got %v", err)
	}
	if created.UpdatedAt.IsZero() {
		t.Error("Buffered task should carry timestamps")
	}
	if len(buf.tasks) != 1 || buf.tasks[0] != "create" {
		t.Errorf("Expected one buffered create, got %v", buf.tasks)
	}
}

func TestCreateTaskFailsWhenBufferFails(t *testing.T) {
	repo := &mockTaskRepo{
		CreateFunc: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
			return nil, errors.New("connection refused")
		},
	}
	uc := New(repo, &mockBuffer{fail: true}, nil)

	if _, err := uc.CreateTask(context.Background(), &domain.Task{UserID: "user-1", Title: "buy milk"}); err == nil {
		t.Fatal("Expected error when both store and buffer fail")
	}
}

func TestUpdateTaskNotFoundIsNotBuffered(t *testing.T) {
	repo := &mockTaskRepo{
		UpdateFunc: func(ctx context.Context, task *domain.Task) error {
			return domain.ErrTaskNotFound
		},
	}
	buf := &mockBuffer{}
	uc := New(repo, buf, nil)

	_, err := uc.UpdateTask(context.Background(), &domain.Task{ID: "missing", UserID: "user-1"})
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("Expected NotFound, got %v", err)
	}
	if len(buf.tasks) != 0 {
		t.Errorf("Missing task must not be buffered, got %v", buf.tasks)
	}
}

func TestDeleteTaskBuffersOnStoreFault(t *testing.T) {
	repo := &mockTaskRepo{
		DeleteFunc: func(ctx context.Context, userID, id string) error {
			return errors.New("connection refused")
		},
	}
	buf := &mockBuffer{}
	uc := New(repo, buf, nil)

	if err := uc.DeleteTask(context.Background(), "user-1", "task-1"); err != nil {
		t.Fatalf("Expected buffered delete to succeed, got %v", err)
	}
	if len(buf.tasks) != 1 || buf.tasks[0] != "delete" {
		t.Errorf("Expected one buffered delete, got %v", buf.tasks)
	}
}
