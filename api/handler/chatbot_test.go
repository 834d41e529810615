package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/taskflow/backend/api/transport"
	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
	chatbotUC "github.com/taskflow/backend/usecase/chatbot"
)

type mockTaskRepo struct {
	ListRecentFunc func(userID string, limit int) ([]domain.Task, error)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}

func (m *mockTaskRepo) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(userID, limit)
	}
	return nil, nil
}

func (m *mockTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task.ID == "" {
		task.ID = "task-1"
	}
	return task, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *domain.Task) error { return nil }

func (m *mockTaskRepo) CompleteByTitleMatch(ctx context.Context, match repository.TitleMatch) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepo) Delete(ctx context.Context, userID, id string) error { return nil }

func newChatbotHandler() *ChatbotHandler {
	uc := chatbotUC.New(&mockTaskRepo{}, nil, nil, nil, chatbotUC.Config{})
	return NewChatbotHandler(uc, nil, nil)
}

func postCtx(body string, userID string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBodyString(body)
	if userID != "" {
		ctx.Request.Header.Set("X-User-ID", userID)
	}
	return ctx
}

func decodeReply(t *testing.T, ctx *fasthttp.RequestCtx) transport.ChatReply {
	t.Helper()
	var reply transport.ChatReply
	if err := json.Unmarshal(ctx.Response.Body(), &reply); err != nil {
		t.Fatalf("Failed to decode reply: %v", err)
	}
	return reply
}

func TestInterpretRequiresUser(t *testing.T) {
	h := newChatbotHandler()
	ctx := postCtx(`{"action":"list_tasks"}`, "")

	h.Interpret(ctx)

	if ctx.Response.StatusCode() != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", ctx.Response.StatusCode())
	}
}

func TestInterpretRejectsUnknownAction(t *testing.T) {
	h := newChatbotHandler()
	ctx := postCtx(`{"action":"drop_database"}`, "user-1")

	h.Interpret(ctx)

	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", ctx.Response.StatusCode())
	}
	reply := decodeReply(t, ctx)
	if reply.Error != "invalid action" {
		t.Errorf("Expected invalid action error, got %q", reply.Error)
	}
}

func TestInterpretAddTask(t *testing.T) {
	h := newChatbotHandler()
	ctx := postCtx(`{"action":"add_task","data":{"title":"buy milk"}}`, "user-1")

	h.Interpret(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	reply := decodeReply(t, ctx)
	if !reply.Success {
		t.Error("Expected a successful reply")
	}
	if reply.Intent != "add_task" {
		t.Errorf("Expected add_task intent, got %q", reply.Intent)
	}
	if reply.Task == nil || !strings.Contains(reply.Task.Title, "buy milk") {
		t.Errorf("Expected created task in reply, got %+v", reply.Task)
	}
}

func TestChannelWebhookRejectsInvalidPayload(t *testing.T) {
	h := newChatbotHandler()
	for _, body := range []string{`not json`, `{"message":"hi"}`, `{"user_id":"user-1"}`} {
		ctx := postCtx(body, "")
		h.ChannelWebhook(ctx)
		if ctx.Response.StatusCode() != http.StatusBadRequest {
			t.Errorf("Body %q: expected 400, got %d", body, ctx.Response.StatusCode())
		}
	}
}

func TestChannelWebhookFallsBackToHelp(t *testing.T) {
	h := newChatbotHandler()
	ctx := postCtx(`{"user_id":"user-1","message":"how does this work?"}`, "")

	h.ChannelWebhook(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("Expected 200, got %d", ctx.Response.StatusCode())
	}
	reply := decodeReply(t, ctx)
	if !strings.Contains(reply.Message, "🤖") {
		t.Errorf("Expected help reply, got %q", reply.Message)
	}
	if reply.Intent != "none" {
		t.Errorf("Expected none intent, got %q", reply.Intent)
	}
}
