package chatbot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
	"github.com/taskflow/backend/usecase"
)

const helpReply = `🤖 Hi! Send me "#to-do [task]" to add tasks, or "list" to see your tasks!`

// Config tunes dispatcher behavior.
type Config struct {
	// ListLimit caps how many tasks a list reply shows.
	ListLimit int
	// MatchCompleted keeps already-completed tasks in the complete-by-title
	// match pool. With it on, repeating a complete re-matches the same task
	// and re-sets the flag instead of failing.
	MatchCompleted bool
}

// Request is one inbound chatbot message plus its routing hints.
type Request struct {
	Intent  Intent
	Title   string
	Message string
	UserID  string
	Source  string
}

// Result is what the dispatcher hands back to the transport layer.
type Result struct {
	Reply       string
	Intent      Intent
	Task        *domain.Task
	Tasks       []domain.Task
	Enhancement *domain.Enhancement
}

// UseCase interprets chatbot messages and dispatches task operations. Each
// call is stateless; no conversation state is carried between messages.
type UseCase struct {
	tasks      repository.TaskRepository
	enhancer   usecase.Enhancer
	classifier Classifier
	logger     *zap.Logger
	cfg        Config
}

func New(tasks repository.TaskRepository, enhancer usecase.Enhancer, classifier Classifier, logger *zap.Logger, cfg Config) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 10
	}
	return &UseCase{
		tasks:      tasks,
		enhancer:   enhancer,
		classifier: classifier,
		logger:     logger,
		cfg:        cfg,
	}
}

// Interpret resolves one message to an operation, runs it, and formats the
// reply. Store faults propagate as errors; enrichment faults degrade
// silently to the fallback enhancement.
func (uc *UseCase) Interpret(ctx context.Context, req Request) (*Result, error) {
	if req.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}

	switch req.Intent {
	case IntentAdd:
		return uc.addTask(ctx, req)
	case IntentEnhance:
		return uc.enhanceTask(ctx, req)
	case IntentList:
		return uc.listTasks(ctx, req)
	case IntentComplete:
		return uc.completeTask(ctx, req)
	case IntentFreeText:
		return uc.processFreeText(ctx, req)
	default:
		return nil, domain.ErrInvalidAction
	}
}

func (uc *UseCase) addTask(ctx context.Context, req Request) (*Result, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = extractAddTitle(req.Message)
	}
	if title == "" {
		return nil, domain.ErrInvalidPayload
	}

	enhancement := uc.enhance(ctx, title)

	source := req.Source
	if source == "" {
		source = domain.SourceChatbot
	}

	task := &domain.Task{
		UserID:      req.UserID,
		Title:       enhancement.Title,
		Description: enhancement.Description,
		Enhanced:    !enhancement.Fallback,
		Source:      source,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to create task", err)
	}

	reply := fmt.Sprintf("✅ Task %q created and enhanced!", created.Title)
	if enhancement.Fallback {
		reply = fmt.Sprintf("✅ Task %q created! (enhancement unavailable)", created.Title)
	}

	return &Result{
		Reply:       reply,
		Intent:      IntentAdd,
		Task:        created,
		Enhancement: enhancement,
	}, nil
}

func (uc *UseCase) enhanceTask(ctx context.Context, req Request) (*Result, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = extractAddTitle(req.Message)
	}
	if title == "" {
		return nil, domain.ErrInvalidPayload
	}

	enhancement := uc.enhance(ctx, title)

	var sb strings.Builder
	fmt.Fprintf(&sb, "✨ %q → %q", title, enhancement.Title)
	if enhancement.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(enhancement.Description)
	}
	for i, step := range enhancement.Steps {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, step)
	}

	return &Result{
		Reply:       sb.String(),
		Intent:      IntentEnhance,
		Enhancement: enhancement,
	}, nil
}

func (uc *UseCase) listTasks(ctx context.Context, req Request) (*Result, error) {
	tasks, err := uc.tasks.ListRecent(ctx, req.UserID, uc.cfg.ListLimit)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to list tasks", err)
	}

	var sb strings.Builder
	sb.WriteString("📋 Your recent tasks:\n")
	for _, task := range tasks {
		marker := "⭕"
		if task.Completed {
			marker = "✅"
		}
		fmt.Fprintf(&sb, "\n%s %s", marker, task.Title)
	}

	return &Result{
		Reply:  sb.String(),
		Intent: IntentList,
		Tasks:  tasks,
	}, nil
}

func (uc *UseCase) completeTask(ctx context.Context, req Request) (*Result, error) {
	key := strings.TrimSpace(req.Title)
	if key == "" {
		key = stripCompleteWords(req.Message)
	}
	if key == "" {
		return nil, domain.ErrInvalidPayload
	}

	task, err := uc.tasks.CompleteByTitleMatch(ctx, repository.TitleMatch{
		UserID:           req.UserID,
		Substring:        key,
		ExcludeCompleted: !uc.cfg.MatchCompleted,
	})
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to complete task", err)
	}

	return &Result{
		Reply:  fmt.Sprintf("🎉 Task %q marked as complete!", task.Title),
		Intent: IntentComplete,
		Task:   task,
	}, nil
}

func (uc *UseCase) processFreeText(ctx context.Context, req Request) (*Result, error) {
	classified := uc.classifier.Classify(req.Message)

	switch classified.Intent {
	case IntentAdd, IntentComplete:
		req.Intent = classified.Intent
		req.Title = classified.Title
		return uc.Interpret(ctx, req)
	case IntentList:
		req.Intent = IntentList
		return uc.Interpret(ctx, req)
	default:
		return &Result{Reply: helpReply, Intent: IntentNone}, nil
	}
}

// enhance calls the enrichment collaborator and substitutes the fallback
// result on any failure. A timed-out call is treated like any other fault.
func (uc *UseCase) enhance(ctx context.Context, title string) *domain.Enhancement {
	if uc.enhancer == nil {
		return domain.FallbackEnhancement(title)
	}
	enhancement, err := uc.enhancer.Enhance(ctx, title)
	if err != nil || enhancement == nil {
		uc.logger.Warn("task enhancement failed, using fallback", zap.Error(err))
		return domain.FallbackEnhancement(title)
	}
	if enhancement.Title == "" {
		enhancement.Title = title
	}
	if enhancement.Steps == nil {
		enhancement.Steps = []string{}
	}
	return enhancement
}
