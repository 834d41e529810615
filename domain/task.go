package domain

import "time"

// Task sources. Tasks remember which surface created them.
const (
	SourceWeb     = "web"
	SourceChannel = "channel"
	SourceChatbot = "chatbot"
	SourceAPI     = "api"
)

// Task represents a user-owned to-do item.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Enhanced    bool      `json:"enhanced"`
	Source      string    `json:"source,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Task) Touch() {
	if t == nil {
		return
	}
	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}
}
