package transport

type LoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type TaskRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Source      string `json:"source"`
}

// ChatbotRequest is the inbound chatbot envelope: an explicit action with
// structured data, a raw message, or both.
type ChatbotRequest struct {
	Action  string       `json:"action"`
	Data    *ChatbotData `json:"data,omitempty"`
	UserID  string       `json:"userId,omitempty"`
	Message string       `json:"message,omitempty"`
	Source  string       `json:"source,omitempty"`
}

type ChatbotData struct {
	Title string `json:"title"`
}

// ChannelMessage is what the external messaging channel adapter delivers.
type ChannelMessage struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}
