package transport

import (
	"encoding/json"

	"github.com/taskflow/backend/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// ChatReply is the chatbot and channel response shape. Message always holds
// the human-readable reply; Error is set only on failures.
type ChatReply struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	Intent      string              `json:"intent,omitempty"`
	Task        *domain.Task        `json:"task,omitempty"`
	Tasks       []domain.Task       `json:"tasks,omitempty"`
	Enhancement *domain.Enhancement `json:"enhancement,omitempty"`
	Error       string              `json:"error,omitempty"`
}
