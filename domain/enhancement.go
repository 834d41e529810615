package domain

// Enhancement is the ephemeral output of the task enrichment service. It is
// never persisted on its own; an add folds it into the created task.
type Enhancement struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	// Fallback marks results substituted locally because the enrichment
	// service failed or was disabled.
	Fallback bool `json:"fallback,omitempty"`
}

// FallbackEnhancement returns the degraded result used when enrichment is
// unavailable. Enrichment failure never blocks task creation.
func FallbackEnhancement(title string) *Enhancement {
	return &Enhancement{
		Title:    title,
		Steps:    []string{},
		Fallback: true,
	}
}
