package runerrors

import "time"

// RunError represents a persisted pipeline failure
type RunError struct {
	ID          int64     `json:"id"`
	TenantID    string    `json:"tenant_id"`
	RunID       string    `json:"run_id"`
	Mode        string    `json:"mode,omitempty"`
	Stage       string    `json:"stage,omitempty"` // scan | analyze | pattern-extraction | ...
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
