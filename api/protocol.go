package api

const controlMaxBodySize = 64 * 1024 // 64 KiB

// idempotencyKeyHeader carries the caller-chosen replay guard for control
// commands. A missing header gets a generated key, which never collides.
const idempotencyKeyHeader = "Idempotency-Key"

// initRequest is the POST /api/init body.
type initRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	ProjectDir  string `json:"project_dir"`
	BaselineRef string `json:"baseline_ref"`
}

// controlResponse acknowledges a control command.
type controlResponse struct {
	OK             bool   `json:"ok"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}
