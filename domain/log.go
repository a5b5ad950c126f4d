package domain

// LogEntry is an immutable activity record. Attribution is display-only and
// carries no reference back to a task.
type LogEntry struct {
	Time    string `json:"time"`
	Agent   string `json:"agent"`
	Color   string `json:"color,omitempty"`
	Message string `json:"message"`
}
