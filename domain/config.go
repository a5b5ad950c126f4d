package domain

// BoardConfig is the process-wide dashboard configuration. ProjectDir and
// BaselineRef are opaque references consumed by collaborators outside the
// state engine.
type BoardConfig struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	ProjectDir  string `json:"project_dir,omitempty"`
	BaselineRef string `json:"baseline_ref,omitempty"`
}

// DefaultBoardConfig is the configuration in effect before the first init
// and after a reset.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{Title: "Dashboard"}
}

// StateSnapshot is the full board view served to polling consumers.
type StateSnapshot struct {
	Tasks      []Task      `json:"tasks"`
	Config     BoardConfig `json:"config"`
	ServerTime string      `json:"server_time"`
}

// LogSnapshot is the activity feed view.
type LogSnapshot struct {
	Entries []LogEntry `json:"entries"`
}
