package domain

// TaskUpdate is a partial write against a single task. Nil fields are left
// untouched by the merge; present fields overwrite. Slices replace the
// stored value wholesale rather than appending.
type TaskUpdate struct {
	Title        *string   `json:"title,omitempty"`
	Agent        *string   `json:"agent,omitempty"`
	AgentColor   *string   `json:"agent_color,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Message      *string   `json:"message,omitempty"`
	Progress     *float64  `json:"progress,omitempty"`
	High         *int      `json:"high,omitempty"`
	Medium       *int      `json:"medium,omitempty"`
	Low          *int      `json:"low,omitempty"`
	BlockedBy    *[]int    `json:"blocked_by,omitempty"`
	Phase        *int      `json:"phase,omitempty"`
	Files        *[]string `json:"files,omitempty"`
	Subtasks     *[]string `json:"subtasks,omitempty"`
	SubtasksDone *[]string `json:"subtasks_done,omitempty"`
	StartRef     *string   `json:"start_ref,omitempty"`
	EndRef       *string   `json:"end_ref,omitempty"`
}

// SetsStatus reports whether the update writes the given status value.
func (u TaskUpdate) SetsStatus(status string) bool {
	return u.Status != nil && *u.Status == status
}
