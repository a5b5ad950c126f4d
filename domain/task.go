package domain

// Task statuses. They drive board column placement and unblocking.
const (
	StatusBlocked    = "blocked"
	StatusReady      = "ready"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Message is one entry in a task's message history.
type Message struct {
	Time string `json:"time"`
	Text string `json:"text"`
}

// Task represents a single board item. IDs are assigned by the caller, not
// by the store.
type Task struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Agent        string    `json:"agent,omitempty"`
	AgentColor   string    `json:"agent_color,omitempty"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	Messages     []Message `json:"messages,omitempty"`
	Progress     float64   `json:"progress"`
	High         *int      `json:"high,omitempty"`
	Medium       *int      `json:"medium,omitempty"`
	Low          *int      `json:"low,omitempty"`
	BlockedBy    []int     `json:"blocked_by,omitempty"`
	Phase        *int      `json:"phase,omitempty"`
	Files        []string  `json:"files,omitempty"`
	Subtasks     []string  `json:"subtasks,omitempty"`
	SubtasksDone []string  `json:"subtasks_done,omitempty"`
	StartRef     string    `json:"start_ref,omitempty"`
	EndRef       string    `json:"end_ref,omitempty"`
}

// Clone returns an independent copy of the task, with no slices or pointers
// shared with the receiver.
func (t Task) Clone() Task {
	c := t
	if t.Messages != nil {
		c.Messages = make([]Message, len(t.Messages))
		copy(c.Messages, t.Messages)
	}
	if t.BlockedBy != nil {
		c.BlockedBy = make([]int, len(t.BlockedBy))
		copy(c.BlockedBy, t.BlockedBy)
	}
	c.Files = cloneStrings(t.Files)
	c.Subtasks = cloneStrings(t.Subtasks)
	c.SubtasksDone = cloneStrings(t.SubtasksDone)
	c.High = cloneInt(t.High)
	c.Medium = cloneInt(t.Medium)
	c.Low = cloneInt(t.Low)
	c.Phase = cloneInt(t.Phase)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
