package storage

import "swarmboard/domain"

// applyUpdate merges a partial update onto a task and then runs the
// post-merge normalization pipeline. The steps are ordered: merge the
// present fields, record a non-empty message, rescale percentage progress,
// re-derive progress from subtasks, and finally nudge an idle in-progress
// task. Subtask-derived progress intentionally overrides any progress value
// supplied in the same update.
func applyUpdate(t *domain.Task, upd domain.TaskUpdate, now string) {
	mergeFields(t, upd)

	if upd.Message != nil && *upd.Message != "" {
		t.Messages = append(t.Messages, domain.Message{Time: now, Text: *upd.Message})
	}
	if upd.Progress != nil {
		t.Progress = normalizeProgress(*upd.Progress)
	}
	deriveProgress(t)
}

func mergeFields(t *domain.Task, upd domain.TaskUpdate) {
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Agent != nil {
		t.Agent = *upd.Agent
	}
	if upd.AgentColor != nil {
		t.AgentColor = *upd.AgentColor
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Message != nil {
		t.Message = *upd.Message
	}
	if upd.High != nil {
		v := *upd.High
		t.High = &v
	}
	if upd.Medium != nil {
		v := *upd.Medium
		t.Medium = &v
	}
	if upd.Low != nil {
		v := *upd.Low
		t.Low = &v
	}
	if upd.Phase != nil {
		v := *upd.Phase
		t.Phase = &v
	}
	if upd.BlockedBy != nil {
		t.BlockedBy = append([]int(nil), (*upd.BlockedBy)...)
	}
	if upd.Files != nil {
		t.Files = append([]string(nil), (*upd.Files)...)
	}
	if upd.Subtasks != nil {
		t.Subtasks = append([]string(nil), (*upd.Subtasks)...)
	}
	if upd.SubtasksDone != nil {
		t.SubtasksDone = append([]string(nil), (*upd.SubtasksDone)...)
	}
	if upd.StartRef != nil {
		t.StartRef = *upd.StartRef
	}
	if upd.EndRef != nil {
		t.EndRef = *upd.EndRef
	}
}

// normalizeProgress rescales percentage-style values: anything above 1 is
// treated as a percentage and divided by 100, then clamped so the stored
// value never leaves [0,1].
func normalizeProgress(p float64) float64 {
	if p > 1 {
		p /= 100
	}
	if p > 1 {
		p = 1
	}
	return p
}

// deriveProgress recomputes progress from the subtask checklist whenever one
// exists, then applies the idle nudge: a subtask-less in-progress task at
// exactly zero progress is bumped to 0.02 so the board shows motion before
// the first real report arrives.
func deriveProgress(t *domain.Task) {
	if len(t.Subtasks) > 0 {
		t.Progress = float64(countDone(t.Subtasks, t.SubtasksDone)) / float64(len(t.Subtasks))
		return
	}
	if t.Status == domain.StatusInProgress && t.Progress == 0 {
		t.Progress = 0.02
	}
}

// countDone counts subtasks_done entries that name an actual subtask.
// Entries absent from the checklist are ignored, not rejected.
func countDone(subtasks, done []string) int {
	if len(done) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(subtasks))
	for _, st := range subtasks {
		set[st] = struct{}{}
	}
	n := 0
	for _, d := range done {
		if _, ok := set[d]; ok {
			delete(set, d) // set intersection: duplicates count once
			n++
		}
	}
	return n
}
