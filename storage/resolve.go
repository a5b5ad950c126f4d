package storage

import "swarmboard/domain"

// resolveBlocked promotes blocked tasks whose blockers are all done to
// ready. Only tasks currently in the blocked status are considered; a ready
// or in-progress task carrying a stale blocked_by list is never touched. A
// blocked task with no listed blockers stays blocked: that is a deliberate
// safety default. The pass is not transitive; each done transition triggers
// exactly one sweep.
//
// Called with the store lock held.
func resolveBlocked(tasks []domain.Task, byID map[int]int) {
	for i := range tasks {
		t := &tasks[i]
		if t.Status != domain.StatusBlocked || len(t.BlockedBy) == 0 {
			continue
		}
		if blockersDone(tasks, byID, t.BlockedBy) {
			t.Status = domain.StatusReady
		}
	}
}

func blockersDone(tasks []domain.Task, byID map[int]int, blockers []int) bool {
	for _, id := range blockers {
		pos, ok := byID[id]
		if !ok || tasks[pos].Status != domain.StatusDone {
			return false
		}
	}
	return true
}
