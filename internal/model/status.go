package model

// TaskStatus represents the lifecycle status of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusExpired    TaskStatus = "expired"
)

// StatusPrecedenceAsc is the ascending display precedence for the filtered
// listing: completed first, expired last. Descending order reverses this
// table, not the sorted result.
var StatusPrecedenceAsc = []TaskStatus{
	StatusCompleted,
	StatusInProgress,
	StatusNotStarted,
	StatusExpired,
}

// Valid reports whether s is one of the four known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusExpired:
		return true
	}
	return false
}

// StatusRanks builds a status-to-position lookup from a precedence table.
func StatusRanks(precedence []TaskStatus) map[TaskStatus]int {
	ranks := make(map[TaskStatus]int, len(precedence))
	for i, s := range precedence {
		ranks[s] = i
	}
	return ranks
}

// CompareStatus ranks two statuses against a precedence lookup. A status
// missing from the lookup always sorts after a known one: the first operand
// being unknown yields +1 and the second yields -1, so unknown statuses land
// last regardless of sort direction.
func CompareStatus(a, b TaskStatus, ranks map[TaskStatus]int) int {
	ra, okA := ranks[a]
	rb, okB := ranks[b]
	if !okA {
		return 1
	}
	if !okB {
		return -1
	}
	return ra - rb
}
