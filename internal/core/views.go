package core

import (
	"sort"
	"time"

	"github.com/pairtask/pairtask/pkg/models"
)

// dueDateMax sorts tasks without a due date after every dated task.
const dueDateMax = "9999-12-31"

// Today returns the viewer's local calendar date in YYYY-MM-DD form.
// Callers evaluate it once at the top of a derivation pass and thread it
// through, so a pass that straddles midnight cannot mix two different days.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// MatchesTab evaluates the tab's predicate against a single task. The
// partner tab matches nothing while no partner is resolved (partnerID empty).
func MatchesTab(t models.Task, tab models.Tab, viewerID, partnerID, today string) bool {
	switch tab {
	case models.TabOpen:
		return t.Status == models.StatusOpen && !t.IsArchived
	case models.TabDueToday:
		return t.Status == models.StatusOpen && t.DueDate == today && !t.IsArchived
	case models.TabAssignedBoth:
		return t.Assignee == "" && !t.IsArchived
	case models.TabAssignedMe:
		return t.Assignee == viewerID && !t.IsArchived
	case models.TabAssignedPartner:
		return partnerID != "" && t.Assignee == partnerID && !t.IsArchived
	case models.TabOverdue:
		return t.DueDate != "" && t.DueDate < today &&
			t.Status == models.StatusOpen && !t.IsArchived
	case models.TabAll:
		return !t.IsArchived
	case models.TabDone:
		return t.Status == models.StatusDone && !t.IsArchived
	case models.TabArchived:
		return t.IsArchived
	}
	return false
}

// SortTasks orders tasks ascending by due date with absent due dates last,
// ties broken by priority descending, remaining ties by creation time
// descending (most recently created first). The order is deterministic
// given distinct creation timestamps.
func SortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := tasks[i].DueDate, tasks[j].DueDate
		if di == "" {
			di = dueDateMax
		}
		if dj == "" {
			dj = dueDateMax
		}
		if di != dj {
			return di < dj
		}
		if ri, rj := tasks[i].Priority.Rank(), tasks[j].Priority.Rank(); ri != rj {
			return ri > rj
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// VisibleTasks filters the snapshot by the selected tab and sorts the
// result.
func VisibleTasks(tasks []models.Task, tab models.Tab, viewerID, partnerID, today string) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if MatchesTab(t, tab, viewerID, partnerID, today) {
			out = append(out, t)
		}
	}
	SortTasks(out)
	return out
}

// TabCounts computes the badge count for every counted tab, independent of
// the currently selected tab.
func TabCounts(tasks []models.Task, viewerID, partnerID, today string) map[models.Tab]int {
	counts := make(map[models.Tab]int, len(models.CountedTabs))
	for _, tab := range models.CountedTabs {
		n := 0
		for _, t := range tasks {
			if MatchesTab(t, tab, viewerID, partnerID, today) {
				n++
			}
		}
		counts[tab] = n
	}
	return counts
}

// Board is a partition of a filtered, sorted task set into three mutually
// exclusive, collectively exhaustive columns.
type Board struct {
	Urgent []models.Task
	Open   []models.Task
	Done   []models.Task
}

// Column returns the tasks in the given column.
func (b Board) Column(c models.BoardColumn) []models.Task {
	switch c {
	case models.ColumnUrgent:
		return b.Urgent
	case models.ColumnOpen:
		return b.Open
	case models.ColumnDone:
		return b.Done
	}
	return nil
}

// Categorize assigns each task of the filtered set to exactly one column:
// done tasks to Done, open tasks due today or overdue to Urgent, the rest
// to Open. Relative order within each column is preserved.
func Categorize(filtered []models.Task, today string) Board {
	var b Board
	for _, t := range filtered {
		switch t.Status {
		case models.StatusDone:
			b.Done = append(b.Done, t)
		case models.StatusOpen:
			if t.DueDate != "" && t.DueDate <= today {
				b.Urgent = append(b.Urgent, t)
			} else {
				b.Open = append(b.Open, t)
			}
		}
	}
	return b
}
