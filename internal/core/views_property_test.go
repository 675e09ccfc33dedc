package core

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/pairtask/pairtask/pkg/models"
)

// genTask draws a task with arbitrary combinations of status, due date,
// assignee, priority, and archive flag.
func genTask(rt *rapid.T, label string) models.Task {
	due := rapid.SampledFrom([]string{
		"", "2026-08-01", "2026-08-28", "2026-09-15", "2030-01-01",
	}).Draw(rt, label+"Due")
	assignee := rapid.SampledFrom([]string{"", viewerID, partnerID}).Draw(rt, label+"Assignee")
	status := rapid.SampledFrom([]models.Status{models.StatusOpen, models.StatusDone}).Draw(rt, label+"Status")
	priority := rapid.SampledFrom([]models.Priority{
		models.PriorityLow, models.PriorityMedium, models.PriorityHigh,
	}).Draw(rt, label+"Priority")
	archived := rapid.Bool().Draw(rt, label+"Archived")
	createdOffset := rapid.Int64Range(0, 1_000_000).Draw(rt, label+"Created")

	return models.Task{
		ID:         rapid.StringMatching(`[a-f0-9]{8}`).Draw(rt, label+"ID"),
		Title:      "t",
		DueDate:    due,
		Assignee:   assignee,
		Status:     status,
		Priority:   priority,
		IsArchived: archived,
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(createdOffset) * time.Second),
	}
}

func genTasks(rt *rapid.T) []models.Task {
	n := rapid.IntRange(0, 30).Draw(rt, "n")
	tasks := make([]models.Task, n)
	for i := range tasks {
		tasks[i] = genTask(rt, "task")
	}
	return tasks
}

// Every task matches the all tab or the archived tab, never both. The nine
// tabs together leave no task unreachable.
func TestProperty_TabsPartitionByArchiveFlag(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := genTask(rt, "task")
		today := "2026-08-28"

		inAll := MatchesTab(task, models.TabAll, viewerID, partnerID, today)
		inArchived := MatchesTab(task, models.TabArchived, viewerID, partnerID, today)

		if inAll == inArchived {
			rt.Fatalf("task %+v: all=%v archived=%v, expected exactly one", task, inAll, inArchived)
		}
	})
}

// Archived tasks appear in no tab except the archived tab.
func TestProperty_ArchivedInvisibleElsewhere(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := genTask(rt, "task")
		task.IsArchived = true
		today := "2026-08-28"

		for _, tab := range models.AllTabs {
			if tab == models.TabArchived {
				continue
			}
			if MatchesTab(task, tab, viewerID, partnerID, today) {
				rt.Fatalf("archived task matched tab %s", tab)
			}
		}
	})
}

// SortTasks yields an order where no adjacent pair violates the due date,
// priority, creation time hierarchy.
func TestProperty_SortOrderInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genTasks(rt)
		SortTasks(tasks)

		for i := 1; i < len(tasks); i++ {
			a, b := tasks[i-1], tasks[i]
			da, db := a.DueDate, b.DueDate
			if da == "" {
				da = dueDateMax
			}
			if db == "" {
				db = dueDateMax
			}
			if da > db {
				rt.Fatalf("due date order violated at %d: %q after %q", i, da, db)
			}
			if da == db {
				if a.Priority.Rank() < b.Priority.Rank() {
					rt.Fatalf("priority order violated at %d: %s after %s", i, a.Priority, b.Priority)
				}
				if a.Priority.Rank() == b.Priority.Rank() && a.CreatedAt.Before(b.CreatedAt) {
					rt.Fatalf("creation order violated at %d", i)
				}
			}
		}
	})
}

// Sorting never adds, drops, or duplicates tasks.
func TestProperty_SortPreservesMultiset(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genTasks(rt)

		before := make(map[string]int, len(tasks))
		for _, task := range tasks {
			before[task.ID]++
		}

		SortTasks(tasks)

		after := make(map[string]int, len(tasks))
		for _, task := range tasks {
			after[task.ID]++
		}
		if len(before) != len(after) {
			rt.Fatalf("id sets differ: %d vs %d", len(before), len(after))
		}
		for id, n := range before {
			if after[id] != n {
				rt.Fatalf("task %s: count %d before, %d after", id, n, after[id])
			}
		}
	})
}

// Categorize assigns every filtered task to exactly one column.
func TestProperty_BoardPartitionDisjointExhaustive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		filtered := genTasks(rt)
		b := Categorize(filtered, "2026-08-28")

		total := len(b.Urgent) + len(b.Open) + len(b.Done)
		if total != len(filtered) {
			rt.Fatalf("columns hold %d tasks, input had %d", total, len(filtered))
		}

		seen := make(map[string]int)
		for _, col := range [][]models.Task{b.Urgent, b.Open, b.Done} {
			for _, task := range col {
				seen[task.ID]++
			}
		}
		for _, task := range filtered {
			seen[task.ID]--
		}
		for id, n := range seen {
			if n != 0 {
				rt.Fatalf("task %s appears an unbalanced number of times (%+d)", id, n)
			}
		}
	})
}

// A done task never lands in urgent or open, and urgent tasks are always
// open with a due date at or before today.
func TestProperty_BoardColumnRules(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		filtered := genTasks(rt)
		today := "2026-08-28"
		b := Categorize(filtered, today)

		for _, task := range b.Done {
			if task.Status != models.StatusDone {
				rt.Fatalf("non-done task %s in done column", task.ID)
			}
		}
		for _, task := range b.Urgent {
			if task.Status != models.StatusOpen {
				rt.Fatalf("non-open task %s in urgent column", task.ID)
			}
			if task.DueDate == "" || task.DueDate > today {
				rt.Fatalf("task %s with due %q in urgent column", task.ID, task.DueDate)
			}
		}
		for _, task := range b.Open {
			if task.Status != models.StatusOpen {
				rt.Fatalf("non-open task %s in open column", task.ID)
			}
			if task.DueDate != "" && task.DueDate <= today {
				rt.Fatalf("urgent-qualified task %s in open column", task.ID)
			}
		}
	})
}

// Badge counts equal a direct recount of the matching tasks, for every
// counted tab and any task set.
func TestProperty_TabCountsMatchPredicate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genTasks(rt)
		today := "2026-08-28"

		counts := TabCounts(tasks, viewerID, partnerID, today)
		for _, tab := range models.CountedTabs {
			want := 0
			for _, task := range tasks {
				if MatchesTab(task, tab, viewerID, partnerID, today) {
					want++
				}
			}
			if counts[tab] != want {
				rt.Fatalf("tab %s: count %d, recount %d", tab, counts[tab], want)
			}
		}
	})
}
