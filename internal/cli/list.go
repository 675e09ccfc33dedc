package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/pkg/models"
)

var listTab string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks for a tab",
	Long: `List the tasks matching a tab's predicate, sorted by due date (absent
dates last), priority, and recency. Badge counts for every tab are shown
above the list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tab := models.Tab(listTab)
		if !models.ValidTab(tab) {
			return fmt.Errorf("invalid tab %q (valid: %s)", listTab, tabNames())
		}

		coord, err := startSession(cmd.Context(), nil, false)
		if err != nil {
			return err
		}
		defer coord.Stop()

		snapshot := coord.Cache().Snapshot()
		viewerID := coord.Viewer().ID
		partnerID := coord.PartnerID()
		today := core.Today()

		counts := core.TabCounts(snapshot, viewerID, partnerID, today)
		var badges []string
		for _, t := range models.CountedTabs {
			badges = append(badges, fmt.Sprintf("%s:%d", t.Label(), counts[t]))
		}
		fmt.Println(strings.Join(badges, "  "))
		fmt.Println()

		visible := core.VisibleTasks(snapshot, tab, viewerID, partnerID, today)
		if len(visible) == 0 {
			fmt.Println("No tasks match this tab.")
			return nil
		}

		fmt.Printf("  %-9s %-40s %-11s %-7s %-8s %s\n", "ID", "TITLE", "DUE", "PRI", "STATUS", "WHO")
		for _, t := range visible {
			fmt.Printf("  %-9s %-40s %-11s %-7s %-8s %s\n",
				shortID(t.ID), truncate(t.Title, 40), dueLabel(t, today),
				t.Priority, t.Status, assigneeLabel(coord, t))
		}
		return nil
	},
}

func tabNames() string {
	names := make([]string, len(models.AllTabs))
	for i, t := range models.AllTabs {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// dueLabel renders a due date the way the list shows it: Overdue and Today
// call themselves out, everything else is the raw date.
func dueLabel(t models.Task, today string) string {
	if t.DueDate == "" {
		return "no due"
	}
	switch {
	case t.DueDate < today:
		return "overdue"
	case t.DueDate == today:
		return "today"
	default:
		return t.DueDate
	}
}

func assigneeLabel(coord *core.Coordinator, t models.Task) string {
	switch t.Assignee {
	case "":
		return "both"
	case coord.Viewer().ID:
		return "me"
	case coord.PartnerID():
		return "partner"
	default:
		return shortID(t.Assignee)
	}
}

func init() {
	listCmd.Flags().StringVar(&listTab, "tab", string(models.TabOpen), "tab to list ("+tabNames()+")")
	rootCmd.AddCommand(listCmd)
}
