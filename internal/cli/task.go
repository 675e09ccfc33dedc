package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/pkg/models"
)

var newTitle string

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new shared task",
	Long: `Create a task with the fixed defaults: medium priority, open status,
unassigned. The task exists only once the remote store confirms it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := startSession(cmd.Context(), nil, false)
		if err != nil {
			return err
		}
		defer coord.Stop()

		created, err := coord.CreateTask(cmd.Context())
		if err != nil {
			return err
		}

		if newTitle != "" {
			if err := coord.Patch(cmd.Context(), created.ID, models.TaskPatch{Title: &newTitle}); err != nil {
				return err
			}
			if t, ok := coord.Cache().Get(created.ID); ok {
				created = &t
			}
		}

		fmt.Printf("Created %s  %q\n", shortID(created.ID), created.Title)
		maybeNotifyAssignment(coord, *created)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Toggle a task between open and done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := startSession(cmd.Context(), nil, false)
		if err != nil {
			return err
		}
		defer coord.Stop()

		id, err := resolveTaskID(coord, args[0])
		if err != nil {
			return err
		}
		if err := coord.ToggleDone(cmd.Context(), id); err != nil {
			return err
		}

		t, _ := coord.Cache().Get(id)
		fmt.Printf("%s is now %s\n", shortID(id), t.Status)
		return nil
	},
}

var archiveYes bool

var archiveCmd = &cobra.Command{
	Use:   "archive <task-id>",
	Short: "Archive or unarchive a task",
	Long: `Flip a task's archive flag. Archived tasks leave all active views but
remain editable and can be restored by archiving again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := startSession(cmd.Context(), confirmerFor(archiveYes), false)
		if err != nil {
			return err
		}
		defer coord.Stop()

		id, err := resolveTaskID(coord, args[0])
		if err != nil {
			return err
		}
		if err := coord.ToggleArchive(cmd.Context(), id); err != nil {
			return err
		}

		t, _ := coord.Cache().Get(id)
		if t.IsArchived {
			fmt.Printf("Archived %s\n", shortID(id))
		} else {
			fmt.Printf("Unarchived %s\n", shortID(id))
		}
		return nil
	},
}

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Permanently delete a done or archived task",
	Long: `Hard-remove a task from the workspace. Only done or archived tasks can
be deleted, and there is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := startSession(cmd.Context(), confirmerFor(deleteYes), false)
		if err != nil {
			return err
		}
		defer coord.Stop()

		id, err := resolveTaskID(coord, args[0])
		if err != nil {
			return err
		}
		if err := coord.Delete(cmd.Context(), id); err != nil {
			return err
		}

		fmt.Printf("Deleted %s\n", shortID(id))
		return nil
	},
}

var (
	editTitle    string
	editMemo     string
	editDue      string
	editPriority string
	editAssignee string
)

var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit a task's fields",
	Long: `Open a draft of the task, apply the given flags to it, and save. Flags
that are not given leave the field unchanged. --due and --assignee accept
"none" to clear the field; --assignee also accepts "me" and "partner".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := startSession(cmd.Context(), nil, false)
		if err != nil {
			return err
		}
		defer coord.Stop()

		id, err := resolveTaskID(coord, args[0])
		if err != nil {
			return err
		}

		draft := coord.Select(id)
		if draft == nil {
			return fmt.Errorf("no task matches %q", id)
		}

		if cmd.Flags().Changed("title") {
			draft.Title = editTitle
		}
		if cmd.Flags().Changed("memo") {
			draft.Memo = editMemo
		}
		if cmd.Flags().Changed("due") {
			if editDue == "none" {
				draft.DueDate = ""
			} else {
				draft.DueDate = editDue
			}
		}
		if cmd.Flags().Changed("priority") {
			draft.Priority = models.Priority(editPriority)
		}
		if cmd.Flags().Changed("assignee") {
			assignee, err := resolveAssignee(coord, editAssignee)
			if err != nil {
				return err
			}
			draft.Assignee = assignee
		}

		if err := coord.SaveDraft(cmd.Context()); err != nil {
			return err
		}

		saved, _ := coord.Cache().Get(id)
		fmt.Printf("Saved %s  %q\n", shortID(id), saved.Title)
		maybeNotifyAssignment(coord, saved)
		return nil
	},
}

func confirmerFor(yes bool) core.Confirmer {
	if yes {
		return autoConfirmer{}
	}
	return promptConfirmer{}
}

func resolveAssignee(coord *core.Coordinator, raw string) (string, error) {
	switch raw {
	case "none", "":
		return "", nil
	case "me":
		return coord.Viewer().ID, nil
	case "partner":
		if coord.PartnerID() == "" {
			return "", fmt.Errorf("no partner has joined the workspace yet")
		}
		return coord.PartnerID(), nil
	default:
		return raw, nil
	}
}

// maybeNotifyAssignment pings the partner's webhook when a task ends up
// assigned to them.
func maybeNotifyAssignment(coord *core.Coordinator, t models.Task) {
	if Notifier == nil || coord.PartnerID() == "" || t.Assignee != coord.PartnerID() {
		return
	}
	text := fmt.Sprintf("%s assigned you a task: %s", coord.Viewer().Name(), t.Title)
	if err := Notifier.Notify(text); err != nil {
		fmt.Printf("warning: notifying partner: %v\n", err)
	}
}

func init() {
	newCmd.Flags().StringVar(&newTitle, "title", "", "title for the new task")
	archiveCmd.Flags().BoolVar(&archiveYes, "yes", false, "skip the confirmation prompt")
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "skip the confirmation prompt")
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title (1-100 characters)")
	editCmd.Flags().StringVar(&editMemo, "memo", "", "new memo (up to 2000 characters)")
	editCmd.Flags().StringVar(&editDue, "due", "", "due date YYYY-MM-DD, or 'none'")
	editCmd.Flags().StringVar(&editPriority, "priority", "", "low, medium, or high")
	editCmd.Flags().StringVar(&editAssignee, "assignee", "", "'me', 'partner', or 'none'")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(editCmd)
}
