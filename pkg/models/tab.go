package models

// Tab is a named predicate selecting a subset of tasks for display.
type Tab string

const (
	TabOpen            Tab = "open"
	TabDueToday        Tab = "due_today"
	TabAssignedBoth    Tab = "assigned_both"
	TabAssignedMe      Tab = "assigned_me"
	TabAssignedPartner Tab = "assigned_partner"
	TabOverdue         Tab = "overdue"
	TabAll             Tab = "all"
	TabDone            Tab = "done"
	TabArchived        Tab = "archived"
)

// AllTabs lists every tab in display order.
var AllTabs = []Tab{
	TabOpen,
	TabDueToday,
	TabAssignedBoth,
	TabAssignedMe,
	TabAssignedPartner,
	TabOverdue,
	TabAll,
	TabDone,
	TabArchived,
}

// CountedTabs lists the tabs that carry a badge count. Done and archived
// are excluded from badges.
var CountedTabs = []Tab{
	TabOpen,
	TabDueToday,
	TabAssignedBoth,
	TabAssignedMe,
	TabAssignedPartner,
	TabOverdue,
	TabAll,
}

// Label returns the human-readable tab name.
func (t Tab) Label() string {
	switch t {
	case TabOpen:
		return "Open"
	case TabDueToday:
		return "Due Today"
	case TabAssignedBoth:
		return "Both"
	case TabAssignedMe:
		return "Me"
	case TabAssignedPartner:
		return "Partner"
	case TabOverdue:
		return "Overdue"
	case TabAll:
		return "All"
	case TabDone:
		return "Done"
	case TabArchived:
		return "Archived"
	}
	return string(t)
}

// ValidTab reports whether t is one of the nine known tabs.
func ValidTab(t Tab) bool {
	for _, known := range AllTabs {
		if t == known {
			return true
		}
	}
	return false
}
