package models

// Profile identifies one of the exactly two workspace members.
// Task.Assignee and Task.CreatedBy are lookup-only references into this set.
type Profile struct {
	ID          string `json:"id" yaml:"id"`
	Email       string `json:"email" yaml:"email"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
}

// Name returns the display name if set, otherwise the email address.
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Email
}
