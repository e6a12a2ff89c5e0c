package models

// Reminder is a dated follow-up attached to a contact. The Dex API sends the
// reminder text under "body" and the due date under "due_at_date" as
// YYYY-MM-DD.
type Reminder struct {
	ID          string        `json:"id"`
	ContactID   string        `json:"contact_id,omitempty"`
	ContactIDs  ContactIDList `json:"contact_ids,omitempty"`
	Text        string        `json:"body"`
	DueDate     string        `json:"due_at_date"`
	Completed   bool          `json:"is_complete,omitempty"`
	CompletedAt string        `json:"completed_at,omitempty"`
	CreatedAt   string        `json:"created_at,omitempty"`
	UpdatedAt   string        `json:"updated_at,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Priority    string        `json:"priority,omitempty"`
}

// Normalize populates ContactID from the decoded contact_ids array.
func (r *Reminder) Normalize() {
	if r.ContactID == "" && len(r.ContactIDs) > 0 {
		r.ContactID = r.ContactIDs[0]
	}
}

// IsOverdue reports whether the reminder's due date is strictly before the
// given date. Dates are compared lexically, which is correct for YYYY-MM-DD.
func (r *Reminder) IsOverdue(currentDate string) bool {
	return !r.Completed && r.DueDate != "" && r.DueDate < currentDate
}
