package models

import "encoding/json"

// ContactIDList handles the Dex wire shape for associated contacts on notes
// and reminders: an array of {"contact_id": "..."} objects. Only the first
// entry is meaningful for this service.
type ContactIDList []string

func (l *ContactIDList) UnmarshalJSON(data []byte) error {
	var entries []struct {
		ContactID string `json:"contact_id"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ContactID)
	}
	*l = ids
	return nil
}

func (l ContactIDList) MarshalJSON() ([]byte, error) {
	entries := make([]map[string]string, 0, len(l))
	for _, id := range l {
		entries = append(entries, map[string]string{"contact_id": id})
	}
	return json.Marshal(entries)
}

// Note is a timeline note attached to a contact. The Dex API calls these
// timeline items: the text lives under "note" and the creation time under
// "event_time".
type Note struct {
	ID        string        `json:"id"`
	ContactID string        `json:"contact_id,omitempty"`
	Contacts  ContactIDList `json:"contacts,omitempty"`
	Content   string        `json:"note"`
	CreatedAt string        `json:"event_time,omitempty"`
	UpdatedAt string        `json:"updated_at,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	Source    string        `json:"source,omitempty"`
}

// Normalize populates ContactID from the decoded contacts array.
func (n *Note) Normalize() {
	if n.ContactID == "" && len(n.Contacts) > 0 {
		n.ContactID = n.Contacts[0]
	}
}
