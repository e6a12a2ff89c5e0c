package dex

import "github.com/meghashyamc/whoisthat/models"

// List responses arrive wrapped under a resource-named key.

type contactsResponse struct {
	Contacts []models.Contact `json:"contacts"`
}

type timelineItemsResponse struct {
	TimelineItems []models.Note `json:"timeline_items"`
}

type remindersResponse struct {
	Reminders []models.Reminder `json:"reminders"`
}

// paginatedResponse is the alternate shape the contact email search endpoint
// can answer with.
type paginatedResponse[T any] struct {
	Data []T `json:"data"`
}

// Mutation payloads mirror the Hasura-style request wrappers the Dex API
// expects.

type emailEntry struct {
	Email string `json:"email"`
}

type phoneEntry struct {
	PhoneNumber string `json:"phone_number"`
	Label       string `json:"label,omitempty"`
}

type nestedData[T any] struct {
	Data []T `json:"data"`
}

type contactPayload struct {
	FirstName   string             `json:"first_name,omitempty"`
	LastName    string             `json:"last_name,omitempty"`
	JobTitle    string             `json:"job_title,omitempty"`
	Company     string             `json:"company,omitempty"`
	Description string             `json:"description,omitempty"`
	Website     string             `json:"website,omitempty"`
	Emails      *nestedData[emailEntry] `json:"contact_emails,omitempty"`
	Phones      *nestedData[phoneEntry] `json:"contact_phone_numbers,omitempty"`
}

type createContactRequest struct {
	Contact contactPayload `json:"contact"`
}

type contactChanges struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

type updateContactRequest struct {
	Changes contactChanges `json:"changes"`
}

type contactIDEntry struct {
	ContactID string `json:"contact_id"`
}

type timelineEventPayload struct {
	Note                  string                     `json:"note"`
	EventTime             string                     `json:"event_time"`
	MeetingType           string                     `json:"meeting_type"`
	TimelineItemsContacts nestedData[contactIDEntry] `json:"timeline_items_contacts"`
}

type createNoteRequest struct {
	TimelineEvent timelineEventPayload `json:"timeline_event"`
}

type noteChanges struct {
	Note string `json:"note,omitempty"`
}

type updateNoteRequest struct {
	Changes noteChanges `json:"changes"`
}

type reminderPayload struct {
	Text              string                     `json:"text"`
	IsComplete        bool                       `json:"is_complete"`
	DueAtDate         string                     `json:"due_at_date"`
	RemindersContacts nestedData[contactIDEntry] `json:"reminders_contacts"`
	Priority          string                     `json:"priority,omitempty"`
}

type createReminderRequest struct {
	Reminder reminderPayload `json:"reminder"`
}

type reminderChanges struct {
	Text       string `json:"text,omitempty"`
	IsComplete *bool  `json:"is_complete,omitempty"`
	DueAtDate  string `json:"due_at_date,omitempty"`
}

type updateReminderRequest struct {
	Changes reminderChanges `json:"changes"`
}

func newContactPayload(contact *models.Contact) contactPayload {
	payload := contactPayload{
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		JobTitle:    contact.JobTitle,
		Company:     contact.Company,
		Description: contact.Description,
		Website:     contact.Website,
	}
	if emails := contact.AllEmails(); len(emails) > 0 {
		entries := make([]emailEntry, 0, len(emails))
		for _, email := range emails {
			entries = append(entries, emailEntry{Email: email})
		}
		payload.Emails = &nestedData[emailEntry]{Data: entries}
	}
	if phones := contact.AllPhones(); len(phones) > 0 {
		entries := make([]phoneEntry, 0, len(phones))
		for _, phone := range phones {
			entries = append(entries, phoneEntry{PhoneNumber: phone, Label: "mobile"})
		}
		payload.Phones = &nestedData[phoneEntry]{Data: entries}
	}
	return payload
}
