package dex

import (
	"context"

	"github.com/meghashyamc/whoisthat/models"
)

// The repository interfaces are what the services consume; *Client satisfies
// all three. Splitting them keeps test fakes small.

type ContactRepository interface {
	ListContacts(ctx context.Context, limit, offset int) ([]models.Contact, error)
	GetContact(ctx context.Context, contactID string) (*models.Contact, error)
	SearchContactsByEmail(ctx context.Context, email string, limit, offset int) ([]models.Contact, error)
	CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	UpdateContact(ctx context.Context, contactID string, contact *models.Contact) (*models.Contact, error)
	DeleteContact(ctx context.Context, contactID string) error
}

type NoteRepository interface {
	NotesForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Note, error)
	CreateNote(ctx context.Context, note *models.Note) (*models.Note, error)
	UpdateNote(ctx context.Context, noteID string, note *models.Note) (*models.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
}

type ReminderRepository interface {
	RemindersForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Reminder, error)
	CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error)
	UpdateReminder(ctx context.Context, reminderID string, reminder *models.Reminder) (*models.Reminder, error)
	DeleteReminder(ctx context.Context, reminderID string) error
}

var (
	_ ContactRepository  = (*Client)(nil)
	_ NoteRepository     = (*Client)(nil)
	_ ReminderRepository = (*Client)(nil)
)
