package reminders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
)

type fakeRepository struct {
	created   *models.Reminder
	deletedID string
}

func (f *fakeRepository) RemindersForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Reminder, error) {
	return []models.Reminder{{ID: "r1", ContactID: contactID, Text: "follow up", DueDate: "2024-06-01"}}, nil
}

func (f *fakeRepository) CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	f.created = reminder
	return &models.Reminder{ID: "new-id", ContactID: reminder.ContactID, Text: reminder.Text, DueDate: reminder.DueDate}, nil
}

func (f *fakeRepository) UpdateReminder(ctx context.Context, reminderID string, reminder *models.Reminder) (*models.Reminder, error) {
	return reminder, nil
}

func (f *fakeRepository) DeleteReminder(ctx context.Context, reminderID string) error {
	f.deletedID = reminderID
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCache() {
	c.calls++
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name     string
		reminder models.Reminder
		want     error
	}{
		{name: "blank text", reminder: models.Reminder{ContactID: "c1", Text: " ", DueDate: "2024-06-01"}, want: ErrEmptyText},
		{name: "missing contact", reminder: models.Reminder{Text: "call", DueDate: "2024-06-01"}, want: ErrMissingContactID},
		{name: "bad date", reminder: models.Reminder{ContactID: "c1", Text: "call", DueDate: "June 1st"}, want: ErrInvalidDueDate},
		{name: "date with time", reminder: models.Reminder{ContactID: "c1", Text: "call", DueDate: "2024-06-01T10:00:00Z"}, want: ErrInvalidDueDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := require.New(t)
			service := New(logger.New(), &fakeRepository{})

			_, err := service.Create(context.Background(), &tt.reminder)
			assert.ErrorIs(err, tt.want)
		})
	}
}

func TestCreateInvalidates(t *testing.T) {
	assert := require.New(t)

	invalidator := &countingInvalidator{}
	service := New(logger.New(), &fakeRepository{}, invalidator)

	created, err := service.Create(context.Background(), &models.Reminder{
		ContactID: "c1", Text: "send proposal", DueDate: "2024-06-01",
	})
	assert.NoError(err)
	assert.Equal("new-id", created.ID)
	assert.Equal(1, invalidator.calls)
}

func TestUpdateWithoutContactID(t *testing.T) {
	assert := require.New(t)

	invalidator := &countingInvalidator{}
	service := New(logger.New(), &fakeRepository{}, invalidator)

	// Updates address the reminder by id, the contact link is already set.
	updated, err := service.Update(context.Background(), "r1", &models.Reminder{
		Text: "send proposal", DueDate: "2024-06-02", Completed: true,
	})
	assert.NoError(err)
	assert.True(updated.Completed)
	assert.Equal(1, invalidator.calls)
}

func TestDeleteInvalidates(t *testing.T) {
	assert := require.New(t)

	repo := &fakeRepository{}
	invalidator := &countingInvalidator{}
	service := New(logger.New(), repo, invalidator)

	assert.NoError(service.Delete(context.Background(), "r1"))
	assert.Equal("r1", repo.deletedID)
	assert.Equal(1, invalidator.calls)
}

func TestForContactPassesThrough(t *testing.T) {
	assert := require.New(t)

	service := New(logger.New(), &fakeRepository{})

	reminders, err := service.ForContact(context.Background(), "c1", 50, 0)
	assert.NoError(err)
	assert.Len(reminders, 1)
}
