package notes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
)

type fakeRepository struct {
	created   *models.Note
	deletedID string
	err       error
}

func (f *fakeRepository) NotesForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Note{{ID: "n1", ContactID: contactID, Content: "existing note"}}, nil
}

func (f *fakeRepository) CreateNote(ctx context.Context, note *models.Note) (*models.Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = note
	return &models.Note{ID: "new-id", ContactID: note.ContactID, Content: note.Content}, nil
}

func (f *fakeRepository) UpdateNote(ctx context.Context, noteID string, note *models.Note) (*models.Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	return note, nil
}

func (f *fakeRepository) DeleteNote(ctx context.Context, noteID string) error {
	if f.err != nil {
		return f.err
	}
	f.deletedID = noteID
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
		name string
		note models.Note
		want error
	}{
		{name: "blank content", note: models.Note{ContactID: "c1", Content: "   "}, want: ErrEmptyContent},
		{name: "missing contact", note: models.Note{Content: "some text"}, want: ErrMissingContactID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := require.New(t)
			service := New(logger.New(), &fakeRepository{})

			_, err := service.Create(context.Background(), &tt.note)
			assert.ErrorIs(err, tt.want)
		})
	}
}

func TestCreateInvalidates(t *testing.T) {
	assert := require.New(t)

	invalidator := &countingInvalidator{}
	service := New(logger.New(), &fakeRepository{}, invalidator)

	created, err := service.Create(context.Background(), &models.Note{ContactID: "c1", Content: "met for coffee"})
	assert.NoError(err)
	assert.Equal("new-id", created.ID)
	assert.Equal(1, invalidator.calls)
}

func TestUpdateRejectsBlankContent(t *testing.T) {
	assert := require.New(t)

	invalidator := &countingInvalidator{}
	service := New(logger.New(), &fakeRepository{}, invalidator)

	_, err := service.Update(context.Background(), "n1", &models.Note{Content: ""})
	assert.ErrorIs(err, ErrEmptyContent)
	assert.Equal(0, invalidator.calls)
}

func TestDeleteInvalidates(t *testing.T) {
	assert := require.New(t)

	repo := &fakeRepository{}
	invalidator := &countingInvalidator{}
	service := New(logger.New(), repo, invalidator)

	assert.NoError(service.Delete(context.Background(), "n1"))
	assert.Equal("n1", repo.deletedID)
	assert.Equal(1, invalidator.calls)
}

func TestForContactPassesThrough(t *testing.T) {
	assert := require.New(t)

	service := New(logger.New(), &fakeRepository{})

	notes, err := service.ForContact(context.Background(), "c1", 50, 0)
	assert.NoError(err)
	assert.Len(notes, 1)
}

func TestRepositoryFailureSkipsInvalidation(t *testing.T) {
	assert := require.New(t)

	repo := &fakeRepository{err: errors.New("dex unavailable")}
	invalidator := &countingInvalidator{}
	service := New(logger.New(), repo, invalidator)

	_, err := service.Create(context.Background(), &models.Note{ContactID: "c1", Content: "text"})
	assert.Error(err)
	assert.Equal(0, invalidator.calls)
}
