package contacts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
)

type fakeRepository struct {
	created   *models.Contact
	updated   *models.Contact
	deletedID string
	err       error
}

func (f *fakeRepository) ListContacts(ctx context.Context, limit, offset int) ([]models.Contact, error) {
	return nil, nil
}

func (f *fakeRepository) GetContact(ctx context.Context, contactID string) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Contact{ID: contactID, FirstName: "John"}, nil
}

func (f *fakeRepository) SearchContactsByEmail(ctx context.Context, email string, limit, offset int) ([]models.Contact, error) {
	return nil, nil
}

func (f *fakeRepository) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = contact
	return &models.Contact{ID: "new-id", FirstName: contact.FirstName, LastName: contact.LastName}, nil
}

func (f *fakeRepository) UpdateContact(ctx context.Context, contactID string, contact *models.Contact) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = contact
	return contact, nil
}

func (f *fakeRepository) DeleteContact(ctx context.Context, contactID string) error {
	if f.err != nil {
		return f.err
	}
	f.deletedID = contactID
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCache() {
	c.calls++
}

func TestCreateValidatesName(t *testing.T) {
	assert := require.New(t)

	repo := &fakeRepository{}
	invalidator := &countingInvalidator{}
	service := New(logger.New(), repo, invalidator)

	_, err := service.Create(context.Background(), &models.Contact{Company: "Acme"})
	assert.ErrorIs(err, ErrMissingName)
	assert.Nil(repo.created)
	assert.Equal(0, invalidator.calls)

	created, err := service.Create(context.Background(), &models.Contact{FirstName: "John"})
	assert.NoError(err)
	assert.Equal("new-id", created.ID)
	assert.Equal(1, invalidator.calls)
}

func TestLastNameAloneIsEnough(t *testing.T) {
	assert := require.New(t)

	service := New(logger.New(), &fakeRepository{})

	_, err := service.Create(context.Background(), &models.Contact{LastName: "Doe"})
	assert.NoError(err)
}

func TestUpdateInvalidatesAllCaches(t *testing.T) {
	assert := require.New(t)

	first := &countingInvalidator{}
	second := &countingInvalidator{}
	service := New(logger.New(), &fakeRepository{}, first, second)

	_, err := service.Update(context.Background(), "c1", &models.Contact{FirstName: "John"})
	assert.NoError(err)
	assert.Equal(1, first.calls)
	assert.Equal(1, second.calls)
}

func TestDeleteInvalidates(t *testing.T) {
	assert := require.New(t)

	repo := &fakeRepository{}
	invalidator := &countingInvalidator{}
	service := New(logger.New(), repo, invalidator)

	assert.NoError(service.Delete(context.Background(), "c1"))
	assert.Equal("c1", repo.deletedID)
	assert.Equal(1, invalidator.calls)
}

func TestRepositoryFailureSkipsInvalidation(t *testing.T) {
	assert := require.New(t)

	repo := &fakeRepository{err: errors.New("dex unavailable")}
	invalidator := &countingInvalidator{}
	service := New(logger.New(), repo, invalidator)

	_, err := service.Create(context.Background(), &models.Contact{FirstName: "John"})
	assert.Error(err)
	assert.Error(service.Delete(context.Background(), "c1"))
	assert.Equal(0, invalidator.calls)
}

func TestGetPassesThrough(t *testing.T) {
	assert := require.New(t)

	service := New(logger.New(), &fakeRepository{})

	contact, err := service.Get(context.Background(), "c1")
	assert.NoError(err)
	assert.Equal("c1", contact.ID)
}
