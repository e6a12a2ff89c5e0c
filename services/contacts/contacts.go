// Package contacts provides contact CRUD on top of the Dex API, invalidating
// the search and discovery caches after every successful write.
package contacts

import (
	"context"
	"errors"
	"strings"

	"github.com/meghashyamc/whoisthat/dex"
	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
)

var ErrMissingName = errors.New("contact needs a first or last name")

// Invalidator is anything holding a cache that goes stale on contact writes.
type Invalidator interface {
	InvalidateCache()
}

type Service struct {
	logger       logger.Logger
	repo         dex.ContactRepository
	invalidators []Invalidator
}

func New(logger logger.Logger, repo dex.ContactRepository, invalidators ...Invalidator) *Service {
	return &Service{
		logger:       logger,
		repo:         repo,
		invalidators: invalidators,
	}
}

func (s *Service) Get(ctx context.Context, contactID string) (*models.Contact, error) {
	return s.repo.GetContact(ctx, contactID)
}

func (s *Service) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateContact(ctx, contact)
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.logger.Info("contact created", "contact_id", created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, contactID string, contact *models.Contact) (*models.Contact, error) {
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateContact(ctx, contactID, contact)
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.logger.Info("contact updated", "contact_id", contactID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, contactID string) error {
	if err := s.repo.DeleteContact(ctx, contactID); err != nil {
		return err
	}

	s.invalidate()
	s.logger.Info("contact deleted", "contact_id", contactID)
	return nil
}

func (s *Service) invalidate() {
	for _, invalidator := range s.invalidators {
		invalidator.InvalidateCache()
	}
}

func validateContact(contact *models.Contact) error {
	if strings.TrimSpace(contact.FirstName) == "" && strings.TrimSpace(contact.LastName) == "" {
		return ErrMissingName
	}
	return nil
}
