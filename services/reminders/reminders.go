// Package reminders provides reminder CRUD on top of the Dex API.
package reminders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/meghashyamc/whoisthat/dex"
	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
)

var (
	ErrEmptyText        = errors.New("reminder text cannot be empty")
	ErrMissingContactID = errors.New("reminder needs a contact id")
	ErrInvalidDueDate   = errors.New("reminder due date must be YYYY-MM-DD")
)

type Invalidator interface {
	InvalidateCache()
}

type Service struct {
	logger       logger.Logger
	repo         dex.ReminderRepository
	invalidators []Invalidator
}

func New(logger logger.Logger, repo dex.ReminderRepository, invalidators ...Invalidator) *Service {
	return &Service{
		logger:       logger,
		repo:         repo,
		invalidators: invalidators,
	}
}

func (s *Service) ForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Reminder, error) {
	return s.repo.RemindersForContact(ctx, contactID, limit, offset)
}

func (s *Service) Create(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	if err := validateReminder(reminder, true); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateReminder(ctx, reminder)
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.logger.Info("reminder created", "reminder_id", created.ID, "contact_id", created.ContactID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, reminderID string, reminder *models.Reminder) (*models.Reminder, error) {
	if err := validateReminder(reminder, false); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateReminder(ctx, reminderID, reminder)
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.logger.Info("reminder updated", "reminder_id", reminderID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, reminderID string) error {
	if err := s.repo.DeleteReminder(ctx, reminderID); err != nil {
		return err
	}

	s.invalidate()
	s.logger.Info("reminder deleted", "reminder_id", reminderID)
	return nil
}

func (s *Service) invalidate() {
	for _, invalidator := range s.invalidators {
		invalidator.InvalidateCache()
	}
}

func validateReminder(reminder *models.Reminder, requireContact bool) error {
	if strings.TrimSpace(reminder.Text) == "" {
		return ErrEmptyText
	}
	if requireContact && reminder.ContactID == "" {
		return ErrMissingContactID
	}
	if _, err := time.Parse("2006-01-02", reminder.DueDate); err != nil {
		return ErrInvalidDueDate
	}
	return nil
}
