// Package notes provides note CRUD on top of the Dex timeline API.
package notes

import (
	"context"
	"errors"
	"strings"

	"github.com/meghashyamc/whoisthat/dex"
	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
)

var (
	ErrEmptyContent     = errors.New("note content cannot be empty")
	ErrMissingContactID = errors.New("note needs a contact id")
)

type Invalidator interface {
	InvalidateCache()
}

type Service struct {
	logger       logger.Logger
	repo         dex.NoteRepository
	invalidators []Invalidator
}

func New(logger logger.Logger, repo dex.NoteRepository, invalidators ...Invalidator) *Service {
	return &Service{
		logger:       logger,
		repo:         repo,
		invalidators: invalidators,
	}
}

func (s *Service) ForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Note, error) {
	return s.repo.NotesForContact(ctx, contactID, limit, offset)
}

func (s *Service) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	if err := validateNote(note); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateNote(ctx, note)
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.logger.Info("note created", "note_id", created.ID, "contact_id", created.ContactID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, noteID string, note *models.Note) (*models.Note, error) {
	if strings.TrimSpace(note.Content) == "" {
		return nil, ErrEmptyContent
	}

	updated, err := s.repo.UpdateNote(ctx, noteID, note)
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.logger.Info("note updated", "note_id", noteID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, noteID string) error {
	if err := s.repo.DeleteNote(ctx, noteID); err != nil {
		return err
	}

	s.invalidate()
	s.logger.Info("note deleted", "note_id", noteID)
	return nil
}

func (s *Service) invalidate() {
	for _, invalidator := range s.invalidators {
		invalidator.InvalidateCache()
	}
}

func validateNote(note *models.Note) error {
	if strings.TrimSpace(note.Content) == "" {
		return ErrEmptyContent
	}
	if note.ContactID == "" {
		return ErrMissingContactID
	}
	return nil
}
