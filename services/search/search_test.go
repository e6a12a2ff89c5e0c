package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/models"
)

type fakeRepository struct {
	mu sync.Mutex

	contacts  []models.Contact
	notes     map[string][]models.Note
	reminders map[string][]models.Reminder

	listCalls     int32
	listErr       error
	notesErr      error
	remindersErr  error
	listDelay     time.Duration
	noteContacts  []string
}

func (f *fakeRepository) ListContacts(ctx context.Context, limit, offset int) ([]models.Contact, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.listDelay > 0 {
		time.Sleep(f.listDelay)
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if offset >= len(f.contacts) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.contacts) {
		end = len(f.contacts)
	}
	return f.contacts[offset:end], nil
}

func (f *fakeRepository) NotesForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Note, error) {
	if f.notesErr != nil {
		return nil, f.notesErr
	}
	f.mu.Lock()
	f.noteContacts = append(f.noteContacts, contactID)
	f.mu.Unlock()
	return f.notes[contactID], nil
}

func (f *fakeRepository) RemindersForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Reminder, error) {
	if f.remindersErr != nil {
		return nil, f.remindersErr
	}
	return f.reminders[contactID], nil
}

func newFakeRepository(contacts ...models.Contact) *fakeRepository {
	return &fakeRepository{
		contacts:  contacts,
		notes:     make(map[string][]models.Note),
		reminders: make(map[string][]models.Reminder),
	}
}

func TestSearchBuildsThenHitsCache(t *testing.T) {
	assert := require.New(t)

	repo := newFakeRepository(models.Contact{ID: "c1", Name: "John Doe"})
	service := New(logger.New(), repo, time.Minute)

	first, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
	assert.NoError(err)
	assert.False(first.FromCache)
	assert.Len(first.Results, 1)
	assert.Greater(first.IndexSize, 0)

	second, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
	assert.NoError(err)
	assert.True(second.FromCache)
	assert.Equal(int32(1), atomic.LoadInt32(&repo.listCalls))
}

func TestSearchRebuildsAfterTTL(t *testing.T) {
	assert := require.New(t)

	repo := newFakeRepository(models.Contact{ID: "c1", Name: "John Doe"})
	service := New(logger.New(), repo, 30*time.Millisecond)

	_, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
	assert.NoError(err)

	time.Sleep(40 * time.Millisecond)

	response, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
	assert.NoError(err)
	assert.False(response.FromCache)
	assert.Equal(int32(2), atomic.LoadInt32(&repo.listCalls))
}

func TestInvalidateCacheForcesRebuild(t *testing.T) {
	assert := require.New(t)

	repo := newFakeRepository(models.Contact{ID: "c1", Name: "John Doe"})
	service := New(logger.New(), repo, time.Minute)

	_, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
	assert.NoError(err)

	service.InvalidateCache()

	response, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
	assert.NoError(err)
	assert.False(response.FromCache)
	assert.Equal(int32(2), atomic.LoadInt32(&repo.listCalls))
}

func TestSearchPaginatesContacts(t *testing.T) {
	assert := require.New(t)

	contacts := make([]models.Contact, 0, contactPageSize+5)
	for i := range contactPageSize + 5 {
		contacts = append(contacts, models.Contact{
			ID:   fmt.Sprintf("c%d", i),
			Name: fmt.Sprintf("Contact %d", i),
		})
	}
	repo := newFakeRepository(contacts...)
	service := New(logger.New(), repo, time.Minute)

	response, err := service.Search(context.Background(), "contact", 200, 0)
	assert.NoError(err)
	// Two pages: a full one and a short one.
	assert.Equal(int32(2), atomic.LoadInt32(&repo.listCalls))
	assert.Equal(contactPageSize+5, response.IndexSize)
}

func TestSearchIncludesNotesAndReminders(t *testing.T) {
	assert := require.New(t)

	repo := newFakeRepository(models.Contact{ID: "c1", Name: "John Doe"})
	repo.notes["c1"] = []models.Note{{ID: "n1", ContactID: "c1", Content: "Discussed the project timeline"}}
	repo.reminders["c1"] = []models.Reminder{{ID: "r1", ContactID: "c1", Text: "Send the proposal", DueDate: "2024-06-01"}}
	service := New(logger.New(), repo, time.Minute)

	response, err := service.Search(context.Background(), "timeline", DefaultMaxResults, 0)
	assert.NoError(err)
	assert.Len(response.Results, 1)
	// name + note + reminder documents
	assert.Equal(3, response.IndexSize)

	response, err = service.Search(context.Background(), "proposal", DefaultMaxResults, 0)
	assert.NoError(err)
	assert.Len(response.Results, 1)
}

func TestSubFetchFailureDegradesToEmpty(t *testing.T) {
	assert := require.New(t)

	repo := newFakeRepository(models.Contact{ID: "c1", Name: "John Doe"})
	repo.notesErr = errors.New("notes endpoint down")
	repo.reminders["c1"] = []models.Reminder{{ID: "r1", ContactID: "c1", Text: "Send the proposal", DueDate: "2024-06-01"}}
	service := New(logger.New(), repo, time.Minute)

	response, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
	assert.NoError(err)
	assert.Len(response.Results, 1)
	// Notes are missing but the name and reminder documents are indexed.
	assert.Equal(2, response.IndexSize)
}

func TestContactFetchFailureIsFatal(t *testing.T) {
	assert := require.New(t)

	repo := newFakeRepository()
	repo.listErr = errors.New("dex unavailable")
	service := New(logger.New(), repo, time.Minute)

	_, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
	assert.Error(err)

	// The failed build must not leave a cached snapshot behind.
	repo.listErr = nil
	repo.contacts = []models.Contact{{ID: "c1", Name: "John Doe"}}
	response, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
	assert.NoError(err)
	assert.False(response.FromCache)
	assert.Len(response.Results, 1)
}

func TestConcurrentColdSearchesShareOneBuild(t *testing.T) {
	assert := require.New(t)

	repo := newFakeRepository(models.Contact{ID: "c1", Name: "John Doe"})
	repo.listDelay = 20 * time.Millisecond
	service := New(logger.New(), repo, time.Minute)

	errs := make(chan error, 5)
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Search(context.Background(), "john", DefaultMaxResults, 0)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(err)
	}

	assert.Equal(int32(1), atomic.LoadInt32(&repo.listCalls))
}

func TestMinConfidenceFiltersResults(t *testing.T) {
	assert := require.New(t)

	repo := newFakeRepository(models.Contact{ID: "c1", Name: "Jonathan Doe"})
	service := New(logger.New(), repo, time.Minute)

	low, err := service.Search(context.Background(), "jon", DefaultMaxResults, 0)
	assert.NoError(err)
	high, err := service.Search(context.Background(), "jon", DefaultMaxResults, 99)
	assert.NoError(err)

	assert.GreaterOrEqual(len(low.Results), len(high.Results))
}
