// Package search orchestrates full-text search: it snapshots all contacts
// with their notes and reminders from Dex, builds an in-memory index over the
// snapshot, caches the pair under a TTL, and answers queries against it.
package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/meghashyamc/whoisthat/cache"
	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/metrics"
	"github.com/meghashyamc/whoisthat/models"
	"github.com/meghashyamc/whoisthat/search"
)

const (
	// cacheKey is fixed: the cache holds at most one snapshot.
	cacheKey = "search_data"

	DefaultMaxResults    = 10
	DefaultMinConfidence = 50

	contactPageSize       = 100
	itemsPerContact       = 100
	maxConcurrentContacts = 20
)

// Repository is the slice of the Dex client this service needs.
type Repository interface {
	ListContacts(ctx context.Context, limit, offset int) ([]models.Contact, error)
	NotesForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Note, error)
	RemindersForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Reminder, error)
}

// searchData is one cached snapshot: the index plus the contacts it was built
// from, needed to resolve document matches back to full contacts.
type searchData struct {
	index    *search.Index
	contacts []models.Contact
}

type Response struct {
	Results   []search.SearchResult `json:"results"`
	FromCache bool                  `json:"from_cache"`
	IndexSize int                   `json:"index_size"`
}

type Service struct {
	logger logger.Logger
	repo   Repository
	cache  *cache.TimedCache[string, searchData]
	builds singleflight.Group
}

func New(logger logger.Logger, repo Repository, ttl time.Duration) *Service {
	return &Service{
		logger: logger,
		repo:   repo,
		cache:  cache.New[string, searchData](ttl),
	}
}

// Search answers a full-text query, building and caching the index first if
// no live snapshot exists. Concurrent cold-cache searches share one build.
func (s *Service) Search(ctx context.Context, query string, maxResults, minConfidence int) (*Response, error) {
	data, fromCache := s.cache.Get(cacheKey)
	if fromCache {
		metrics.RecordCacheHit(cacheKey)
	} else {
		metrics.RecordCacheMiss(cacheKey)

		built, err, _ := s.builds.Do(cacheKey, func() (any, error) {
			// A build that finished while this caller waited already
			// populated the cache.
			if cached, ok := s.cache.Get(cacheKey); ok {
				return cached, nil
			}
			return s.buildSearchData(ctx)
		})
		if err != nil {
			return nil, err
		}
		data = built.(searchData)
	}

	metrics.RecordSearch()
	results := data.index.Search(data.contacts, query, maxResults, minConfidence)
	s.logger.Info("search completed",
		"query", query, "results", len(results), "from_cache", fromCache)

	return &Response{
		Results:   results,
		FromCache: fromCache,
		IndexSize: data.index.DocumentCount(),
	}, nil
}

// InvalidateCache drops the snapshot so the next search rebuilds it. Mutation
// handlers call this after every successful write to Dex.
func (s *Service) InvalidateCache() {
	s.cache.Remove(cacheKey)
	s.logger.Info("search cache invalidated")
}

func (s *Service) buildSearchData(ctx context.Context) (searchData, error) {
	start := time.Now()

	contacts, err := s.fetchAllContacts(ctx)
	if err != nil {
		return searchData{}, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	index := search.NewIndex()

	// Per-contact notes and reminders are fetched with a bounded fan-out;
	// results land in fixed slots so indexing order stays deterministic.
	type contactItems struct {
		notes     []models.Note
		reminders []models.Reminder
	}
	items := make([]contactItems, len(contacts))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentContacts)
	for i := range contacts {
		group.Go(func() error {
			contactID := contacts[i].ID
			inner, innerCtx := errgroup.WithContext(groupCtx)

			inner.Go(func() error {
				notes, err := s.repo.NotesForContact(innerCtx, contactID, itemsPerContact, 0)
				if err != nil {
					s.logger.Warn("failed to fetch notes, indexing contact without them",
						"contact_id", contactID, "error", err.Error())
					return nil
				}
				items[i].notes = notes
				return nil
			})
			inner.Go(func() error {
				reminders, err := s.repo.RemindersForContact(innerCtx, contactID, itemsPerContact, 0)
				if err != nil {
					s.logger.Warn("failed to fetch reminders, indexing contact without them",
						"contact_id", contactID, "error", err.Error())
					return nil
				}
				items[i].reminders = reminders
				return nil
			})
			return inner.Wait()
		})
	}
	if err := group.Wait(); err != nil {
		return searchData{}, fmt.Errorf("failed to fetch contact data: %w", err)
	}

	for i := range contacts {
		index.IndexContact(&contacts[i], items[i].notes, items[i].reminders)
	}

	data := searchData{index: index, contacts: contacts}
	s.cache.Insert(cacheKey, data)

	metrics.RecordIndexBuild(time.Since(start), index.DocumentCount())
	s.logger.Info("search index built",
		"contacts", len(contacts), "documents", index.DocumentCount(),
		"duration", time.Since(start).String())

	return data, nil
}

func (s *Service) fetchAllContacts(ctx context.Context) ([]models.Contact, error) {
	var all []models.Contact
	for offset := 0; ; offset += contactPageSize {
		page, err := s.repo.ListContacts(ctx, contactPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < contactPageSize {
			return all, nil
		}
	}
}
