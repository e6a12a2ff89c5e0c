// Package discovery finds contacts by identity hints (name, email, phone,
// social URL) over a TTL-cached snapshot of all contacts.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/meghashyamc/whoisthat/cache"
	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/matching"
	"github.com/meghashyamc/whoisthat/metrics"
	"github.com/meghashyamc/whoisthat/models"
)

const (
	cacheKey = "all_contacts"

	DefaultMaxResults    = 5
	DefaultMinConfidence = 30

	contactPageSize = 100
	emailSearchLimit = 10
)

// Repository is the slice of the Dex client this service needs.
type Repository interface {
	ListContacts(ctx context.Context, limit, offset int) ([]models.Contact, error)
	SearchContactsByEmail(ctx context.Context, email string, limit, offset int) ([]models.Contact, error)
}

type Response struct {
	Matches   []matching.MatchResult `json:"matches"`
	FromCache bool                   `json:"from_cache"`
}

type Service struct {
	logger  logger.Logger
	repo    Repository
	cache   *cache.TimedCache[string, []models.Contact]
	matcher *matching.Matcher
}

func New(logger logger.Logger, repo Repository, ttl time.Duration) *Service {
	return &Service{
		logger:  logger,
		repo:    repo,
		cache:   cache.New[string, []models.Contact](ttl),
		matcher: matching.NewMatcher(),
	}
}

// FindContact matches contacts against the query. On a cold cache with an
// email present it asks Dex to search by email directly before paying for the
// full snapshot fetch.
func (s *Service) FindContact(ctx context.Context, query matching.ContactQuery, maxResults, minConfidence int) (*Response, error) {
	fromCache := s.cache.ContainsKey(cacheKey)
	if fromCache {
		metrics.RecordCacheHit(cacheKey)
	} else {
		metrics.RecordCacheMiss(cacheKey)
	}

	if !fromCache && query.Email != "" {
		found, err := s.repo.SearchContactsByEmail(ctx, query.Email, emailSearchLimit, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to search contacts by email: %w", err)
		}
		if len(found) > 0 {
			matches := make([]matching.MatchResult, 0, len(found))
			for _, contact := range found {
				matches = append(matches, matching.MatchResult{
					Contact:    contact,
					Confidence: 100,
					MatchType:  matching.MatchTypeExactEmail,
				})
			}
			return &Response{Matches: matches, FromCache: false}, nil
		}
	}

	contacts, err := s.cachedContacts(ctx)
	if err != nil {
		return nil, err
	}

	matches := s.matcher.FindMatches(query, contacts, maxResults, minConfidence)
	s.logger.Info("contact discovery completed",
		"matches", len(matches), "from_cache", fromCache)

	return &Response{Matches: matches, FromCache: fromCache}, nil
}

// InvalidateCache drops the contact snapshot.
func (s *Service) InvalidateCache() {
	s.cache.Remove(cacheKey)
	s.logger.Info("contact cache invalidated")
}

func (s *Service) cachedContacts(ctx context.Context) ([]models.Contact, error) {
	if contacts, ok := s.cache.Get(cacheKey); ok {
		return contacts, nil
	}

	var all []models.Contact
	for offset := 0; ; offset += contactPageSize {
		page, err := s.repo.ListContacts(ctx, contactPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contacts: %w", err)
		}
		all = append(all, page...)
		if len(page) < contactPageSize {
			break
		}
	}

	s.cache.Insert(cacheKey, all)
	return all, nil
}
