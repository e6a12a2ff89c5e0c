// Package matching scores contacts against structured queries using exact
// matching on emails, phones and social URLs, with fuzzy name matching as a
// fallback.
package matching

import (
	"sort"
	"strings"

	"github.com/meghashyamc/whoisthat/models"
)

// MatchType identifies which rule produced a match.
type MatchType string

const (
	MatchTypeExactEmail  MatchType = "exact_email"
	MatchTypeExactPhone  MatchType = "exact_phone"
	MatchTypeExactSocial MatchType = "exact_social"
	MatchTypeFuzzyName   MatchType = "fuzzy_name"
)

// ContactQuery holds the optional search criteria for a discovery lookup.
type ContactQuery struct {
	Name      string
	Email     string
	Phone     string
	Company   string
	SocialURL string
}

// MatchResult pairs a matched contact with its confidence score (0-100, where
// 100 is reserved for exact field matches).
type MatchResult struct {
	Contact    models.Contact `json:"contact"`
	Confidence int            `json:"confidence"`
	MatchType  MatchType      `json:"match_type"`
}

// Matcher finds contacts matching a query.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// FindMatches scores every contact against the query and returns up to
// maxResults matches sorted by confidence (highest first), ties broken by
// contact name. Per contact the rules run in priority order and the first hit
// wins: exact email, exact phone, exact social URL, then fuzzy name. Fuzzy
// matches below minConfidence are dropped.
func (m *Matcher) FindMatches(query ContactQuery, contacts []models.Contact, maxResults, minConfidence int) []MatchResult {
	results := make([]MatchResult, 0)

	for _, contact := range contacts {
		if query.Email != "" && m.matchEmail(query.Email, &contact) {
			results = append(results, MatchResult{Contact: contact, Confidence: 100, MatchType: MatchTypeExactEmail})
			continue
		}

		if query.Phone != "" && m.matchPhone(query.Phone, &contact) {
			results = append(results, MatchResult{Contact: contact, Confidence: 100, MatchType: MatchTypeExactPhone})
			continue
		}

		if query.SocialURL != "" && m.matchSocialURL(query.SocialURL, &contact) {
			results = append(results, MatchResult{Contact: contact, Confidence: 100, MatchType: MatchTypeExactSocial})
			continue
		}

		if query.Name == "" {
			continue
		}

		confidence := m.fuzzyMatchName(query.Name, contact.Name)
		if confidence == 0 {
			continue
		}

		if query.Company != "" && contact.Company != "" && m.fuzzyMatchCompany(query.Company, contact.Company) {
			confidence = min(confidence+15, 95)
		}

		if confidence >= minConfidence {
			results = append(results, MatchResult{Contact: contact, Confidence: confidence, MatchType: MatchTypeFuzzyName})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].Contact.Name < results[j].Contact.Name
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results
}

func (m *Matcher) matchEmail(queryEmail string, contact *models.Contact) bool {
	normalizedQuery := NormalizeEmail(queryEmail)
	for _, email := range contact.AllEmails() {
		if NormalizeEmail(email) == normalizedQuery {
			return true
		}
	}
	return false
}

func (m *Matcher) matchPhone(queryPhone string, contact *models.Contact) bool {
	normalizedQuery := NormalizePhone(queryPhone)
	for _, phone := range contact.AllPhones() {
		if NormalizePhone(phone) == normalizedQuery {
			return true
		}
	}
	return false
}

func (m *Matcher) matchSocialURL(queryURL string, contact *models.Contact) bool {
	normalizedQuery := NormalizeURL(queryURL)
	for _, profile := range contact.SocialProfiles {
		if NormalizeURL(profile.URL) == normalizedQuery {
			return true
		}
	}
	return false
}

func (m *Matcher) fuzzyMatchName(query, contactName string) int {
	return CalculateFuzzyScore(NormalizeName(query), NormalizeName(contactName))
}

// fuzzyMatchCompany applies a higher threshold than name matching: a company
// only counts as matching when its fuzzy score exceeds 50.
func (m *Matcher) fuzzyMatchCompany(query, company string) bool {
	return CalculateFuzzyScore(NormalizeName(query), NormalizeName(company)) > 50
}

// CalculateFuzzyScore scores how well query matches target on a 0-95 scale
// (95 max, reserving 100 for exact email/phone/social matches). Inputs are
// expected to be normalized already.
func CalculateFuzzyScore(query, target string) int {
	if query == "" || target == "" {
		return 0
	}

	if query == target {
		return 95
	}

	queryLen := len([]rune(query))
	targetLen := len([]rune(target))

	if strings.Contains(target, query) {
		ratio := float64(queryLen) / float64(targetLen)
		return min(int(85.0*ratio+10.0), 95)
	}

	if strings.Contains(query, target) {
		return 85
	}

	distance := LevenshteinDistance(query, target)
	maxLen := max(queryLen, targetLen)

	if float64(distance)/float64(maxLen) > 0.5 {
		return 0
	}

	similarity := 1.0 - float64(distance)/float64(maxLen)
	return int(similarity * 85.0)
}

// LevenshteinDistance computes the edit distance between two strings over
// Unicode code points using the classic dynamic programming algorithm.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	matrix := make([][]int, len(r1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(r2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i, c1 := range r1 {
		for j, c2 := range r2 {
			cost := 1
			if c1 == c2 {
				cost = 0
			}
			matrix[i+1][j+1] = min(matrix[i][j+1]+1, matrix[i+1][j]+1, matrix[i][j]+cost)
		}
	}

	return matrix[len(r1)][len(r2)]
}

// NormalizeEmail trims whitespace and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips a phone number down to its digits and keeps at most
// the last 10, so numbers match regardless of country code or formatting.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	normalized := digits.String()
	if len(normalized) > 10 {
		normalized = normalized[len(normalized)-10:]
	}
	return normalized
}

// NormalizeURL lowercases a URL and strips the scheme, a leading "www." and
// any trailing slash.
func NormalizeURL(url string) string {
	normalized := strings.ToLower(strings.TrimSpace(url))
	normalized = strings.TrimPrefix(normalized, "https://")
	normalized = strings.TrimPrefix(normalized, "http://")
	normalized = strings.TrimPrefix(normalized, "www.")
	return strings.TrimSuffix(normalized, "/")
}

// NormalizeName trims, lowercases and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
