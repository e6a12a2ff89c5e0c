// Package search provides an in-memory full-text index over contacts and
// their notes and reminders, with fuzzy scoring and snippet generation.
package search

import (
	"sort"
	"strings"

	"github.com/meghashyamc/whoisthat/matching"
	"github.com/meghashyamc/whoisthat/models"
)

const (
	maxSnippetLength = 150
	contextChars     = 50
)

// Field identifies which contact field a document was extracted from.
type Field string

const (
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"
	FieldCompany  Field = "company"
	FieldJobTitle Field = "job_title"
	FieldNote     Field = "note"
	FieldReminder Field = "reminder"
)

// DisplayName returns a human-readable label for the field.
func (f Field) DisplayName() string {
	if f == FieldJobTitle {
		return "job title"
	}
	return string(f)
}

// Document is one indexed unit of searchable text tied to a contact. ItemID is
// set only for documents derived from notes and reminders.
type Document struct {
	ContactID   string
	ContactName string
	FieldType   Field
	Content     string
	ItemID      string
}

// MatchContext describes a single match found in a document, with a bounded
// snippet of the surrounding text.
type MatchContext struct {
	FieldType  Field  `json:"field_type"`
	Snippet    string `json:"snippet"`
	Confidence int    `json:"confidence"`
	ItemID     string `json:"item_id,omitempty"`
}

// SearchResult groups all matches for one contact. Confidence is the best
// per-field confidence plus a boost for corroborating matches.
type SearchResult struct {
	Contact    models.Contact `json:"contact"`
	Matches    []MatchContext `json:"matches"`
	Confidence int            `json:"confidence"`
}

// Index holds searchable documents. It is not safe for concurrent mutation;
// build it fully, then share it read-only.
type Index struct {
	documents []Document
}

func NewIndex() *Index {
	return &Index{}
}

// IndexContact appends documents for the contact's fields, its notes and its
// reminders. One document is produced per field instance: the name, each
// email, each phone, the company and job title when present, each note with
// non-blank HTML-stripped text, and each reminder with non-blank text.
// Indexing the same contact twice duplicates its documents; callers rebuild
// from an empty index instead of re-indexing.
func (idx *Index) IndexContact(contact *models.Contact, notes []models.Note, reminders []models.Reminder) {
	add := func(fieldType Field, content, itemID string) {
		idx.documents = append(idx.documents, Document{
			ContactID:   contact.ID,
			ContactName: contact.Name,
			FieldType:   fieldType,
			Content:     content,
			ItemID:      itemID,
		})
	}

	add(FieldName, contact.Name, "")

	if contact.Email != "" {
		add(FieldEmail, contact.Email, "")
	}
	for _, email := range contact.Emails {
		add(FieldEmail, email, "")
	}

	if contact.Phone != "" {
		add(FieldPhone, contact.Phone, "")
	}
	for _, phone := range contact.Phones {
		add(FieldPhone, phone, "")
	}

	if contact.Company != "" {
		add(FieldCompany, contact.Company, "")
	}
	if contact.Title != "" {
		add(FieldJobTitle, contact.Title, "")
	}

	for _, note := range notes {
		plainText := StripHTML(note.Content)
		if strings.TrimSpace(plainText) != "" {
			add(FieldNote, plainText, note.ID)
		}
	}

	for _, reminder := range reminders {
		if strings.TrimSpace(reminder.Text) != "" {
			add(FieldReminder, reminder.Text, reminder.ID)
		}
	}
}

// Search scores the query against every document and returns per-contact
// results sorted by confidence (highest first), truncated to maxResults.
// Contacts are resolved against the supplied snapshot; documents referencing
// a contact absent from it are dropped silently. Equal-confidence results keep
// the order in which their contacts first appear in the index.
func (idx *Index) Search(contacts []models.Contact, query string, maxResults, minConfidence int) []SearchResult {
	queryLower := strings.ToLower(query)

	matchesByContact := make(map[string][]MatchContext)
	contactOrder := make([]string, 0)

	for _, doc := range idx.documents {
		matchCtx, ok := idx.findMatch(&doc, queryLower)
		if !ok || matchCtx.Confidence < minConfidence {
			continue
		}
		if _, seen := matchesByContact[doc.ContactID]; !seen {
			contactOrder = append(contactOrder, doc.ContactID)
		}
		matchesByContact[doc.ContactID] = append(matchesByContact[doc.ContactID], matchCtx)
	}

	contactsByID := make(map[string]models.Contact, len(contacts))
	for _, contact := range contacts {
		contactsByID[contact.ID] = contact
	}

	results := make([]SearchResult, 0, len(contactOrder))
	for _, contactID := range contactOrder {
		contact, ok := contactsByID[contactID]
		if !ok {
			continue
		}

		matches := matchesByContact[contactID]
		maxMatchConfidence := 0
		for _, m := range matches {
			maxMatchConfidence = max(maxMatchConfidence, m.Confidence)
		}
		// Each corroborating match beyond the first adds 5, capped at +15.
		boost := min(5*(len(matches)-1), 15)
		overall := min(maxMatchConfidence+boost, 100)

		if overall >= minConfidence {
			results = append(results, SearchResult{Contact: contact, Matches: matches, Confidence: overall})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results
}

// Clear removes all documents from the index.
func (idx *Index) Clear() {
	idx.documents = nil
}

// DocumentCount returns the number of indexed documents.
func (idx *Index) DocumentCount() int {
	return len(idx.documents)
}

func (idx *Index) findMatch(doc *Document, queryLower string) (MatchContext, bool) {
	contentLower := strings.ToLower(doc.Content)

	confidence, ok := calculateMatchConfidence(queryLower, contentLower)
	if !ok {
		return MatchContext{}, false
	}

	return MatchContext{
		FieldType:  doc.FieldType,
		Snippet:    generateSnippet(doc.Content, contentLower, queryLower),
		Confidence: confidence,
		ItemID:     doc.ItemID,
	}, true
}

// calculateMatchConfidence scores a lowercased query against lowercased
// content. A direct substring hit scores on the query/content length ratio;
// otherwise at least half the query words (rounded up) must fuzzily match a
// content word for the document to count.
func calculateMatchConfidence(query, content string) (int, bool) {
	if query == "" || content == "" {
		return 0, false
	}

	if strings.Contains(content, query) {
		queryLen := len([]rune(query))
		contentLen := len([]rune(content))
		ratio := float64(queryLen) / float64(contentLen)
		return min(int(85.0*ratio+10.0), 95), true
	}

	queryWords := strings.Fields(query)
	contentWords := strings.Fields(content)
	if len(queryWords) == 0 || len(contentWords) == 0 {
		return 0, false
	}

	totalScore := 0
	matched := 0

	for _, queryWord := range queryWords {
		bestWordScore := 0

		for _, contentWord := range contentWords {
			if strings.Contains(contentWord, queryWord) {
				bestWordScore = 85
				break
			}

			distance := matching.LevenshteinDistance(queryWord, contentWord)
			maxLen := max(len([]rune(queryWord)), len([]rune(contentWord)))
			if maxLen > 0 && float64(distance)/float64(maxLen) <= 0.4 {
				similarity := 1.0 - float64(distance)/float64(maxLen)
				bestWordScore = max(bestWordScore, int(similarity*75.0))
			}
		}

		if bestWordScore > 0 {
			totalScore += bestWordScore
			matched++
		}
	}

	quorum := (len(queryWords) + 1) / 2
	if matched < quorum {
		return 0, false
	}

	return min(totalScore/len(queryWords), 90), true
}

// generateSnippet extracts a window of the original content around the first
// occurrence of the query, with ellipses marking clamped edges.
func generateSnippet(original, contentLower, query string) string {
	pos := strings.Index(contentLower, query)
	if pos < 0 {
		pos = fallbackMatchPosition(contentLower, query)
	}

	start := max(pos-contextChars, 0)
	end := min(pos+len(query)+contextChars, len(original))
	if start > len(original) {
		start = len(original)
	}
	if end < start {
		end = start
	}

	snippet := original[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(original) {
		snippet = snippet + "..."
	}

	if len(snippet) > maxSnippetLength {
		snippet = truncateToRuneBoundary(snippet, maxSnippetLength-3) + "..."
	}

	return snippet
}

// fallbackMatchPosition approximates the byte offset of the first content word
// containing the query's first word, for word-level matches where the full
// query is not a substring.
func fallbackMatchPosition(contentLower, query string) int {
	firstWord := query
	if fields := strings.Fields(query); len(fields) > 0 {
		firstWord = fields[0]
	}

	offset := 0
	for _, word := range strings.Fields(contentLower) {
		if strings.Contains(word, firstWord) {
			return offset
		}
		offset += len(word) + 1
	}
	return 0
}

func truncateToRuneBoundary(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
