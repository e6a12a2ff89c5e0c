// Package dex is the HTTP client for the Dex personal-CRM API. It decodes the
// API's wrapped wire shapes into the shared models and maps HTTP failures to
// the typed errors callers match with errors.Is.
package dex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/metrics"
	"github.com/meghashyamc/whoisthat/models"
)

const (
	apiKeyHeader = "x-hasura-dex-api-key"

	// reminderPageSize is used when scanning all reminders for one contact,
	// the API has no per-contact reminders endpoint.
	reminderPageSize = 100

	maxRateLimitRetries = 3
)

type Client struct {
	http *resty.Client
	log  logger.Logger

	// retryInterval seeds the exponential backoff used on 429 responses.
	retryInterval time.Duration
}

func New(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader(apiKeyHeader, apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{
		http:          httpClient,
		log:           log,
		retryInterval: 500 * time.Millisecond,
	}
}

// do executes one authenticated request and returns the raw response body.
// 429 responses are retried with exponential backoff; every other failure is
// returned immediately.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var responseBody []byte

	attempt := func() error {
		start := time.Now()
		request := c.http.R().SetContext(ctx)
		if body != nil {
			request.SetBody(body)
		}

		response, err := request.Execute(method, path)
		metrics.RecordDexRequest(method, time.Since(start))
		if err != nil {
			metrics.RecordDexError(method)
			return backoff.Permanent(fmt.Errorf("%s %s: %w", method, path, err))
		}

		if response.StatusCode() == http.StatusTooManyRequests {
			metrics.RecordDexError(method)
			c.log.Warn("dex API rate limited, retrying", "method", method, "path", path)
			return ErrRateLimited
		}
		if response.IsError() {
			metrics.RecordDexError(method)
			return backoff.Permanent(statusError(response.StatusCode(), response.String()))
		}

		responseBody = response.Body()
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	retries := backoff.WithContext(backoff.WithMaxRetries(policy, maxRateLimitRetries), ctx)

	if err := backoff.Retry(attempt, retries); err != nil {
		return nil, err
	}
	return responseBody, nil
}

func (c *Client) ListContacts(ctx context.Context, limit, offset int) ([]models.Contact, error) {
	path := fmt.Sprintf("/contacts?limit=%d&offset=%d", limit, offset)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var response contactsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, decodeError(err)
	}
	for i := range response.Contacts {
		response.Contacts[i].Normalize()
	}
	return response.Contacts, nil
}

func (c *Client) GetContact(ctx context.Context, contactID string) (*models.Contact, error) {
	body, err := c.do(ctx, http.MethodGet, "/contacts/"+contactID, nil)
	if err != nil {
		return nil, err
	}

	// The single-contact endpoint answers with the same wrapper as the list.
	var response contactsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, decodeError(err)
	}
	if len(response.Contacts) == 0 {
		return nil, fmt.Errorf("%w: contact %s", ErrNotFound, contactID)
	}

	contact := response.Contacts[0]
	contact.Normalize()
	return &contact, nil
}

func (c *Client) SearchContactsByEmail(ctx context.Context, email string, limit, offset int) ([]models.Contact, error) {
	path := fmt.Sprintf("/contacts/search?email=%s&limit=%d&offset=%d", url.QueryEscape(email), limit, offset)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	// The search endpoint answers either {"data": [...]} or a bare array.
	var contacts []models.Contact
	var paginated paginatedResponse[models.Contact]
	if err := json.Unmarshal(body, &paginated); err == nil && paginated.Data != nil {
		contacts = paginated.Data
	} else if err := json.Unmarshal(body, &contacts); err != nil {
		return nil, decodeError(err)
	}

	for i := range contacts {
		contacts[i].Normalize()
	}
	return contacts, nil
}

func (c *Client) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	request := createContactRequest{Contact: newContactPayload(contact)}
	body, err := c.do(ctx, http.MethodPost, "/contacts", request)
	if err != nil {
		return nil, err
	}

	var response struct {
		Contact *models.Contact `json:"insert_contacts_one"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, decodeError(err)
	}
	if response.Contact == nil {
		return nil, decodeError(fmt.Errorf("missing insert_contacts_one in response"))
	}

	response.Contact.Normalize()
	return response.Contact, nil
}

func (c *Client) UpdateContact(ctx context.Context, contactID string, contact *models.Contact) (*models.Contact, error) {
	request := updateContactRequest{
		Changes: contactChanges{
			FirstName:   contact.FirstName,
			LastName:    contact.LastName,
			JobTitle:    contact.JobTitle,
			Company:     contact.Company,
			Description: contact.Description,
			Website:     contact.Website,
		},
	}
	body, err := c.do(ctx, http.MethodPut, "/contacts/"+contactID, request)
	if err != nil {
		return nil, err
	}

	var response struct {
		Contact *models.Contact `json:"update_contacts_by_pk"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, decodeError(err)
	}
	if response.Contact == nil {
		return nil, decodeError(fmt.Errorf("missing update_contacts_by_pk in response"))
	}

	response.Contact.Normalize()
	return response.Contact, nil
}

func (c *Client) DeleteContact(ctx context.Context, contactID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/contacts/"+contactID, nil)
	return err
}

func (c *Client) NotesForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Note, error) {
	path := fmt.Sprintf("/timeline_items/contacts/%s?limit=%d&offset=%d", contactID, limit, offset)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var response timelineItemsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, decodeError(err)
	}
	for i := range response.TimelineItems {
		response.TimelineItems[i].Normalize()
	}
	return response.TimelineItems, nil
}

func (c *Client) CreateNote(ctx context.Context, note *models.Note) (*models.Note, error) {
	eventTime := note.CreatedAt
	if eventTime == "" {
		eventTime = time.Now().UTC().Format(time.RFC3339)
	}
	request := createNoteRequest{
		TimelineEvent: timelineEventPayload{
			Note:        note.Content,
			EventTime:   eventTime,
			MeetingType: "note",
			TimelineItemsContacts: nestedData[contactIDEntry]{
				Data: []contactIDEntry{{ContactID: note.ContactID}},
			},
		},
	}

	body, err := c.do(ctx, http.MethodPost, "/timeline_items", request)
	if err != nil {
		return nil, err
	}

	var response struct {
		Note *models.Note `json:"insert_timeline_items_one"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, decodeError(err)
	}
	if response.Note == nil {
		return nil, decodeError(fmt.Errorf("missing insert_timeline_items_one in response"))
	}

	created := response.Note
	created.Normalize()
	if created.ContactID == "" {
		created.ContactID = note.ContactID
	}
	return created, nil
}

func (c *Client) UpdateNote(ctx context.Context, noteID string, note *models.Note) (*models.Note, error) {
	request := updateNoteRequest{Changes: noteChanges{Note: note.Content}}
	body, err := c.do(ctx, http.MethodPut, "/timeline_items/"+noteID, request)
	if err != nil {
		return nil, err
	}

	var response struct {
		Note *models.Note `json:"update_timeline_items_by_pk"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, decodeError(err)
	}
	if response.Note == nil {
		return nil, decodeError(fmt.Errorf("missing update_timeline_items_by_pk in response"))
	}

	updated := response.Note
	updated.Normalize()
	if updated.ContactID == "" {
		updated.ContactID = note.ContactID
	}
	return updated, nil
}

func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/timeline_items/"+noteID, nil)
	return err
}

// RemindersForContact scans the paginated global reminders list and filters
// for the contact, there is no per-contact endpoint. The scan stops once
// offset+limit matches have been collected or a short page signals the end.
func (c *Client) RemindersForContact(ctx context.Context, contactID string, limit, offset int) ([]models.Reminder, error) {
	var filtered []models.Reminder
	needed := offset + limit

	for pageOffset := 0; ; pageOffset += reminderPageSize {
		path := fmt.Sprintf("/reminders?limit=%d&offset=%d", reminderPageSize, pageOffset)
		body, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		var response remindersResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, decodeError(err)
		}

		for i := range response.Reminders {
			response.Reminders[i].Normalize()
			if response.Reminders[i].ContactID == contactID {
				filtered = append(filtered, response.Reminders[i])
			}
		}

		if len(filtered) >= needed || len(response.Reminders) < reminderPageSize {
			break
		}
	}

	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (c *Client) CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	request := createReminderRequest{
		Reminder: reminderPayload{
			Text:       reminder.Text,
			IsComplete: reminder.Completed,
			DueAtDate:  reminder.DueDate,
			RemindersContacts: nestedData[contactIDEntry]{
				Data: []contactIDEntry{{ContactID: reminder.ContactID}},
			},
			Priority: reminder.Priority,
		},
	}

	body, err := c.do(ctx, http.MethodPost, "/reminders", request)
	if err != nil {
		return nil, err
	}

	var response struct {
		Reminder *models.Reminder `json:"insert_reminders_one"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, decodeError(err)
	}
	if response.Reminder == nil {
		return nil, decodeError(fmt.Errorf("missing insert_reminders_one in response"))
	}

	created := response.Reminder
	created.Normalize()
	if created.ContactID == "" {
		created.ContactID = reminder.ContactID
	}
	return created, nil
}

func (c *Client) UpdateReminder(ctx context.Context, reminderID string, reminder *models.Reminder) (*models.Reminder, error) {
	completed := reminder.Completed
	request := updateReminderRequest{
		Changes: reminderChanges{
			Text:       reminder.Text,
			IsComplete: &completed,
			DueAtDate:  reminder.DueDate,
		},
	}

	body, err := c.do(ctx, http.MethodPut, "/reminders/"+reminderID, request)
	if err != nil {
		return nil, err
	}

	var response struct {
		Reminder *models.Reminder `json:"update_reminders_by_pk"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, decodeError(err)
	}
	if response.Reminder == nil {
		return nil, decodeError(fmt.Errorf("missing update_reminders_by_pk in response"))
	}

	updated := response.Reminder
	updated.Normalize()
	if updated.ContactID == "" {
		updated.ContactID = reminder.ContactID
	}
	return updated, nil
}

func (c *Client) DeleteReminder(ctx context.Context, reminderID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/reminders/"+reminderID, nil)
	return err
}
