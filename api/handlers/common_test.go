// Common test helpers
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/meghashyamc/whoisthat/dex"
	"github.com/meghashyamc/whoisthat/logger"
	"github.com/meghashyamc/whoisthat/services/contacts"
	"github.com/meghashyamc/whoisthat/services/discovery"
	"github.com/meghashyamc/whoisthat/services/notes"
	"github.com/meghashyamc/whoisthat/services/reminders"
	"github.com/meghashyamc/whoisthat/services/search"
	"github.com/meghashyamc/whoisthat/validation"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

type testCase struct {
	name           string
	requestHeaders map[string]string
	requestBody    map[string]any
	queryParams    map[string]string
	expectedStatus int
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

// dexBackend is a fake Dex API: fixed fixtures plus counters the tests use to
// observe cache behavior.
type dexBackend struct {
	server *httptest.Server

	contactListCalls atomic.Int32
}

func (b *dexBackend) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && path == "/contacts":
		b.contactListCalls.Add(1)
		if r.URL.Query().Get("offset") != "0" {
			fmt.Fprint(w, `{"contacts": []}`)
			return
		}
		fmt.Fprint(w, `{"contacts": [
			{"id": "c1", "first_name": "John", "last_name": "Doe", "company": "Acme Corp",
			 "contact_emails": [{"email": "john@example.com"}],
			 "contact_phone_numbers": [{"phone_number": "+1 555 0100"}]},
			{"id": "c2", "first_name": "Jane", "last_name": "Smith",
			 "contact_emails": [{"email": "jane@example.com"}]}
		]}`)

	case r.Method == http.MethodGet && path == "/contacts/search":
		fmt.Fprint(w, `{"data": []}`)

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/contacts/"):
		if strings.HasSuffix(path, "/missing") {
			fmt.Fprint(w, `{"contacts": []}`)
			return
		}
		fmt.Fprint(w, `{"contacts": [{"id": "c1", "first_name": "John", "last_name": "Doe"}]}`)

	case r.Method == http.MethodPost && path == "/contacts":
		fmt.Fprint(w, `{"insert_contacts_one": {"id": "c3", "first_name": "New", "last_name": "Person"}}`)

	case r.Method == http.MethodPut && strings.HasPrefix(path, "/contacts/"):
		fmt.Fprint(w, `{"update_contacts_by_pk": {"id": "c1", "first_name": "John", "last_name": "Updated"}}`)

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/timeline_items/contacts/"):
		if strings.HasSuffix(path, "/c1") {
			fmt.Fprint(w, `{"timeline_items": [
				{"id": "n1", "note": "Discussed the project timeline", "event_time": "2024-01-01T00:00:00Z",
				 "contacts": [{"contact_id": "c1"}]}
			]}`)
			return
		}
		fmt.Fprint(w, `{"timeline_items": []}`)

	case r.Method == http.MethodPost && path == "/timeline_items":
		fmt.Fprint(w, `{"insert_timeline_items_one": {"id": "n2", "note": "created note", "event_time": "2024-01-02T00:00:00Z"}}`)

	case r.Method == http.MethodPut && strings.HasPrefix(path, "/timeline_items/"):
		fmt.Fprint(w, `{"update_timeline_items_by_pk": {"id": "n1", "note": "updated note", "event_time": "2024-01-01T00:00:00Z"}}`)

	case r.Method == http.MethodGet && path == "/reminders":
		if r.URL.Query().Get("offset") != "0" {
			fmt.Fprint(w, `{"reminders": []}`)
			return
		}
		fmt.Fprint(w, `{"reminders": [
			{"id": "r1", "body": "Send the proposal", "due_at_date": "2024-06-01",
			 "contact_ids": [{"contact_id": "c1"}]}
		]}`)

	case r.Method == http.MethodPost && path == "/reminders":
		fmt.Fprint(w, `{"insert_reminders_one": {"id": "r2", "body": "created reminder", "due_at_date": "2024-07-01", "contact_ids": [{"contact_id": "c1"}]}}`)

	case r.Method == http.MethodPut && strings.HasPrefix(path, "/reminders/"):
		fmt.Fprint(w, `{"update_reminders_by_pk": {"id": "r1", "body": "updated reminder", "due_at_date": "2024-07-01", "is_complete": true, "contact_ids": [{"contact_id": "c1"}]}}`)

	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setupTestServer(t *testing.T, assert *require.Assertions) (*gin.Engine, *dexBackend) {
	t.Helper()

	backend := &dexBackend{}
	backend.server = httptest.NewServer(http.HandlerFunc(backend.handle))
	t.Cleanup(backend.server.Close)

	testLogger := newTestLogger()
	client := dex.New(backend.server.URL, "test-key", 5*time.Second, testLogger)

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	searchService := search.New(testLogger, client, time.Minute)
	discoveryService := discovery.New(testLogger, client, time.Minute)
	contactService := contacts.New(testLogger, client, searchService, discoveryService)
	noteService := notes.New(testLogger, client, searchService, discoveryService)
	reminderService := reminders.New(testLogger, client, searchService, discoveryService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupSearch(router, testLogger, searchService, validator)
	SetupDiscovery(router, testLogger, discoveryService, validator)
	SetupContacts(router, testLogger, contactService, validator)
	SetupNotes(router, testLogger, noteService, validator)
	SetupReminders(router, testLogger, reminderService, validator)

	return router, backend
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?"
		for key, value := range queryParams {
			if endpoint[len(endpoint)-1] != '?' {
				endpoint = endpoint + "&"
			}
			endpoint = endpoint + key + "=" + value
		}
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(assert *require.Assertions, w *httptest.ResponseRecorder) map[string]any {
	decoded := map[string]any{}
	if w.Body.Len() == 0 {
		return decoded
	}
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &decoded))
	return decoded
}
