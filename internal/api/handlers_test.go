package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opencontacts/contacts-backend/internal/domain"
	"github.com/opencontacts/contacts-backend/internal/service"
	"github.com/opencontacts/contacts-backend/internal/storage/memory"
	"github.com/opencontacts/contacts-backend/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestHandlers(t *testing.T) (*Handlers, *gin.Engine) {
	t.Helper()
	logger := zap.NewNop()
	cfg := &config.Config{
		App: config.AppConfig{
			Name:    "Contacts API",
			Version: "1.2.3",
		},
		Server:  config.ServerConfig{Host: "localhost", Port: 8080},
		Storage: config.StorageConfig{Type: "memory"},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	store := memory.NewStore()
	services := service.NewServices(store, cfg, logger)
	handlers := NewHandlers(services, cfg, logger)

	router := gin.New()
	handlers.RegisterRoutes(router)
	router.GET("/health", handlers.Health)
	return handlers, router
}

func createTestContact(t *testing.T, router *gin.Engine, body string) domain.Contact {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var contact domain.Contact
	if err := json.Unmarshal(w.Body.Bytes(), &contact); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return contact
}

func TestHandlers_Health(t *testing.T) {
	_, router := setupTestHandlers(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %q", response["status"])
	}
	if response["version"] != "1.2.3" {
		t.Errorf("Expected version '1.2.3', got %q", response["version"])
	}
	if len(response) != 2 {
		t.Errorf("Expected exactly two keys, got %v", response)
	}
}

func TestHandlers_Health_Idempotent(t *testing.T) {
	_, router := setupTestHandlers(t)

	var first string
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)

		if i == 0 {
			first = w.Body.String()
		} else if w.Body.String() != first {
			t.Errorf("Expected identical responses, got %q then %q", first, w.Body.String())
		}
	}
}

func TestHandlers_CreateContact(t *testing.T) {
	_, router := setupTestHandlers(t)

	contact := createTestContact(t, router,
		`{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","birthday":"1990-06-15"}`)

	if contact.ID == "" {
		t.Error("Expected contact to get an ID")
	}
	if contact.Birthday == nil || contact.Birthday.String() != "1990-06-15" {
		t.Errorf("Unexpected birthday %v", contact.Birthday)
	}
	if contact.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}
}

func TestHandlers_CreateContact_Invalid(t *testing.T) {
	_, router := setupTestHandlers(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing first name", `{"last_name":"Lovelace","email":"ada@example.com"}`},
		{"missing email", `{"first_name":"Ada","last_name":"Lovelace"}`},
		{"bad email", `{"first_name":"Ada","last_name":"Lovelace","email":"not-an-email"}`},
		{"bad birthday", `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","birthday":"15/06/1990"}`},
		{"not json", `first_name=Ada`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandlers_CreateContact_DuplicateEmail(t *testing.T) {
	_, router := setupTestHandlers(t)
	createTestContact(t, router, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contacts",
		strings.NewReader(`{"first_name":"Augusta","last_name":"King","email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
	}
}

func TestHandlers_GetContact(t *testing.T) {
	_, router := setupTestHandlers(t)
	created := createTestContact(t, router, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts/"+created.ID.String(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var contact domain.Contact
	if err := json.Unmarshal(w.Body.Bytes(), &contact); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if contact.ID != created.ID {
		t.Errorf("Expected contact %s, got %s", created.ID, contact.ID)
	}
}

func TestHandlers_GetContact_NotFound(t *testing.T) {
	_, router := setupTestHandlers(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts/"+domain.NewContactID().String(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestHandlers_GetContact_InvalidID(t *testing.T) {
	_, router := setupTestHandlers(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandlers_UpdateContact(t *testing.T) {
	_, router := setupTestHandlers(t)
	created := createTestContact(t, router, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/contacts/"+created.ID.String(),
		strings.NewReader(`{"phone":"555-0100"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var contact domain.Contact
	if err := json.Unmarshal(w.Body.Bytes(), &contact); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if contact.Phone != "555-0100" {
		t.Errorf("Expected phone to be updated, got %q", contact.Phone)
	}
	if contact.FirstName != "Ada" {
		t.Errorf("Expected untouched fields to survive, got first name %q", contact.FirstName)
	}
}

func TestHandlers_UpdateContact_EmailTaken(t *testing.T) {
	_, router := setupTestHandlers(t)
	createTestContact(t, router, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)
	other := createTestContact(t, router, `{"first_name":"Grace","last_name":"Hopper","email":"grace@example.com"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/contacts/"+other.ID.String(),
		strings.NewReader(`{"email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
	}

	// The rejected update must not have touched the stored contact
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/contacts/"+other.ID.String(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var stored domain.Contact
	if err := json.Unmarshal(w.Body.Bytes(), &stored); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if stored.Email != "grace@example.com" {
		t.Errorf("Rejected update changed stored email to %q", stored.Email)
	}
}

func TestHandlers_DeleteContact(t *testing.T) {
	_, router := setupTestHandlers(t)
	created := createTestContact(t, router, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/contacts/"+created.ID.String(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status %d, got %d", http.StatusNoContent, w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/contacts/"+created.ID.String(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d after delete, got %d", http.StatusNotFound, w.Code)
	}
}

func TestHandlers_ListContacts_Search(t *testing.T) {
	_, router := setupTestHandlers(t)
	createTestContact(t, router, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)
	createTestContact(t, router, `{"first_name":"Grace","last_name":"Hopper","email":"grace@navy.mil"}`)
	createTestContact(t, router, `{"first_name":"Adam","last_name":"Smith","email":"adam@economics.org"}`)

	list := func(t *testing.T, query string) []domain.Contact {
		t.Helper()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/contacts"+query, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}
		var contacts []domain.Contact
		if err := json.Unmarshal(w.Body.Bytes(), &contacts); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		return contacts
	}

	t.Run("all", func(t *testing.T) {
		if got := list(t, ""); len(got) != 3 {
			t.Errorf("Expected 3 contacts, got %d", len(got))
		}
	})

	t.Run("general query uses OR", func(t *testing.T) {
		if got := list(t, "?q=ada"); len(got) != 2 {
			t.Errorf("Expected 2 contacts for q=ada, got %d", len(got))
		}
	})

	t.Run("field filters use AND", func(t *testing.T) {
		got := list(t, "?first_name=ada&last_name=love")
		if len(got) != 1 || got[0].LastName != "Lovelace" {
			t.Errorf("Expected only Lovelace, got %v", got)
		}
	})

	t.Run("case-insensitive", func(t *testing.T) {
		if got := list(t, "?q=HOPPER"); len(got) != 1 {
			t.Errorf("Expected 1 contact for q=HOPPER, got %d", len(got))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		if got := list(t, "?limit=2"); len(got) != 2 {
			t.Errorf("Expected 2 contacts with limit=2, got %d", len(got))
		}
	})
}

func TestHandlers_ListContacts_InvalidLimit(t *testing.T) {
	_, router := setupTestHandlers(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts?limit=100000", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandlers_UpcomingBirthdays(t *testing.T) {
	_, router := setupTestHandlers(t)

	// A birthday tomorrow, regardless of today's date
	tomorrow := domain.DateOf(timeNowUTCPlusDays(1))
	body := fmt.Sprintf(`{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","birthday":"%s"}`, tomorrow)
	createTestContact(t, router, body)
	createTestContact(t, router, `{"first_name":"Alan","last_name":"Turing","email":"alan@example.com"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts/birthdays?days=7", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var upcoming []domain.UpcomingBirthday
	if err := json.Unmarshal(w.Body.Bytes(), &upcoming); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(upcoming) != 1 {
		t.Fatalf("Expected 1 upcoming birthday, got %d", len(upcoming))
	}
	if upcoming[0].DaysUntil != 1 {
		t.Errorf("Expected days_until 1, got %d", upcoming[0].DaysUntil)
	}
}

func TestHandlers_UpcomingBirthdays_InvalidDays(t *testing.T) {
	_, router := setupTestHandlers(t)

	for _, query := range []string{"?days=0", "?days=-1", "?days=400", "?days=abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/contacts/birthdays"+query, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Query %q: expected status %d, got %d", query, http.StatusBadRequest, w.Code)
		}
	}
}

func timeNowUTCPlusDays(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, days)
}

func TestHandlers_RoutesOnlyUnderAPIPrefix(t *testing.T) {
	_, router := setupTestHandlers(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d outside the /api prefix, got %d", http.StatusNotFound, w.Code)
	}
}
