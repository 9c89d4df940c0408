package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkovac/go-shelter/internal/auth"
	"github.com/mkovac/go-shelter/internal/database/models"
	"github.com/mkovac/go-shelter/internal/users"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.SessionToken{},
		&models.Pet{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// CreateTestStore creates an account store backed by the test DB
func CreateTestStore(t *testing.T, db *gorm.DB) *users.Store {
	t.Helper()
	return users.NewStore(db, CreateTestJWTService())
}

// CreateTestUser creates a verified email/password user
func CreateTestUser(t *testing.T, store *users.Store, email, password string) *models.User {
	t.Helper()

	user, err := store.Create(context.Background(), users.CreateParams{
		Email:    email,
		Password: password,
		Role:     models.RoleUser,
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateUnverifiedUser creates a user that has not confirmed its email yet
func CreateUnverifiedUser(t *testing.T, store *users.Store, email, password string) *models.User {
	t.Helper()

	user, err := store.Create(context.Background(), users.CreateParams{
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("failed to create unverified user: %v", err)
	}
	return user
}

// CreateGoogleUser creates a user bound to a Google subject id
func CreateGoogleUser(t *testing.T, store *users.Store, email, sub string) *models.User {
	t.Helper()

	user, err := store.Create(context.Background(), users.CreateParams{
		Email:     email,
		GoogleSub: sub,
		Role:      models.RoleUser,
	})
	if err != nil {
		t.Fatalf("failed to create google user: %v", err)
	}
	return user
}

// CreateTestPet creates an adoption post for the given owner
func CreateTestPet(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) *models.Pet {
	t.Helper()

	pet := &models.Pet{
		OwnerID: ownerID,
		Name:    name,
		Species: "dog",
	}
	if err := db.Create(pet).Error; err != nil {
		t.Fatalf("failed to create test pet: %v", err)
	}
	return pet
}

// IssueTestToken issues a session token through the store so it lands in the
// user's token list
func IssueTestToken(t *testing.T, store *users.Store, user *models.User) string {
	t.Helper()

	token, err := store.IssueToken(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return token
}

// AuthenticatedRequest creates an HTTP request with a bearer token
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}
