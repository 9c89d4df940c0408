package handlers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkovac/go-shelter/internal/api"
	"github.com/mkovac/go-shelter/internal/auth"
	"github.com/mkovac/go-shelter/internal/database/models"
	"github.com/mkovac/go-shelter/internal/identity"
	"github.com/mkovac/go-shelter/internal/pets"
	"github.com/mkovac/go-shelter/internal/testutil"
	"github.com/mkovac/go-shelter/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubGoogle struct {
	payloads map[string]*identity.GooglePayload
}

func (s *stubGoogle) Verify(ctx context.Context, idToken string) (*identity.GooglePayload, error) {
	payload, ok := s.payloads[idToken]
	if !ok {
		return nil, errors.New("idtoken: invalid token")
	}
	return payload, nil
}

type stubFacebook struct {
	profiles map[string]*identity.FacebookProfile
}

func (s *stubFacebook) Verify(ctx context.Context, accessToken string) (*identity.FacebookProfile, error) {
	profile, ok := s.profiles[accessToken]
	if !ok {
		return nil, errors.New("facebook: transport error")
	}
	return profile, nil
}

type noopMailer struct{}

func (noopMailer) SendWelcome(ctx context.Context, email string) error { return nil }

type apiEnv struct {
	db       *gorm.DB
	store    *users.Store
	google   *stubGoogle
	facebook *stubFacebook
	router   http.Handler
}

func setupAPI(t *testing.T) *apiEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	jwtService := testutil.CreateTestJWTService()
	store := users.NewStore(db, jwtService)
	petStore := pets.NewStore(db)
	google := &stubGoogle{payloads: map[string]*identity.GooglePayload{}}
	facebook := &stubFacebook{profiles: map[string]*identity.FacebookProfile{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authService := auth.NewService(store, petStore, google, facebook, noopMailer{}, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:          db,
		Logger:      logger,
		JWTService:  jwtService,
		AuthService: authService,
		Sessions:    store,
	})

	return &apiEnv{db: db, store: store, google: google, facebook: facebook, router: router}
}

func (e *apiEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func TestSignupLoginVerifyLogoutFlow(t *testing.T) {
	env := setupAPI(t)
	ctx := context.Background()

	body := map[string]string{"email": "a@x.com", "password": "password1"}

	// Signup creates an unverified account
	rr := env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/signup", body))
	require.Equal(t, http.StatusCreated, rr.Code)

	var signupResp struct {
		Email string `json:"email"`
		User  struct {
			Role string `json:"role"`
		} `json:"newUser"`
	}
	testutil.ParseJSONResponse(t, rr, &signupResp)
	assert.Equal(t, "a@x.com", signupResp.Email)
	assert.Equal(t, models.RoleUnverified, signupResp.User.Role)

	// Login before verification fails
	rr = env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/login", body))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Verify promotes to USER
	rr = env.do(testutil.UnauthenticatedRequest(t, "GET", "/api/v1/users/verify/a@x.com", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Vaš račun je uspešno potrjen!", rr.Body.String())

	// Second verify reports already confirmed
	rr = env.do(testutil.UnauthenticatedRequest(t, "GET", "/api/v1/users/verify/a@x.com", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Račun je že potrjen!", rr.Body.String())

	// Login now succeeds and returns a token
	rr = env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/login", body))
	require.Equal(t, http.StatusOK, rr.Code)

	var loginResp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Token string `json:"token"`
	}
	testutil.ParseJSONResponse(t, rr, &loginResp)
	require.NotEmpty(t, loginResp.Token)

	// The token works against a protected endpoint
	rr = env.do(testutil.AuthenticatedRequest(t, "GET", "/api/v1/users/pets", nil, loginResp.Token))
	assert.Equal(t, http.StatusOK, rr.Code)

	// Logout revokes it
	rr = env.do(testutil.AuthenticatedRequest(t, "POST", "/api/v1/users/logout", nil, loginResp.Token))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(testutil.AuthenticatedRequest(t, "GET", "/api/v1/users/pets", nil, loginResp.Token))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// The password never landed in the store as plaintext
	user, err := env.store.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", user.PasswordHash)
}

func TestSignupValidation(t *testing.T) {
	env := setupAPI(t)

	t.Run("rejects short password", func(t *testing.T) {
		rr := env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/signup",
			map[string]string{"email": "a@x.com", "password": "short"}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		rr := env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/signup",
			map[string]string{"email": "not-an-email", "password": "password1"}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate signup fails", func(t *testing.T) {
		body := map[string]string{"email": "dup@x.com", "password": "password1"}

		rr := env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/signup", body))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/signup", body))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestLoginFailureCodes(t *testing.T) {
	env := setupAPI(t)

	testutil.CreateGoogleUser(t, env.store, "g@x.com", "sub-1")
	testutil.CreateTestUser(t, env.store, "ana@x.com", "password1")

	for _, tc := range []struct {
		name string
		body map[string]string
		want int
	}{
		{"unknown user", map[string]string{"email": "who@x.com", "password": "password1"}, http.StatusForbidden},
		{"google account", map[string]string{"email": "g@x.com", "password": "password1"}, http.StatusNotFound},
		{"wrong password", map[string]string{"email": "ana@x.com", "password": "wrong-password"}, http.StatusNotFound},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/login", tc.body))
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestContinueWithGoogleEndpoint(t *testing.T) {
	env := setupAPI(t)
	env.google.payloads["good"] = &identity.GooglePayload{
		Sub: "sub-7", Email: "g@x.com", EmailVerified: true,
	}

	rr := env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/google?idtoken=good", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	var first struct {
		Code  int    `json:"code"`
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	testutil.ParseJSONResponse(t, rr, &first)
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.NotEmpty(t, first.Token)

	// Second call reuses the account
	rr = env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/google?idtoken=good", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var second struct {
		Code int    `json:"code"`
		ID   string `json:"id"`
	}
	testutil.ParseJSONResponse(t, rr, &second)
	assert.Equal(t, first.ID, second.ID)

	t.Run("missing idtoken", func(t *testing.T) {
		rr := env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/google", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestContinueWithFacebookEndpoint(t *testing.T) {
	env := setupAPI(t)
	env.facebook.profiles["good"] = &identity.FacebookProfile{
		Valid: true, ID: "fid-7", Email: "f@x.com",
	}
	env.facebook.profiles["invalid"] = &identity.FacebookProfile{Valid: false}
	env.facebook.profiles["no-email"] = &identity.FacebookProfile{Valid: true, ID: "fid-8"}

	rr := env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/facebook?accessToken=good", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/facebook?accessToken=good", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/facebook?accessToken=invalid", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/facebook?accessToken=no-email", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAccountEndpoints(t *testing.T) {
	env := setupAPI(t)

	user := testutil.CreateTestUser(t, env.store, "ana@x.com", "password1")
	token := testutil.IssueTestToken(t, env.store, user)
	testutil.CreateTestPet(t, env.db, user.ID, "Reks")

	t.Run("pets returns the user's posts", func(t *testing.T) {
		rr := env.do(testutil.AuthenticatedRequest(t, "GET", "/api/v1/users/pets", nil, token))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Pets []struct {
				Name string `json:"name"`
			} `json:"pets"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp.Pets, 1)
		assert.Equal(t, "Reks", resp.Pets[0].Name)
	})

	t.Run("delete cascades posts and account", func(t *testing.T) {
		rr := env.do(testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/users", nil, token))
		require.Equal(t, http.StatusNoContent, rr.Code)

		found, err := env.store.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		// Token died with the account
		rr = env.do(testutil.AuthenticatedRequest(t, "GET", "/api/v1/users/pets", nil, token))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unauthenticated access is rejected", func(t *testing.T) {
		rr := env.do(testutil.UnauthenticatedRequest(t, "GET", "/api/v1/users/pets", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
