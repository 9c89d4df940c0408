package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/mkovac/go-shelter/internal/database/models"
	"github.com/mkovac/go-shelter/internal/users"
)

// Service orchestrates login, signup, verification, federated login, logout
// and account deletion. Every collaborator is injected at construction; the
// service holds no global state and each operation is one request/response.
type Service struct {
	accounts AccountStore
	posts    PostStore
	google   GoogleVerifier
	facebook FacebookVerifier
	mailer   Mailer
	logger   *slog.Logger
}

func NewService(accounts AccountStore, posts PostStore, google GoogleVerifier, facebook FacebookVerifier, mailer Mailer, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		posts:    posts,
		google:   google,
		facebook: facebook,
		mailer:   mailer,
		logger:   logger,
	}
}

type LoginResult struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

type SignupResult struct {
	Email string       `json:"email"`
	User  *models.User `json:"newUser"`
}

// FederatedResult reports whether the provider login hit an existing record
// (200) or created one (201).
type FederatedResult struct {
	Code  int       `json:"code"`
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound(http.StatusForbidden, "Uporabnik ne obstaja.")
	}

	// Accounts bound to a Google subject carry no local password; send the
	// caller to the federated flow instead of failing the password check.
	if _, ok := user.Credential().(models.GoogleIdentity); ok {
		return nil, invalidCredentials("Nadaljujte z Google vpisom.")
	}

	if !s.accounts.VerifyPassword(user, password) {
		return nil, invalidCredentials("Nepravilno geslo.")
	}

	if !user.IsVerified() {
		return nil, unverified("E-naslov ni potrjen.")
	}

	token, err := s.accounts.IssueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{ID: user.ID, Email: email, Token: token}, nil
}

func (s *Service) Signup(ctx context.Context, email, password string) (*SignupResult, error) {
	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, alreadyExists("Uporabnik že obstaja.")
	}

	user, err := s.accounts.Create(ctx, users.CreateParams{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	// Delivery is fire-and-forget: a failed welcome mail never rolls back
	// the account.
	if err := s.mailer.SendWelcome(ctx, email); err != nil {
		s.logger.Warn("failed to send welcome email", "email", email, "error", err)
	}

	return &SignupResult{Email: email, User: user}, nil
}

// Verify confirms the account's email. Calling it again after the role has
// moved past UNVERIFIED only reports that the account is already confirmed.
func (s *Service) Verify(ctx context.Context, email string) (string, error) {
	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", notFound(http.StatusForbidden, "Uporabnik ne obstaja.")
	}

	if user.Role == models.RoleUnverified {
		if err := s.accounts.MarkVerified(ctx, user); err != nil {
			return "", err
		}
		return "Vaš račun je uspešno potrjen!", nil
	}

	return "Račun je že potrjen!", nil
}

func (s *Service) ContinueWithGoogle(ctx context.Context, idToken string) (*FederatedResult, error) {
	payload, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if !payload.EmailVerified {
		return nil, unverified("Gmail račun " + payload.Email + " ni potrjen. Prosimo uporabite drug račun za registracijo.")
	}

	code := http.StatusOK
	user, err := s.accounts.FindByGoogleSub(ctx, payload.Sub)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.accounts.Create(ctx, users.CreateParams{
			Email:     payload.Email,
			GoogleSub: payload.Sub,
			Role:      models.RoleUser,
		})
		if err != nil {
			return nil, err
		}
		code = http.StatusCreated
	}

	token, err := s.accounts.IssueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &FederatedResult{Code: code, ID: user.ID, Email: payload.Email, Token: token}, nil
}

func (s *Service) ContinueWithFacebook(ctx context.Context, accessToken string) (*FederatedResult, error) {
	profile, err := s.facebook.Verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !profile.Valid {
		return nil, unauthenticated("Unauthenticated.")
	}
	if profile.Email == "" {
		return nil, notFound(http.StatusNotFound, "There is no email associated with this Facebook account.")
	}

	code := http.StatusOK
	user, err := s.accounts.FindByFacebookID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.accounts.Create(ctx, users.CreateParams{
			Email:      profile.Email,
			FacebookID: profile.ID,
			Role:       models.RoleUser,
		})
		if err != nil {
			return nil, err
		}
		code = http.StatusCreated
	}

	token, err := s.accounts.IssueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &FederatedResult{Code: code, ID: user.ID, Email: profile.Email, Token: token}, nil
}

// DeleteAccount cascades: posts first, then the user record. When post
// deletion fails the user row stays intact; nothing compensates beyond that.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.posts.DeleteByOwner(ctx, userID); err != nil {
		return err
	}
	return s.accounts.DeleteByID(ctx, userID)
}

func (s *Service) PetsForUser(ctx context.Context, userID uuid.UUID) ([]models.Pet, error) {
	return s.posts.FindByOwner(ctx, userID)
}

// Logout removes exactly the presented session token. Other sessions of the
// same user keep working.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	return s.accounts.RemoveToken(ctx, userID, token)
}
