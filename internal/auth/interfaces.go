package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/mkovac/go-shelter/internal/database/models"
	"github.com/mkovac/go-shelter/internal/identity"
	"github.com/mkovac/go-shelter/internal/pets"
	"github.com/mkovac/go-shelter/internal/users"
)

// AccountStore is the persistence contract the service depends on. Lookups
// return (nil, nil) when no record matches.
type AccountStore interface {
	Create(ctx context.Context, params users.CreateParams) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByGoogleSub(ctx context.Context, sub string) (*models.User, error)
	FindByFacebookID(ctx context.Context, fid string) (*models.User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	VerifyPassword(user *models.User, plaintext string) bool
	MarkVerified(ctx context.Context, user *models.User) error
	IssueToken(ctx context.Context, user *models.User) (string, error)
	RemoveToken(ctx context.Context, userID uuid.UUID, token string) error
}

// PostStore owns the adoption posts that must be cascaded on account
// deletion.
type PostStore interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}

// GoogleVerifier validates a Google ID token and returns its claims.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*identity.GooglePayload, error)
}

// FacebookVerifier runs the Graph API validity and email checks for an
// access token.
type FacebookVerifier interface {
	Verify(ctx context.Context, accessToken string) (*identity.FacebookProfile, error)
}

// Mailer delivers the post-signup welcome email.
type Mailer interface {
	SendWelcome(ctx context.Context, email string) error
}

// TokenValidator is what the HTTP boundary needs from the token layer.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, error)
}

// Compile-time interface satisfaction checks
var (
	_ TokenValidator    = (*JWTService)(nil)
	_ users.TokenSigner = (*JWTService)(nil)
	_ AccountStore      = (*users.Store)(nil)
	_ PostStore         = (*pets.Store)(nil)
	_ GoogleVerifier    = (*identity.GoogleVerifier)(nil)
	_ FacebookVerifier  = (*identity.FacebookVerifier)(nil)
)
