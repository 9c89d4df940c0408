package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mkovac/go-shelter/internal/database/models"
	"gorm.io/gorm"
)

var ErrEmailRequired = errors.New("email is required")

// TokenSigner produces the signed session token embedded in a user's token
// list. Satisfied by auth.JWTService.
type TokenSigner interface {
	GenerateToken(userID uuid.UUID) (string, error)
}

// Store owns persisted user records. All password hashing happens here, at
// the single write site: callers never hash themselves and no ORM hook does
// it behind their back.
type Store struct {
	db     *gorm.DB
	signer TokenSigner
}

func NewStore(db *gorm.DB, signer TokenSigner) *Store {
	return &Store{db: db, signer: signer}
}

type CreateParams struct {
	Email      string
	Password   string
	GoogleSub  string
	FacebookID string
	Role       string
}

// Create persists a new account record. A non-empty password is replaced by
// its bcrypt hash before the row is written.
func (s *Store) Create(ctx context.Context, params CreateParams) (*models.User, error) {
	if params.Email == "" {
		return nil, ErrEmailRequired
	}

	user := models.User{
		Email: params.Email,
		Role:  params.Role,
	}
	if user.Role == "" {
		user.Role = models.RoleUnverified
	}
	if params.Password != "" {
		hash, err := HashPassword(params.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if params.GoogleSub != "" {
		sub := params.GoogleSub
		user.GoogleSub = &sub
	}
	if params.FacebookID != "" {
		fid := params.FacebookID
		user.FacebookID = &fid
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns the matching record, or (nil, nil) when absent.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *Store) FindByGoogleSub(ctx context.Context, sub string) (*models.User, error) {
	return s.findOne(ctx, "google_sub = ?", sub)
}

func (s *Store) FindByFacebookID(ctx context.Context, fid string) (*models.User, error) {
	return s.findOne(ctx, "facebook_id = ?", fid)
}

func (s *Store) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// DeleteByID removes the record and its session tokens. Idempotent: deleting
// an absent id is not an error.
func (s *Store) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.SessionToken{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
}

// VerifyPassword compares plaintext against the stored hash. Federated
// accounts and records without a hash always fail the check, they never
// error.
func (s *Store) VerifyPassword(user *models.User, plaintext string) bool {
	cred, ok := user.Credential().(models.LocalPassword)
	if !ok {
		return false
	}
	return CheckPassword(plaintext, cred.Hash)
}

// MarkVerified promotes an UNVERIFIED account to USER. The transition is
// one-way; any other role is left untouched.
func (s *Store) MarkVerified(ctx context.Context, user *models.User) error {
	if user.Role != models.RoleUnverified {
		return nil
	}
	user.Role = models.RoleUser
	return s.db.WithContext(ctx).Model(user).Update("role", models.RoleUser).Error
}

// IssueToken signs a session token for the record, appends it to the
// account's token list and returns it.
func (s *Store) IssueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.signer.GenerateToken(user.ID)
	if err != nil {
		return "", err
	}

	entry := models.SessionToken{UserID: user.ID, Token: token}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return "", err
	}
	return token, nil
}

// RemoveToken deletes exactly one session entry matching the presented
// token. Other concurrent sessions for the same user are unaffected.
func (s *Store) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	var entry models.SessionToken
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.db.WithContext(ctx).Delete(&entry).Error
}

// HasToken reports whether the token is still in the user's session list.
// This is the server-side revocation check: a logout removes the row, so a
// structurally valid JWT is rejected afterwards.
func (s *Store) HasToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SessionToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
