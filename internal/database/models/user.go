package models

import "github.com/google/uuid"

// Account roles. A fresh email/password signup starts UNVERIFIED and is
// promoted to USER by email confirmation. Federated signups are created as
// USER directly since the provider already vouched for the email.
const (
	RoleUnverified = "UNVERIFIED"
	RoleUser       = "USER"
	RoleShelter    = "SHELTER"
	RoleSociety    = "SOCIETY"
	RoleAdmin      = "ADMIN"
)

// User is an account record. Email is indexed but deliberately not unique:
// federated providers key accounts by their own subject id, and two
// providers may legitimately produce two records sharing an email.
type User struct {
	Base
	Email        string  `gorm:"index;not null" json:"email"`
	PasswordHash string  `gorm:"" json:"-"`
	GoogleSub    *string `gorm:"uniqueIndex" json:"-"`
	FacebookID   *string `gorm:"uniqueIndex" json:"-"`
	Role         string  `gorm:"default:'UNVERIFIED'" json:"role"`
	Avatar       []byte  `json:"-"`

	Tokens []SessionToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsVerified reports whether the account has confirmed its email, either
// explicitly or implicitly through a federated login.
func (u *User) IsVerified() bool {
	return u.Role != RoleUnverified
}

// Credential is the tagged union of account kinds. Exactly one variant is
// returned per record, so callers can only check a password against accounts
// that actually carry one.
type Credential interface {
	isCredential()
}

// LocalPassword marks an email/password account.
type LocalPassword struct {
	Hash string
}

// GoogleIdentity marks an account bound to a Google subject id.
type GoogleIdentity struct {
	Sub string
}

// FacebookIdentity marks an account bound to a Facebook profile id.
type FacebookIdentity struct {
	ID string
}

// NoCredential marks a record with no usable credential (local signup
// still in progress).
type NoCredential struct{}

func (LocalPassword) isCredential()    {}
func (GoogleIdentity) isCredential()   {}
func (FacebookIdentity) isCredential() {}
func (NoCredential) isCredential()     {}

// Credential discriminates the account kind. Federated identities take
// precedence over a local password when both are somehow populated.
func (u *User) Credential() Credential {
	switch {
	case u.GoogleSub != nil && *u.GoogleSub != "":
		return GoogleIdentity{Sub: *u.GoogleSub}
	case u.FacebookID != nil && *u.FacebookID != "":
		return FacebookIdentity{ID: *u.FacebookID}
	case u.PasswordHash != "":
		return LocalPassword{Hash: u.PasswordHash}
	default:
		return NoCredential{}
	}
}

// SessionToken is one active session. Every successful login appends a row;
// logout deletes exactly the presented row, leaving other sessions alive.
type SessionToken struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Token  string    `gorm:"index;not null" json:"-"`
}

func (SessionToken) TableName() string {
	return "session_tokens"
}
