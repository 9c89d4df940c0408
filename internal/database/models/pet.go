package models

import "github.com/google/uuid"

// Pet is an adoption post owned by a user. Posts are deleted before their
// owner when the account is removed.
type Pet struct {
	Base
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name        string    `gorm:"not null" json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Description string    `json:"description"`
	Photo       []byte    `json:"-"`
}

func (Pet) TableName() string {
	return "pets"
}
