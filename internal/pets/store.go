package pets

import (
	"context"

	"github.com/google/uuid"
	"github.com/mkovac/go-shelter/internal/database/models"
	"gorm.io/gorm"
)

// Store owns the adoption posts collection.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, pet *models.Pet) error {
	return s.db.WithContext(ctx).Create(pet).Error
}

// FindByOwner returns every post belonging to the user, newest first.
func (s *Store) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error) {
	var pets []models.Pet
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&pets).Error
	if err != nil {
		return nil, err
	}
	return pets, nil
}

// DeleteByOwner removes all of the user's posts. Runs before the owning
// account is deleted so no post ever references a missing owner.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.Pet{}).Error
}
