package guard

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
)

// GormStore backs the guard with the admin_sessions and admin_accounts
// tables.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindSession(id uuid.UUID) (*models.AdminSession, error) {
	var sess models.AdminSession
	if err := s.db.First(&sess, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *GormStore) RevokeSession(id uuid.UUID) error {
	now := time.Now()
	return s.db.Model(&models.AdminSession{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", &now).Error
}

func (s *GormStore) FindAdmin(id uuid.UUID) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	err := s.db.First(&admin, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
