package handlers

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
)

// GormAccountStore backs the auth endpoints with the live database.
type GormAccountStore struct {
	db *gorm.DB
}

func NewGormAccountStore(db *gorm.DB) *GormAccountStore {
	return &GormAccountStore{db: db}
}

func (s *GormAccountStore) CountAdmins() (int64, error) {
	var n int64
	err := s.db.Model(&models.AdminAccount{}).Count(&n).Error
	return n, err
}

func (s *GormAccountStore) FindAdminByEmail(email string) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	err := s.db.First(&admin, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *GormAccountStore) FindAdminByID(id uuid.UUID) (*models.AdminAccount, error) {
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

func (s *GormAccountStore) CreateAdmin(a *models.AdminAccount) error {
	return s.db.Create(a).Error
}

func (s *GormAccountStore) UpdateAdmin(a *models.AdminAccount) error {
	return s.db.Model(&models.AdminAccount{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"full_name": a.FullName,
		"email":     a.Email,
	}).Error
}

func (s *GormAccountStore) CreateSession(sess *models.AdminSession) error {
	return s.db.Create(sess).Error
}

func (s *GormAccountStore) RevokeSession(id uuid.UUID) error {
	now := time.Now()
	res := s.db.Model(&models.AdminSession{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
