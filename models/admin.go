package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminAccount is the single operator identity authorized to manage the grid.
// Its ID doubles as the auth identity carried in the JWT.
type AdminAccount struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"size:100;not null" json:"fullName"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (AdminAccount) TableName() string {
	return "admin_accounts"
}

func (a *AdminAccount) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
