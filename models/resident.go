package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resident is a customer of the grid. Residents submit issue reports and make
// prepaid purchases; they never log into this service.
type Resident struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName    string     `gorm:"size:100;not null" json:"fullName"`
	Email       string     `gorm:"size:100" json:"email,omitempty"`
	MeterNumber string     `gorm:"size:30;index" json:"meterNumber"`
	CommunityID uuid.UUID  `gorm:"type:uuid;index;not null" json:"communityId"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (Resident) TableName() string {
	return "residents"
}

func (r *Resident) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
