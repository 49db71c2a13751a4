package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is a prepaid electricity purchase made by a resident. The dashboard
// only lists payments; they are written by the vending system.
type Payment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ResidentID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"residentId"`
	Resident       *Resident  `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	CommunityID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"communityId"`
	Community      *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	Amount         float64    `gorm:"not null" json:"amount"`
	UnitsPurchased float64    `gorm:"not null" json:"unitsPurchased"`
	MeterNumber    string     `gorm:"size:30" json:"meterNumber"`
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// PaymentDTO is the flattened listing shape the dashboard consumes.
type PaymentDTO struct {
	ID             uuid.UUID `json:"id"`
	ResidentName   string    `json:"residentName"`
	CommunityName  string    `json:"communityName"`
	Amount         float64   `json:"amount"`
	UnitsPurchased float64   `json:"unitsPurchased"`
	MeterNumber    string    `json:"meterNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToDTO flattens the joined resident and community rows.
func (p *Payment) ToDTO() PaymentDTO {
	dto := PaymentDTO{
		ID:             p.ID,
		Amount:         p.Amount,
		UnitsPurchased: p.UnitsPurchased,
		MeterNumber:    p.MeterNumber,
		CreatedAt:      p.CreatedAt,
	}
	if p.Resident != nil {
		dto.ResidentName = p.Resident.FullName
	}
	if p.Community != nil {
		dto.CommunityName = p.Community.Name
	}
	return dto
}
