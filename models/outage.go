package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutageType distinguishes planned maintenance from emergency interruptions.
type OutageType string

const (
	OutageTypeScheduled OutageType = "Scheduled"
	OutageTypeEmergency OutageType = "Emergency"
)

// OutageStatus is the lifecycle state of an outage. A new outage opens as
// Scheduled and moves to Resolved exactly once, through the resolution
// workflow.
type OutageStatus string

const (
	OutageStatusScheduled OutageStatus = "Scheduled"
	OutageStatusResolved  OutageStatus = "Resolved"
)

// Outage is a planned or unplanned interruption of power to a community.
type Outage struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CommunityID    uuid.UUID    `gorm:"type:uuid;index;not null" json:"communityId"`
	Community      *Community   `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	Type           OutageType   `gorm:"size:20;not null" json:"type"`
	StartTime      time.Time    `gorm:"not null" json:"startTime"`
	EndTime        time.Time    `json:"endTime"`
	Reason         string       `gorm:"type:text;not null" json:"reason"`
	Status         OutageStatus `gorm:"size:20;default:'Scheduled';index" json:"status"`
	CreatedByAdmin uuid.UUID    `gorm:"type:uuid;not null" json:"createdByAdmin"`
	CreatedAt      time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

func (Outage) TableName() string {
	return "outages"
}

func (o *Outage) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OutageStatusScheduled
	}
	return
}

// OutageDTO is the flattened listing shape the dashboard consumes.
type OutageDTO struct {
	ID            uuid.UUID    `json:"id"`
	CommunityName string       `json:"communityName"`
	Type          OutageType   `json:"type"`
	StartTime     time.Time    `json:"startTime"`
	EndTime       time.Time    `json:"endTime"`
	Reason        string       `json:"reason"`
	Status        OutageStatus `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// ToDTO flattens the joined community row.
func (o *Outage) ToDTO() OutageDTO {
	dto := OutageDTO{
		ID:        o.ID,
		Type:      o.Type,
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Reason:    o.Reason,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
	if o.Community != nil {
		dto.CommunityName = o.Community.Name
	}
	return dto
}
