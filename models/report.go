package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ReportStatus is the lifecycle state of a resident-submitted report. Status
// only ever moves forward, Pending to Resolved, through the resolution
// workflow.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "Pending"
	ReportStatusResolved ReportStatus = "Resolved"
)

// Report is a resident-submitted power issue ticket.
type Report struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CommunityID uuid.UUID      `gorm:"type:uuid;index;not null" json:"communityId"`
	Community   *Community     `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	ResidentID  *uuid.UUID     `gorm:"type:uuid;index" json:"residentId,omitempty"`
	Resident    *Resident      `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	MeterNumber string         `gorm:"size:30" json:"meterNumber"`
	IssueType   string         `gorm:"size:50;not null" json:"issueType"`
	Notes       string         `gorm:"type:text" json:"notes"`
	PhotoURLs   pq.StringArray `gorm:"type:text[]" json:"photoUrls,omitempty"`
	Status      ReportStatus   `gorm:"size:20;default:'Pending';index" json:"status"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReportStatusPending
	}
	return
}

// ReportDTO is the flattened listing shape the dashboard consumes.
type ReportDTO struct {
	ID            uuid.UUID    `json:"id"`
	CommunityName string       `json:"communityName"`
	ResidentName  string       `json:"residentName,omitempty"`
	MeterNumber   string       `json:"meterNumber"`
	IssueType     string       `json:"issueType"`
	Notes         string       `json:"notes"`
	Status        ReportStatus `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// ToDTO flattens the joined community and resident rows.
func (r *Report) ToDTO() ReportDTO {
	dto := ReportDTO{
		ID:          r.ID,
		MeterNumber: r.MeterNumber,
		IssueType:   r.IssueType,
		Notes:       r.Notes,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
	if r.Community != nil {
		dto.CommunityName = r.Community.Name
	}
	if r.Resident != nil {
		dto.ResidentName = r.Resident.FullName
	}
	return dto
}
