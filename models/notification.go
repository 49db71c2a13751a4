package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType identifies what event a resident-facing notification
// describes.
type NotificationType string

const (
	NotificationTypeScheduledOutage   NotificationType = "ScheduledOutage"
	NotificationTypeUnscheduledOutage NotificationType = "UnscheduledOutage"
	NotificationTypePowerRestored     NotificationType = "PowerRestored"
	NotificationTypeReportResolved    NotificationType = "ReportResolved"
)

// Notification is a one-way message record correlated to an outage or report
// event. This service only writes notifications; delivery to residents is
// handled downstream.
type Notification struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientCommunityID uuid.UUID        `gorm:"type:uuid;index;not null" json:"recipientCommunityId"`
	RecipientResidentID  *uuid.UUID       `gorm:"type:uuid;index" json:"recipientResidentId,omitempty"`
	Type                 NotificationType `gorm:"size:30;not null;index" json:"type"`
	Title                string           `gorm:"size:200;not null" json:"title"`
	Message              string           `gorm:"type:text;not null" json:"message"`
	RelatedOutageID      *uuid.UUID       `gorm:"type:uuid;index" json:"relatedOutageId,omitempty"`
	RelatedReportID      *uuid.UUID       `gorm:"type:uuid;index" json:"relatedReportId,omitempty"`
	Metadata             datatypes.JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`
	SentTime             time.Time        `gorm:"not null" json:"sentTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
