package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Community is a named grouping of residents served by the grid. ServiceArea
// holds an optional GeoJSON polygon describing the area it covers.
type Community struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	ServiceArea datatypes.JSON `gorm:"type:jsonb" json:"serviceArea,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (Community) TableName() string {
	return "communities"
}

func (c *Community) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
