package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminSession is the server-side record backing an issued token. The ID is
// the token's jti claim, so a session can be revoked without waiting for the
// token to expire.
type AdminSession struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"adminId"`
	IssuedAt  time.Time  `gorm:"not null" json:"issuedAt"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

func (AdminSession) TableName() string {
	return "admin_sessions"
}

// Active reports whether the session is still usable at the given instant.
func (s *AdminSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
