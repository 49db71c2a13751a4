// Package guard decides whether a presented session may act as the admin.
package guard

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/edsa-freetown/gridwatch/models"
)

// ErrDenied is the single failure mode of the guard. Lookup errors, missing
// rows, expired and revoked sessions all collapse into it: the guard fails
// closed and never tells the caller why.
var ErrDenied = errors.New("authorization denied")

// Store is the persistence the guard needs. Kept small so tests can swap in
// an in-memory fake.
type Store interface {
	FindSession(id uuid.UUID) (*models.AdminSession, error)
	RevokeSession(id uuid.UUID) error
	FindAdmin(id uuid.UUID) (*models.AdminAccount, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Authorize checks that the session is active and that an admin account with
// the session's identity exists. The decision is never cached: callers invoke
// this on every entry into the protected area.
//
// When the session itself is fine but the admin lookup fails, the session is
// revoked before denying, so the orphaned token cannot be retried.
func (s *Service) Authorize(sessionID, adminID uuid.UUID) (*models.AdminAccount, error) {
	sess, err := s.store.FindSession(sessionID)
	if err != nil || sess == nil {
		return nil, ErrDenied
	}
	if sess.AdminID != adminID || !sess.Active(s.now()) {
		return nil, ErrDenied
	}

	admin, err := s.store.FindAdmin(adminID)
	if err != nil || admin == nil {
		if revokeErr := s.store.RevokeSession(sessionID); revokeErr != nil {
			log.Printf("guard: could not revoke orphaned session %s: %v", sessionID, revokeErr)
		}
		return nil, ErrDenied
	}
	return admin, nil
}
