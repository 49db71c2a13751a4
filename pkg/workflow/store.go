package workflow

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
)

// OutageStore, ReportStore and NotificationStore are the persistence the
// workflow needs. Injected at construction so tests run against in-memory
// fakes.
//
// MarkOutageResolved and MarkReportResolved carry the concurrency contract:
// the status flip must be atomic, and a call that finds the row already
// Resolved returns ErrAlreadyResolved so racing resolvers cannot both claim
// the transition.
type OutageStore interface {
	GetOutage(id uuid.UUID) (*models.Outage, error)
	CreateOutage(o *models.Outage) error
	MarkOutageResolved(id uuid.UUID, endTime time.Time) error
}

type ReportStore interface {
	GetReport(id uuid.UUID) (*models.Report, error)
	MarkReportResolved(id uuid.UUID) error
}

type NotificationStore interface {
	CreateNotification(n *models.Notification) error
}

// GormStore implements all three store interfaces over the live database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetOutage(id uuid.UUID) (*models.Outage, error) {
	var o models.Outage
	err := s.db.First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *GormStore) CreateOutage(o *models.Outage) error {
	return s.db.Create(o).Error
}

func (s *GormStore) MarkOutageResolved(id uuid.UUID, endTime time.Time) error {
	res := s.db.Model(&models.Outage{}).
		Where("id = ? AND status <> ?", id, models.OutageStatusResolved).
		Updates(map[string]interface{}{
			"status":   models.OutageStatusResolved,
			"end_time": endTime,
		})
	if res.Error != nil {
		return res.Error
	}
	// Zero rows means a concurrent resolve won; the status is the row's
	// state machine and only one transition may claim it.
	if res.RowsAffected == 0 {
		return ErrAlreadyResolved
	}
	return nil
}

func (s *GormStore) GetReport(id uuid.UUID) (*models.Report, error) {
	var r models.Report
	err := s.db.First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) MarkReportResolved(id uuid.UUID) error {
	res := s.db.Model(&models.Report{}).
		Where("id = ? AND status <> ?", id, models.ReportStatusResolved).
		Update("status", models.ReportStatusResolved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyResolved
	}
	return nil
}

func (s *GormStore) CreateNotification(n *models.Notification) error {
	return s.db.Create(n).Error
}
