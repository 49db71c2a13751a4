// Package summary computes the "today" counters shown on the dashboard
// landing page.
package summary

import (
	"time"

	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
)

// CountStore answers the three counter queries over a closed time window.
type CountStore interface {
	CountReports(start, end time.Time) (int64, error)
	CountPendingReports(start, end time.Time) (int64, error)
	CountResolvedOutages(start, end time.Time) (int64, error)
}

// Counters is the aggregated dashboard payload. A counter whose query failed
// is zero and its failure is listed in Errors; the others stay correct.
type Counters struct {
	TotalReportsToday int64    `json:"totalReportsToday"`
	ActiveIssuesToday int64    `json:"activeIssuesToday"`
	ResolvedToday     int64    `json:"resolvedToday"`
	Errors            []string `json:"errors,omitempty"`
}

type Service struct {
	store CountStore
	now   func() time.Time
}

func New(store CountStore) *Service {
	return &Service{store: store, now: time.Now}
}

// DayWindow returns [local midnight, 23:59:59.999] of the given moment. The
// window is fixed at the instant of the call and not re-evaluated afterwards.
func DayWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end = start.Add(24*time.Hour - time.Millisecond)
	return
}

// Collect runs the three counter queries independently. ResolvedToday counts
// outage rows while the other two count report rows; that asymmetry is the
// dashboard's historical behavior and is kept as-is.
func (s *Service) Collect() Counters {
	start, end := DayWindow(s.now())
	var c Counters

	if n, err := s.store.CountReports(start, end); err != nil {
		c.Errors = append(c.Errors, "total reports: "+err.Error())
	} else {
		c.TotalReportsToday = n
	}

	if n, err := s.store.CountPendingReports(start, end); err != nil {
		c.Errors = append(c.Errors, "active issues: "+err.Error())
	} else {
		c.ActiveIssuesToday = n
	}

	if n, err := s.store.CountResolvedOutages(start, end); err != nil {
		c.Errors = append(c.Errors, "resolved today: "+err.Error())
	} else {
		c.ResolvedToday = n
	}

	return c
}

// GormStore runs the counters against the live database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CountReports(start, end time.Time) (int64, error) {
	var n int64
	err := s.db.Model(&models.Report{}).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&n).Error
	return n, err
}

func (s *GormStore) CountPendingReports(start, end time.Time) (int64, error) {
	var n int64
	err := s.db.Model(&models.Report{}).
		Where("status = ?", models.ReportStatusPending).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&n).Error
	return n, err
}

func (s *GormStore) CountResolvedOutages(start, end time.Time) (int64, error) {
	var n int64
	err := s.db.Model(&models.Outage{}).
		Where("status = ?", models.OutageStatusResolved).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&n).Error
	return n, err
}
