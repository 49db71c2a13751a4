// Package workflow owns the only stateful business process in the service:
// moving an outage or report to Resolved, and creating outages, each with its
// correlated resident notification.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
)

// Service runs the outage/report resolution workflow. Each operation is a
// short sequence of store calls; a failure aborts before the notification
// step so a half-done resolution never notifies residents.
type Service struct {
	outages       OutageStore
	reports       ReportStore
	notifications NotificationStore
	now           func() time.Time
}

// New wires the service to the live database.
func New(db *gorm.DB) *Service {
	store := NewGormStore(db)
	return NewWithStores(store, store, store)
}

// NewWithStores is the injection point for tests.
func NewWithStores(outages OutageStore, reports ReportStore, notifications NotificationStore) *Service {
	return &Service{
		outages:       outages,
		reports:       reports,
		notifications: notifications,
		now:           time.Now,
	}
}

// ResolveOutage transitions an open outage to Resolved, stamps its end time
// and records exactly one PowerRestored notification for the outage's
// community. A second call on the same outage fails with ErrAlreadyResolved.
func (s *Service) ResolveOutage(outageID uuid.UUID) (*models.Outage, error) {
	outage, err := s.outages.GetOutage(outageID)
	if err != nil {
		return nil, err
	}
	if outage.Status == models.OutageStatusResolved {
		return nil, ErrAlreadyResolved
	}

	resolvedAt := s.now()
	if err := s.outages.MarkOutageResolved(outageID, resolvedAt); err != nil {
		// A concurrent resolver can win between the load above and the
		// conditional update; only the winner sends the notification.
		if errors.Is(err, ErrAlreadyResolved) {
			return nil, ErrAlreadyResolved
		}
		return nil, fmt.Errorf("resolve outage: %w", err)
	}
	outage.Status = models.OutageStatusResolved
	outage.EndTime = resolvedAt

	n := &models.Notification{
		RecipientCommunityID: outage.CommunityID,
		Type:                 models.NotificationTypePowerRestored,
		Title:                "Power Restored",
		Message:              "Power has been restored in your community.",
		RelatedOutageID:      &outage.ID,
		SentTime:             resolvedAt,
	}
	if err := s.notifications.CreateNotification(n); err != nil {
		return nil, fmt.Errorf("notify power restored: %w", err)
	}
	return outage, nil
}

// ResolveReport transitions a pending report to Resolved and records exactly
// one ReportResolved notification addressed to the report's community and,
// when known, the submitting resident.
func (s *Service) ResolveReport(reportID uuid.UUID) (*models.Report, error) {
	report, err := s.reports.GetReport(reportID)
	if err != nil {
		return nil, err
	}
	if report.Status == models.ReportStatusResolved {
		return nil, ErrAlreadyResolved
	}

	if err := s.reports.MarkReportResolved(reportID); err != nil {
		if errors.Is(err, ErrAlreadyResolved) {
			return nil, ErrAlreadyResolved
		}
		return nil, fmt.Errorf("resolve report: %w", err)
	}
	report.Status = models.ReportStatusResolved

	n := &models.Notification{
		RecipientCommunityID: report.CommunityID,
		RecipientResidentID:  report.ResidentID,
		Type:                 models.NotificationTypeReportResolved,
		Title:                "Report Resolved",
		Message:              "Your report has been resolved",
		RelatedReportID:      &report.ID,
		SentTime:             s.now(),
	}
	if err := s.notifications.CreateNotification(n); err != nil {
		return nil, fmt.Errorf("notify report resolved: %w", err)
	}
	return report, nil
}

// CreateOutageInput carries the outage creation form. AdminID must be the
// identity of an authenticated session.
type CreateOutageInput struct {
	CommunityID uuid.UUID
	Type        models.OutageType
	StartTime   time.Time
	EndTime     time.Time
	Reason      string
	AdminID     uuid.UUID
}

// CreateOutage validates the form, inserts the outage attributed to the
// admin, then records the correlated ScheduledOutage or UnscheduledOutage
// notification. Missing fields block the insert entirely.
func (s *Service) CreateOutage(in CreateOutageInput) (*models.Outage, error) {
	if in.CommunityID == uuid.Nil || in.StartTime.IsZero() || in.EndTime.IsZero() || in.Reason == "" {
		return nil, ErrAllFieldsRequired
	}
	if in.AdminID == uuid.Nil {
		return nil, ErrAdminNotLoggedIn
	}
	if in.Type == "" {
		in.Type = models.OutageTypeScheduled
	}

	outage := &models.Outage{
		CommunityID:    in.CommunityID,
		Type:           in.Type,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Reason:         in.Reason,
		Status:         models.OutageStatusScheduled,
		CreatedByAdmin: in.AdminID,
	}
	if err := s.outages.CreateOutage(outage); err != nil {
		return nil, fmt.Errorf("create outage: %w", err)
	}

	n := &models.Notification{
		RecipientCommunityID: in.CommunityID,
		Type:                 outageNotificationType(in.Type),
		Title:                fmt.Sprintf("%s Power Outage", in.Type),
		Message:              outageMessage(in),
		RelatedOutageID:      &outage.ID,
		SentTime:             s.now(),
	}
	if err := s.notifications.CreateNotification(n); err != nil {
		return nil, fmt.Errorf("notify outage: %w", err)
	}
	return outage, nil
}

func outageNotificationType(t models.OutageType) models.NotificationType {
	if t == models.OutageTypeScheduled {
		return models.NotificationTypeScheduledOutage
	}
	return models.NotificationTypeUnscheduledOutage
}

func outageMessage(in CreateOutageInput) string {
	article := "A"
	if in.Type == models.OutageTypeEmergency {
		article = "An"
	}
	return fmt.Sprintf("%s %s power outage is planned from %s to %s. Reason: %s",
		article, lower(in.Type),
		in.StartTime.Format(time.RFC3339), in.EndTime.Format(time.RFC3339),
		in.Reason)
}

func lower(t models.OutageType) string {
	switch t {
	case models.OutageTypeScheduled:
		return "scheduled"
	case models.OutageTypeEmergency:
		return "emergency"
	}
	return string(t)
}
