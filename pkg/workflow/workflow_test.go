package workflow

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/edsa-freetown/gridwatch/models"
)

type fakeStore struct {
	mu      sync.Mutex
	outages map[uuid.UUID]*models.Outage
	reports map[uuid.UUID]*models.Report
	sent    []*models.Notification

	markOutageErr error
	markReportErr error
	createErr     error
	notifyErr     error

	// called after a load returns, before the caller can act on it
	afterGetOutage func()
	afterGetReport func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		outages: map[uuid.UUID]*models.Outage{},
		reports: map[uuid.UUID]*models.Report{},
	}
}

func (f *fakeStore) GetOutage(id uuid.UUID) (*models.Outage, error) {
	f.mu.Lock()
	o, ok := f.outages[id]
	if !ok {
		f.mu.Unlock()
		return nil, ErrNotFound
	}
	cp := *o
	f.mu.Unlock()
	if f.afterGetOutage != nil {
		f.afterGetOutage()
	}
	return &cp, nil
}

func (f *fakeStore) CreateOutage(o *models.Outage) error {
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	cp := *o
	f.outages[o.ID] = &cp
	return nil
}

func (f *fakeStore) MarkOutageResolved(id uuid.UUID, endTime time.Time) error {
	if f.markOutageErr != nil {
		return f.markOutageErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// Mirrors the conditional UPDATE: a row already Resolved matches nothing.
	if f.outages[id].Status == models.OutageStatusResolved {
		return ErrAlreadyResolved
	}
	f.outages[id].Status = models.OutageStatusResolved
	f.outages[id].EndTime = endTime
	return nil
}

func (f *fakeStore) GetReport(id uuid.UUID) (*models.Report, error) {
	f.mu.Lock()
	r, ok := f.reports[id]
	if !ok {
		f.mu.Unlock()
		return nil, ErrNotFound
	}
	cp := *r
	f.mu.Unlock()
	if f.afterGetReport != nil {
		f.afterGetReport()
	}
	return &cp, nil
}

func (f *fakeStore) MarkReportResolved(id uuid.UUID) error {
	if f.markReportErr != nil {
		return f.markReportErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reports[id].Status == models.ReportStatusResolved {
		return ErrAlreadyResolved
	}
	f.reports[id].Status = models.ReportStatusResolved
	return nil
}

func (f *fakeStore) CreateNotification(n *models.Notification) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func newTestService(store *fakeStore) *Service {
	return NewWithStores(store, store, store)
}

func seedOutage(store *fakeStore, status models.OutageStatus) *models.Outage {
	o := &models.Outage{
		ID:          uuid.New(),
		CommunityID: uuid.New(),
		Type:        models.OutageTypeScheduled,
		StartTime:   time.Now().Add(-2 * time.Hour),
		Reason:      "Transformer maintenance",
		Status:      status,
	}
	store.outages[o.ID] = o
	return o
}

func seedReport(store *fakeStore, status models.ReportStatus) *models.Report {
	residentID := uuid.New()
	r := &models.Report{
		ID:          uuid.New(),
		CommunityID: uuid.New(),
		ResidentID:  &residentID,
		IssueType:   "No Power",
		Status:      status,
	}
	store.reports[r.ID] = r
	return r
}

func TestResolveOutage(t *testing.T) {
	store := newFakeStore()
	o := seedOutage(store, models.OutageStatusScheduled)

	resolved, err := newTestService(store).ResolveOutage(o.ID)
	if err != nil {
		t.Fatalf("ResolveOutage() error = %v", err)
	}
	if resolved.Status != models.OutageStatusResolved {
		t.Errorf("status = %s, want Resolved", resolved.Status)
	}
	if resolved.EndTime.IsZero() {
		t.Errorf("end time not stamped")
	}
	if store.outages[o.ID].Status != models.OutageStatusResolved {
		t.Errorf("stored outage not resolved")
	}
	if len(store.sent) != 1 {
		t.Fatalf("notifications sent = %d, want exactly 1", len(store.sent))
	}
	n := store.sent[0]
	if n.Type != models.NotificationTypePowerRestored {
		t.Errorf("notification type = %s, want PowerRestored", n.Type)
	}
	if n.RelatedOutageID == nil || *n.RelatedOutageID != o.ID {
		t.Errorf("notification not correlated to outage %s", o.ID)
	}
	if n.RecipientCommunityID != o.CommunityID {
		t.Errorf("notification community = %s, want %s", n.RecipientCommunityID, o.CommunityID)
	}
}

func TestResolveOutageRejectsSecondResolution(t *testing.T) {
	store := newFakeStore()
	o := seedOutage(store, models.OutageStatusScheduled)
	svc := newTestService(store)

	if _, err := svc.ResolveOutage(o.ID); err != nil {
		t.Fatalf("first ResolveOutage() error = %v", err)
	}
	// Second rapid click on the same outage.
	if _, err := svc.ResolveOutage(o.ID); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("second ResolveOutage() error = %v, want ErrAlreadyResolved", err)
	}
	if len(store.sent) != 1 {
		t.Errorf("notifications sent = %d, want 1 despite double resolve", len(store.sent))
	}
}

func TestResolveOutageConcurrentResolvers(t *testing.T) {
	store := newFakeStore()
	o := seedOutage(store, models.OutageStatusScheduled)
	svc := newTestService(store)

	// Hold both resolvers until each has loaded the outage as Scheduled,
	// so both pass the in-memory status check and race the update.
	var barrier sync.WaitGroup
	barrier.Add(2)
	store.afterGetOutage = func() {
		barrier.Done()
		barrier.Wait()
	}

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.ResolveOutage(o.ID)
			errs <- err
		}()
	}

	var won, lost int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			won++
		case errors.Is(err, ErrAlreadyResolved):
			lost++
		default:
			t.Fatalf("ResolveOutage() error = %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Errorf("resolvers succeeded = %d, rejected = %d, want 1 and 1", won, lost)
	}
	if len(store.sent) != 1 {
		t.Errorf("notifications sent = %d, want exactly 1", len(store.sent))
	}
}

func TestResolveReportConcurrentResolvers(t *testing.T) {
	store := newFakeStore()
	r := seedReport(store, models.ReportStatusPending)
	svc := newTestService(store)

	var barrier sync.WaitGroup
	barrier.Add(2)
	store.afterGetReport = func() {
		barrier.Done()
		barrier.Wait()
	}

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.ResolveReport(r.ID)
			errs <- err
		}()
	}

	var won, lost int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			won++
		case errors.Is(err, ErrAlreadyResolved):
			lost++
		default:
			t.Fatalf("ResolveReport() error = %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Errorf("resolvers succeeded = %d, rejected = %d, want 1 and 1", won, lost)
	}
	if len(store.sent) != 1 {
		t.Errorf("notifications sent = %d, want exactly 1", len(store.sent))
	}
}

func TestResolveOutageMissing(t *testing.T) {
	store := newFakeStore()
	if _, err := newTestService(store).ResolveOutage(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ResolveOutage() error = %v, want ErrNotFound", err)
	}
}

func TestResolveOutageUpdateFailureSkipsNotification(t *testing.T) {
	store := newFakeStore()
	o := seedOutage(store, models.OutageStatusScheduled)
	store.markOutageErr = errors.New("deadlock detected")

	if _, err := newTestService(store).ResolveOutage(o.ID); err == nil {
		t.Fatal("ResolveOutage() error = nil, want failure")
	}
	if len(store.sent) != 0 {
		t.Errorf("notification created after failed status update")
	}
}

func TestResolveReport(t *testing.T) {
	store := newFakeStore()
	r := seedReport(store, models.ReportStatusPending)

	resolved, err := newTestService(store).ResolveReport(r.ID)
	if err != nil {
		t.Fatalf("ResolveReport() error = %v", err)
	}
	if resolved.Status != models.ReportStatusResolved {
		t.Errorf("status = %s, want Resolved", resolved.Status)
	}
	if len(store.sent) != 1 {
		t.Fatalf("notifications sent = %d, want exactly 1", len(store.sent))
	}
	n := store.sent[0]
	if n.Type != models.NotificationTypeReportResolved {
		t.Errorf("notification type = %s, want ReportResolved", n.Type)
	}
	if n.RelatedReportID == nil || *n.RelatedReportID != r.ID {
		t.Errorf("notification not correlated to report %s", r.ID)
	}
	if n.RecipientResidentID == nil || *n.RecipientResidentID != *r.ResidentID {
		t.Errorf("notification not addressed to submitting resident")
	}
}

func TestResolveReportRejectsSecondResolution(t *testing.T) {
	store := newFakeStore()
	r := seedReport(store, models.ReportStatusResolved)

	if _, err := newTestService(store).ResolveReport(r.ID); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("ResolveReport() error = %v, want ErrAlreadyResolved", err)
	}
	if len(store.sent) != 0 {
		t.Errorf("notification sent for already-resolved report")
	}
}

func TestResolveReportUpdateFailureSkipsNotification(t *testing.T) {
	store := newFakeStore()
	r := seedReport(store, models.ReportStatusPending)
	store.markReportErr = errors.New("deadlock detected")

	if _, err := newTestService(store).ResolveReport(r.ID); err == nil {
		t.Fatal("ResolveReport() error = nil, want failure")
	}
	if len(store.sent) != 0 {
		t.Errorf("notification created after failed status update")
	}
}

func validInput() CreateOutageInput {
	return CreateOutageInput{
		CommunityID: uuid.New(),
		Type:        models.OutageTypeScheduled,
		StartTime:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
		Reason:      "Scheduled maintenance on the main transformer",
		AdminID:     uuid.New(),
	}
}

func TestCreateOutage(t *testing.T) {
	store := newFakeStore()
	in := validInput()

	outage, err := newTestService(store).CreateOutage(in)
	if err != nil {
		t.Fatalf("CreateOutage() error = %v", err)
	}
	if outage.Status != models.OutageStatusScheduled {
		t.Errorf("status = %s, want Scheduled", outage.Status)
	}
	if outage.CreatedByAdmin != in.AdminID {
		t.Errorf("outage not attributed to admin")
	}
	if len(store.sent) != 1 {
		t.Fatalf("notifications sent = %d, want exactly 1", len(store.sent))
	}
	n := store.sent[0]
	if n.Type != models.NotificationTypeScheduledOutage {
		t.Errorf("notification type = %s, want ScheduledOutage", n.Type)
	}
	if n.Title != "Scheduled Power Outage" {
		t.Errorf("title = %q", n.Title)
	}
	if n.RelatedOutageID == nil || *n.RelatedOutageID != outage.ID {
		t.Errorf("notification not correlated to new outage")
	}
	for _, want := range []string{"scheduled power outage", in.Reason} {
		if !strings.Contains(n.Message, want) {
			t.Errorf("message %q missing %q", n.Message, want)
		}
	}
}

func TestCreateOutageEmergencyNotificationType(t *testing.T) {
	store := newFakeStore()
	in := validInput()
	in.Type = models.OutageTypeEmergency

	if _, err := newTestService(store).CreateOutage(in); err != nil {
		t.Fatalf("CreateOutage() error = %v", err)
	}
	n := store.sent[0]
	if n.Type != models.NotificationTypeUnscheduledOutage {
		t.Errorf("notification type = %s, want UnscheduledOutage", n.Type)
	}
	if !strings.HasPrefix(n.Message, "An emergency") {
		t.Errorf("message %q should open with \"An emergency\"", n.Message)
	}
}

func TestCreateOutageValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *CreateOutageInput)
		wantErr error
	}{
		{"missing community", func(in *CreateOutageInput) { in.CommunityID = uuid.Nil }, ErrAllFieldsRequired},
		{"missing start time", func(in *CreateOutageInput) { in.StartTime = time.Time{} }, ErrAllFieldsRequired},
		{"missing end time", func(in *CreateOutageInput) { in.EndTime = time.Time{} }, ErrAllFieldsRequired},
		{"missing reason", func(in *CreateOutageInput) { in.Reason = "" }, ErrAllFieldsRequired},
		{"missing admin", func(in *CreateOutageInput) { in.AdminID = uuid.Nil }, ErrAdminNotLoggedIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			in := validInput()
			tt.mutate(&in)

			if _, err := newTestService(store).CreateOutage(in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateOutage() error = %v, want %v", err, tt.wantErr)
			}
			if len(store.outages) != 0 {
				t.Errorf("outage inserted despite validation failure")
			}
			if len(store.sent) != 0 {
				t.Errorf("notification created despite validation failure")
			}
		})
	}
}

func TestCreateOutageInsertFailureSkipsNotification(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("constraint violation")

	if _, err := newTestService(store).CreateOutage(validInput()); err == nil {
		t.Fatal("CreateOutage() error = nil, want failure")
	}
	if len(store.sent) != 0 {
		t.Errorf("notification created after failed insert")
	}
}
