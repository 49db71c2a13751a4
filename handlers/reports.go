package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
	"github.com/edsa-freetown/gridwatch/pkg/workflow"
	"github.com/edsa-freetown/gridwatch/utils"
)

// ReportHandler owns the report listing, public intake and resolution
// endpoints.
type ReportHandler struct {
	db *gorm.DB
	wf *workflow.Service
}

func NewReportHandler(db *gorm.DB, wf *workflow.Service) *ReportHandler {
	return &ReportHandler{db: db, wf: wf}
}

// List returns reports newest first, with resident and community names
// joined. Supports ?status= and ?q= (community name search).
// GET /api/v1/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.Model(&models.Report{}).
		Preload("Community").Preload("Resident").
		Order("reports.created_at DESC")

	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("reports.status = ?", status)
	}
	if search := r.URL.Query().Get("q"); search != "" {
		q = q.Joins("JOIN communities ON communities.id = reports.community_id").
			Where("communities.name ILIKE ?", "%"+search+"%")
	}

	var reports []models.Report
	if err := q.Find(&reports).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch reports")
		return
	}

	dtos := make([]models.ReportDTO, len(reports))
	for i := range reports {
		dtos[i] = reports[i].ToDTO()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports": dtos,
		"count":   len(dtos),
	})
}

// Resolve transitions a report to Resolved and notifies the resident's
// community.
// POST /api/v1/reports/{id}/resolve
func (h *ReportHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := h.wf.ResolveReport(id)
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		writeError(w, http.StatusNotFound, "report not found")
		return
	case errors.Is(err, workflow.ErrAlreadyResolved):
		writeError(w, http.StatusConflict, "report already resolved")
		return
	case err != nil:
		log.Printf("resolve report %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to resolve report")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "report has been resolved",
		"report":  report.ToDTO(),
	})
}

type intakeReq struct {
	CommunityID string   `json:"communityId"`
	ResidentID  string   `json:"residentId"`
	MeterNumber string   `json:"meterNumber"`
	IssueType   string   `json:"issueType"`
	Notes       string   `json:"notes"`
	PhotoURLs   []string `json:"photoUrls"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// Intake accepts a resident-submitted report. When no community is named the
// submitter's coordinates are matched against community service areas.
// POST /public/reports
func (h *ReportHandler) Intake(w http.ResponseWriter, r *http.Request) {
	var req intakeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MeterNumber == "" || req.IssueType == "" {
		writeError(w, http.StatusBadRequest, "meter number and issue type are required")
		return
	}

	communityID, err := uuid.Parse(req.CommunityID)
	if err != nil {
		if req.Lat == nil || req.Lng == nil {
			writeError(w, http.StatusBadRequest, "community or coordinates required")
			return
		}
		located, ok := locateCommunity(h.db, *req.Lat, *req.Lng)
		if !ok {
			writeError(w, http.StatusBadRequest, "coordinates match no community service area")
			return
		}
		communityID = located.ID
	}

	report := models.Report{
		CommunityID: communityID,
		MeterNumber: req.MeterNumber,
		IssueType:   req.IssueType,
		Notes:       req.Notes,
		PhotoURLs:   req.PhotoURLs,
		Status:      models.ReportStatusPending,
	}
	if residentID, err := uuid.Parse(req.ResidentID); err == nil {
		report.ResidentID = &residentID
	}

	if err := h.db.Create(&report).Error; err != nil {
		log.Printf("report intake: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to submit report")
		return
	}
	writeJSON(w, http.StatusCreated, report.ToDTO())
}

// locateCommunity finds the first community whose service area contains the
// point. Communities without a stored polygon are skipped.
func locateCommunity(db *gorm.DB, lat, lng float64) (*models.Community, bool) {
	if err := utils.ValidateCoordinate(lat, lng); err != nil {
		return nil, false
	}

	var communities []models.Community
	if err := db.Where("service_area IS NOT NULL").Find(&communities).Error; err != nil {
		return nil, false
	}
	for i := range communities {
		poly, err := utils.ParseServiceArea(communities[i].ServiceArea)
		if err != nil {
			continue
		}
		if utils.ServiceAreaContains(poly, lat, lng) {
			return &communities[i], true
		}
	}
	return nil, false
}
