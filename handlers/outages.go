package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/middleware"
	"github.com/edsa-freetown/gridwatch/models"
	"github.com/edsa-freetown/gridwatch/pkg/workflow"
)

// OutageHandler owns the outage listing, creation and resolution endpoints.
type OutageHandler struct {
	db *gorm.DB
	wf *workflow.Service
}

func NewOutageHandler(db *gorm.DB, wf *workflow.Service) *OutageHandler {
	return &OutageHandler{db: db, wf: wf}
}

// List returns all outages newest first, with community names joined.
// GET /api/v1/outages
func (h *OutageHandler) List(w http.ResponseWriter, r *http.Request) {
	var outages []models.Outage
	if err := h.db.Preload("Community").Order("created_at DESC").Find(&outages).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch outages")
		return
	}

	dtos := make([]models.OutageDTO, len(outages))
	for i := range outages {
		dtos[i] = outages[i].ToDTO()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"outages": dtos,
		"count":   len(dtos),
	})
}

type createOutageReq struct {
	CommunityID string `json:"communityId"`
	Type        string `json:"type"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Reason      string `json:"reason"`
}

// Create inserts a new outage attributed to the logged-in admin and its
// correlated resident notification.
// POST /api/v1/outages
func (h *OutageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOutageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	in := workflow.CreateOutageInput{
		Type:    models.OutageType(req.Type),
		Reason:  req.Reason,
		AdminID: middleware.GetAdminID(r),
	}
	// Zero values fall through to the workflow's all-fields check so a bad
	// or missing field reports the same aggregated validation error.
	if id, err := uuid.Parse(req.CommunityID); err == nil {
		in.CommunityID = id
	}
	if t, err := parseFormTime(req.StartTime); err == nil {
		in.StartTime = t
	}
	if t, err := parseFormTime(req.EndTime); err == nil {
		in.EndTime = t
	}

	outage, err := h.wf.CreateOutage(in)
	switch {
	case errors.Is(err, workflow.ErrAllFieldsRequired):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, workflow.ErrAdminNotLoggedIn):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		log.Printf("create outage: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create outage")
		return
	}
	writeJSON(w, http.StatusCreated, outage.ToDTO())
}

// Resolve transitions an outage to Resolved and notifies its community.
// POST /api/v1/outages/{id}/resolve
func (h *OutageHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid outage id")
		return
	}

	outage, err := h.wf.ResolveOutage(id)
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		writeError(w, http.StatusNotFound, "outage not found")
		return
	case errors.Is(err, workflow.ErrAlreadyResolved):
		writeError(w, http.StatusConflict, "outage already resolved")
		return
	case err != nil:
		log.Printf("resolve outage %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to resolve outage")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "outage has been resolved",
		"outage":  outage.ToDTO(),
	})
}

// parseFormTime accepts RFC 3339 and the datetime-local format browsers send.
func parseFormTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", s)
}
