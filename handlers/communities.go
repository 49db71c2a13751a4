package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
)

// CommunityHandler serves the read-only community reference data.
type CommunityHandler struct {
	db *gorm.DB
}

func NewCommunityHandler(db *gorm.DB) *CommunityHandler {
	return &CommunityHandler{db: db}
}

// List returns all communities ordered by name.
// GET /api/v1/communities
func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	var communities []models.Community
	if err := h.db.Order("name ASC").Find(&communities).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch communities")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"communities": communities,
		"count":       len(communities),
	})
}

// Locate resolves coordinates to the community whose service area contains
// them.
// GET /communities/locate?lat=&lng=
func (h *CommunityHandler) Locate(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lng query parameters are required")
		return
	}

	community, ok := locateCommunity(h.db, lat, lng)
	if !ok {
		writeError(w, http.StatusNotFound, "no community covers these coordinates")
		return
	}
	writeJSON(w, http.StatusOK, community)
}
