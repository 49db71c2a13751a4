package handlers

import (
	"net/http"

	"github.com/edsa-freetown/gridwatch/pkg/summary"
)

// DashboardHandler serves the landing-page counters.
type DashboardHandler struct {
	svc *summary.Service
}

func NewDashboardHandler(svc *summary.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary returns today's counters. A counter whose query failed reports 0
// and an entry in errors; the response is still 200 so the healthy counters
// render. The client's retry re-issues all three.
// GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Collect())
}
