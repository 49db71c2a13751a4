package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
)

// PaymentHandler serves the read-only payment listing. Payments are written
// by the vending system; the dashboard never mutates them.
type PaymentHandler struct {
	db *gorm.DB
}

func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{db: db}
}

// List returns payments newest first, with resident and community names
// joined. Supports ?q= matching either name.
// GET /api/v1/payments
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.Model(&models.Payment{}).
		Preload("Resident").Preload("Community").
		Order("payments.created_at DESC")

	if search := r.URL.Query().Get("q"); search != "" {
		pattern := "%" + search + "%"
		q = q.Joins("JOIN residents ON residents.id = payments.resident_id").
			Joins("JOIN communities ON communities.id = payments.community_id").
			Where("residents.full_name ILIKE ? OR communities.name ILIKE ?", pattern, pattern)
	}

	var payments []models.Payment
	if err := q.Find(&payments).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch payments")
		return
	}

	dtos := make([]models.PaymentDTO, len(payments))
	for i := range payments {
		dtos[i] = payments[i].ToDTO()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payments": dtos,
		"count":    len(dtos),
	})
}
