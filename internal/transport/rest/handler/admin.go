package handler

import (
	"log"
	"net/http"
	"strconv"

	"eatprofile/internal/model"
	"eatprofile/internal/service"
	"eatprofile/internal/transport/rest/middleware"
)

// AdminHandler handles admin-only endpoints
type AdminHandler struct {
	statsSvc    *service.StatsService
	deliverySvc *service.DeliveryService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(statsSvc *service.StatsService, deliverySvc *service.DeliveryService) *AdminHandler {
	return &AdminHandler{
		statsSvc:    statsSvc,
		deliverySvc: deliverySvc,
	}
}

// Stats handles GET /v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	log.Printf("admin %s: read stats", middleware.GetAdminID(r.Context()))

	summary, err := h.statsSvc.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Deliveries handles GET /v1/admin/deliveries?limit=N and
// GET /v1/admin/deliveries?submissionId=ID
func (h *AdminHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	log.Printf("admin %s: read deliveries", middleware.GetAdminID(r.Context()))

	var records []*model.DeliveryRecord
	var err error
	if id := query.Get("submissionId"); id != "" {
		records, err = h.deliverySvc.History(r.Context(), id)
	} else {
		limit, _ := strconv.Atoi(query.Get("limit"))
		records, err = h.deliverySvc.Recent(r.Context(), limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*model.DeliveryRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deliveries": records})
}
