package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"eatprofile/internal/mailer"
	"eatprofile/internal/questionnaire"
	"eatprofile/internal/scoring"
	"eatprofile/internal/service"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 64 << 10

// AssessmentHandler handles questionnaire and assessment endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
	deliverySvc   *service.DeliveryService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService, deliverySvc *service.DeliveryService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentSvc: assessmentSvc,
		deliverySvc:   deliverySvc,
	}
}

// DeliveryRequest is the request body for (re)sending a report
type DeliveryRequest struct {
	Email string `json:"email"`
}

// Questionnaire handles GET /v1/questionnaire
func (h *AssessmentHandler) Questionnaire(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, questionnaire.ToForm(h.assessmentSvc.Questionnaire()))
}

// Submit handles POST /v1/assessments
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.assessmentSvc.Submit(r.Context(), req)
	if errors.Is(err, scoring.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/assessments/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.assessmentSvc.Result(r.Context(), id)
	if errors.Is(err, service.ErrResultExpired) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"submissionId": id, "result": result})
}

// Deliver handles POST /v1/assessments/{id}/delivery
func (h *AssessmentHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req DeliveryRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	delivery, err := h.deliverySvc.Deliver(r.Context(), id, req.Email)
	switch {
	case errors.Is(err, service.ErrResultExpired):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, mailer.ErrDeliveryFailed):
		writeJSON(w, http.StatusBadGateway, delivery)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusAccepted, delivery)
	}
}
