package service

import (
	"context"
	"fmt"
	"log"

	"eatprofile/internal/cache"
	"eatprofile/internal/model"
	"eatprofile/internal/scoring"

	"github.com/google/uuid"
)

// SubmitRequest is a completed questionnaire
type SubmitRequest struct {
	Answers   []model.Answer  `json:"answers"`
	Frequency model.Frequency `json:"frequency"`
	Email     string          `json:"email,omitempty"` // optional report recipient
}

// SubmitResponse carries the classification and the delivery outcome separately
type SubmitResponse struct {
	SubmissionID string         `json:"submissionId"`
	Result       *model.Result  `json:"result"`
	Delivery     model.Delivery `json:"delivery"`
}

// AssessmentService classifies submissions and hands results to delivery
type AssessmentService struct {
	engine      *scoring.Engine
	results     cache.ResultCache
	tally       cache.SubtypeTally
	deliverySvc *DeliveryService
	broadcaster Broadcaster
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	engine *scoring.Engine,
	results cache.ResultCache,
	tally cache.SubtypeTally,
	deliverySvc *DeliveryService,
) *AssessmentService {
	return &AssessmentService{
		engine:      engine,
		results:     results,
		tally:       tally,
		deliverySvc: deliverySvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Questionnaire returns the table submissions are scored against
func (s *AssessmentService) Questionnaire() *model.Questionnaire {
	return s.engine.Questionnaire()
}

// Submit classifies a submission. Invalid input returns scoring.ErrInvalidInput
// and nothing else happens. A result that cannot be cached fails the submission,
// since its id would not resolve for retries. A delivery failure never fails
// the submission; it is reported in SubmitResponse.Delivery.
func (s *AssessmentService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	result, err := s.engine.Classify(req.Answers, req.Frequency)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	if err := s.results.Set(ctx, id, result); err != nil {
		return nil, fmt.Errorf("cache result: %w", err)
	}
	if err := s.tally.Record(ctx, result); err != nil {
		log.Printf("assessment %s: record tally: %v", id, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAdmins(EventAssessmentClassified, model.ClassifiedEvent{
			SubmissionID:     id,
			PrimarySubtype:   result.PrimarySubtype,
			ProbableDisorder: result.ProbableDisorder,
			RedFlagCount:     len(result.RedFlags),
		})
	}

	resp := &SubmitResponse{
		SubmissionID: id,
		Result:       result,
		Delivery:     model.Delivery{Status: model.DeliverySkipped},
	}
	if req.Email != "" {
		resp.Delivery, _ = s.deliverySvc.Send(ctx, id, req.Email, result)
	}
	return resp, nil
}

// Result returns a cached result, or ErrResultExpired
func (s *AssessmentService) Result(ctx context.Context, submissionID string) (*model.Result, error) {
	result, err := s.results.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrResultExpired
	}
	return result, nil
}
