package service

import (
	"context"
	"errors"
	"log"

	"eatprofile/internal/cache"
	"eatprofile/internal/mailer"
	"eatprofile/internal/model"
	"eatprofile/internal/report"
	"eatprofile/internal/repository"
)

// DeliveryService renders reports and sends them to respondents
type DeliveryService struct {
	mailer       mailer.Mailer
	deliveryRepo repository.DeliveryRepo
	results      cache.ResultCache
	title        string
	broadcaster  Broadcaster
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(m mailer.Mailer, deliveryRepo repository.DeliveryRepo, results cache.ResultCache, title string) *DeliveryService {
	return &DeliveryService{
		mailer:       m,
		deliveryRepo: deliveryRepo,
		results:      results,
		title:        title,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *DeliveryService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Deliver re-sends the report of a cached submission. Calling it again is
// the retry path; the classification is never recomputed.
func (s *DeliveryService) Deliver(ctx context.Context, submissionID, email string) (model.Delivery, error) {
	result, err := s.results.Get(ctx, submissionID)
	if err != nil {
		return model.Delivery{}, err
	}
	if result == nil {
		return model.Delivery{}, ErrResultExpired
	}
	return s.Send(ctx, submissionID, email, result)
}

// Send renders and delivers result. Failures are returned wrapped in
// mailer.ErrDeliveryFailed together with a failed Delivery. A mailer that only
// logs yields DeliveryLogged and no error.
func (s *DeliveryService) Send(ctx context.Context, submissionID, email string, result *model.Result) (model.Delivery, error) {
	rendered, err := report.Render(s.title, result)
	if err != nil {
		return s.record(ctx, submissionID, email, err), err
	}

	err = s.mailer.Send(ctx, email, rendered)
	d := s.record(ctx, submissionID, email, err)
	if errors.Is(err, mailer.ErrNotSent) {
		return d, nil
	}
	if err != nil {
		log.Printf("delivery %s to %s failed: %v", submissionID, mailer.Mask(email), err)
		return d, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAdmins(EventReportDelivered, map[string]string{"submissionId": submissionID})
	}
	return d, nil
}

// Recent lists the latest delivery attempts
func (s *DeliveryService) Recent(ctx context.Context, limit int) ([]*model.DeliveryRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.deliveryRepo.ListRecent(ctx, limit)
}

// History lists the delivery attempts of one submission in attempt order
func (s *DeliveryService) History(ctx context.Context, submissionID string) ([]*model.DeliveryRecord, error) {
	return s.deliveryRepo.ListBySubmission(ctx, submissionID)
}

func (s *DeliveryService) record(ctx context.Context, submissionID, email string, sendErr error) model.Delivery {
	d := model.Delivery{Status: model.DeliverySent}
	switch {
	case errors.Is(sendErr, mailer.ErrNotSent):
		d.Status = model.DeliveryLogged
	case sendErr != nil:
		d = model.Delivery{Status: model.DeliveryFailed, Error: sendErr.Error()}
	}

	rec := &model.DeliveryRecord{
		SubmissionID: submissionID,
		Recipient:    mailer.Mask(email),
		Status:       d.Status,
		Error:        d.Error,
	}
	if _, err := s.deliveryRepo.Record(ctx, rec); err != nil {
		log.Printf("delivery %s: write log: %v", submissionID, err)
	}
	return d
}
