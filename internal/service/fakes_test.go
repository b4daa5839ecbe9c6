package service

import (
	"context"
	"errors"
	"sync"

	"eatprofile/internal/mailer"
	"eatprofile/internal/model"
	"eatprofile/internal/report"
)

type fakeResultCache struct {
	mu      sync.Mutex
	results map[string]*model.Result
	err     error
}

func newFakeResultCache() *fakeResultCache {
	return &fakeResultCache{results: make(map[string]*model.Result)}
}

func (c *fakeResultCache) Set(ctx context.Context, id string, r *model.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.results[id] = r
	return nil
}

func (c *fakeResultCache) Get(ctx context.Context, id string) (*model.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results[id], nil
}

func (c *fakeResultCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, id)
	return nil
}

type fakeTally struct {
	recorded []*model.Result
}

func (t *fakeTally) Record(ctx context.Context, r *model.Result) error {
	t.recorded = append(t.recorded, r)
	return nil
}

func (t *fakeTally) Top(ctx context.Context, limit int) ([]model.SubtypeCount, error) {
	counts := map[string]int64{}
	var order []string
	for _, r := range t.recorded {
		if counts[r.PrimarySubtype] == 0 {
			order = append(order, r.PrimarySubtype)
		}
		counts[r.PrimarySubtype]++
	}
	out := []model.SubtypeCount{}
	for _, s := range order {
		out = append(out, model.SubtypeCount{Subtype: s, Count: counts[s]})
	}
	return out, nil
}

func (t *fakeTally) Totals(ctx context.Context) (int64, int64, error) {
	var probable int64
	for _, r := range t.recorded {
		if r.ProbableDisorder {
			probable++
		}
	}
	return int64(len(t.recorded)), probable, nil
}

type fakeDeliveryRepo struct {
	records []*model.DeliveryRecord
}

func (r *fakeDeliveryRepo) Record(ctx context.Context, rec *model.DeliveryRecord) (string, error) {
	r.records = append(r.records, rec)
	return "rec", nil
}

func (r *fakeDeliveryRepo) ListRecent(ctx context.Context, limit int) ([]*model.DeliveryRecord, error) {
	if limit > len(r.records) {
		limit = len(r.records)
	}
	return r.records[:limit], nil
}

func (r *fakeDeliveryRepo) ListBySubmission(ctx context.Context, id string) ([]*model.DeliveryRecord, error) {
	var out []*model.DeliveryRecord
	for _, rec := range r.records {
		if rec.SubmissionID == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeDeliveryRepo) CountByStatus(ctx context.Context) (map[model.DeliveryStatus]int64, error) {
	counts := map[model.DeliveryStatus]int64{}
	for _, rec := range r.records {
		counts[rec.Status]++
	}
	return counts, nil
}

type fakeMailer struct {
	fail  bool
	sent  []string
	calls int
}

func (m *fakeMailer) Send(ctx context.Context, to string, r *report.Rendered) error {
	m.calls++
	if m.fail {
		return errors.Join(mailer.ErrDeliveryFailed, errors.New("535 authentication failed"))
	}
	m.sent = append(m.sent, to)
	return nil
}

type fakeBroadcaster struct {
	events []string
}

func (b *fakeBroadcaster) BroadcastToAdmins(msgType string, payload interface{}) {
	b.events = append(b.events, msgType)
}
