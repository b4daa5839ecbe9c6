package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eatprofile/internal/cache"
	"eatprofile/internal/mailer"
	"eatprofile/internal/model"
	"eatprofile/internal/questionnaire"
	"eatprofile/internal/report"
	"eatprofile/internal/scoring"
	"eatprofile/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDeliveryRepo struct {
	records []*model.DeliveryRecord
}

func (r *memDeliveryRepo) Record(ctx context.Context, rec *model.DeliveryRecord) (string, error) {
	r.records = append(r.records, rec)
	return "id", nil
}

func (r *memDeliveryRepo) ListRecent(ctx context.Context, limit int) ([]*model.DeliveryRecord, error) {
	return r.records, nil
}

func (r *memDeliveryRepo) ListBySubmission(ctx context.Context, id string) ([]*model.DeliveryRecord, error) {
	var out []*model.DeliveryRecord
	for _, rec := range r.records {
		if rec.SubmissionID == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memDeliveryRepo) CountByStatus(ctx context.Context) (map[model.DeliveryStatus]int64, error) {
	counts := map[model.DeliveryStatus]int64{}
	for _, rec := range r.records {
		counts[rec.Status]++
	}
	return counts, nil
}

type switchMailer struct {
	fail bool
}

func (m *switchMailer) Send(ctx context.Context, to string, r *report.Rendered) error {
	if m.fail {
		return errors.Join(mailer.ErrDeliveryFailed, errors.New("connection refused"))
	}
	return nil
}

type testServer struct {
	handler http.Handler
	redis   *miniredis.Miniredis
	mailer  *switchMailer
	auth    *service.AuthService
	q       *model.Questionnaire
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	q, err := questionnaire.Default()
	require.NoError(t, err)
	engine, err := scoring.NewEngine(q)
	require.NoError(t, err)

	results := cache.NewResultCache(rdb, time.Hour)
	tally := cache.NewSubtypeTally(rdb)
	repo := &memDeliveryRepo{}
	m := &switchMailer{}

	auth := service.NewAuthService("admin", "pw", "secret", time.Hour)
	deliverySvc := service.NewDeliveryService(m, repo, results, q.Title)
	assessmentSvc := service.NewAssessmentService(engine, results, tally, deliverySvc)

	h := NewRouter(&Container{
		AuthService:       auth,
		AssessmentService: assessmentSvc,
		DeliveryService:   deliverySvc,
		StatsService:      service.NewStatsService(tally, repo),
	})
	return &testServer{handler: h, redis: mr, mailer: m, auth: auth, q: q}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) request(score model.Scale, email string) service.SubmitRequest {
	answers := make([]model.Answer, len(s.q.Items))
	for i, it := range s.q.Items {
		answers[i] = model.Answer{ItemID: it.ID, Score: score}
	}
	return service.SubmitRequest{Answers: answers, Frequency: model.FrequencyFrequent, Email: email}
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = s.do(t, http.MethodOptions, "/v1/assessments", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetQuestionnaire(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/questionnaire", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var form questionnaire.Form
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&form))
	assert.Len(t, form.Items, 30)
	assert.NotContains(t, rec.Body.String(), `"tags"`)
}

func TestSubmitAssessment(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/assessments", s.request(model.ScaleAlways, ""), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp service.SubmitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Result.ProbableDisorder)
	assert.Equal(t, model.DeliverySkipped, resp.Delivery.Status)

	rec = s.do(t, http.MethodGet, "/v1/assessments/"+resp.SubmissionID, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/assessments/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitAssessment_InvalidInput(t *testing.T) {
	s := newTestServer(t)

	req := s.request(model.ScaleOften, "")
	req.Answers = req.Answers[1:]
	rec := s.do(t, http.MethodPost, "/v1/assessments", req, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing")

	rec = s.do(t, http.MethodPost, "/v1/assessments", "not an object", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitAssessment_CacheUnavailable(t *testing.T) {
	s := newTestServer(t)
	s.redis.Close()

	rec := s.do(t, http.MethodPost, "/v1/assessments", s.request(model.ScaleOften, ""), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "submissionId")
}

func TestLogin_BodyTooLarge(t *testing.T) {
	s := newTestServer(t)

	body := map[string]string{"username": "admin", "password": strings.Repeat("x", 70<<10)}
	rec := s.do(t, http.MethodPost, "/v1/auth/login", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeliveryFailureAndRetry(t *testing.T) {
	s := newTestServer(t)
	s.mailer.fail = true

	rec := s.do(t, http.MethodPost, "/v1/assessments", s.request(model.ScaleSometimes, "jane@example.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp service.SubmitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, model.DeliveryFailed, resp.Delivery.Status)

	path := "/v1/assessments/" + resp.SubmissionID + "/delivery"
	rec = s.do(t, http.MethodPost, path, deliveryBody("jane@example.com"), "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	s.mailer.fail = false
	rec = s.do(t, http.MethodPost, path, deliveryBody("jane@example.com"), "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = s.do(t, http.MethodPost, path, deliveryBody(""), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/assessments/gone/delivery", deliveryBody("jane@example.com"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/admin/stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/auth/login", map[string]string{"username": "admin", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/auth/login", map[string]string{"username": "admin", "password": "pw"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var login model.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))

	s.do(t, http.MethodPost, "/v1/assessments", s.request(model.ScaleNever, "jane@example.com"), "")

	rec = s.do(t, http.MethodGet, "/v1/admin/stats", nil, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary model.StatsSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, int64(1), summary.TotalAssessments)
	assert.Equal(t, int64(1), summary.Deliveries[model.DeliverySent])

	rec = s.do(t, http.MethodGet, "/v1/admin/deliveries?limit=5", nil, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "j***@example.com")
	assert.NotContains(t, rec.Body.String(), "jane@example.com")
}

func TestAdminDeliveryHistory(t *testing.T) {
	s := newTestServer(t)
	token, err := s.auth.Login("admin", "pw")
	require.NoError(t, err)

	s.mailer.fail = true
	rec := s.do(t, http.MethodPost, "/v1/assessments", s.request(model.ScaleOften, "jane@example.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp service.SubmitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	s.mailer.fail = false
	rec = s.do(t, http.MethodPost, "/v1/assessments/"+resp.SubmissionID+"/delivery", deliveryBody("jane@example.com"), "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	s.do(t, http.MethodPost, "/v1/assessments", s.request(model.ScaleNever, "sam@example.com"), "")

	rec = s.do(t, http.MethodGet, "/v1/admin/deliveries?submissionId="+resp.SubmissionID, nil, token.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Deliveries []*model.DeliveryRecord `json:"deliveries"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Deliveries, 2)
	assert.Equal(t, model.DeliveryFailed, body.Deliveries[0].Status)
	assert.Equal(t, model.DeliverySent, body.Deliveries[1].Status)

	rec = s.do(t, http.MethodGet, "/v1/admin/deliveries?submissionId=unknown", nil, token.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deliveries":[]}`, rec.Body.String())
}

func deliveryBody(email string) map[string]string {
	return map[string]string{"email": email}
}
