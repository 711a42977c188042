package api_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/okian/hireflow/internal/adapters/cache"
	"github.com/okian/hireflow/internal/adapters/http/api"
	"github.com/okian/hireflow/internal/app"
	"github.com/okian/hireflow/internal/domain/model"
	"github.com/okian/hireflow/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type loggedWebhook struct {
	tenantID   string
	event      string
	handled    bool
	handlerErr error
}

// mockDeps implements api.Dependencies with recorded calls and
// overridable behaviors.
type mockDeps struct {
	scoreResult app.ScoreResult
	scoreErr    error
	scoreCalls  []string

	webhookCfg *model.WebhookConfig
	webhookErr error

	webhookLogs []loggedWebhook

	submitted   []string
	shortlisted []string
	rejected    []string

	emailEvents []string
	emailErr    error

	dashStats app.DashboardStats
	dashErr   error

	rateCount int64
	rateMax   int64
}

func newMockDeps() *mockDeps {
	return &mockDeps{
		scoreResult: app.ScoreResult{
			Scores: &model.AIScoreRecord{CompositeScore: 81.5},
			Stage:  model.StageShortlisted,
		},
		webhookCfg: &model.WebhookConfig{ID: "wh-1", TenantID: "tenant-1", Enabled: true},
		rateMax:    100,
	}
}

func (m *mockDeps) ScoreAssessment(_ context.Context, assessmentID string) (app.ScoreResult, error) {
	m.scoreCalls = append(m.scoreCalls, assessmentID)
	if m.scoreErr != nil {
		return app.ScoreResult{}, m.scoreErr
	}
	return m.scoreResult, nil
}

func (m *mockDeps) WebhookConfigBySecret(_ context.Context, secret string) (*model.WebhookConfig, error) {
	if m.webhookErr != nil {
		return nil, m.webhookErr
	}
	return m.webhookCfg, nil
}

func (m *mockDeps) LogWebhookEvent(_ context.Context, tenantID, event string, _ map[string]any, handled bool, handlerErr error) {
	m.webhookLogs = append(m.webhookLogs, loggedWebhook{
		tenantID:   tenantID,
		event:      event,
		handled:    handled,
		handlerErr: handlerErr,
	})
}

func (m *mockDeps) NotifyApplicationSubmitted(_ context.Context, applicationID string) {
	m.submitted = append(m.submitted, applicationID)
}

func (m *mockDeps) NotifyCandidateShortlisted(_ context.Context, applicationID string, _ float64) {
	m.shortlisted = append(m.shortlisted, applicationID)
}

func (m *mockDeps) NotifyCandidateRejected(_ context.Context, applicationID, _ string) {
	m.rejected = append(m.rejected, applicationID)
}

func (m *mockDeps) RecordEmailEvent(_ context.Context, providerMessageID, status, _ string) error {
	if m.emailErr != nil {
		return m.emailErr
	}
	m.emailEvents = append(m.emailEvents, providerMessageID+":"+status)
	return nil
}

func (m *mockDeps) Dashboard(_ context.Context, _ string) (app.DashboardStats, error) {
	if m.dashErr != nil {
		return app.DashboardStats{}, m.dashErr
	}
	return m.dashStats, nil
}

func (m *mockDeps) RateLimit(_ context.Context, _ string) cache.RateLimit {
	m.rateCount++
	remaining := m.rateMax - m.rateCount
	if remaining < 0 {
		remaining = 0
	}
	return cache.RateLimit{Count: m.rateCount, Remaining: remaining}
}

func (m *mockDeps) RateLimitMax() int64 { return m.rateMax }

func newTestMux(deps *mockDeps, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(mux *http.ServeMux, body []byte, secret, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/external", bytes.NewReader(body))
	if secret != "" {
		req.Header.Set("x-webhook-secret", secret)
	}
	if signature != "" {
		req.Header.Set("x-webhook-signature", signature)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleScore(t *testing.T) {
	Convey("Given the scoring endpoint", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)

		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/assessments/score", strings.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When a valid request is posted", func() {
			rec := post(`{"assessmentId":"assess-1"}`)

			Convey("Then scoring ran and the result is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.scoreCalls, ShouldResemble, []string{"assess-1"})

				var resp struct {
					Success bool        `json:"success"`
					Stage   model.Stage `json:"stage"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Success, ShouldBeTrue)
				So(resp.Stage, ShouldEqual, model.StageShortlisted)
			})
		})

		Convey("When the body is not JSON", func() {
			rec := post(`{not json`)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.scoreCalls, ShouldBeEmpty)
		})

		Convey("When the assessment id is blank", func() {
			rec := post(`{"assessmentId":"  "}`)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.scoreCalls, ShouldBeEmpty)
		})

		Convey("When the assessment does not exist", func() {
			deps.scoreErr = app.ErrNotFound
			rec := post(`{"assessmentId":"missing"}`)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the scoring backend is down", func() {
			deps.scoreErr = app.ErrScoringUnavailable
			rec := post(`{"assessmentId":"assess-1"}`)

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)

			var resp struct {
				Code string `json:"code"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, "scoring_unavailable")
		})

		Convey("When the method is GET", func() {
			req := httptest.NewRequest(http.MethodGet, "/assessments/score", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestWebhookExternal(t *testing.T) {
	Convey("Given the internal event webhook", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)
		secret := "valid-secret"

		Convey("When GET asks for supported events", func() {
			req := httptest.NewRequest(http.MethodGet, "/webhooks/external", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the event list is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "assessment.submitted")
			})
		})

		Convey("When credentials are missing entirely", func() {
			rec := postWebhook(mux, []byte(`{"event":"assessment.submitted"}`), "", "")

			Convey("Then the delivery is rejected before any side effect", func() {
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
				So(deps.scoreCalls, ShouldBeEmpty)
				So(deps.webhookLogs, ShouldBeEmpty)
			})
		})

		Convey("When the secret is unknown", func() {
			deps.webhookErr = app.ErrUnauthorized
			body := []byte(`{"event":"assessment.submitted"}`)
			rec := postWebhook(mux, body, "bogus", sign(body, "bogus"))

			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			So(deps.webhookLogs, ShouldBeEmpty)
		})

		Convey("When the signature does not match the body", func() {
			body := []byte(`{"event":"assessment.submitted","data":{"assessment_id":"assess-1"}}`)
			rec := postWebhook(mux, body, secret, sign([]byte("other body"), secret))

			Convey("Then the delivery is rejected and nothing ran", func() {
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
				So(deps.scoreCalls, ShouldBeEmpty)
				So(deps.webhookLogs, ShouldBeEmpty)
			})
		})

		Convey("When a signed assessment.submitted event arrives", func() {
			body := []byte(`{"event":"assessment.submitted","data":{"assessment_id":"assess-1"}}`)
			rec := postWebhook(mux, body, secret, sign(body, secret))

			Convey("Then scoring ran and the delivery is acknowledged", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.scoreCalls, ShouldResemble, []string{"assess-1"})
			})

			Convey("And exactly one log row records a handled delivery", func() {
				So(deps.webhookLogs, ShouldHaveLength, 1)
				entry := deps.webhookLogs[0]
				So(entry.tenantID, ShouldEqual, "tenant-1")
				So(entry.event, ShouldEqual, "assessment.submitted")
				So(entry.handled, ShouldBeTrue)
				So(entry.handlerErr, ShouldBeNil)
			})
		})

		Convey("When the named handler fails", func() {
			deps.scoreErr = app.ErrScoringUnavailable
			body := []byte(`{"event":"assessment.submitted","data":{"assessment_id":"assess-1"}}`)
			rec := postWebhook(mux, body, secret, sign(body, secret))

			Convey("Then the delivery is still acknowledged", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And the log row carries the handler error", func() {
				So(deps.webhookLogs, ShouldHaveLength, 1)
				So(deps.webhookLogs[0].handled, ShouldBeFalse)
				So(deps.webhookLogs[0].handlerErr, ShouldNotBeNil)
			})
		})

		Convey("When an application.created event arrives", func() {
			body := []byte(`{"event":"application.created","data":{"application_id":"appl-1"}}`)
			rec := postWebhook(mux, body, secret, sign(body, secret))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.submitted, ShouldResemble, []string{"appl-1"})
		})

		Convey("When a candidate.rejected event arrives", func() {
			body := []byte(`{"event":"candidate.rejected","data":{"application_id":"appl-1","reason":"below bar"}}`)
			rec := postWebhook(mux, body, secret, sign(body, secret))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.rejected, ShouldResemble, []string{"appl-1"})
		})

		Convey("When the event name is unknown", func() {
			body := []byte(`{"event":"job.published","data":{}}`)
			rec := postWebhook(mux, body, secret, sign(body, secret))

			Convey("Then it is acknowledged and logged as unhandled", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.webhookLogs, ShouldHaveLength, 1)
				So(deps.webhookLogs[0].handled, ShouldBeFalse)
				So(deps.webhookLogs[0].handlerErr, ShouldBeNil)
			})
		})

		Convey("When the signed body is not valid JSON", func() {
			body := []byte(`{broken`)
			rec := postWebhook(mux, body, secret, sign(body, secret))

			Convey("Then the delivery fails without a log row", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.webhookLogs, ShouldBeEmpty)
			})
		})
	})
}

func TestEmailWebhook(t *testing.T) {
	Convey("Given the email provider webhook", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)

		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/webhooks/email-provider", strings.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When GET asks for supported events", func() {
			req := httptest.NewRequest(http.MethodGet, "/webhooks/email-provider", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "delivered")
		})

		Convey("When a delivered event arrives", func() {
			rec := post(`{"type":"delivered","data":{"email_id":"msg-1"}}`)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.emailEvents, ShouldResemble, []string{"msg-1:delivered"})
		})

		Convey("When a delivery_delayed event arrives", func() {
			rec := post(`{"type":"delivery_delayed","data":{"email_id":"msg-1","reason":"greylisted"}}`)

			Convey("Then it maps onto the delayed status", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.emailEvents, ShouldResemble, []string{"msg-1:delayed"})
			})
		})

		Convey("When the event type is unknown", func() {
			rec := post(`{"type":"subscription.created","data":{"email_id":"msg-1"}}`)

			Convey("Then it is acknowledged without recording", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.emailEvents, ShouldBeEmpty)
			})
		})

		Convey("When recording fails internally", func() {
			deps.emailErr = app.ErrPersistence
			rec := post(`{"type":"bounced","data":{"email_id":"msg-1","reason":"hard bounce"}}`)

			Convey("Then the provider still gets an acknowledgement", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"received":true`)
			})
		})

		Convey("When the body is not valid JSON", func() {
			rec := post(`{broken`)

			Convey("Then the always-200 contract is broken deliberately", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})

	Convey("Given an email webhook with a configured secret", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps, api.WithEmailWebhookSecret("email-secret"))

		Convey("When the signature is valid", func() {
			body := []byte(`{"type":"delivered","data":{"email_id":"msg-1"}}`)
			req := httptest.NewRequest(http.MethodPost, "/webhooks/email-provider", bytes.NewReader(body))
			req.Header.Set("x-webhook-signature", sign(body, "email-secret"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.emailEvents, ShouldResemble, []string{"msg-1:delivered"})
		})

		Convey("When the signature is missing", func() {
			body := []byte(`{"type":"delivered","data":{"email_id":"msg-1"}}`)
			req := httptest.NewRequest(http.MethodPost, "/webhooks/email-provider", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			So(deps.emailEvents, ShouldBeEmpty)
		})
	})
}

func TestDashboardEndpoint(t *testing.T) {
	Convey("Given the dashboard endpoint", t, func() {
		deps := newMockDeps()
		deps.dashStats = app.DashboardStats{
			Applications: map[string]int64{"applied": 4},
			Assessments:  map[string]int64{"ai_scored": 3},
			Emails:       map[string]int64{"delivered": 7},
		}
		mux := newTestMux(deps)

		Convey("When a tenant requests stats", func() {
			req := httptest.NewRequest(http.MethodGet, "/dashboard?tenant_id=tenant-1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "applications_by_stage")
		})

		Convey("When the tenant id is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the aggregates fail", func() {
			deps.dashErr = app.ErrPersistence
			req := httptest.NewRequest(http.MethodGet, "/dashboard?tenant_id=tenant-1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	Convey("Given a rate-limited endpoint with a small budget", t, func() {
		deps := newMockDeps()
		deps.rateMax = 2
		mux := newTestMux(deps)

		get := func() *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/dashboard?tenant_id=tenant-1", nil)
			req.Header.Set("x-user-id", "user-1")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When requests stay inside the budget", func() {
			rec := get()

			Convey("Then they pass with limit headers set", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("X-RateLimit-Limit"), ShouldEqual, "2")
				So(rec.Header().Get("X-RateLimit-Remaining"), ShouldEqual, "1")
			})
		})

		Convey("When the budget is exhausted", func() {
			get()
			get()
			rec := get()

			Convey("Then further requests are rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
				So(rec.Header().Get("X-RateLimit-Remaining"), ShouldEqual, "0")
			})
		})
	})
}
