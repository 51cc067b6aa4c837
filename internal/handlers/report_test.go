package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/serroba/brand-audit/internal/handlers"
	"github.com/serroba/brand-audit/internal/magiclink"
	"github.com/serroba/brand-audit/internal/metrics"
	"github.com/serroba/brand-audit/internal/report"
	"github.com/serroba/brand-audit/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReportHandler_Share(t *testing.T) {
	t.Run("issues a link on the configured base url", func(t *testing.T) {
		rec := &recordedEvents{}
		h := newTestHandler(t, newFakeClock(), "", rec.events())

		resp, err := h.Share(context.Background(), shareRequest("https://example.com", `{"score":87}`))

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
		assert.Len(t, resp.Body.ShortID, 6)
		assert.Equal(t, testBaseURL+"/report/"+resp.Body.ShortID, resp.Body.URL)

		require.Len(t, rec.shared, 1)
		assert.Equal(t, resp.Body.ShortID, rec.shared[0].ShortID)
		assert.Equal(t, "https://example.com", rec.shared[0].Website)
		assert.NotEmpty(t, rec.shared[0].EventID)
	})

	t.Run("prefers the request origin", func(t *testing.T) {
		h := newTestHandler(t, newFakeClock(), "", handlers.DiscardEvents())
		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{Origin: "https://audit.example.com"})

		resp, err := h.Share(ctx, shareRequest("https://example.com", `{"score":87}`))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.Body.URL, "https://audit.example.com/report/"))
	})

	t.Run("rejects missing fields with 400", func(t *testing.T) {
		h := newTestHandler(t, newFakeClock(), "", handlers.DiscardEvents())

		_, err := h.Share(context.Background(), shareRequest("", `{"score":1}`))
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

		for _, audit := range []string{"", "null", `["not an object"]`} {
			_, err = h.Share(context.Background(), shareRequest("https://example.com", audit))
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err), audit)
		}
	})

	t.Run("succeeds when events cannot be published", func(t *testing.T) {
		h := newTestHandler(t, newFakeClock(), "", failingEvents(errors.New("broker down")))

		resp, err := h.Share(context.Background(), shareRequest("https://example.com", `{"score":1}`))

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
	})

	t.Run("hides store failures behind a generic 500", func(t *testing.T) {
		clock := newFakeClock()
		h := handlers.NewReportHandler(
			newTestService(t, &failingRepository{err: errors.New("connection reset")}, clock),
			nil, testBaseURL, "", handlers.DiscardEvents(), zap.NewNop(),
		)

		_, err := h.Share(context.Background(), shareRequest("https://example.com", `{"score":1}`))

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
		assert.Equal(t, "failed to generate share link", err.Error())
	})
}

func TestReportHandler_Resolve(t *testing.T) {
	t.Run("round trips the shared payload", func(t *testing.T) {
		rec := &recordedEvents{}
		h := newTestHandler(t, newFakeClock(), "", rec.events())
		audit := `{"score":87,"issues":["contrast"]}`

		shared, err := h.Share(context.Background(), shareRequest("https://example.com", audit))
		require.NoError(t, err)

		req := &handlers.ResolveReportRequest{}
		req.Body.Token = shared.Body.ShortID

		resp, err := h.Resolve(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
		assert.JSONEq(t, audit, string(resp.Body.Payload.AuditResult))
		assert.JSONEq(t, `{"performance":0.91}`, string(resp.Body.Payload.LighthouseData))
		assert.Equal(t, "https://example.com", resp.Body.Payload.Website)
		assert.Equal(t, 30*24*time.Hour, resp.Body.Payload.ExpiresAt.Sub(resp.Body.Payload.CreatedAt))

		require.Len(t, rec.resolved, 1)
		assert.Equal(t, metrics.OutcomeOK, rec.resolved[0].Outcome)
	})

	t.Run("returns 410 once the report expired", func(t *testing.T) {
		clock := newFakeClock()
		rec := &recordedEvents{}
		h := newTestHandler(t, clock, "", rec.events())

		shared, err := h.Share(context.Background(), shareRequest("https://example.com", `{"score":1}`))
		require.NoError(t, err)

		clock.Advance(30*24*time.Hour + time.Second)

		_, err = h.GetReport(context.Background(), &handlers.GetReportRequest{ID: shared.Body.ShortID})

		assert.Equal(t, http.StatusGone, statusOf(t, err))
		require.Len(t, rec.resolved, 1)
		assert.Equal(t, metrics.OutcomeExpired, rec.resolved[0].Outcome)
	})

	t.Run("returns 404 for unknown and malformed ids", func(t *testing.T) {
		h := newTestHandler(t, newFakeClock(), "", handlers.DiscardEvents())

		for _, id := range []string{"zzzzzz", "abc", "ab-!cd", "../../etc"} {
			_, err := h.GetReport(context.Background(), &handlers.GetReportRequest{ID: id})
			assert.Equal(t, http.StatusNotFound, statusOf(t, err), id)
		}
	})

	t.Run("returns 400 for an empty token without publishing", func(t *testing.T) {
		rec := &recordedEvents{}
		h := newTestHandler(t, newFakeClock(), "", rec.events())

		_, err := h.Resolve(context.Background(), &handlers.ResolveReportRequest{})

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		assert.Empty(t, rec.resolved)
	})

	t.Run("maps store failures to 500", func(t *testing.T) {
		h := handlers.NewReportHandler(
			newTestService(t, &failingRepository{err: errors.New("timeout")}, newFakeClock()),
			nil, testBaseURL, "", handlers.DiscardEvents(), zap.NewNop(),
		)

		_, err := h.GetReport(context.Background(), &handlers.GetReportRequest{ID: "aB3xY9"})

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestReportHandler_KeepsAuditBytes(t *testing.T) {
	h := newTestHandler(t, newFakeClock(), "", handlers.DiscardEvents())
	audit := `{"n":9007199254740993,"ratio":1.50,"tags":[]}`

	shared, err := h.Share(context.Background(), shareRequest("https://example.com", audit))
	require.NoError(t, err)

	resp, err := h.GetReport(context.Background(), &handlers.GetReportRequest{ID: shared.Body.ShortID})

	require.NoError(t, err)
	assert.Equal(t, audit, string(resp.Body.Payload.AuditResult))
}

func TestReportHandler_ResolvesMagicLinks(t *testing.T) {
	clock := newFakeClock()
	signer, err := magiclink.NewSigner([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	signer = signer.WithClock(clock.Now)
	rec := &recordedEvents{}
	h := handlers.NewReportHandler(
		newTestService(t, store.NewMemoryStore(), clock),
		signer, testBaseURL, "", rec.events(), zap.NewNop(),
	)

	token, err := signer.Sign(magiclink.Payload{
		AuditResult: json.RawMessage(`{"score":42}`),
		Website:     "https://example.com",
	})
	require.NoError(t, err)

	t.Run("by path", func(t *testing.T) {
		resp, err := h.GetReport(context.Background(), &handlers.GetReportRequest{ID: token})

		require.NoError(t, err)
		assert.JSONEq(t, `{"score":42}`, string(resp.Body.Payload.AuditResult))
		assert.Equal(t, "https://example.com", resp.Body.Payload.Website)
		assert.True(t, clock.Now().Add(time.Hour).Equal(resp.Body.Payload.ExpiresAt))
	})

	t.Run("by body", func(t *testing.T) {
		req := &handlers.ResolveReportRequest{}
		req.Body.Token = token

		resp, err := h.Resolve(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
	})

	t.Run("tampered tokens are unauthorized", func(t *testing.T) {
		_, err := h.GetReport(context.Background(), &handlers.GetReportRequest{ID: token + "x"})

		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("short ids still resolve from the store", func(t *testing.T) {
		shared, err := h.Share(context.Background(), shareRequest("https://example.com", `{"score":1}`))
		require.NoError(t, err)

		_, err = h.GetReport(context.Background(), &handlers.GetReportRequest{ID: shared.Body.ShortID})
		assert.NoError(t, err)

		_, err = h.GetReport(context.Background(), &handlers.GetReportRequest{ID: "zzzzzz"})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("expired tokens are gone", func(t *testing.T) {
		clock.Advance(time.Hour + time.Second)

		_, err := h.GetReport(context.Background(), &handlers.GetReportRequest{ID: token})

		assert.Equal(t, http.StatusGone, statusOf(t, err))
	})

	assert.Len(t, rec.resolved, 2, "only store lookups publish resolution events")
}

type failingRepository struct {
	err error
}

func (f *failingRepository) Insert(context.Context, *report.SharedReport) error { return f.err }

func (f *failingRepository) Exists(context.Context, report.ShortID) (bool, error) { return false, f.err }

func (f *failingRepository) Get(context.Context, report.ShortID) (*report.SharedReport, error) {
	return nil, f.err
}

func (f *failingRepository) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, f.err }

func (f *failingRepository) Stats(context.Context, time.Time) (report.Stats, error) {
	return report.Stats{}, f.err
}
