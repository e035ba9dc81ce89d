package otel

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortnote/shortnote-bot/config"
)

func scrape(t *testing.T, h http.Handler) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestOpenTelemetry_Uninitialized(t *testing.T) {
	o := &OpenTelemetryImpl{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		o.RecordEventInsert(ctx, StatusSuccess)
		o.RecordReauthorization(ctx)
		o.RecordBatch(ctx, 2, 1, time.Second)
		o.RecordHTTPRequest(ctx, http.MethodGet, "/", http.StatusOK)
	})
	assert.NoError(t, o.Shutdown(ctx))

	code, _ := scrape(t, o.Handler())
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOpenTelemetry_ExportsMetrics(t *testing.T) {
	o := &OpenTelemetryImpl{}
	require.NoError(t, o.Init(config.Config{ApplicationName: "shortnote-bot-test"}))
	t.Cleanup(func() { _ = o.Shutdown(context.Background()) })

	ctx := context.Background()
	o.RecordEventInsert(ctx, StatusSuccess)
	o.RecordEventInsert(ctx, StatusSuccess)
	o.RecordEventInsert(ctx, StatusFailure)
	o.RecordReauthorization(ctx)
	o.RecordBatch(ctx, 3, 2, 150*time.Millisecond)
	o.RecordHTTPRequest(ctx, http.MethodGet, "/health", http.StatusOK)

	code, body := scrape(t, o.Handler())
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, "calendar_events_inserted_total")
	assert.Contains(t, body, `status="success"`)
	assert.Contains(t, body, `status="failure"`)
	assert.Contains(t, body, "auth_reauthorizations_total")
	assert.Contains(t, body, "http_server_requests_total")
	assert.Contains(t, body, "notes_batch_size")
	assert.Contains(t, body, "notes_batch_duration")
}
