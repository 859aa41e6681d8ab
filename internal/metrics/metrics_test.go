package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CollectorはMetricsCollectorインターフェースを満たすことを検証
func TestCollector_ImplementsInterface(t *testing.T) {
	var _ MetricsCollector = (*Collector)(nil)
}

// 全メトリクスの記録がパニックしないことを検証
func TestCollector_RecordsWithoutPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordReminderSent("whatsapp")
	c.RecordReminderSent("email")
	c.RecordReminderFailure("email")
	c.RecordReminderSkipped()
	c.RecordDispatchRun()
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)
	c.RecordScheduleLatency(15 * time.Millisecond)
}

// スクレイプハンドラーが登録済みメトリクスを返すことを検証
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordReminderSent("whatsapp")
	c.RecordDispatchRun()

	handler := Handler(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)
	if !strings.Contains(bodyStr, "lektori_reminder_sent_total") {
		t.Error("response should contain lektori_reminder_sent_total metric")
	}
	if !strings.Contains(bodyStr, "lektori_dispatch_runs_total") {
		t.Error("response should contain lektori_dispatch_runs_total metric")
	}
}
