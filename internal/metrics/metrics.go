// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ワーカーやサービス層から利用する。
type MetricsCollector interface {
	RecordReminderSent(channel string)
	RecordReminderFailure(channel string)
	RecordReminderSkipped()
	RecordDispatchRun()
	RecordHTTPStatus(statusCode int)
	RecordScheduleLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	reminderSent    *prometheus.CounterVec
	reminderFail    *prometheus.CounterVec
	reminderSkipped prometheus.Counter
	dispatchRuns    prometheus.Counter
	httpStatus      *prometheus.CounterVec
	scheduleLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reminderSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lektori_reminder_sent_total",
			Help: "チャネル別のリマインダー送信成功の合計数",
		}, []string{"channel"}),
		reminderFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lektori_reminder_fail_total",
			Help: "チャネル別のリマインダー送信失敗の合計数",
		}, []string{"channel"}),
		reminderSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lektori_reminder_skipped_total",
			Help: "送信済みマーカーによりスキップされたリマインダーの合計数",
		}),
		dispatchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lektori_dispatch_runs_total",
			Help: "リマインダー配信実行の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lektori_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		scheduleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lektori_schedule_compose_latency_seconds",
			Help:    "月間スケジュール合成のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.reminderSent,
		c.reminderFail,
		c.reminderSkipped,
		c.dispatchRuns,
		c.httpStatus,
		c.scheduleLatency,
	)

	return c
}

// RecordReminderSent はリマインダー送信成功を記録する。
func (c *Collector) RecordReminderSent(channel string) {
	c.reminderSent.WithLabelValues(channel).Inc()
}

// RecordReminderFailure はリマインダー送信失敗を記録する。
func (c *Collector) RecordReminderFailure(channel string) {
	c.reminderFail.WithLabelValues(channel).Inc()
}

// RecordReminderSkipped は送信済みマーカーによるスキップを記録する。
func (c *Collector) RecordReminderSkipped() {
	c.reminderSkipped.Inc()
}

// RecordDispatchRun は配信実行を記録する。
func (c *Collector) RecordDispatchRun() {
	c.dispatchRuns.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordScheduleLatency はスケジュール合成のレイテンシを記録する。
func (c *Collector) RecordScheduleLatency(duration time.Duration) {
	c.scheduleLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
