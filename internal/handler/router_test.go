package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mgrega/lektori/internal/middleware"
	"github.com/mgrega/lektori/internal/model"
)

// mockAssignmentService はAssignmentServiceInterfaceのテスト用モック。
type mockAssignmentService struct {
	assigned   map[model.AssignmentKey]string
	unassigned []model.AssignmentKey
}

func (m *mockAssignmentService) Assign(ctx context.Context, key model.AssignmentKey, lectorName string) error {
	if m.assigned == nil {
		m.assigned = make(map[model.AssignmentKey]string)
	}
	m.assigned[key] = lectorName
	return nil
}

func (m *mockAssignmentService) Unassign(ctx context.Context, key model.AssignmentKey) error {
	m.unassigned = append(m.unassigned, key)
	return nil
}

// mockPinger はDBPingerのテスト用モック。
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	return NewRouter(&RouterDeps{
		CORSAllowedOrigin: "https://lektori.example.sk",
		RateLimiter:       rl,
		AdminToken:        "admin-secret",
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
		ScheduleService:   &mockScheduleService{},
		LectorService:     &mockLectorService{},
		AssignmentService: &mockAssignmentService{},
		Dispatcher:        &mockDispatcher{},
		SettingsRepo:      &mockSettingsRepo{settings: model.DefaultReminderSettings()},
		LogRepo:           &mockLogRepo{},
		EndpointGuard:     &mockEndpointGuard{},
		DB:                &mockPinger{},
		Gatherer:          prometheus.NewRegistry(),
	})
}

// ヘルスチェックが認証なしで応答することを検証
func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// メトリクスエンドポイントが応答することを検証
func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// スケジュール照会が認証なしで可能なことを検証
func TestRouter_ScheduleIsPublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/schedule/2026/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// 変更系ルートが管理者トークンを要求することを検証
func TestRouter_MutatingRoutesRequireAdmin(t *testing.T) {
	router := newTestRouter(t)

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/schedule/2026/3/overrides/remove", `{"date":"2026-03-03","time":"18:00"}`},
		{http.MethodPost, "/api/schedule/2026/3/overrides", `{"date":"2026-03-14","time":"10:00","readings":1}`},
		{http.MethodPut, "/api/schedule/2026/3/overrides/edit", `{"date":"2026-03-03","time":"18:00"}`},
		{http.MethodDelete, "/api/schedule/2026/3/overrides/x", ""},
		{http.MethodPost, "/api/lectors", `{"name":"Anna"}`},
		{http.MethodPut, "/api/assignments", `{"date":"2026-03-01","time":"9:00","reading":1,"lector_name":"Anna"}`},
		{http.MethodGet, "/api/settings", ""},
		{http.MethodPost, "/api/reminders/send", ""},
		{http.MethodGet, "/api/scheduler/log", ""},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("without token: status = %d, want 401", w.Code)
			}

			req = httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
			req.Header.Set("Authorization", "Bearer admin-secret")
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code == http.StatusUnauthorized {
				t.Error("valid token was rejected")
			}
		})
	}
}

// 今後の朗読予定が認証なしで照会できることを検証
func TestRouter_UpcomingIsPublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reminders/upcoming", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// データベース疎通に失敗するとヘルスチェックが503になることを検証
func TestRouter_HealthUnavailable(t *testing.T) {
	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	router := NewRouter(&RouterDeps{
		CORSAllowedOrigin: "https://lektori.example.sk",
		RateLimiter:       rl,
		AdminToken:        "admin-secret",
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
		ScheduleService:   &mockScheduleService{},
		LectorService:     &mockLectorService{},
		AssignmentService: &mockAssignmentService{},
		Dispatcher:        &mockDispatcher{},
		SettingsRepo:      &mockSettingsRepo{},
		LogRepo:           &mockLogRepo{},
		EndpointGuard:     &mockEndpointGuard{},
		DB:                &mockPinger{err: context.DeadlineExceeded},
		Gatherer:          prometheus.NewRegistry(),
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
