package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mgrega/lektori/internal/model"
	"github.com/mgrega/lektori/internal/reminder"
	"github.com/mgrega/lektori/internal/schedule"
)

// mockDispatcher はDispatcherInterfaceのテスト用モック。
type mockDispatcher struct {
	result        reminder.Result
	err           error
	requestedDate string
}

func (m *mockDispatcher) DispatchForDate(ctx context.Context, date string) (reminder.Result, error) {
	m.requestedDate = date
	if m.err != nil {
		return reminder.Result{}, m.err
	}
	m.result.Date = date
	return m.result, nil
}

// mockLogRepo はSchedulerLogRepositoryのテスト用モック。
type mockLogRepo struct {
	entries []model.SchedulerLogEntry
	err     error
}

func (m *mockLogRepo) Append(ctx context.Context, message, logType string) error {
	m.entries = append([]model.SchedulerLogEntry{{Message: message, Type: logType}}, m.entries...)
	return m.err
}

func (m *mockLogRepo) List(ctx context.Context) ([]model.SchedulerLogEntry, error) {
	return m.entries, m.err
}

func (m *mockLogRepo) Clear(ctx context.Context) error {
	m.entries = nil
	return m.err
}

func reminderTestRouter(h *ReminderHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/reminders/send", h.SendReminders)
	r.Get("/api/reminders/upcoming", h.UpcomingReadings)
	r.Get("/api/scheduler/log", h.SchedulerLog)
	return r
}

// 手動送信が翌日の日付で配信を呼び出すことを検証
func TestSendReminders_DispatchesTomorrow(t *testing.T) {
	dispatcher := &mockDispatcher{
		result: reminder.Result{
			Sent: 1,
			Outcomes: []reminder.Outcome{
				{
					Key:     model.SentReminderKey{Date: "2026-03-01", Time: "9:00", Reading: 1, LectorName: "Anna Mala"},
					Channel: reminder.ChannelWhatsApp,
					Status:  "sent",
					Link:    "https://wa.me/421905123456?text=Ahoj",
				},
			},
		},
	}

	h := NewReminderHandler(dispatcher, &mockScheduleService{}, &mockLogRepo{})
	h.now = func() time.Time {
		return time.Date(2026, time.February, 28, 18, 0, 0, 0, time.UTC)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reminders/send", nil)
	w := httptest.NewRecorder()
	reminderTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if dispatcher.requestedDate != "2026-03-01" {
		t.Errorf("dispatched date = %q, want 2026-03-01", dispatcher.requestedDate)
	}

	var resp dispatchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Sent != 1 {
		t.Errorf("sent = %d, want 1", resp.Sent)
	}
	if len(resp.Outcomes) != 1 || resp.Outcomes[0].Link == "" {
		t.Errorf("outcomes = %+v", resp.Outcomes)
	}
}

// 今後の予定が割り当て済み朗読だけを期間内で返すことを検証
func TestUpcomingReadings(t *testing.T) {
	svc := &mockScheduleService{
		masses: []schedule.MassWithAssignments{
			{
				MassEntry: model.MassEntry{Date: "2026-03-01", Time: "9:00", Readings: 2},
				Lectors:   []string{"Anna Mala", ""},
			},
			{
				MassEntry: model.MassEntry{Date: "2026-03-03", Time: "18:00", Readings: 1},
				Lectors:   []string{"Peter Novak"},
			},
		},
	}

	h := NewReminderHandler(&mockDispatcher{}, svc, &mockLogRepo{})
	h.now = func() time.Time {
		return time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reminders/upcoming", nil)
	w := httptest.NewRecorder()
	reminderTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp []upcomingReadingResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// モックは月ごとに同じ一覧を返すため、3月と4月の2回分が重複して含まれる。
	// ここでは未割り当てスロットが除外されることだけを確認する。
	for _, entry := range resp {
		if entry.LectorName == "" {
			t.Errorf("unassigned slot leaked: %+v", entry)
		}
		if entry.Reading < 1 {
			t.Errorf("reading = %d", entry.Reading)
		}
	}
	if len(resp) == 0 {
		t.Fatal("expected at least one assigned reading")
	}
}

// 診断ログが新しい順に返されることを検証
func TestSchedulerLog(t *testing.T) {
	logRepo := &mockLogRepo{
		entries: []model.SchedulerLogEntry{
			{Message: "Pripomienky: 2 odoslané", Type: "success"},
			{Message: "Žiadne sväté omše na 2026-03-02", Type: "info"},
		},
	}

	h := NewReminderHandler(&mockDispatcher{}, &mockScheduleService{}, logRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/scheduler/log", nil)
	w := httptest.NewRecorder()
	reminderTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp []schedulerLogResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("entries = %d, want 2", len(resp))
	}
	if resp[0].Type != "success" {
		t.Errorf("first entry type = %q", resp[0].Type)
	}
}
