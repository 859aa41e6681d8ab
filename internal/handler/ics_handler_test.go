package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mgrega/lektori/internal/model"
	"github.com/mgrega/lektori/internal/schedule"
)

// ICSエクスポートがtext/calendarでVEVENTを出力することを検証
func TestExportICS(t *testing.T) {
	svc := &mockScheduleService{
		masses: []schedule.MassWithAssignments{
			{
				MassEntry: model.MassEntry{
					Date: "2026-03-01", Time: "9:00",
					Type: model.MassTypeSundayMorning, Readings: 2,
				},
				Lectors: []string{"Anna Mala", "Peter Novak"},
			},
			{
				MassEntry: model.MassEntry{
					Date: "2026-03-01", Time: "18:00",
					Type: model.MassTypeSundayEvening, Readings: 1,
				},
				Lectors: []string{""},
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/schedule/2026/3/ics", nil)
	w := httptest.NewRecorder()
	scheduleTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Error("missing VCALENDAR envelope")
	}
	if got := strings.Count(body, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("VEVENT count = %d, want 2", got)
	}
	if !strings.Contains(body, "SUMMARY:Svätá omša") {
		t.Error("missing default summary")
	}
	if !strings.Contains(body, "Anna Mala") {
		t.Error("missing lector in description")
	}
}

// 祝日名がイベント表題として使われることを検証
func TestExportICS_ExceptionSummary(t *testing.T) {
	svc := &mockScheduleService{
		masses: []schedule.MassWithAssignments{
			{
				MassEntry: model.MassEntry{
					Date: "2026-04-03", Time: "15:00",
					Type: model.MassTypeExceptional, TypeName: "Veľký piatok",
					IsException: true, Readings: 3,
				},
				Lectors: []string{"", "", ""},
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/schedule/2026/4/ics", nil)
	w := httptest.NewRecorder()
	scheduleTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Veľký piatok") {
		t.Error("exception name missing from summary")
	}
}

// 不正な時刻を持つエントリがスキップされ、残りが出力されることを検証
func TestExportICS_SkipsInvalidTime(t *testing.T) {
	svc := &mockScheduleService{
		masses: []schedule.MassWithAssignments{
			{MassEntry: model.MassEntry{Date: "2026-03-01", Time: "broken"}},
			{MassEntry: model.MassEntry{Date: "2026-03-01", Time: "9:00"}},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/schedule/2026/3/ics", nil)
	w := httptest.NewRecorder()
	scheduleTestRouter(svc).ServeHTTP(w, req)

	if got := strings.Count(w.Body.String(), "BEGIN:VEVENT"); got != 1 {
		t.Errorf("VEVENT count = %d, want 1", got)
	}
}
