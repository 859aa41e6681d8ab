package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/mgrega/lektori/internal/liturgical"
	"github.com/mgrega/lektori/internal/reminder"
	"github.com/mgrega/lektori/internal/repository"
)

// upcomingWindowDays は今後の朗読予定APIが対象とする日数。
const upcomingWindowDays = 60

// DispatcherInterface はリマインダーハンドラーが必要とする配信インターフェース。
type DispatcherInterface interface {
	// DispatchForDate は指定日のリマインダーを即時配信する。
	DispatchForDate(ctx context.Context, date string) (reminder.Result, error)
}

// ReminderHandler はリマインダーの手動送信と予定照会のHTTPハンドラー。
type ReminderHandler struct {
	dispatcher DispatcherInterface
	schedule   ScheduleServiceInterface
	logRepo    repository.SchedulerLogRepository
	now        func() time.Time
}

// NewReminderHandler はReminderHandlerを生成する。
func NewReminderHandler(
	dispatcher DispatcherInterface,
	schedule ScheduleServiceInterface,
	logRepo repository.SchedulerLogRepository,
) *ReminderHandler {
	return &ReminderHandler{
		dispatcher: dispatcher,
		schedule:   schedule,
		logRepo:    logRepo,
		now:        time.Now,
	}
}

// outcomeResponse は1件のリマインダーの1チャネルでの結果のAPIレスポンス。
type outcomeResponse struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Reading    int    `json:"reading"`
	LectorName string `json:"lector_name"`
	Channel    string `json:"channel"`
	Status     string `json:"status"`
	Link       string `json:"link,omitempty"`
	Error      string `json:"error,omitempty"`
}

// dispatchResponse は手動送信のAPIレスポンス。
type dispatchResponse struct {
	Date     string            `json:"date"`
	Sent     int               `json:"sent"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Outcomes []outcomeResponse `json:"outcomes"`
}

// upcomingReadingResponse は今後の朗読予定1件のAPIレスポンス。
type upcomingReadingResponse struct {
	Date       string `json:"date"`
	DayName    string `json:"day_name"`
	Time       string `json:"time"`
	TypeName   string `json:"type_name,omitempty"`
	Reading    int    `json:"reading"`
	LectorName string `json:"lector_name"`
}

// schedulerLogResponse は診断ログ1件のAPIレスポンス。
type schedulerLogResponse struct {
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Time    time.Time `json:"time"`
}

// SendReminders は翌日のミサのリマインダーを即時配信する。
// POST /api/reminders/send
func (h *ReminderHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	tomorrow := h.now().AddDate(0, 0, 1).Format("2006-01-02")

	result, err := h.dispatcher.DispatchForDate(r.Context(), tomorrow)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := dispatchResponse{
		Date:     result.Date,
		Sent:     result.Sent,
		Skipped:  result.Skipped,
		Failed:   result.Failed,
		Outcomes: make([]outcomeResponse, len(result.Outcomes)),
	}
	for i, o := range result.Outcomes {
		resp.Outcomes[i] = outcomeResponse{
			Date:       o.Key.Date,
			Time:       o.Key.Time,
			Reading:    o.Key.Reading,
			LectorName: o.Key.LectorName,
			Channel:    o.Channel,
			Status:     o.Status,
			Link:       o.Link,
			Error:      o.Error,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpcomingReadings は今後60日間の割り当て済み朗読予定を返す。
// GET /api/reminders/upcoming
func (h *ReminderHandler) UpcomingReadings(w http.ResponseWriter, r *http.Request) {
	start := h.now().AddDate(0, 0, 1)
	end := start.AddDate(0, 0, upcomingWindowDays)

	from := start.Format("2006-01-02")
	until := end.Format("2006-01-02")

	readings := []upcomingReadingResponse{}
	lastMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for ; !cursor.After(lastMonth); cursor = cursor.AddDate(0, 1, 0) {
		masses, err := h.schedule.MonthScheduleWithAssignments(r.Context(), cursor.Year(), cursor.Month())
		if err != nil {
			handleServiceError(w, err)
			return
		}

		for _, m := range masses {
			if m.Date < from || m.Date > until {
				continue
			}
			for i, name := range m.Lectors {
				if name == "" {
					continue
				}
				readings = append(readings, upcomingReadingResponse{
					Date:       m.Date,
					DayName:    liturgical.DayName(m.Date),
					Time:       m.Time,
					TypeName:   m.TypeName,
					Reading:    i + 1,
					LectorName: name,
				})
			}
		}
	}

	writeJSON(w, http.StatusOK, readings)
}

// SchedulerLog はリマインダー実行の診断ログを新しい順に返す。
// GET /api/scheduler/log
func (h *ReminderHandler) SchedulerLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.logRepo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]schedulerLogResponse, len(entries))
	for i, e := range entries {
		resp[i] = schedulerLogResponse{
			Message: e.Message,
			Type:    e.Type,
			Time:    e.Time,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
