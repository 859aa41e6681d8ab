package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/mgrega/lektori/internal/liturgical"
	"github.com/mgrega/lektori/internal/schedule"
)

// massDuration はICSエクスポートで使う1回のミサの所要時間。
const massDuration = time.Hour

// bratislava は教区のタイムゾーン。LoadLocationが失敗する環境ではUTCで出力する。
var bratislava = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Bratislava")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// ExportICS は指定月の合成済みスケジュールをiCalendar形式で出力する。
// 各ミサは1イベントとなり、説明に朗読者の割り当てを含む。
// GET /api/schedule/{year}/{month}/ics
func (h *ScheduleHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(w, r)
	if !ok {
		return
	}

	masses, err := h.service.MonthScheduleWithAssignments(r.Context(), year, month)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//lektori//rozpis omsi//SK")

	now := time.Now().In(bratislava)
	for _, m := range masses {
		start, err := massStartTime(m.Date, m.Time)
		if err != nil {
			// 不正な時刻を持つエントリはスキップし、残りを出力する
			continue
		}

		uid := fmt.Sprintf("%s-%s@lektori", m.Date, strings.ReplaceAll(m.Time, ":", ""))
		event := cal.AddEvent(uid)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(massDuration))
		event.SetSummary(massSummary(m))

		if desc := massDescription(m); desc != "" {
			event.SetDescription(desc)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("rozpis-%04d-%02d.ics", year, int(month))))
	w.Write([]byte(cal.Serialize()))
}

// massStartTime は"YYYY-MM-DD"と"H:MM"から教区タイムゾーンの開始時刻を組み立てる。
func massStartTime(date, massTime string) (time.Time, error) {
	day, err := liturgical.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minute, ok := liturgical.MinuteOfDay(massTime)
	if !ok {
		return time.Time{}, fmt.Errorf("不正な時刻です: %s", massTime)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, bratislava), nil
}

// massSummary はイベントの表題を組み立てる。祝日名があればそれを優先する。
func massSummary(m schedule.MassWithAssignments) string {
	if m.TypeName != "" {
		return m.TypeName
	}
	return "Svätá omša"
}

// massDescription は朗読者の割り当て一覧をイベント説明として組み立てる。
func massDescription(m schedule.MassWithAssignments) string {
	var lines []string
	for i, name := range m.Lectors {
		if name == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. čítanie: %s", i+1, name))
	}
	return strings.Join(lines, "\n")
}
