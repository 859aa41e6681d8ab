// Package reminder は朗読者への前日リマインダー送信を提供する。
// トリガー判定、WhatsAppリンク生成、EmailJS送信、配信処理を含む。
package reminder

import (
	"time"

	"github.com/mgrega/lektori/internal/liturgical"
	"github.com/mgrega/lektori/internal/model"
)

// ShouldFireNow は現在時刻がリマインダー送信時刻かどうかを判定する純粋関数。
// 対象は常に翌日のミサで、翌日が日曜ならSundayReminderTime、
// それ以外ならWeekdayReminderTimeと現在時刻のHH:MMを分単位で比較する。
// 戻り値は対象日（ISO形式）と発火判定。設定時刻がパースできない場合は発火しない。
func ShouldFireNow(now time.Time, settings model.ReminderSettings) (string, bool) {
	tomorrow := now.AddDate(0, 0, 1)
	targetDate := liturgical.FormatDate(tomorrow.Year(), tomorrow.Month(), tomorrow.Day())

	configured := settings.WeekdayReminderTime
	if tomorrow.Weekday() == time.Sunday {
		configured = settings.SundayReminderTime
	}

	want, ok := liturgical.MinuteOfDay(configured)
	if !ok {
		return targetDate, false
	}

	return targetDate, now.Hour()*60+now.Minute() == want
}
