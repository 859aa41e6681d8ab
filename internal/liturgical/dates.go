// Package liturgical は教区のミサスケジュール生成エンジンを提供する。
// 例外テーブル、基本スケジュール生成、オーバーライド合成を含む。
// このパッケージ内の関数はすべて純粋で、副作用を持たない。
package liturgical

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayNames はスロバキア語の曜日名。インデックスはtime.Weekdayと一致する（0=日曜）。
var DayNames = [7]string{
	"Nedeľa", "Pondelok", "Utorok", "Streda", "Štvrtok", "Piatok", "Sobota",
}

// MonthNames はスロバキア語の月名。インデックス0が1月。
var MonthNames = [12]string{
	"Január", "Február", "Marec", "Apríl", "Máj", "Jún",
	"Júl", "August", "September", "Október", "November", "December",
}

// FormatDate は(year, month, day)をISO形式 "YYYY-MM-DD" に整形する。
func FormatDate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseDate はISO形式 "YYYY-MM-DD" の日付文字列をパースする。
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("dátum sa nepodarilo spracovať: %w", err)
	}
	return t, nil
}

// DayName は日付のスロバキア語曜日名を返す。
// パースできない日付には空文字列を返す。
func DayName(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return DayNames[int(t.Weekday())]
}

// DaysInMonth は指定年月の日数を返す。
func DaysInMonth(year int, month time.Month) int {
	// 翌月の0日目 = 当月の末日
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstFriday は指定年月の第1金曜の日を返す。常に1〜7の範囲に収まる。
func FirstFriday(year int, month time.Month) int {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Friday {
		t = t.AddDate(0, 0, 1)
	}
	return t.Day()
}

// MinuteOfDay は "H:MM" または "HH:MM" 形式の時刻文字列を0時からの分数に変換する。
// パースできない場合はok=falseを返す。
func MinuteOfDay(t string) (int, bool) {
	h, m, ok := splitTime(t)
	if !ok {
		return 0, false
	}
	return h*60 + m, true
}

// CompareTimes は時刻文字列を分単位で比較する。
// 旧実装は先頭ゼロなしの文字列を辞書順比較していたため "18:00" < "9:00" となったが、
// ここでは分数に正規化して比較する。どちらかがパースできない場合のみ
// 文字列比較にフォールバックする。
func CompareTimes(a, b string) int {
	ma, okA := MinuteOfDay(a)
	mb, okB := MinuteOfDay(b)
	if okA && okB {
		switch {
		case ma < mb:
			return -1
		case ma > mb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// ValidTime は時刻文字列が "H:MM" / "HH:MM" 形式で0:00〜23:59の範囲かどうかを返す。
func ValidTime(t string) bool {
	_, ok := MinuteOfDay(t)
	return ok
}

func splitTime(t string) (hour, minute int, ok bool) {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
