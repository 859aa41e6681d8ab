package liturgical

import (
	"time"

	"github.com/mgrega/lektori/internal/model"
)

// 通常週パターンの表示名。
const (
	sundayMassName      = "Nedeľná omša"
	weekdayMassName     = "Sv. omša"
	firstFridayMassName = "1. piatok – Sv. omša"
)

// GenerateBaseSchedule は指定年月の基本ミサスケジュールを生成する。
// 純粋関数であり、同一入力に対して常に同一の結果を返す。
//
// 各日についてまず例外テーブルを参照し、該当すれば通常の曜日ルールを
// 完全に打ち切って例外エントリを出力する。該当しなければ通常ルールを適用する:
//
//   - 日曜: 9:00と18:00の2回、朗読2
//   - 火曜: 18:00の1回、朗読1
//   - 木曜: 18:00の1回、朗読1。ただし第1金曜直前の木曜は第1金曜への
//     振り替えのため出力しない（第1金曜自体が例外日の場合は振り替え不能なので残す）
//   - 金曜: 第1金曜のみ18:00の1回、朗読2（第1金曜が例外日の場合は出力しない）
//   - 月・水・土: 出力なし（土曜は例外日になりうる）
//
// 結果は日付昇順で、同一日内はルール適用順（朝→夕）に並ぶ。
func GenerateBaseSchedule(year int, month time.Month, table ExceptionTable) []model.MassEntry {
	days := DaysInMonth(year, month)
	firstFriday := FirstFriday(year, month)
	thursdayBeforeFirstFriday := firstFriday - 1

	firstFridayDate := FormatDate(year, month, firstFriday)
	_, firstFridayIsException := table[firstFridayDate]

	var schedule []model.MassEntry

	for day := 1; day <= days; day++ {
		date := FormatDate(year, month, day)
		weekday := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()

		// 例外日は曜日ルールより優先される
		if entries := table.entriesFor(date, day, weekday); entries != nil {
			schedule = append(schedule, entries...)
			continue
		}

		dayName := DayNames[int(weekday)]

		switch weekday {
		case time.Sunday:
			schedule = append(schedule,
				model.MassEntry{
					Date: date, Day: day, DayName: dayName,
					Time: morningMassTime, Type: model.MassTypeSundayMorning,
					TypeName: sundayMassName, Readings: 2,
				},
				model.MassEntry{
					Date: date, Day: day, DayName: dayName,
					Time: eveningMassTime, Type: model.MassTypeSundayEvening,
					TypeName: sundayMassName, Readings: 2,
				},
			)

		case time.Tuesday:
			schedule = append(schedule, model.MassEntry{
				Date: date, Day: day, DayName: dayName,
				Time: eveningMassTime, Type: model.MassTypeTuesday,
				TypeName: weekdayMassName, Readings: 1,
			})

		case time.Thursday:
			// 第1金曜直前の木曜は金曜へ振り替え。ただし第1金曜が例外日なら
			// 振り替えできないため木曜のまま残す
			if day == thursdayBeforeFirstFriday && !firstFridayIsException {
				continue
			}
			schedule = append(schedule, model.MassEntry{
				Date: date, Day: day, DayName: dayName,
				Time: eveningMassTime, Type: model.MassTypeThursday,
				TypeName: weekdayMassName, Readings: 1,
			})

		case time.Friday:
			if day != firstFriday || firstFridayIsException {
				continue
			}
			schedule = append(schedule, model.MassEntry{
				Date: date, Day: day, DayName: dayName,
				Time: eveningMassTime, Type: model.MassTypeFridayFirst,
				TypeName: firstFridayMassName, Readings: 2,
			})
		}
	}

	return schedule
}

// EntriesForDate は指定日のミサエントリのみを返す補助関数。
// リマインダー処理が「明日」の分を取り出すために使う。
func EntriesForDate(schedule []model.MassEntry, date string) []model.MassEntry {
	var out []model.MassEntry
	for _, e := range schedule {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}
