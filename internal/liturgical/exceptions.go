package liturgical

import (
	"time"

	"github.com/mgrega/lektori/internal/model"
)

// ExceptionTable は日付（"YYYY-MM-DD"）をキーとする例外日テーブル。
// 典礼年ごとに1回生成され、実行中は不変の読み取り専用データとして扱う。
type ExceptionTable map[string]model.ExceptionDescriptor

// 種別ごとの既定値。記述子側で時刻・朗読数が指定されていない場合に使われる。
const (
	// morningMassTime / eveningMassTime は日曜型（2回ミサ）の固定時刻。
	morningMassTime = "9:00"
	eveningMassTime = "18:00"

	defaultSingleMassReadings  = 1
	defaultTwoMassReadings     = 2
	holyThursdayReadings       = 1
	goodFridayReadings         = 2
	holySaturdayVigilReadings  = 7
	easterMondayReadings       = 2
	defaultHolyThursdayTime    = "18:00"
	defaultGoodFridayTime      = "15:00"
	defaultHolySaturdayTime    = "20:00"
	defaultEasterMondayTime    = "9:00"
)

// TableForYear は指定年の移動祝日から例外テーブルを生成する。
// 復活祭の日付から逆算・順算されるのは: 灰の水曜日(-46)、聖木曜日(-3)、
// 聖金曜日(-2)、聖土曜日(-1)、復活の主日、復活の月曜日(+1)、
// 主の昇天(+39)、キリストの聖体(+60)。
// 固定日の祝日は返されたテーブルにMergeで重ねられる。
func TableForYear(year int) ExceptionTable {
	easter := Easter(year)
	day := func(offset int) string {
		d := easter.AddDate(0, 0, offset)
		return FormatDate(d.Year(), d.Month(), d.Day())
	}

	return ExceptionTable{
		day(-46): {
			Kind: model.ExceptionFixedSingleMass,
			Name: "Popolcová streda",
			Time: eveningMassTime,
		},
		day(-3): {
			Kind: model.ExceptionTriduumThursday,
			Name: "Zelený štvrtok",
		},
		day(-2): {
			Kind: model.ExceptionTriduumGoodFriday,
			Name: "Veľký piatok – Obrady",
		},
		day(-1): {
			Kind: model.ExceptionTriduumHolySaturday,
			Name: "Biela sobota – Vigília",
		},
		day(0): {
			Kind: model.ExceptionTriduumEasterSunday,
			Name: "Veľkonočná nedeľa",
		},
		day(1): {
			Kind: model.ExceptionTriduumEasterMonday,
			Name: "Veľkonočný pondelok",
		},
		day(39): {
			Kind:     model.ExceptionFixedSingleMass,
			Name:     "Nanebovstúpenie Pána",
			Time:     eveningMassTime,
			Readings: 2,
		},
		day(60): {
			Kind:     model.ExceptionFixedSingleMass,
			Name:     "Najsvätejšie Kristovo telo a krv",
			Time:     eveningMassTime,
			Readings: 2,
		},
	}
}

// Merge は別のテーブルのエントリを重ねた新しいテーブルを返す。
// 同一日付はotherの記述子が優先される。レシーバは変更しない。
func (t ExceptionTable) Merge(other ExceptionTable) ExceptionTable {
	merged := make(ExceptionTable, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// entriesFor は例外日1日分のミサエントリを展開する。
// 複数ミサ種別は固定時刻で2エントリを出力し、それ以外は1エントリを出力する。
func (t ExceptionTable) entriesFor(date string, day int, weekday time.Weekday) []model.MassEntry {
	desc, ok := t[date]
	if !ok {
		return nil
	}

	dayName := DayNames[int(weekday)]

	base := model.MassEntry{
		Date:        date,
		Day:         day,
		DayName:     dayName,
		Type:        model.MassTypeExceptional,
		TypeName:    desc.Name,
		IsException: true,
	}

	switch desc.Kind {
	case model.ExceptionFixedTwoMassSunday, model.ExceptionTriduumEasterSunday:
		morning := base
		morning.Time = morningMassTime
		morning.Readings = defaultTwoMassReadings
		evening := base
		evening.Time = eveningMassTime
		evening.Readings = defaultTwoMassReadings
		return []model.MassEntry{morning, evening}

	case model.ExceptionTriduumThursday:
		base.Time = orDefault(desc.Time, defaultHolyThursdayTime)
		base.Readings = orDefaultInt(desc.Readings, holyThursdayReadings)

	case model.ExceptionTriduumGoodFriday:
		// 受難の典礼。ミサではないが朗読割り当てのため朗読数を持つ
		base.Time = orDefault(desc.Time, defaultGoodFridayTime)
		base.Readings = orDefaultInt(desc.Readings, goodFridayReadings)

	case model.ExceptionTriduumHolySaturday:
		base.Time = orDefault(desc.Time, defaultHolySaturdayTime)
		base.Readings = orDefaultInt(desc.Readings, holySaturdayVigilReadings)

	case model.ExceptionTriduumEasterMonday:
		base.Time = orDefault(desc.Time, defaultEasterMondayTime)
		base.Readings = orDefaultInt(desc.Readings, easterMondayReadings)

	default: // model.ExceptionFixedSingleMass
		base.Time = orDefault(desc.Time, eveningMassTime)
		base.Readings = orDefaultInt(desc.Readings, defaultSingleMassReadings)
	}

	return []model.MassEntry{base}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
