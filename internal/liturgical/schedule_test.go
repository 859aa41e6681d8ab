package liturgical

import (
	"reflect"
	"testing"
	"time"

	"github.com/mgrega/lektori/internal/model"
)

// countByType は分類ごとのエントリ数を数える補助関数。
func countByType(schedule []model.MassEntry) map[model.MassType]int {
	counts := make(map[model.MassType]int)
	for _, e := range schedule {
		counts[e.Type]++
	}
	return counts
}

func findEntries(schedule []model.MassEntry, date string) []model.MassEntry {
	return EntriesForDate(schedule, date)
}

// 例外日のない月では通常の週パターンのみが出力されることを検証。
// 合計 = 2×日曜数 + 火曜数 + (木曜数 − 1) + 1 となる。
func TestGenerateBaseSchedule_RegularMonthTotals(t *testing.T) {
	// 2026年3月: 日曜5、火曜5、木曜4。例外日なし
	schedule := GenerateBaseSchedule(2026, time.March, ExceptionTable{})

	want := 2*5 + 5 + (4 - 1) + 1
	if len(schedule) != want {
		t.Fatalf("len(schedule) = %d, want %d", len(schedule), want)
	}

	counts := countByType(schedule)
	if counts[model.MassTypeSundayMorning] != 5 {
		t.Errorf("sunday-morning count = %d, want 5", counts[model.MassTypeSundayMorning])
	}
	if counts[model.MassTypeSundayEvening] != 5 {
		t.Errorf("sunday-evening count = %d, want 5", counts[model.MassTypeSundayEvening])
	}
	if counts[model.MassTypeTuesday] != 5 {
		t.Errorf("tuesday count = %d, want 5", counts[model.MassTypeTuesday])
	}
	if counts[model.MassTypeThursday] != 3 {
		t.Errorf("thursday count = %d, want 3", counts[model.MassTypeThursday])
	}
	if counts[model.MassTypeFridayFirst] != 1 {
		t.Errorf("friday-first count = %d, want 1", counts[model.MassTypeFridayFirst])
	}
}

// 2026年3月の具体シナリオ: 日曜2回ミサ、第1金曜の振り替え、直前木曜の抑止
func TestGenerateBaseSchedule_March2026(t *testing.T) {
	schedule := GenerateBaseSchedule(2026, time.March, TableForYear(2026))

	// 2026-03-01（日曜）: 9:00と18:00、朗読2ずつ
	sunday := findEntries(schedule, "2026-03-01")
	if len(sunday) != 2 {
		t.Fatalf("2026-03-01 entries = %d, want 2", len(sunday))
	}
	if sunday[0].Time != "9:00" || sunday[0].Readings != 2 {
		t.Errorf("morning = (%s, %d), want (9:00, 2)", sunday[0].Time, sunday[0].Readings)
	}
	if sunday[1].Time != "18:00" || sunday[1].Readings != 2 {
		t.Errorf("evening = (%s, %d), want (18:00, 2)", sunday[1].Time, sunday[1].Readings)
	}
	if sunday[0].DayName != "Nedeľa" {
		t.Errorf("DayName = %q, want %q", sunday[0].DayName, "Nedeľa")
	}

	// 第1金曜 2026-03-06: 振り替えミサ 18:00、朗読2
	friday := findEntries(schedule, "2026-03-06")
	if len(friday) != 1 {
		t.Fatalf("2026-03-06 entries = %d, want 1", len(friday))
	}
	if friday[0].Time != "18:00" || friday[0].Readings != 2 {
		t.Errorf("first friday = (%s, %d), want (18:00, 2)", friday[0].Time, friday[0].Readings)
	}
	if friday[0].Type != model.MassTypeFridayFirst {
		t.Errorf("first friday type = %q, want %q", friday[0].Type, model.MassTypeFridayFirst)
	}
	if friday[0].TypeName != "1. piatok – Sv. omša" {
		t.Errorf("first friday name = %q", friday[0].TypeName)
	}

	// 直前の木曜 2026-03-05 は出力されない
	if got := findEntries(schedule, "2026-03-05"); len(got) != 0 {
		t.Errorf("2026-03-05 entries = %d, want 0 (transferred to friday)", len(got))
	}
}

// 2026年4月の具体シナリオ: 聖週間の例外日と通常ルールの共存
func TestGenerateBaseSchedule_April2026_HolyWeek(t *testing.T) {
	schedule := GenerateBaseSchedule(2026, time.April, TableForYear(2026))

	tests := []struct {
		date     string
		entries  int
		readings []int
	}{
		{"2026-04-02", 1, []int{1}}, // Zelený štvrtok
		{"2026-04-03", 1, []int{2}}, // Veľký piatok
		{"2026-04-04", 1, []int{7}}, // Biela sobota
		{"2026-04-05", 2, []int{2, 2}}, // Veľkonočná nedeľa
		{"2026-04-06", 1, []int{2}}, // Veľkonočný pondelok
	}

	for _, tt := range tests {
		got := findEntries(schedule, tt.date)
		if len(got) != tt.entries {
			t.Errorf("%s entries = %d, want %d", tt.date, len(got), tt.entries)
			continue
		}
		for i, e := range got {
			if e.Readings != tt.readings[i] {
				t.Errorf("%s[%d] readings = %d, want %d", tt.date, i, e.Readings, tt.readings[i])
			}
			if !e.IsException {
				t.Errorf("%s[%d] IsException = false, want true", tt.date, i)
			}
			if e.Type != model.MassTypeExceptional {
				t.Errorf("%s[%d] type = %q, want %q", tt.date, i, e.Type, model.MassTypeExceptional)
			}
		}
	}

	// 固定時刻の検証
	if got := findEntries(schedule, "2026-04-03"); got[0].Time != "15:00" {
		t.Errorf("good friday time = %q, want 15:00", got[0].Time)
	}
	if got := findEntries(schedule, "2026-04-04"); got[0].Time != "20:00" {
		t.Errorf("holy saturday time = %q, want 20:00", got[0].Time)
	}
	if got := findEntries(schedule, "2026-04-06"); got[0].Time != "9:00" {
		t.Errorf("easter monday time = %q, want 9:00", got[0].Time)
	}

	// 例外日以外では通常ルールが維持される: 火曜4回、木曜（4/2を除く）
	counts := countByType(schedule)
	if counts[model.MassTypeTuesday] != 4 {
		t.Errorf("tuesday count = %d, want 4", counts[model.MassTypeTuesday])
	}
	// 4月の木曜は2,9,16,23,30。4/2は例外日。第1金曜4/3が例外日のため
	// 直前木曜の振り替え抑止は働かない
	if counts[model.MassTypeThursday] != 4 {
		t.Errorf("thursday count = %d, want 4", counts[model.MassTypeThursday])
	}
	// 第1金曜4/3は例外日なので振り替えミサは出力されない
	if counts[model.MassTypeFridayFirst] != 0 {
		t.Errorf("friday-first count = %d, want 0", counts[model.MassTypeFridayFirst])
	}
}

// 第1金曜が例外日の場合、直前の木曜は通常どおり残ることを検証
func TestGenerateBaseSchedule_FirstFridayException_KeepsThursday(t *testing.T) {
	table := ExceptionTable{
		"2026-03-06": {
			Kind: model.ExceptionFixedSingleMass,
			Name: "Testovací sviatok",
			Time: "17:00",
		},
	}
	schedule := GenerateBaseSchedule(2026, time.March, table)

	thursday := findEntries(schedule, "2026-03-05")
	if len(thursday) != 1 {
		t.Fatalf("2026-03-05 entries = %d, want 1 (no transfer possible)", len(thursday))
	}
	if thursday[0].Type != model.MassTypeThursday {
		t.Errorf("type = %q, want %q", thursday[0].Type, model.MassTypeThursday)
	}

	friday := findEntries(schedule, "2026-03-06")
	if len(friday) != 1 {
		t.Fatalf("2026-03-06 entries = %d, want 1", len(friday))
	}
	if friday[0].Type != model.MassTypeExceptional || friday[0].Time != "17:00" {
		t.Errorf("friday = (%q, %q), want (exceptional, 17:00)", friday[0].Type, friday[0].Time)
	}
}

// 2回ミサ種別の例外日は9:00と18:00の2エントリを出力することを検証
func TestGenerateBaseSchedule_TwoMassSundayKind(t *testing.T) {
	// 2026-03-25は水曜。通常は出力なしの曜日に日曜型の祝日を置く
	table := ExceptionTable{
		"2026-03-25": {
			Kind: model.ExceptionFixedTwoMassSunday,
			Name: "Zvestovanie Pána",
		},
	}
	schedule := GenerateBaseSchedule(2026, time.March, table)

	got := findEntries(schedule, "2026-03-25")
	if len(got) != 2 {
		t.Fatalf("2026-03-25 entries = %d, want 2", len(got))
	}
	if got[0].Time != "9:00" || got[1].Time != "18:00" {
		t.Errorf("times = (%s, %s), want (9:00, 18:00)", got[0].Time, got[1].Time)
	}
	if got[0].Readings != 2 || got[1].Readings != 2 {
		t.Errorf("readings = (%d, %d), want (2, 2)", got[0].Readings, got[1].Readings)
	}
}

// 記述子のReadings指定が既定値を上書きすることを検証
func TestGenerateBaseSchedule_DescriptorReadingsOverride(t *testing.T) {
	table := ExceptionTable{
		"2026-03-25": {
			Kind:     model.ExceptionFixedSingleMass,
			Name:     "Testovací sviatok",
			Time:     "18:00",
			Readings: 3,
		},
	}
	schedule := GenerateBaseSchedule(2026, time.March, table)
	got := findEntries(schedule, "2026-03-25")
	if len(got) != 1 || got[0].Readings != 3 {
		t.Fatalf("readings override failed: %+v", got)
	}
}

// 純粋性: 同一入力に対して常に同一の結果を返すことを検証
func TestGenerateBaseSchedule_Deterministic(t *testing.T) {
	table := TableForYear(2026)
	a := GenerateBaseSchedule(2026, time.April, table)
	b := GenerateBaseSchedule(2026, time.April, table)
	if !reflect.DeepEqual(a, b) {
		t.Error("GenerateBaseSchedule is not deterministic")
	}
}

// 例外テーブルが空でも全期間で通常パターンが出力されることを検証（過去・未来の年）
func TestGenerateBaseSchedule_AnyYearWithoutExceptions(t *testing.T) {
	for _, year := range []int{1999, 2026, 2099} {
		schedule := GenerateBaseSchedule(year, time.June, ExceptionTable{})
		if len(schedule) == 0 {
			t.Errorf("year %d: schedule is empty", year)
		}
		counts := countByType(schedule)
		if counts[model.MassTypeFridayFirst] != 1 {
			t.Errorf("year %d: friday-first count = %d, want 1", year, counts[model.MassTypeFridayFirst])
		}
	}
}

// TableForYearが復活祭からの相対日付を正しく展開することを検証
func TestTableForYear_2026(t *testing.T) {
	table := TableForYear(2026)

	wantKinds := map[string]model.ExceptionKind{
		"2026-02-18": model.ExceptionFixedSingleMass,     // Popolcová streda
		"2026-04-02": model.ExceptionTriduumThursday,
		"2026-04-03": model.ExceptionTriduumGoodFriday,
		"2026-04-04": model.ExceptionTriduumHolySaturday,
		"2026-04-05": model.ExceptionTriduumEasterSunday,
		"2026-04-06": model.ExceptionTriduumEasterMonday,
		"2026-05-14": model.ExceptionFixedSingleMass,     // Nanebovstúpenie Pána
		"2026-06-04": model.ExceptionFixedSingleMass,     // Kristovo telo a krv
	}
	for date, kind := range wantKinds {
		desc, ok := table[date]
		if !ok {
			t.Errorf("table missing %s", date)
			continue
		}
		if desc.Kind != kind {
			t.Errorf("table[%s].Kind = %q, want %q", date, desc.Kind, kind)
		}
	}
}

func TestExceptionTable_Merge(t *testing.T) {
	base := TableForYear(2026)
	fixed := ExceptionTable{
		"2026-12-25": {
			Kind: model.ExceptionFixedTwoMassSunday,
			Name: "Narodenie Pána",
		},
	}
	merged := base.Merge(fixed)

	if _, ok := merged["2026-12-25"]; !ok {
		t.Error("merged table missing fixed feast")
	}
	if _, ok := merged["2026-04-05"]; !ok {
		t.Error("merged table missing movable feast")
	}
	if _, ok := base["2026-12-25"]; ok {
		t.Error("Merge must not mutate the receiver")
	}
}
