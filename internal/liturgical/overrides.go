package liturgical

import (
	"sort"

	"github.com/mgrega/lektori/internal/model"
)

// ApplyOverrides は基本スケジュールにユーザーオーバーライドを合成する。
// 純粋関数であり入力を変更しない。処理順は固定:
//
//  1. Removedに含まれる(date, time)キーの基本エントリを除外する
//  2. Editedのパッチを適用する（nilフィールドは元の値を維持）
//  3. Addedのエントリを追加する（IsUserAdded=true、AddedIDで個別削除可能）
//  4. 日付昇順、同一日付内は時刻（分数）昇順で安定ソートする
//
// 基本スケジュールに存在しないキーを参照するオーバーライドはエラーにせず
// 黙って無視する。例外テーブルの変更で古いキーが無効になることがあるため。
func ApplyOverrides(base []model.MassEntry, set model.OverrideSet) []model.MassEntry {
	result := make([]model.MassEntry, 0, len(base)+len(set.Added))

	for _, entry := range base {
		key := entry.Key()
		if set.Removed[key] {
			continue
		}
		if patch, ok := set.Edited[key]; ok {
			entry = applyPatch(entry, patch)
		}
		result = append(result, entry)
	}

	for _, added := range set.Added {
		added.IsUserAdded = true
		added.Type = model.MassTypeUserAdded
		added.DayName = DayName(added.Date)
		result = append(result, added)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return CompareTimes(result[i].Time, result[j].Time) < 0
	})

	return result
}

// applyPatch はパッチの非nilフィールドでエントリのコピーを上書きする。
// 時刻を編集した場合、以後の割り当て参照キーは新しい時刻になる。
// 旧時刻にひもづく割り当ては移行されない（管理者が再割り当てする）。
func applyPatch(entry model.MassEntry, patch model.MassPatch) model.MassEntry {
	if patch.Time != nil {
		entry.Time = *patch.Time
	}
	if patch.TypeName != nil {
		entry.TypeName = *patch.TypeName
	}
	if patch.Readings != nil {
		entry.Readings = *patch.Readings
	}
	return entry
}
