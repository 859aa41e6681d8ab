// Package model はドメインモデルを定義する。
package model

import "time"

// MassEntry は1回分のミサ（典礼）を表す。
// DateとTimeの組がスケジュール内での同一性キーとなる。
type MassEntry struct {
	Date        string   // ISO形式 "YYYY-MM-DD"
	Day         int      // 月内の日（1始まり）
	DayName     string   // スロバキア語の曜日名。Dateから導出される
	Time        string   // "H:MM" 形式。旧データ互換のため先頭ゼロなし（例: "9:00"）
	Type        MassType // 分類
	TypeName    string   // 表示名（祝日名など）
	Readings    int      // 朗読スロット数（0以上）
	IsException bool     // 例外テーブル由来の場合true
	IsUserAdded bool     // ユーザー追加ミサの場合true
	AddedID     string   // ユーザー追加ミサの安定識別子（UUID）。個別削除に使用する
}

// Key はこのミサの(date, time)キーを返す。
func (m MassEntry) Key() MassKey {
	return MassKey{Date: m.Date, Time: m.Time}
}

// MassType はミサの分類を表す。
type MassType string

const (
	// MassTypeSundayMorning は日曜朝のミサ。
	MassTypeSundayMorning MassType = "sunday-morning"
	// MassTypeSundayEvening は日曜夕方のミサ。
	MassTypeSundayEvening MassType = "sunday-evening"
	// MassTypeTuesday は火曜のミサ。
	MassTypeTuesday MassType = "tuesday"
	// MassTypeThursday は木曜のミサ。
	MassTypeThursday MassType = "thursday"
	// MassTypeFridayFirst は月の第1金曜に振り替えられた信心ミサ。
	MassTypeFridayFirst MassType = "friday-first"
	// MassTypeExceptional は例外テーブル（祝日）由来のミサ。
	MassTypeExceptional MassType = "exceptional"
	// MassTypeUserAdded はユーザーが追加したミサ。
	MassTypeUserAdded MassType = "user-added"
)

// MassKey は基本スケジュール上のミサを識別する(date, time)の値型キー。
// 文字列連結キーの区切り文字衝突を避けるため構造体で保持する。
type MassKey struct {
	Date string
	Time string
}

// MassPatch は基本ミサへの部分的な上書きを表す。
// nilフィールドは変更しない。
type MassPatch struct {
	Time     *string
	TypeName *string
	Readings *int
}

// IsEmpty はパッチが何も変更しないかどうかを返す。
// 空パッチの適用は編集の取り消しとして扱われる。
func (p MassPatch) IsEmpty() bool {
	return p.Time == nil && p.TypeName == nil && p.Readings == nil
}

// OverrideSet は(year, month)ごとのユーザーカスタマイズを保持する。
type OverrideSet struct {
	// Removed は抑止された基本ミサの(date, time)キー集合。
	Removed map[MassKey]bool
	// Edited は基本ミサへの部分パッチ。キーは生成器が出力した(date, time)。
	Edited map[MassKey]MassPatch
	// Added はユーザー追加ミサ。各エントリはAddedIDで個別に削除できる。
	Added []MassEntry
}

// NewOverrideSet は空のOverrideSetを生成する。
func NewOverrideSet() OverrideSet {
	return OverrideSet{
		Removed: make(map[MassKey]bool),
		Edited:  make(map[MassKey]MassPatch),
	}
}

// IsEmpty はオーバーライドが1件も存在しないかどうかを返す。
func (s OverrideSet) IsEmpty() bool {
	return len(s.Removed) == 0 && len(s.Edited) == 0 && len(s.Added) == 0
}

// ExceptionKind は例外日（祝日）の種別を表す。
type ExceptionKind string

const (
	// ExceptionFixedSingleMass は固定時刻の単一ミサ（灰の水曜日、主の昇天など）。
	ExceptionFixedSingleMass ExceptionKind = "fixed-single-mass"
	// ExceptionFixedTwoMassSunday は朝夕2回の固定ミサを持つ日曜型の祝日。
	ExceptionFixedTwoMassSunday ExceptionKind = "fixed-two-mass-sunday"
	// ExceptionTriduumThursday は聖木曜日（主の晩餐のミサ）。
	ExceptionTriduumThursday ExceptionKind = "triduum-thursday"
	// ExceptionTriduumGoodFriday は聖金曜日（主の受難の典礼。ミサではないが朗読を持つ）。
	ExceptionTriduumGoodFriday ExceptionKind = "triduum-good-friday"
	// ExceptionTriduumHolySaturday は聖土曜日（復活徹夜祭）。
	ExceptionTriduumHolySaturday ExceptionKind = "triduum-holy-saturday"
	// ExceptionTriduumEasterSunday は復活の主日。通常の日曜と同じく2回のミサを持つ。
	ExceptionTriduumEasterSunday ExceptionKind = "triduum-easter-sunday"
	// ExceptionTriduumEasterMonday は復活の月曜日。
	ExceptionTriduumEasterMonday ExceptionKind = "triduum-easter-monday"
)

// ExceptionDescriptor は例外日の記述子。日付をキーとする例外テーブルの値。
type ExceptionDescriptor struct {
	Kind ExceptionKind
	// Name は表示名（例: "Zelený štvrtok"）。
	Name string
	// Time は固定時刻。複数ミサ種別では空で、種別ごとの既定時刻が使われる。
	Time string
	// Readings は朗読数。0の場合は種別ごとの既定値が使われる。
	Readings int
}

// AssignmentKey は朗読担当の割り当てを識別する(date, time, reading)の値型キー。
type AssignmentKey struct {
	Date    string
	Time    string
	Reading int // 朗読番号（1始まり）
}

// Assignment は1つの朗読スロットへの担当者割り当てを表す。
type Assignment struct {
	Key        AssignmentKey
	LectorName string
	UpdatedAt  time.Time
}

// SentReminderKey は送信済みリマインダーを識別する複合キー。
// 担当者名を含むため、再割り当て後の新担当者には再送される。
type SentReminderKey struct {
	Date       string
	Time       string
	Reading    int
	LectorName string
}

// ReminderSettings はリマインダー送信の設定を保持する。
// 管理者が設定画面から変更でき、DBに1行で永続化される。
type ReminderSettings struct {
	WhatsAppEnabled      bool
	EmailEnabled         bool
	AutoSchedulerEnabled bool
	// SundayReminderTime は翌日が日曜の場合の送信時刻（"HH:MM"）。
	SundayReminderTime string
	// WeekdayReminderTime は翌日が平日ミサの場合の送信時刻（"HH:MM"）。
	WeekdayReminderTime string
	// EmailJS連携設定
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string
	// EmailEndpoint はメール送信APIのエンドポイント。空の場合は既定値を使う。
	EmailEndpoint string
}

// DefaultReminderSettings は既定のリマインダー設定を返す。
// 日曜前日（土曜）は18:00、平日ミサの前日は13:00に送信する。
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		WhatsAppEnabled:     true,
		EmailEnabled:        true,
		SundayReminderTime:  "18:00",
		WeekdayReminderTime: "13:00",
	}
}

// SchedulerLogEntry は診断ログの1エントリ。直近50件のみ保持される。
type SchedulerLogEntry struct {
	Message string
	Type    string // info, success, warning, error
	Time    time.Time
}

// SchedulerLogMaxEntries は診断ログの最大保持件数。
const SchedulerLogMaxEntries = 50
