// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/mgrega/lektori/internal/model"
)

// OverrideRepository は月ごとのスケジュールオーバーライドの永続化インターフェース。
type OverrideRepository interface {
	// Load は指定月のオーバーライド集合を取得する。
	// オーバーライドが存在しない場合は空の集合を返す。
	Load(ctx context.Context, year int, month time.Month) (model.OverrideSet, error)

	// MarkRemoved は(date, time)キーの削除マークを登録する。冪等。
	MarkRemoved(ctx context.Context, year int, month time.Month, key model.MassKey) error

	// UnmarkRemoved は削除マークを取り消す。マークが存在しなくてもエラーにしない。
	UnmarkRemoved(ctx context.Context, year int, month time.Month, key model.MassKey) error

	// UpsertEdit は(date, time)キーの編集パッチを登録または上書きする。
	UpsertEdit(ctx context.Context, year int, month time.Month, key model.MassKey, patch model.MassPatch) error

	// DeleteEdit は編集パッチを削除する。パッチが存在しなくてもエラーにしない。
	DeleteEdit(ctx context.Context, year int, month time.Month, key model.MassKey) error

	// InsertAdded はユーザー追加ミサを登録する。entry.AddedIDは設定済みであること。
	InsertAdded(ctx context.Context, year int, month time.Month, entry model.MassEntry) error

	// DeleteAdded はAddedIDでユーザー追加ミサを削除する。
	// 削除した場合はtrue、存在しなかった場合はfalseを返す。
	DeleteAdded(ctx context.Context, addedID string) (bool, error)
}

// AssignmentRepository は朗読割り当ての永続化インターフェース。
type AssignmentRepository interface {
	// Find は(date, time, reading)キーの割り当て朗読者名を取得する。
	// 割り当てが存在しない場合は空文字列を返す。
	Find(ctx context.Context, key model.AssignmentKey) (string, error)

	// ListByDates は指定日付集合の全割り当てをキーつきで返す。
	ListByDates(ctx context.Context, dates []string) (map[model.AssignmentKey]string, error)

	// Upsert は割り当てを冪等に登録する。既存の割り当ては上書きされる。
	Upsert(ctx context.Context, key model.AssignmentKey, lectorName string) error

	// Delete は割り当てを削除する。存在しなくてもエラーにしない。
	Delete(ctx context.Context, key model.AssignmentKey) error
}

// LectorRepository は朗読者データの永続化インターフェース。
type LectorRepository interface {
	// List は全朗読者を名前昇順で返す。
	List(ctx context.Context) ([]*model.Lector, error)

	// FindByID は指定IDの朗読者を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Lector, error)

	// FindByName は名前で朗読者を検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Lector, error)

	// Create は朗読者を作成する。
	Create(ctx context.Context, lector *model.Lector) error

	// Update は朗読者情報を更新する。
	Update(ctx context.Context, lector *model.Lector) error

	// Delete は指定IDの朗読者を削除する。
	Delete(ctx context.Context, id string) error
}

// SettingsRepository はリマインダー設定の永続化インターフェース。
// 設定は単一行で保持される。
type SettingsRepository interface {
	// Load は現在の設定を取得する。行が無い場合は既定値を返す。
	Load(ctx context.Context) (model.ReminderSettings, error)

	// Save は設定を上書き保存する。
	Save(ctx context.Context, settings model.ReminderSettings) error
}

// SentReminderRepository は送信済みリマインダーのマーカー永続化インターフェース。
// (date, time, reading, lector_name)キーで二重送信を防ぐ。
type SentReminderRepository interface {
	// IsSent はキーが送信済みかどうかを返す。
	IsSent(ctx context.Context, key model.SentReminderKey) (bool, error)

	// MarkSent はキーを送信済みとして記録する。冪等。
	MarkSent(ctx context.Context, key model.SentReminderKey, sentAt time.Time) error

	// DeleteOlderThan は指定時刻より前に記録されたマーカーを削除し、件数を返す。
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SchedulerLogRepository はリマインダー実行ログの永続化インターフェース。
type SchedulerLogRepository interface {
	// Append はログを追記し、保持上限を超えた古い行を削除する。
	Append(ctx context.Context, message, logType string) error

	// List は新しい順にログを返す。
	List(ctx context.Context) ([]model.SchedulerLogEntry, error)

	// Clear は全ログを削除する。
	Clear(ctx context.Context) error
}
