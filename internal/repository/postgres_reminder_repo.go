package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mgrega/lektori/internal/model"
)

// PostgresSentReminderRepo はPostgreSQLを使用した送信済みマーカーリポジトリ。
type PostgresSentReminderRepo struct {
	db *sql.DB
}

// NewPostgresSentReminderRepo はPostgresSentReminderRepoを生成する。
func NewPostgresSentReminderRepo(db *sql.DB) *PostgresSentReminderRepo {
	return &PostgresSentReminderRepo{db: db}
}

// IsSent はキーが送信済みかどうかを返す。
func (r *PostgresSentReminderRepo) IsSent(ctx context.Context, key model.SentReminderKey) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM sent_reminders
		   WHERE date = $1 AND mass_time = $2 AND reading = $3 AND lector_name = $4
		 )`,
		key.Date, key.Time, key.Reading, key.LectorName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("送信済みマーカーの確認に失敗しました: %w", err)
	}
	return exists, nil
}

// MarkSent はキーを送信済みとして記録する。冪等。
func (r *PostgresSentReminderRepo) MarkSent(ctx context.Context, key model.SentReminderKey, sentAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sent_reminders (date, mass_time, reading, lector_name, sent_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (date, mass_time, reading, lector_name) DO NOTHING`,
		key.Date, key.Time, key.Reading, key.LectorName, sentAt,
	)
	if err != nil {
		return fmt.Errorf("送信済みマーカーの記録に失敗しました: %w", err)
	}
	return nil
}

// DeleteOlderThan は指定時刻より前に記録されたマーカーを削除し、件数を返す。
func (r *PostgresSentReminderRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sent_reminders WHERE sent_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("送信済みマーカーの削除に失敗しました: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("送信済みマーカーの削除結果の取得に失敗しました: %w", err)
	}
	return affected, nil
}

// compile-time interface check
var _ SentReminderRepository = (*PostgresSentReminderRepo)(nil)

// PostgresSchedulerLogRepo はPostgreSQLを使用した実行ログリポジトリ。
// ログはSchedulerLogMaxEntries件のみ保持される。
type PostgresSchedulerLogRepo struct {
	db *sql.DB
}

// NewPostgresSchedulerLogRepo はPostgresSchedulerLogRepoを生成する。
func NewPostgresSchedulerLogRepo(db *sql.DB) *PostgresSchedulerLogRepo {
	return &PostgresSchedulerLogRepo{db: db}
}

// Append はログを追記し、保持上限を超えた古い行を削除する。
func (r *PostgresSchedulerLogRepo) Append(ctx context.Context, message, logType string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scheduler_log (message, log_type) VALUES ($1, $2)`,
		message, logType,
	)
	if err != nil {
		return fmt.Errorf("実行ログの追記に失敗しました: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`DELETE FROM scheduler_log
		 WHERE id NOT IN (
		   SELECT id FROM scheduler_log ORDER BY id DESC LIMIT $1
		 )`,
		model.SchedulerLogMaxEntries,
	)
	if err != nil {
		return fmt.Errorf("実行ログの整理に失敗しました: %w", err)
	}
	return nil
}

// List は新しい順にログを返す。
func (r *PostgresSchedulerLogRepo) List(ctx context.Context) ([]model.SchedulerLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT message, log_type, created_at
		 FROM scheduler_log ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("実行ログの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var entries []model.SchedulerLogEntry
	for rows.Next() {
		var e model.SchedulerLogEntry
		if err := rows.Scan(&e.Message, &e.Type, &e.Time); err != nil {
			return nil, fmt.Errorf("実行ログの読み取りに失敗しました: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("実行ログの走査に失敗しました: %w", err)
	}

	return entries, nil
}

// Clear は全ログを削除する。
func (r *PostgresSchedulerLogRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scheduler_log`)
	if err != nil {
		return fmt.Errorf("実行ログの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SchedulerLogRepository = (*PostgresSchedulerLogRepo)(nil)
