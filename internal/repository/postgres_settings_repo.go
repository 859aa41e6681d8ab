package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mgrega/lektori/internal/model"
)

// PostgresSettingsRepo はPostgreSQLを使用した設定リポジトリ。
// 設定はid=1の単一行で保持される。
type PostgresSettingsRepo struct {
	db *sql.DB
}

// NewPostgresSettingsRepo はPostgresSettingsRepoを生成する。
func NewPostgresSettingsRepo(db *sql.DB) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{db: db}
}

// Load は現在の設定を取得する。行が無い場合は既定値を返す。
func (r *PostgresSettingsRepo) Load(ctx context.Context) (model.ReminderSettings, error) {
	var s model.ReminderSettings
	err := r.db.QueryRowContext(ctx,
		`SELECT whatsapp_enabled, email_enabled, auto_scheduler_enabled,
		        sunday_reminder_time, weekday_reminder_time,
		        emailjs_service_id, emailjs_template_id, emailjs_public_key, email_endpoint
		 FROM settings WHERE id = 1`,
	).Scan(
		&s.WhatsAppEnabled, &s.EmailEnabled, &s.AutoSchedulerEnabled,
		&s.SundayReminderTime, &s.WeekdayReminderTime,
		&s.EmailJSServiceID, &s.EmailJSTemplateID, &s.EmailJSPublicKey, &s.EmailEndpoint,
	)

	if err == sql.ErrNoRows {
		return model.DefaultReminderSettings(), nil
	}
	if err != nil {
		return model.ReminderSettings{}, fmt.Errorf("設定の取得に失敗しました: %w", err)
	}
	return s, nil
}

// Save は設定を上書き保存する。
func (r *PostgresSettingsRepo) Save(ctx context.Context, settings model.ReminderSettings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (id, whatsapp_enabled, email_enabled, auto_scheduler_enabled,
		                       sunday_reminder_time, weekday_reminder_time,
		                       emailjs_service_id, emailjs_template_id, emailjs_public_key, email_endpoint)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		    whatsapp_enabled = EXCLUDED.whatsapp_enabled,
		    email_enabled = EXCLUDED.email_enabled,
		    auto_scheduler_enabled = EXCLUDED.auto_scheduler_enabled,
		    sunday_reminder_time = EXCLUDED.sunday_reminder_time,
		    weekday_reminder_time = EXCLUDED.weekday_reminder_time,
		    emailjs_service_id = EXCLUDED.emailjs_service_id,
		    emailjs_template_id = EXCLUDED.emailjs_template_id,
		    emailjs_public_key = EXCLUDED.emailjs_public_key,
		    email_endpoint = EXCLUDED.email_endpoint,
		    updated_at = now()`,
		settings.WhatsAppEnabled, settings.EmailEnabled, settings.AutoSchedulerEnabled,
		settings.SundayReminderTime, settings.WeekdayReminderTime,
		settings.EmailJSServiceID, settings.EmailJSTemplateID, settings.EmailJSPublicKey, settings.EmailEndpoint,
	)
	if err != nil {
		return fmt.Errorf("設定の保存に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SettingsRepository = (*PostgresSettingsRepo)(nil)
