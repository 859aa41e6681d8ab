// Package cleanup は送信済みリマインダーマーカーの自動削除ジョブを提供する。
// 保持期間（デフォルト7日）を超過したマーカーを日次バッチで削除する。
// マーカーはミサの前日に記録されるため、7日で十分に二重送信を防げる。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mgrega/lektori/internal/repository"
)

// CleanupJob は保持期間を超過した送信済みマーカーの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	sentRepo      repository.SentReminderRepository
	logger        *slog.Logger
	now           func() time.Time
	RetentionDays int // マーカーの保持日数（デフォルト: 7）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// デフォルトの保持日数は7日。
func NewCleanupJob(sentRepo repository.SentReminderRepository, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		sentRepo:      sentRepo,
		logger:        logger,
		now:           time.Now,
		RetentionDays: 7,
	}
}

// Run は保持期間を超過したマーカーを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	cutoff := j.now().AddDate(0, 0, -j.RetentionDays)
	deletedCount, err := j.sentRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("マーカークリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("マーカークリーンアップの実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("マーカークリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// StartDaily は24時間間隔でクリーンアップを繰り返す。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *CleanupJob) StartDaily(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	// 起動直後に1回実行
	if err := j.Run(ctx); err != nil {
		j.logger.Error("クリーンアップの実行に失敗しました", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("クリーンアップジョブを停止しました")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("クリーンアップの実行に失敗しました", slog.String("error", err.Error()))
			}
		}
	}
}
