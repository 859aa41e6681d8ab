// Package remind はリマインダー配信のバックグラウンドワーカーを提供する。
// 毎分のティッカーでトリガー判定つき配信を実行する。
package remind

import (
	"context"
	"log/slog"
	"time"

	"github.com/mgrega/lektori/internal/reminder"
)

// DispatchRunner はトリガー判定つき配信のインターフェース。
type DispatchRunner interface {
	// RunScheduled は現在時刻が設定された送信時刻と一致する場合のみ配信する。
	RunScheduled(ctx context.Context, now time.Time) (reminder.Result, bool, error)
}

// Scheduler はリマインダー配信のスケジューラ。
// 送信時刻はHH:MMの完全一致で判定されるため、ティック間隔は1分以下にすること。
type Scheduler struct {
	dispatcher DispatchRunner
	logger     *slog.Logger
	now        func() time.Time
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
func NewScheduler(dispatcher DispatchRunner, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Start は指定間隔のティッカーでスケジューラを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("リマインダースケジューラを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回判定
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("リマインダースケジューラを停止しました")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce はトリガー判定つき配信を1回実行する。
// 配信エラーはログに記録し、スケジューラ自体は止めない。
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.now()
	result, fired, err := s.dispatcher.RunScheduled(ctx, now)
	if err != nil {
		s.logger.Error("リマインダー配信に失敗しました",
			slog.String("error", err.Error()),
		)
		return
	}
	if !fired {
		return
	}

	s.logger.Info("リマインダー配信サイクルが完了しました",
		slog.String("target_date", result.Date),
		slog.Int("sent", result.Sent),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)
}
