package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mgrega/lektori/internal/liturgical"
	"github.com/mgrega/lektori/internal/metrics"
	"github.com/mgrega/lektori/internal/model"
	"github.com/mgrega/lektori/internal/repository"
)

// チャネル名。メトリクスのラベルとしても使われる。
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

// ScheduleSource は対象月の合成済みスケジュールを提供するインターフェース。
type ScheduleSource interface {
	MonthSchedule(ctx context.Context, year int, month time.Month) ([]model.MassEntry, error)
}

// EmailSender はリマインダーメール送信のインターフェース。
type EmailSender interface {
	Send(ctx context.Context, settings model.ReminderSettings, entry model.MassEntry, reading int, lector model.Lector) error
}

// Outcome は1件のリマインダーの1チャネルでの結果。
type Outcome struct {
	Key     model.SentReminderKey
	Channel string
	Status  string // "sent" または "failed"
	Link    string // WhatsAppリンク（whatsappチャネルのみ）
	Error   string
}

// Result は1回の配信実行の集計結果。
// Sentは少なくとも1チャネルで送信できたリマインダー数、
// Skippedは送信済みマーカーで抑止された数、Failedは全チャネルで失敗した数。
type Result struct {
	Date     string
	Sent     int
	Skipped  int
	Failed   int
	Outcomes []Outcome
}

// Dispatcher は翌日のミサの朗読者にリマインダーを配信する。
type Dispatcher struct {
	schedule     ScheduleSource
	assignRepo   repository.AssignmentRepository
	lectorRepo   repository.LectorRepository
	settingsRepo repository.SettingsRepository
	sentRepo     repository.SentReminderRepository
	logRepo      repository.SchedulerLogRepository
	email        EmailSender
	collector    metrics.MetricsCollector
	logger       *slog.Logger
	now          func() time.Time
}

// NewDispatcher はDispatcherの新しいインスタンスを生成する。
func NewDispatcher(
	schedule ScheduleSource,
	assignRepo repository.AssignmentRepository,
	lectorRepo repository.LectorRepository,
	settingsRepo repository.SettingsRepository,
	sentRepo repository.SentReminderRepository,
	logRepo repository.SchedulerLogRepository,
	email EmailSender,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		schedule:     schedule,
		assignRepo:   assignRepo,
		lectorRepo:   lectorRepo,
		settingsRepo: settingsRepo,
		sentRepo:     sentRepo,
		logRepo:      logRepo,
		email:        email,
		collector:    collector,
		logger:       logger,
		now:          time.Now,
	}
}

// RunScheduled はトリガー判定つきの配信実行。ワーカーが毎分呼び出す。
// 自動スケジューラが無効な場合、または現在時刻が設定された送信時刻と
// 一致しない場合は何もせずfalseを返す。手動送信はこの判定を通らない。
func (d *Dispatcher) RunScheduled(ctx context.Context, now time.Time) (Result, bool, error) {
	settings, err := d.settingsRepo.Load(ctx)
	if err != nil {
		return Result{}, false, fmt.Errorf("設定の取得に失敗しました: %w", err)
	}

	targetDate, fire := ShouldFireNow(now, settings)
	if !settings.AutoSchedulerEnabled || !fire {
		return Result{Date: targetDate}, false, nil
	}

	result, err := d.dispatch(ctx, targetDate, settings)
	return result, true, err
}

// DispatchForDate は指定日のリマインダーを即時配信する。手動送信APIが使用する。
func (d *Dispatcher) DispatchForDate(ctx context.Context, date string) (Result, error) {
	settings, err := d.settingsRepo.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("設定の取得に失敗しました: %w", err)
	}
	return d.dispatch(ctx, date, settings)
}

func (d *Dispatcher) dispatch(ctx context.Context, date string, settings model.ReminderSettings) (Result, error) {
	result := Result{Date: date}
	d.collector.RecordDispatchRun()

	parsed, err := liturgical.ParseDate(date)
	if err != nil {
		return result, model.NewInvalidDateError(date)
	}

	entries, err := d.schedule.MonthSchedule(ctx, parsed.Year(), parsed.Month())
	if err != nil {
		return result, fmt.Errorf("スケジュールの取得に失敗しました: %w", err)
	}
	masses := liturgical.EntriesForDate(entries, date)
	if len(masses) == 0 {
		d.appendLog(ctx, fmt.Sprintf("Na %s nie sú naplánované žiadne sväté omše.", date), "info")
		return result, nil
	}

	assignments, err := d.assignRepo.ListByDates(ctx, []string{date})
	if err != nil {
		return result, fmt.Errorf("割り当ての取得に失敗しました: %w", err)
	}

	for _, entry := range masses {
		for reading := 1; reading <= entry.Readings; reading++ {
			name := assignments[model.AssignmentKey{Date: entry.Date, Time: entry.Time, Reading: reading}]
			if name == "" {
				continue
			}
			d.dispatchOne(ctx, settings, entry, reading, name, &result)
		}
	}

	d.appendLog(ctx, fmt.Sprintf(
		"Pripomienky na %s: %d odoslaných, %d preskočených, %d zlyhaní.",
		date, result.Sent, result.Skipped, result.Failed,
	), summaryLogType(result))

	d.logger.Info("リマインダー配信が完了しました",
		slog.String("date", date),
		slog.Int("sent", result.Sent),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

// dispatchOne は1つの朗読スロットのリマインダーを配信する。
// 送信済みキーはスキップし、送信前に楽観的にマーカーを記録する。
// マーカー記録後の失敗は再送されない（二重送信より未達を許容する）。
func (d *Dispatcher) dispatchOne(ctx context.Context, settings model.ReminderSettings, entry model.MassEntry, reading int, lectorName string, result *Result) {
	key := model.SentReminderKey{
		Date:       entry.Date,
		Time:       entry.Time,
		Reading:    reading,
		LectorName: lectorName,
	}

	sent, err := d.sentRepo.IsSent(ctx, key)
	if err != nil {
		d.logger.Error("送信済みマーカーの確認に失敗しました", slog.String("error", err.Error()))
		result.Failed++
		return
	}
	if sent {
		d.collector.RecordReminderSkipped()
		result.Skipped++
		return
	}

	if err := d.sentRepo.MarkSent(ctx, key, d.now()); err != nil {
		d.logger.Error("送信済みマーカーの記録に失敗しました", slog.String("error", err.Error()))
		result.Failed++
		return
	}

	lector, err := d.lectorRepo.FindByName(ctx, lectorName)
	if err != nil {
		d.logger.Error("朗読者の取得に失敗しました", slog.String("error", err.Error()))
	}
	if lector == nil {
		// 連絡先が登録されていない名前でも割り当ては有効。名前のみで進める
		lector = &model.Lector{Name: lectorName}
	}

	delivered := false

	if settings.WhatsAppEnabled {
		outcome := Outcome{Key: key, Channel: ChannelWhatsApp}
		link := BuildWhatsAppLink(lector.Phone, ComposeMessage(entry, reading, lector.Name))
		if link == "" {
			outcome.Status = "failed"
			outcome.Error = "chýba telefónne číslo"
			d.collector.RecordReminderFailure(ChannelWhatsApp)
		} else {
			outcome.Status = "sent"
			outcome.Link = link
			delivered = true
			d.collector.RecordReminderSent(ChannelWhatsApp)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if settings.EmailEnabled {
		outcome := Outcome{Key: key, Channel: ChannelEmail}
		if err := d.email.Send(ctx, settings, entry, reading, *lector); err != nil {
			outcome.Status = "failed"
			outcome.Error = err.Error()
			d.collector.RecordReminderFailure(ChannelEmail)
			d.logger.Error("メールリマインダーの送信に失敗しました",
				slog.String("lector", lector.Name),
				slog.String("error", err.Error()),
			)
		} else {
			outcome.Status = "sent"
			delivered = true
			d.collector.RecordReminderSent(ChannelEmail)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if delivered {
		result.Sent++
	} else {
		result.Failed++
		d.appendLog(ctx, fmt.Sprintf(
			"Pripomienku pre %s (%s o %s, %d. čítanie) sa nepodarilo doručiť.",
			lectorName, entry.Date, entry.Time, reading,
		), "error")
	}
}

// appendLog は診断ログに1行追記する。ログの失敗は配信を止めない。
func (d *Dispatcher) appendLog(ctx context.Context, message, logType string) {
	if err := d.logRepo.Append(ctx, message, logType); err != nil {
		d.logger.Error("実行ログの追記に失敗しました", slog.String("error", err.Error()))
	}
}

func summaryLogType(r Result) string {
	switch {
	case r.Failed > 0:
		return "warning"
	case r.Sent > 0:
		return "success"
	default:
		return "info"
	}
}
