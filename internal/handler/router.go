package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mgrega/lektori/internal/metrics"
	"github.com/mgrega/lektori/internal/middleware"
	"github.com/mgrega/lektori/internal/repository"
	"github.com/mgrega/lektori/internal/security"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	AdminToken        string
	Logger            *slog.Logger

	// サービス層
	ScheduleService   ScheduleServiceInterface
	LectorService     LectorServiceInterface
	AssignmentService AssignmentServiceInterface
	Dispatcher        DispatcherInterface

	// リポジトリ・インフラ
	SettingsRepo  repository.SettingsRepository
	LogRepo       repository.SchedulerLogRepository
	EndpointGuard security.EndpointGuardService
	DB            DBPinger

	// メトリクス
	Collector middleware.HTTPStatusRecorder
	Gatherer  prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → セキュリティヘッダー → リカバリー → ロギング → レート制限
//
// 変更系ルートには管理者トークン認可を追加で適用する。
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))

	scheduleHandler := NewScheduleHandler(deps.ScheduleService)
	lectorHandler := NewLectorHandler(deps.LectorService)
	assignHandler := NewAssignmentHandler(deps.AssignmentService)
	settingsHandler := NewSettingsHandler(deps.SettingsRepo, deps.EndpointGuard)
	reminderHandler := NewReminderHandler(deps.Dispatcher, deps.ScheduleService, deps.LogRepo)
	healthHandler := NewHealthHandler(deps.DB)

	adminAuth := middleware.NewAdminAuthMiddleware(deps.AdminToken)

	// --- レート制限の外のルート ---
	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// --- APIルート ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// スケジュール照会とオーバーライド編集
		r.Route("/api/schedule/{year}/{month}", func(r chi.Router) {
			r.Get("/", scheduleHandler.GetMonthSchedule)
			r.Get("/ics", scheduleHandler.ExportICS)

			// 変更系は管理者トークン必須
			r.Group(func(r chi.Router) {
				r.Use(adminAuth)
				r.Post("/overrides", scheduleHandler.AddMass)
				r.Post("/overrides/remove", scheduleHandler.RemoveMass)
				r.Post("/overrides/restore", scheduleHandler.RestoreMass)
				r.Put("/overrides/edit", scheduleHandler.EditMass)
				r.Delete("/overrides/{id}", scheduleHandler.DeleteAddedMass)
			})
		})

		// 朗読者管理
		r.Route("/api/lectors", func(r chi.Router) {
			r.Get("/", lectorHandler.ListLectors)

			r.Group(func(r chi.Router) {
				r.Use(adminAuth)
				r.Post("/", lectorHandler.CreateLector)
				r.Put("/{id}", lectorHandler.UpdateLector)
				r.Delete("/{id}", lectorHandler.DeleteLector)
			})
		})

		// 朗読割り当て
		r.Route("/api/assignments", func(r chi.Router) {
			r.Use(adminAuth)
			r.Put("/", assignHandler.Assign)
			r.Delete("/", assignHandler.Unassign)
		})

		// リマインダー設定
		r.Route("/api/settings", func(r chi.Router) {
			r.Use(adminAuth)
			r.Get("/", settingsHandler.GetSettings)
			r.Put("/", settingsHandler.UpdateSettings)
		})

		// リマインダー手動送信（外部API呼び出しを伴うため専用レート制限を追加）
		r.With(adminAuth, deps.RateLimiter.DispatchMiddleware()).
			Post("/api/reminders/send", reminderHandler.SendReminders)

		// 今後の朗読予定と診断ログ
		r.Get("/api/reminders/upcoming", reminderHandler.UpcomingReadings)
		r.With(adminAuth).Get("/api/scheduler/log", reminderHandler.SchedulerLog)
	})

	return r
}
