package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/mgrega/lektori/internal/config"
	"github.com/mgrega/lektori/internal/database"
	"github.com/mgrega/lektori/internal/handler"
	"github.com/mgrega/lektori/internal/lector"
	"github.com/mgrega/lektori/internal/logger"
	"github.com/mgrega/lektori/internal/metrics"
	"github.com/mgrega/lektori/internal/middleware"
	"github.com/mgrega/lektori/internal/reminder"
	"github.com/mgrega/lektori/internal/repository"
	"github.com/mgrega/lektori/internal/schedule"
	"github.com/mgrega/lektori/internal/security"
	"github.com/mgrega/lektori/internal/worker/cleanup"
	"github.com/mgrega/lektori/internal/worker/remind"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	overrideRepo := repository.NewPostgresOverrideRepo(db)
	assignRepo := repository.NewPostgresAssignmentRepo(db)
	lectorRepo := repository.NewPostgresLectorRepo(db)
	settingsRepo := repository.NewPostgresSettingsRepo(db)
	sentRepo := repository.NewPostgresSentReminderRepo(db)
	logRepo := repository.NewPostgresSchedulerLogRepo(db)

	// 3. セキュリティサービスの初期化
	endpointGuard := security.NewEndpointGuard()
	sanitizer := security.NewTextSanitizer()

	// 4. メトリクスとドメインサービスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	scheduleService := schedule.NewService(overrideRepo, assignRepo, sanitizer, collector)
	lectorService := lector.NewService(lectorRepo, assignRepo, sanitizer)

	// 5. リマインダー配信の初期化
	emailClient := reminder.NewEmailClient(
		endpointGuard.NewSafeClient(cfg.EmailTimeout), endpointGuard, slog.Default(),
	)
	dispatcher := reminder.NewDispatcher(
		scheduleService, assignRepo, lectorRepo, settingsRepo, sentRepo, logRepo,
		emailClient, collector, slog.Default(),
	)

	// 6. ルーターの構築
	rateLimiterCfg := middleware.RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(cfg.RateLimitGeneral) / 60.0),
		GeneralBurst:    cfg.RateLimitGeneral,
		DispatchRate:    rate.Limit(float64(cfg.RateLimitDispatch) / 60.0),
		DispatchBurst:   cfg.RateLimitDispatch,
		CleanupInterval: 5 * time.Minute,
	}

	deps := &handler.RouterDeps{
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       middleware.NewRateLimiter(rateLimiterCfg),
		AdminToken:        cfg.AdminToken,
		Logger:            slog.Default(),

		ScheduleService:   scheduleService,
		LectorService:     lectorService,
		AssignmentService: lectorService,
		Dispatcher:        dispatcher,

		SettingsRepo:  settingsRepo,
		LogRepo:       logRepo,
		EndpointGuard: endpointGuard,
		DB:            db,

		Collector: collector,
		Gatherer:  registry,
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// DB接続を開き、リマインダースケジューラとクリーンアップジョブを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. リポジトリの初期化
	overrideRepo := repository.NewPostgresOverrideRepo(db)
	assignRepo := repository.NewPostgresAssignmentRepo(db)
	lectorRepo := repository.NewPostgresLectorRepo(db)
	settingsRepo := repository.NewPostgresSettingsRepo(db)
	sentRepo := repository.NewPostgresSentReminderRepo(db)
	logRepo := repository.NewPostgresSchedulerLogRepo(db)

	// 3. リマインダー配信の初期化
	endpointGuard := security.NewEndpointGuard()
	sanitizer := security.NewTextSanitizer()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	scheduleService := schedule.NewService(overrideRepo, assignRepo, sanitizer, collector)

	emailClient := reminder.NewEmailClient(
		endpointGuard.NewSafeClient(cfg.EmailTimeout), endpointGuard, slog.Default(),
	)
	dispatcher := reminder.NewDispatcher(
		scheduleService, assignRepo, lectorRepo, settingsRepo, sentRepo, logRepo,
		emailClient, collector, slog.Default(),
	)

	// 4. スケジューラとクリーンアップジョブの初期化
	scheduler := remind.NewScheduler(dispatcher, slog.Default())
	cleanupJob := cleanup.NewCleanupJob(sentRepo, slog.Default())
	cleanupJob.RetentionDays = cfg.SentRetentionDays

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("check_interval", cfg.ReminderCheckInterval),
		slog.Int("sent_retention_days", cfg.SentRetentionDays),
	)

	// クリーンアップジョブを日次でバックグラウンド実行
	go cleanupJob.StartDaily(ctx)

	// リマインダースケジューラをメインgoroutineで実行（ブロッキング）
	scheduler.Start(ctx, cfg.ReminderCheckInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, err := database.Version(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration verification failed: %w", err)
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("schema_version", uint64(version)),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
