package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Spok95/smartschool/internal/app"
	"github.com/Spok95/smartschool/internal/auth"
	"github.com/Spok95/smartschool/internal/clock"
	"github.com/Spok95/smartschool/internal/config"
	"github.com/Spok95/smartschool/internal/db"
	"github.com/Spok95/smartschool/internal/jobs"
	"github.com/Spok95/smartschool/internal/logging"
	"github.com/Spok95/smartschool/internal/observability"
	"github.com/Spok95/smartschool/internal/period"
	"github.com/Spok95/smartschool/internal/schedule"
)

var version = "dev"

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()
	logger := lg.Base

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Ошибка подключения к БД", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Миграция не удалась", zap.Error(err))
	}
	if cfg.SeedDefaultPeriods {
		term := cfg.AcademicTerm
		if term == "" {
			term = schedule.AcademicTerm(time.Now().In(cfg.Location))
		}
		n, err := db.SeedDefaultPeriods(ctx, database, cfg.SchoolCode, term)
		if err != nil {
			logger.Error("seed periods", zap.Error(err))
		} else if n > 0 {
			logger.Info("default bell schedule seeded", zap.Int("periods", n))
		}
	}
	store := db.NewStore(database)

	var src clock.TimeSource
	if cfg.TimeSourceURL != "" {
		src = clock.NewHTTPSource(cfg.TimeSourceURL, cfg.TimeSourceToken, 5*time.Second)
	}
	clk := clock.New(src, logger)

	joiner := &schedule.Joiner{
		Resolver:  period.NewResolver(logger),
		Clock:     clk,
		Location:  cfg.Location,
		Precision: cfg.Precision,
		Roster:    store,
		Log:       logger,
	}

	var notifier app.Notifier
	if cfg.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			logger.Error("Ошибка запуска бота, уведомления отключены", zap.Error(err))
		} else {
			logger.Info("Бот запущен", zap.String("username", bot.Self.UserName))
			notifier = app.NewTelegramNotifier(bot, cfg.TeacherChats)
		}
	}

	var tracker *app.Tracker
	if len(cfg.TrackedTeachers) > 0 {
		tracker = app.NewTracker(joiner, store, app.TrackerOptions{
			School:        cfg.SchoolCode,
			Term:          cfg.AcademicTerm,
			Teachers:      cfg.TrackedTeachers,
			RosterTimeout: cfg.RosterTimeout,
			Notifier:      notifier,
			Log:           logger,
		})
	}

	startJobs(ctx, logger, cfg, clk, tracker)

	app.StartHTTP(ctx, cfg.HTTPAddr, app.Deps{
		Store:         store,
		Joiner:        joiner,
		Auth:          auth.NewJWTService(cfg.JWTSecret, "smartschool"),
		Tracker:       tracker,
		Log:           logger,
		LogLevel:      lg.Level,
		SchoolCode:    cfg.SchoolCode,
		AcademicTerm:  cfg.AcademicTerm,
		RosterTimeout: cfg.RosterTimeout,
	})
	logger.Info("smartschool started",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("school", cfg.SchoolCode),
		zap.String("term", termOrAuto(cfg.AcademicTerm)),
		zap.String("tz", cfg.Location.String()),
		zap.Stringer("precision", cfg.Precision),
		zap.Int("tracked_teachers", len(cfg.TrackedTeachers)))

	<-ctx.Done()
	logger.Info("shutting down")
	if tracker != nil {
		tracker.Wait()
	}
}

func termOrAuto(term string) string {
	if term == "" {
		return "auto"
	}
	return term
}

type synchronizer interface {
	Synchronize(ctx context.Context)
}

// startJobs: часы и расписание загружаются синхронно, затем запускаются
// периодические задачи; первый тик уже видит загруженное расписание.
func startJobs(ctx context.Context, logger *zap.Logger, cfg *config.Config, clk synchronizer, tracker *app.Tracker) *jobs.Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk.Synchronize(ctx)
	runner := jobs.New(ctx, logger)
	runner.Every(cfg.ClockSyncInterval, "clock-sync", false, func(ctx context.Context) error {
		clk.Synchronize(ctx)
		return nil
	})
	if tracker == nil {
		return runner
	}
	if err := tracker.Reload(ctx); err != nil {
		logger.Error("initial schedule load failed", zap.Error(err))
	}
	runner.Every(cfg.ReloadInterval, "schedule-reload", false, tracker.Reload)
	runner.Every(cfg.ResolveInterval, "resolve-tick", true, tracker.Tick)
	return runner
}
