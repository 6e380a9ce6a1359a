package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	getBookingHandler "github.com/m04kA/SMC-AppointmentBot/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/m04kA/SMC-AppointmentBot/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/m04kA/SMC-AppointmentBot/internal/api/handlers/health"
	metaVerifyHandler "github.com/m04kA/SMC-AppointmentBot/internal/api/handlers/meta_verify"
	metaWebhookHandler "github.com/m04kA/SMC-AppointmentBot/internal/api/handlers/meta_webhook"
	telegramWebhookHandler "github.com/m04kA/SMC-AppointmentBot/internal/api/handlers/telegram_webhook"
	"github.com/m04kA/SMC-AppointmentBot/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentBot/internal/config"
	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/migrations"
	sessionRepo "github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/session"
	geminiClient "github.com/m04kA/SMC-AppointmentBot/internal/integrations/gemini"
	metaClient "github.com/m04kA/SMC-AppointmentBot/internal/integrations/meta"
	openaiClient "github.com/m04kA/SMC-AppointmentBot/internal/integrations/openai"
	sheetsMirror "github.com/m04kA/SMC-AppointmentBot/internal/integrations/sheets"
	telegramClient "github.com/m04kA/SMC-AppointmentBot/internal/integrations/telegram"
	bookingsService "github.com/m04kA/SMC-AppointmentBot/internal/service/bookings"
	dispatchService "github.com/m04kA/SMC-AppointmentBot/internal/service/dispatch"
	nluService "github.com/m04kA/SMC-AppointmentBot/internal/service/nlu"
	"github.com/m04kA/SMC-AppointmentBot/internal/service/ratelimit"
	processMessageUC "github.com/m04kA/SMC-AppointmentBot/internal/usecase/process_message"
	"github.com/m04kA/SMC-AppointmentBot/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentBot/pkg/logger"
	"github.com/m04kA/SMC-AppointmentBot/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentBot/pkg/sqlbuilder"
	"github.com/m04kA/SMC-AppointmentBot/pkg/txmanager"
)

func seconds(v int) time.Duration {
	return time.Duration(v) * time.Second
}

func main() {
	configPath := flag.String("config", "", "path to config.toml (default: $CONFIG_PATH or config.toml)")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentBot...")
	log.Info("Configuration loaded from %s", path)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	dialect, err := sqlbuilder.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatal("Unsupported database driver: %v", err)
	}

	if err := cfg.Database.EnsureDataDir(); err != nil {
		log.Fatal("Failed to prepare database directory: %v", err)
	}

	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(seconds(cfg.Database.ConnMaxLifetime))

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (driver=%s)", cfg.Database.Driver)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	if err := migrations.Apply(ctx, wrappedDB, dialect); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	required := cfg.Booking.Slots()
	log.Info("Required slots: %v", []string(required))

	// Инициализируем репозитории
	sessionRepository := sessionRepo.NewRepository(wrappedDB, dialect)
	bookingRepository := bookingRepo.NewRepository(wrappedDB, dialect)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Ограничитель частоты
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MaxRequests, seconds(cfg.RateLimit.WindowSeconds), log)
	limiter.StartEviction(seconds(cfg.RateLimit.EvictionInterval), stopCh)

	// Провайдер NLU
	var provider nluService.Provider
	switch cfg.NLU.Provider {
	case "gemini":
		gemini, err := geminiClient.NewClient(ctx, cfg.NLU.APIKey, cfg.NLU.Model)
		if err != nil {
			log.Fatal("Failed to create Gemini client: %v", err)
		}
		defer gemini.Close()
		provider = gemini
	default:
		provider = openaiClient.NewClient(openaiClient.Config{
			APIKey:  cfg.NLU.APIKey,
			BaseURL: cfg.NLU.BaseURL,
			Model:   cfg.NLU.Model,
			Timeout: seconds(cfg.NLU.Timeout),
		})
	}
	if cfg.NLU.APIKey == "" {
		log.Warn("NLU api key is empty, every message will get the default reply")
	}

	systemPrompt, err := nluService.LoadSystemPrompt(cfg.NLU.SystemPromptFile)
	if err != nil {
		log.Fatal("Failed to load NLU system prompt: %v", err)
	}

	nluGateway := nluService.NewGateway(provider, required, nluService.Config{
		Timeout:      seconds(cfg.NLU.Timeout),
		DefaultReply: cfg.Booking.DefaultReply,
		SystemPrompt: systemPrompt,
	}, metricsCollector, log)
	log.Info("NLU provider: %s (timeout=%ds)", cfg.NLU.Provider, cfg.NLU.Timeout)

	// Инициализируем интеграционных клиентов
	meta := metaClient.NewClient(
		cfg.Meta.GraphURL,
		cfg.Meta.PageAccessToken,
		cfg.Meta.IGBusinessID,
		seconds(cfg.Meta.Timeout),
		log,
	)
	telegram := telegramClient.NewClient(
		cfg.Telegram.APIURL,
		cfg.Telegram.BotToken,
		cfg.Telegram.MessagesPerSecond,
		seconds(cfg.Telegram.Timeout),
		log,
	)
	log.Info("Integration clients initialized (graph=%s, telegram=%s)", cfg.Meta.GraphURL, cfg.Telegram.APIURL)

	dispatcher := dispatchService.NewRouter(seconds(cfg.Dispatch.Timeout), metricsCollector, log).
		Register(domain.PlatformMessenger, meta.MessengerSender()).
		Register(domain.PlatformInstagram, meta.InstagramSender()).
		Register(domain.PlatformTelegram, telegram)

	// Зеркало в Google Sheets (nil, если не настроено)
	var mirror bookingsService.Mirror
	if cfg.Sheets.Enabled() {
		sheets, err := sheetsMirror.NewMirror(ctx, sheetsMirror.Config{
			SheetID:                  cfg.Sheets.SheetID,
			ServiceAccountFile:       cfg.Sheets.ServiceAccountFile,
			ServiceAccountJSONBase64: cfg.Sheets.ServiceAccountJSONBase64,
			Columns:                  required.Copy(),
		})
		if err != nil {
			log.Fatal("Failed to create Google Sheets mirror: %v", err)
		}
		mirror = sheets
		log.Info("Google Sheets mirror enabled (sheet=%s)", cfg.Sheets.SheetID)
	} else {
		log.Info("Google Sheets mirror disabled")
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		sessionRepository,
		txMgr,
		mirror,
		seconds(cfg.Sheets.Timeout),
		required,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	processMessageUseCase := processMessageUC.NewUseCase(
		limiter,
		sessionRepository,
		nluGateway,
		bookingSvc,
		dispatcher,
		required,
		processMessageUC.Templates{
			Confirm:        cfg.Booking.ConfirmTemplate,
			RateLimitReply: cfg.Booking.RateLimitReply,
		},
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	metaVerify := metaVerifyHandler.NewHandler(cfg.Meta.VerifyToken, log)
	metaWebhook := metaWebhookHandler.NewHandler(processMessageUseCase, log)
	telegramWebhook := telegramWebhookHandler.NewHandler(processMessageUseCase, log)
	health := healthHandler.NewHandler(wrappedDB, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// ============================================================
	// WEBHOOKS (подпись / секретный токен платформы)
	// ============================================================

	r.HandleFunc("/webhook/meta", metaVerify.Handle).Methods(http.MethodGet)
	r.Handle("/webhook/meta",
		middleware.MetaSignature(cfg.Meta.AppSecret, log)(http.HandlerFunc(metaWebhook.Handle)),
	).Methods(http.MethodPost)

	r.Handle("/webhook/telegram",
		middleware.TelegramSecret(cfg.Telegram.SecretToken, log)(http.HandlerFunc(telegramWebhook.Handle)),
	).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (Authorization: Bearer <admin.token>)
	// ============================================================

	if cfg.Admin.Token != "" {
		admin := r.PathPrefix("/api/v1").Subrouter()
		admin.Use(middleware.AdminAuth(cfg.Admin.Token, log))

		// Получение бронирования по ID
		admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

		// История бронирований пользователя платформы
		admin.HandleFunc("/users/{platform}/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

		log.Info("Admin API enabled")
	} else {
		log.Info("Admin API disabled (admin.token is empty)")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  seconds(cfg.Server.ReadTimeout),
		WriteTimeout: seconds(cfg.Server.WriteTimeout),
		IdleTimeout:  seconds(cfg.Server.IdleTimeout),
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи: сбор статистики pool и очистку лимитера
	close(stopCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), seconds(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
