package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers/get_available_slots"
	getMeetingStatusHandler "github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers/get_meeting_status"
	getScheduleHandler "github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers/get_schedule"
	rescheduleAppointmentHandler "github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers/reschedule_appointment"
	updateScheduleHandler "github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers/update_schedule"
	zoomWebhookHandler "github.com/dkorchagin/TMC-AppointmentService/internal/api/handlers/zoom_webhook"
	"github.com/dkorchagin/TMC-AppointmentService/internal/api/middleware"
	"github.com/dkorchagin/TMC-AppointmentService/internal/config"
	appointmentRepo "github.com/dkorchagin/TMC-AppointmentService/internal/infra/storage/appointment"
	availabilityRepo "github.com/dkorchagin/TMC-AppointmentService/internal/infra/storage/availability"
	doctorDirectoryClient "github.com/dkorchagin/TMC-AppointmentService/internal/integrations/doctordirectory"
	"github.com/dkorchagin/TMC-AppointmentService/internal/integrations/identity"
	zoomClient "github.com/dkorchagin/TMC-AppointmentService/internal/integrations/zoomapi"
	appointmentsService "github.com/dkorchagin/TMC-AppointmentService/internal/service/appointments"
	meetingEventsService "github.com/dkorchagin/TMC-AppointmentService/internal/service/meetingevents"
	scheduleService "github.com/dkorchagin/TMC-AppointmentService/internal/service/schedule"
	createAppointmentUC "github.com/dkorchagin/TMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/dkorchagin/TMC-AppointmentService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/dkorchagin/TMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/dbmetrics"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/logger"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/metrics"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/simpletxmanager"
	"github.com/dkorchagin/TMC-AppointmentService/pkg/txmanager"
)

// TxManager объединяет режимы транзакций, нужные сервисам и usecase
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting TMC-AppointmentService...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	doctorClient := doctorDirectoryClient.NewClient(
		cfg.DoctorDirectory.URL,
		time.Duration(cfg.DoctorDirectory.Timeout)*time.Second,
		log,
	)
	meetingsClient := zoomClient.NewClient(
		cfg.Zoom.ClientID,
		cfg.Zoom.ClientSecret,
		cfg.Zoom.AccountID,
		time.Duration(cfg.Zoom.Timeout)*time.Second,
		log,
	)
	tokenVerifier := identity.NewVerifier(cfg.Identity.JWTSecret)
	log.Info("Integration clients initialized (DoctorDirectory=%s timeout=%ds, Zoom timeout=%ds)",
		cfg.DoctorDirectory.URL, cfg.DoctorDirectory.Timeout, cfg.Zoom.Timeout)

	// Инициализируем репозитории и менеджер транзакций (с метриками или без)
	var (
		appointmentRepository  *appointmentRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		txMgr                  TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, meetingsClient, log)
	scheduleSvc := scheduleService.NewService(availabilityRepository, txMgr, log)
	meetingEventsSvc := meetingEventsService.NewService(appointmentRepository, txMgr, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		doctorClient,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		doctorClient,
		meetingsClient,
		txMgr,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		meetingsClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getMeetingStatus := getMeetingStatusHandler.NewHandler(appointmentsSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	zoomWebhook := zoomWebhookHandler.NewHandler(meetingEventsSvc, cfg.Zoom.WebhookSecret, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты врача на дату
	api.HandleFunc("/doctors/{doctorId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Недельное расписание врача
	api.HandleFunc("/doctors/{doctorId}/schedule",
		getSchedule.Handle).Methods(http.MethodGet)

	// Webhook провайдера видеовстреч (аутентификация по подписи)
	api.HandleFunc("/webhooks/zoom", zoomWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokenVerifier, log))

	// --- Записи на приём ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/meeting", getMeetingStatus.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (для врачей) ---
	protected.HandleFunc("/doctors/{doctorId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
