package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"legacy-scheduler/internal/api/http/handler"
	"legacy-scheduler/internal/api/http/route"
	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/config"
	"legacy-scheduler/internal/model"
	"legacy-scheduler/internal/msg/outbox"
	"legacy-scheduler/internal/ratelimit"
	"legacy-scheduler/internal/repository"
	"legacy-scheduler/internal/service"
	"legacy-scheduler/internal/sweep"
	"legacy-scheduler/pkg/kafka"
	"legacy-scheduler/pkg/mailer"
	"legacy-scheduler/pkg/postgres"
	"legacy-scheduler/pkg/redis"
	"legacy-scheduler/pkg/server"
)

type MessageRepository interface {
	InsertMessage(ctx context.Context, ext repository.RepoExtension, msg *model.Message) error
	SelectMessageByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Message, error)
	SelectMessagesByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, limit, offset int) ([]model.Message, error)
	UpdateMessage(ctx context.Context, ext repository.RepoExtension, msg *model.Message) error
	DeleteMessage(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
	SelectDueBatch(ctx context.Context, ext repository.RepoExtension, now time.Time, grace time.Duration, batchSize int) ([]model.Message, error)
	ClaimMessage(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, now time.Time, grace time.Duration) error
	UpdateTerminalStatus(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, status model.MessageStatus, lastError *string, claimedAt, now time.Time) error
}

type MessageService interface {
	Create(ctx context.Context, req *model.MessageCreateRequest) (*model.Message, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Message, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Message, error)
	Update(ctx context.Context, id uuid.UUID, req *model.MessageUpdateRequest) (*model.Message, error)
	CancelSchedule(ctx context.Context, id uuid.UUID) (*model.Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MessageHandler interface {
	CreateMessage(c *gin.Context)
	GetMessage(c *gin.Context)
	ListMessages(c *gin.Context)
	UpdateMessage(c *gin.Context)
	CancelMessageSchedule(c *gin.Context)
	DeleteMessage(c *gin.Context)
}

type RecipientRepository interface {
	InsertRecipient(ctx context.Context, ext repository.RepoExtension, rcpt *model.Recipient) error
	SelectRecipientByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Recipient, error)
	SelectRecipientsByIDs(ctx context.Context, ext repository.RepoExtension, ids []uuid.UUID) ([]model.Recipient, error)
	SelectRecipientsByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, limit, offset int) ([]model.Recipient, error)
	UpdateRecipient(ctx context.Context, ext repository.RepoExtension, rcpt *model.Recipient) error
	DeleteRecipient(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type RecipientService interface {
	Create(ctx context.Context, req *model.RecipientCreateRequest) (*model.Recipient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Recipient, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Recipient, error)
	Update(ctx context.Context, id uuid.UUID, req *model.RecipientUpdateRequest) (*model.Recipient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RecipientHandler interface {
	CreateRecipient(c *gin.Context)
	GetRecipient(c *gin.Context)
	ListRecipients(c *gin.Context)
	UpdateRecipient(c *gin.Context)
	DeleteRecipient(c *gin.Context)
}

type SweepService interface {
	RunSweep(ctx context.Context, now time.Time) (model.SweepSummary, error)
}

type SweepHandler interface {
	RunSweep(c *gin.Context)
	SweepStatus(c *gin.Context)
	StartRunner(c *gin.Context)
	StopRunner(c *gin.Context)
}

type HealthRepository interface {
	IsOK(ctx context.Context) (bool, error)
}

type HealthService interface {
	IsOK(ctx context.Context) (bool, error)
}

type HealthHandler interface {
	Ping(c *gin.Context)
	Health(c *gin.Context)
}

type OutboxRepository interface {
	InsertEvent(ctx context.Context, ext repository.RepoExtension, event model.OutboxEvent) error
	UpdateAsSent(ctx context.Context, ext repository.RepoExtension, eventID uuid.UUID) error
	SelectUnsentBatch(ctx context.Context, ext repository.RepoExtension, batchSize int) ([]model.OutboxEvent, error)
}

type Publisher interface {
	Run(ctx context.Context)
}

type App struct {
	Cfg        *config.Config
	Log        *zap.Logger
	Handler    *Handler
	Service    *Service
	DB         postgres.Postgres
	RDB        redis.Redis
	Mailer     mailer.Mailer
	HTTPServer server.HTTPServer
	Runner     *sweep.Runner
	EBus       *EBus
}

type Repository struct {
	MessageRepository   MessageRepository
	RecipientRepository RecipientRepository
	OutboxRepository    OutboxRepository
	HealthRepository    HealthRepository
	TxManager           *repository.TxManager
}

type Service struct {
	MessageService   MessageService
	RecipientService RecipientService
	SweepService     SweepService
	HealthService    HealthService
}

type Handler struct {
	MessageHandler   MessageHandler
	RecipientHandler RecipientHandler
	SweepHandler     SweepHandler
	HealthHandler    HealthHandler
}

type EBus struct {
	AuditPublisher Publisher
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := initDB(&cfg.Database)
	if err != nil {
		log.Error("Failed to initialize database", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := initRedis(&cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize redis", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	mlr, err := initMailer(log, &cfg.Mailer)
	if err != nil {
		log.Error("Failed to initialize mailer", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	repo := initRepository(log, db)

	svc := initService(log, cfg, repo, mlr)

	runner := sweep.NewRunner(log, svc.SweepService, cfg.Sweep.Interval)

	hdl := initHandler(log, svc, runner)

	limiter := initLimiter(cfg, rdb)

	httpServer := initHTTPServer(log, cfg, limiter, hdl)

	eBus, err := initEBus(log, &cfg.Kafka, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ebus: %w", err)
	}

	return &App{
		Cfg:        cfg,
		Log:        log,
		Handler:    hdl,
		Service:    svc,
		DB:         db,
		RDB:        rdb,
		Mailer:     mlr,
		HTTPServer: httpServer,
		Runner:     runner,
		EBus:       eBus,
	}, nil
}

func MustNew(cfg *config.Config, log *zap.Logger) *App {
	app, err := New(cfg, log)
	if err != nil {
		panic(err)
	}
	return app
}

func (a *App) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	defer close(errs)

	go func() {
		if err := a.HTTPServer.Run(); err != nil {
			errs <- err
		}
	}()

	go func() {
		a.EBus.AuditPublisher.Run(ctx)
	}()

	if a.Cfg.Sweep.AutoStart {
		a.Runner.Start(ctx)
	}

	if err := <-errs; err != nil {
		return err
	}

	return nil
}

func (a *App) Shutdown() error {
	a.Runner.Stop()
	a.Log.Debug("Sweep runner stopped")

	a.DB.Close()
	a.Log.Debug("Database closed")

	err := apperrors.ErrShutdown

	if rdbErr := a.RDB.Close(); rdbErr != nil {
		err = fmt.Errorf("%w, failed to close RDB: %w", err, rdbErr)
	}

	a.Log.Debug("Redis closed")

	if srvErr := a.HTTPServer.Shutdown(); srvErr != nil {
		err = fmt.Errorf("%w, failed to shutdown http server: %w", err, srvErr)
	}

	a.Log.Debug("Http server shutdown")

	if !errors.Is(err, apperrors.ErrShutdown) {
		return err
	}

	return nil
}

func initDB(cfg *config.Database) (postgres.Postgres, error) {
	postgresCfg := &postgres.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Name:     cfg.Name,
		SSLMode:  cfg.SSLMode,
		MaxConns: cfg.MaxConns,
		MinConns: cfg.MinConns,
		Migration: postgres.Migration{
			Path:      cfg.Migration.Path,
			AutoApply: cfg.Migration.AutoApply,
		},
	}

	db, err := postgres.New(postgresCfg)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func initRedis(cfg *config.Redis) (redis.Redis, error) {
	redisCfg := &redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	rdb, err := redis.New(redisCfg)
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func initMailer(log *zap.Logger, cfg *config.Mailer) (mailer.Mailer, error) {
	mailerCfg := &mailer.Config{
		Provider:    cfg.Provider,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		From:        cfg.From,
		UseTLS:      cfg.UseTLS,
		SendTimeout: cfg.SendTimeout,
	}

	mlr, err := mailer.New(mailerCfg)
	if err != nil {
		return nil, err
	}

	log.Debug("Mailer initialized", zap.String("provider", cfg.Provider))
	return mlr, nil
}

func initRepository(log *zap.Logger, db postgres.Postgres) *Repository {
	messageRepo := repository.NewMessageRepository(db.Pool())
	log.Debug("Message repository initialized")

	recipientRepo := repository.NewRecipientRepository(db.Pool())
	log.Debug("Recipient repository initialized")

	outboxRepo := repository.NewOutboxRepository(db.Pool())
	log.Debug("Outbox repository initialized")

	healthRepo := repository.NewHealthRepository(db.Pool())
	log.Debug("Health repository initialized")

	txManager := repository.NewTxManager(db.Pool())
	log.Debug("Transaction manager initialized")

	return &Repository{
		MessageRepository:   messageRepo,
		RecipientRepository: recipientRepo,
		OutboxRepository:    outboxRepo,
		HealthRepository:    healthRepo,
		TxManager:           txManager,
	}
}

func initService(log *zap.Logger, cfg *config.Config, repo *Repository, mlr mailer.Mailer) *Service {
	messageSvc := service.NewMessageService(log, repo.MessageRepository)
	log.Debug("Message service initialized")

	recipientSvc := service.NewRecipientService(log, repo.RecipientRepository)
	log.Debug("Recipient service initialized")

	sweepCfg := service.SweepConfig{
		Timeout:              cfg.Sweep.Timeout,
		BatchSize:            cfg.Sweep.BatchSize,
		WorkerCount:          cfg.Sweep.WorkerCount,
		RecipientConcurrency: cfg.Sweep.RecipientConcurrency,
		ClaimGracePeriod:     cfg.Sweep.ClaimGracePeriod,
		MaxDeliveryAttempts:  cfg.Sweep.MaxDeliveryAttempts,
		DeliveryBackoffBase:  cfg.Sweep.DeliveryBackoffBase,
		MaxPersistAttempts:   cfg.Sweep.MaxPersistAttempts,
		PersistBackoffBase:   cfg.Sweep.PersistBackoffBase,
		AuditTopic:           cfg.Kafka.Producer.Topic,
		SenderName:           cfg.App.SenderName,
	}

	sweepSvc := service.NewSweepService(
		log,
		sweepCfg,
		repo.MessageRepository,
		repo.RecipientRepository,
		repo.OutboxRepository,
		repo.TxManager,
		mlr,
	)
	log.Debug("Sweep service initialized")

	healthSvc := service.NewHealthService(log, repo.HealthRepository)
	log.Debug("Health service initialized")

	return &Service{
		MessageService:   messageSvc,
		RecipientService: recipientSvc,
		SweepService:     sweepSvc,
		HealthService:    healthSvc,
	}
}

func initHandler(log *zap.Logger, svc *Service, runner *sweep.Runner) *Handler {
	messageHandler := handler.NewMessageHandler(svc.MessageService)
	log.Debug("Message handler initialized")

	recipientHandler := handler.NewRecipientHandler(svc.RecipientService)
	log.Debug("Recipient handler initialized")

	sweepHandler := handler.NewSweepHandler(log, svc.SweepService, runner)
	log.Debug("Sweep handler initialized")

	healthHandler := handler.NewHealthHandler(log, svc.HealthService)
	log.Debug("Health handler initialized")

	return &Handler{
		MessageHandler:   messageHandler,
		RecipientHandler: recipientHandler,
		SweepHandler:     sweepHandler,
		HealthHandler:    healthHandler,
	}
}

func initLimiter(cfg *config.Config, rdb redis.Redis) ratelimit.Limiter {
	limiterCfg := ratelimit.Config{
		Capacity: cfg.HTTPServer.RateLimit.Capacity,
		Window:   cfg.HTTPServer.RateLimit.Window,
	}

	if cfg.HTTPServer.RateLimit.UseRedis {
		return ratelimit.NewRedisLimiter(rdb.Client(), limiterCfg)
	}

	return ratelimit.NewMemoryLimiter(limiterCfg)
}

func initHTTPServer(log *zap.Logger, cfg *config.Config, limiter ratelimit.Limiter, hdl *Handler) server.HTTPServer {
	router := route.SetupRouter(
		log,
		cfg,
		limiter,
		hdl.HealthHandler,
		hdl.MessageHandler,
		hdl.RecipientHandler,
		hdl.SweepHandler,
	)

	httpServer := server.NewHTTPServer(
		server.WithAddr(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		server.WithTimeout(cfg.HTTPServer.Timeout.Read, cfg.HTTPServer.Timeout.Write, cfg.HTTPServer.Timeout.Idle),
		server.WithHandler(router),
	)

	return httpServer
}

func initEBus(log *zap.Logger, cfg *config.Kafka, repo *Repository) (*EBus, error) {
	producer, err := kafka.NewProducer(
		cfg.Brokers,
		kafka.WithBalancer(kafka.RoundRobin),
		kafka.WithRequiredAcks(kafka.RequireAll),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init kafka producer: %w", err)
	}

	log.Debug("Kafka producer initialized")

	outboxCfg := outbox.Config{
		Name:         cfg.Producer.Name,
		WorkerCount:  cfg.Producer.WorkerCount,
		PollInterval: cfg.Producer.PollInterval,
		BatchSize:    cfg.Producer.BatchSize,
	}

	publisher := outbox.NewPublisher(
		log,
		outboxCfg,
		producer,
		repo.OutboxRepository,
	)

	log.Debug("Audit publisher initialized")

	return &EBus{
		AuditPublisher: publisher,
	}, nil
}
