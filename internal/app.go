package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	logger_adapter "reconciliation-service/internal/adapters/logger"
	"reconciliation-service/internal/adapters/normalizer"
	"reconciliation-service/internal/adapters/normalizer/avito"
	"reconciliation-service/internal/adapters/normalizer/cian"
	postgres_adapter "reconciliation-service/internal/adapters/postgres"
	rabbitmq_adapter "reconciliation-service/internal/adapters/rabbitmq"
	"reconciliation-service/internal/adapters/rest"
	"reconciliation-service/internal/adapters/runjournal"
	"reconciliation-service/internal/adapters/sourcedb"
	"reconciliation-service/internal/configs"
	"reconciliation-service/internal/constants"
	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
	usecases_port "reconciliation-service/internal/core/port/usecases_port"
	"reconciliation-service/internal/core/service/validation"
	"reconciliation-service/internal/core/usecase"
	fluentlogger "reconciliation-service/pkg/fluent_logger"
	"reconciliation-service/pkg/postgres"
	"reconciliation-service/pkg/rabbitmq/rabbitmq_common"
	"reconciliation-service/pkg/rabbitmq/rabbitmq_consumer"
	"reconciliation-service/pkg/rabbitmq/rabbitmq_producer"
)

// App - структура приложения
type App struct {
	config       *configs.AppConfig
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
	baseLogger   port.LoggerPort

	destPool    *pgxpool.Pool
	sourcePools []*pgxpool.Pool
	journal     *runjournal.RunJournalAdapter

	connManager    *rabbitmq_common.ConnectionManager
	reportProducer *rabbitmq_producer.Publisher
	tasksListener  port.EventListenerPort

	apiServer *rest.Server
	runner    usecases_port.ReconcileSourcePort
}

// NewApp создает приложение и связывает все зависимости.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}
	app := &App{config: appConfig}

	if err := app.initLoggers(); err != nil {
		return nil, err
	}
	if err := app.initComponents(context.Background()); err != nil {
		app.logger.Error("Bootstrap failed", err, nil)
		app.release()
		return nil, err
	}
	return app, nil
}

func (a *App) initLoggers() error {
	cfg := a.config
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.JSON,
		UseColor: !cfg.StdoutLogger.JSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if cfg.FluentBit.Enabled {
		client, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(client, logger_adapter.ParseLevel(cfg.FluentBit.Level))
		if err != nil {
			client.Close()
			return fmt.Errorf("failed to create fluentbit adapter: %w", err)
		}
		a.fluentClient = client
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}

	a.baseLogger = multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	a.logger = a.baseLogger.WithFields(port.Fields{"component": "app"})
	a.logger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": a.config.FluentBit.Enabled,
	})
	return nil
}

func (a *App) initComponents(ctx context.Context) error {
	cfg := a.config

	// --- каталог назначения ---
	destPool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: cfg.DestinationDatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to destination database: %w", err)
	}
	a.destPool = destPool
	a.logger.Info("Connected to destination database", nil)

	destination, err := postgres_adapter.NewDestinationGatewayAdapter(destPool)
	if err != nil {
		return err
	}
	rates, err := postgres_adapter.NewRateProviderAdapter(destPool, domain.Rates{
		USD: cfg.Reconcile.RatesUSD,
		EUR: cfg.Reconcile.RatesEUR,
	})
	if err != nil {
		return err
	}
	geoCache, err := postgres_adapter.NewGeoCacheAdapter(destPool)
	if err != nil {
		return err
	}
	metro, err := postgres_adapter.NewMetroDirectoryAdapter(destPool)
	if err != nil {
		return err
	}

	// --- источники ---
	charset, err := sourcedb.ParseCharset(cfg.SourceCharset)
	if err != nil {
		return err
	}
	limiter := sourcedb.NewLimiter(cfg.SourceFetchRPS)

	toolkit := normalizer.NewToolkit(normalizer.Deps{
		GeoCache:      geoCache,
		Metro:         metro,
		ExcludeCrimea: cfg.Reconcile.ExcludeCrimea,
	})

	bindings := make(map[string]usecase.SourceBinding, len(cfg.Sources))
	for name, srcCfg := range cfg.Sources {
		// прогоны идут по одному, так что лимитер общий на все базы источников
		binding, err := a.bindSource(ctx, name, srcCfg, sourcedb.Config{Charset: charset, Limiter: limiter}, toolkit)
		if err != nil {
			return err
		}
		bindings[name] = binding
		a.logger.Info("Source bound", port.Fields{"source": name})
	}

	// --- журнал прогонов ---
	journal, err := runjournal.Open(ctx, cfg.RunJournalPath)
	if err != nil {
		return err
	}
	a.journal = journal

	// --- use cases ---
	engine := usecase.NewReconcileSourceUseCase(bindings, destination, rates, usecase.ReconcileConfig{
		BatchSize: cfg.Reconcile.BatchSize,
		Validation: validation.Config{
			HouseNumber: cfg.Reconcile.ValidateHouseNumber,
			Floor:       cfg.Reconcile.ValidateFloor,
			Floors:      cfg.Reconcile.ValidateFloors,
		},
		UpdateFailureFatal: cfg.Reconcile.UpdateFailureFatal,
	})
	refreshing := usecase.NewRefreshingReconcileUseCase(engine, metro)

	var reporter port.RunReporterPort
	if cfg.RabbitMQ.Enabled {
		if reporter, err = a.initRabbitMQ(); err != nil {
			return err
		}
	}
	coordinator := usecase.NewRunCoordinator(refreshing, reporter, journal)
	a.runner = coordinator

	if cfg.RabbitMQ.Enabled {
		if err := a.initTasksListener(coordinator); err != nil {
			return err
		}
	}

	lastRun := usecase.NewGetLastRunUseCase(journal)
	a.apiServer = rest.NewServer(cfg.Rest.PORT, rest.NewRunsHandler(coordinator, lastRun), a.baseLogger)
	a.logger.Info("All components initialized", port.Fields{"sources": len(bindings), "rabbitmq": cfg.RabbitMQ.Enabled})
	return nil
}

func (a *App) bindSource(ctx context.Context, name string, srcCfg configs.SourceConfig, gwCfg sourcedb.Config, tk *normalizer.Toolkit) (usecase.SourceBinding, error) {
	pool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: srcCfg.DatabaseURL})
	if err != nil {
		return usecase.SourceBinding{}, fmt.Errorf("failed to connect to %s source database: %w", name, err)
	}
	a.sourcePools = append(a.sourcePools, pool)

	gwCfg.Source = name
	var binding usecase.SourceBinding
	switch name {
	case constants.SourceAvito:
		gwCfg.Types = avito.Types
		binding.Normalizer = avito.New(tk)
	case constants.SourceCian:
		gwCfg.Types = cian.Types
		gwCfg.ShareParam = cian.ParamPart
		binding.Normalizer = cian.New(tk)
		binding.ReverseUpdatePhotos = true
	default:
		return usecase.SourceBinding{}, fmt.Errorf("%w: %s", domain.ErrUnknownSource, name)
	}

	gateway, err := sourcedb.NewSourceGatewayAdapter(pool, gwCfg)
	if err != nil {
		return usecase.SourceBinding{}, err
	}
	binding.Gateway = gateway
	return binding, nil
}

func (a *App) initRabbitMQ() (port.RunReporterPort, error) {
	cfg := a.config
	connBridge := rabbitmq_adapter.NewPkgLoggerBridge(a.baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: cfg.RabbitMQ.URL}, connBridge)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: cfg.RabbitMQ.URL},
		ExchangeName:             constants.ExchangeReconcile,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(a.baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create report producer: %w", err)
	}
	a.reportProducer = producer

	return rabbitmq_adapter.NewRunReportPublisherAdapter(producer, constants.RoutingKeyReconcileResults)
}

func (a *App) initTasksListener(runner usecases_port.ReconcileSourcePort) error {
	cfg := a.config
	listener, err := rabbitmq_adapter.NewTasksConsumerAdapter(
		rabbitmq_consumer.ConsumerConfig{
			Config:                 rabbitmq_common.Config{URL: cfg.RabbitMQ.URL},
			QueueName:              constants.QueueReconcile,
			DeclareQueue:           true,
			DurableQueue:           true,
			ExchangeNameForBind:    constants.ExchangeReconcile,
			DeclareExchangeForBind: true,
			ExchangeTypeForBind:    "direct",
			DurableExchangeForBind: true,
			RoutingKeyForBind:      constants.RoutingKeyReconcileTasks,
			// прогоны идут по одному, брать больше одной задачи нет смысла
			PrefetchCount: 1,
			ConsumerTag:   constants.ConsumerTagReconcile,
		},
		rabbitmq_consumer.DistributingOptions{MaxInFlight: 1, RequeueDelay: constants.RequeueDelay},
		runner,
		a.baseLogger,
		a.connManager,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize reconcile tasks listener: %w", err)
	}
	a.tasksListener = listener
	a.logger.Info("Reconcile tasks listener initialized.", nil)
	return nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("REST server shutdown failed", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.release()
	}()

	a.logger.Info("Application is starting...", nil)
	componentErrors := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			componentErrors <- fmt.Errorf("REST server error: %w", err)
		}
	}()

	if a.tasksListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Reconcile Tasks Listener"})
			listenerLogger.Info("Starting listener...", nil)
			if err := a.tasksListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				componentErrors <- fmt.Errorf("reconcile tasks listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	if len(a.config.RunOnStart) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.runOnStart(appCtx)
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-componentErrors:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()
	return runErr
}

// runOnStart прогоняет источники из RUN_ON_START по очереди.
func (a *App) runOnStart(ctx context.Context) {
	for _, source := range a.config.RunOnStart {
		if ctx.Err() != nil {
			return
		}
		runLogger := a.baseLogger.WithFields(port.Fields{"trigger": "run_on_start", "source": source})
		runCtx := contextkeys.ContextWithLogger(ctx, runLogger)

		summary, err := a.runner.Execute(runCtx, domain.RunRequest{Source: source})
		switch {
		case err == nil:
			runLogger.Info("Start-up run completed", port.Fields{"total": summary.Total()})
		case errors.Is(err, domain.ErrNoImportData):
			runLogger.Warn("Start-up run aborted: no import data", nil)
		default:
			runLogger.Error("Start-up run failed", err, nil)
		}
	}
}

// release закрывает ресурсы в обратном порядке; безопасен при частичной инициализации.
func (a *App) release() {
	if a.tasksListener != nil {
		if err := a.tasksListener.Close(); err != nil {
			a.logger.Error("Error closing tasks listener", err, nil)
		}
	}
	if a.reportProducer != nil {
		if err := a.reportProducer.Close(); err != nil {
			a.logger.Error("Error closing report producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Error("Error closing run journal", err, nil)
		}
	}
	for _, pool := range a.sourcePools {
		pool.Close()
	}
	if a.destPool != nil {
		a.destPool.Close()
		a.logger.Info("PostgreSQL pools closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			log.Printf("App: Error closing fluent client: %v\n", err)
		}
	}
}
