package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/kirillkom/paperless-archiver/internal/config"
	"github.com/kirillkom/paperless-archiver/internal/core/ports"
	"github.com/kirillkom/paperless-archiver/internal/core/usecase"
	"github.com/kirillkom/paperless-archiver/internal/infrastructure/paperless"
	"github.com/kirillkom/paperless-archiver/internal/infrastructure/queue/nats"
	"github.com/kirillkom/paperless-archiver/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/paperless-archiver/internal/infrastructure/resilience"
	"github.com/kirillkom/paperless-archiver/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/paperless-archiver/internal/observability/logging"
	"github.com/kirillkom/paperless-archiver/internal/observability/metrics"
)

const serviceName = "paperless-archiver"

type App struct {
	Config  config.Config
	Store   *paperless.Client
	Queue   ports.MessageQueue
	Journal ports.ArchiveJournal
	JobUC   ports.ArchiveJobRunner
	Metrics *metrics.ArchiverMetrics

	db *sql.DB
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	archiverMetrics := metrics.NewArchiverMetrics(serviceName)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	journal := postgres.NewArchiveRepository(db)
	if err := journal.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	files, err := localfs.New(cfg.SpoolPath)
	if err != nil {
		return nil, fmt.Errorf("init spool source: %w", err)
	}

	table, err := config.LoadFieldTable(cfg.FieldTablePath)
	if err != nil {
		return nil, fmt.Errorf("load field table: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	store, err := paperless.New(cfg.PaperlessURL, cfg.PaperlessToken, paperless.Options{
		HTTPClient:        &http.Client{Timeout: cfg.RequestTimeout},
		Executor:          executor,
		Logger:            logger,
		RequestsPerSecond: cfg.RequestsPerSecond,
		OnTaxonomyCreate: func(kind string) {
			archiverMetrics.TaxonomyCreated(serviceName, kind)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init paperless client: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	archiveUC := usecase.NewArchiveDocumentUseCase(store, files, journal, logger)
	verifyUC := timedVerifier{
		inner:   usecase.NewVerifyUploadUseCase(store, logger),
		metrics: archiverMetrics,
	}
	fieldsUC := usecase.NewApplyCustomFieldsUseCase(store, table, logger)
	jobUC := usecase.NewArchiveJobUseCase(archiveUC, verifyUC, fieldsUC, journal, logger, cfg.VerifyTimeout, cfg.VerifyPollInterval)

	return &App{
		Config:  cfg,
		Store:   store,
		Queue:   queue,
		Journal: journal,
		JobUC:   jobUC,
		Metrics: archiverMetrics,
		db:      db,
	}, nil
}

// timedVerifier records how long each verification poll loop ran.
type timedVerifier struct {
	inner   ports.UploadVerifier
	metrics *metrics.ArchiverMetrics
}

func (v timedVerifier) Verify(ctx context.Context, taskID string, timeout, pollInterval time.Duration) (int, bool, error) {
	start := time.Now()
	docID, verified, err := v.inner.Verify(ctx, taskID, timeout, pollInterval)
	v.metrics.ObserveVerifyDuration(serviceName, time.Since(start))
	return docID, verified, err
}

func (a *App) Close() {
	if q, ok := a.Queue.(*nats.Queue); ok {
		q.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
