package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/paperless-archiver/internal/bootstrap"
	"github.com/kirillkom/paperless-archiver/internal/config"
	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	go serveMetrics(app, cfg.MetricsPort)
	go flushCachesOnSignal(ctx, app)

	log.Printf("archiver subscribed to %s", cfg.NATSSubject)
	err = app.Queue.SubscribeArchiveRequested(ctx, func(handlerCtx context.Context, req domain.ArchiveRequest) error {
		jobCtx, cancel := context.WithTimeout(handlerCtx, cfg.VerifyTimeout+5*time.Minute)
		defer cancel()

		app.Metrics.StartJob()
		start := time.Now()
		result, err := app.JobUC.Run(jobCtx, req)
		app.Metrics.FinishJob("paperless-archiver", time.Since(start), err == nil && result.Success)
		return err
	})
	if err != nil {
		log.Fatalf("archiver subscribe error: %v", err)
	}
}

// flushCachesOnSignal drops the taxonomy caches on SIGHUP so operators
// can pick up renames done directly in the document store without a
// restart.
func flushCachesOnSignal(ctx context.Context, app *bootstrap.App) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			for _, kind := range []string{"correspondent", "document_type", "tag", "custom_field"} {
				app.Store.InvalidateTaxonomy(kind)
			}
			log.Printf("taxonomy caches flushed")
		}
	}
}

func serveMetrics(app *bootstrap.App, port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	if err := http.ListenAndServe(":"+port, mux); err != nil && err != http.ErrServerClosed {
		log.Printf("metrics server error: %v", err)
	}
}
