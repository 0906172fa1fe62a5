// Command enqueue publishes one archive request to the job queue. It is
// the operator-facing counterpart of the archiver worker, used to feed
// single documents or to re-drive a failed job.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/paperless-archiver/internal/config"
	"github.com/kirillkom/paperless-archiver/internal/core/domain"
	"github.com/kirillkom/paperless-archiver/internal/infrastructure/queue/nats"
	"github.com/kirillkom/paperless-archiver/internal/infrastructure/repository/postgres"
)

func main() {
	var (
		filePath     = flag.String("file", "", "document path relative to the spool directory (required)")
		title        = flag.String("title", "", "document title")
		created      = flag.String("created", "", "creation date, e.g. 2026-08-01")
		corresp      = flag.String("correspondent", "", "correspondent name")
		docType      = flag.String("type", "", "document type name")
		tags         = flag.String("tags", "", "comma-separated tag names")
		metadataJSON = flag.String("metadata", "", "metadata record as a JSON object")
		jobID        = flag.String("job", "", "job id, generated when empty")
		status       = flag.String("status", "", "print the latest attempt for a job id and exit")
	)
	flag.Parse()

	if *status != "" {
		printAttempt(*status)
		return
	}
	if *filePath == "" {
		log.Fatal("enqueue: -file is required")
	}

	req := domain.ArchiveRequest{
		JobID:         *jobID,
		FilePath:      *filePath,
		Title:         *title,
		Created:       *created,
		Correspondent: *corresp,
		DocumentType:  *docType,
	}
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}
	for _, tag := range strings.Split(*tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			req.Tags = append(req.Tags, tag)
		}
	}
	if *metadataJSON != "" {
		if err := json.Unmarshal([]byte(*metadataJSON), &req.Metadata); err != nil {
			log.Fatalf("enqueue: parse metadata: %v", err)
		}
	}

	cfg := config.Load()
	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		log.Fatalf("enqueue: connect queue: %v", err)
	}
	defer queue.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := queue.PublishArchiveRequested(ctx, req); err != nil {
		log.Fatalf("enqueue: publish: %v", err)
	}
	log.Printf("enqueued job %s for %s", req.JobID, req.FilePath)
}

func printAttempt(jobID string) {
	cfg := config.Load()
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("enqueue: open postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	attempt, err := postgres.NewArchiveRepository(db).GetByJobID(ctx, jobID)
	if err != nil {
		log.Fatalf("enqueue: %v", err)
	}

	log.Printf("job %s: status=%s title=%q task=%s", attempt.JobID, attempt.Status, attempt.Title, attempt.TaskID)
	if attempt.DocumentID != nil {
		log.Printf("job %s: document id %d", attempt.JobID, *attempt.DocumentID)
	}
	if attempt.Error != "" {
		log.Printf("job %s: error %s", attempt.JobID, attempt.Error)
	}
}
