package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medscan/internal/ai/gemini"
	"medscan/internal/config"
	"medscan/internal/diagnosis"
	"medscan/internal/email/noop"
	"medscan/internal/email/ses"
	"medscan/internal/extract"
	"medscan/internal/handler"
	"medscan/internal/medicine"
	"medscan/internal/parser"
	"medscan/internal/port"
	"medscan/internal/report"
	"medscan/internal/repository/postgres"
	"medscan/internal/router"
	"medscan/internal/search/firecrawl"
	"medscan/internal/service"
	s3storage "medscan/internal/storage/s3"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	recordRepo := postgres.NewHealthRecordRepo(db)
	analysisRepo := postgres.NewAnalysisRepo(db)
	medicineRepo := postgres.NewMedicineRepo(db)

	// Initialize storage. An empty bucket disables archival and presigned
	// downloads; records are then metadata-only.
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		log.Println("S3 bucket not configured, file archival disabled")
	}

	// Initialize email delivery
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize AI and search clients
	completer := gemini.NewClient(&cfg.AI)
	searcher := firecrawl.NewClient(&cfg.Search)

	// Initialize pipeline components
	extractor := extract.NewExtractor(completer)
	reportParser := parser.NewParser(completer)
	diagnoser := diagnosis.NewGenerator(completer)
	renderer := report.NewRenderer()
	names := medicine.NewNameExtractor(completer, medicineRepo)
	lookup := medicine.NewLookup(searcher, &cfg.Medicine)
	insights := medicine.NewInsightGenerator(completer)

	// Initialize services
	analysisSvc := service.NewAnalysisService(
		extractor, reportParser, diagnoser, renderer,
		names, lookup, insights,
		analysisRepo, recordRepo, storage, &cfg.S3, emailSender,
	)
	recordSvc := service.NewRecordService(recordRepo, storage, &cfg.S3)

	// Initialize handlers
	recordH := handler.NewRecordHandler(recordSvc)
	analysisH := handler.NewAnalysisHandler(analysisSvc)
	prescriptionH := handler.NewPrescriptionHandler(analysisSvc)
	healthH := handler.NewHealthHandler(db, version)

	// Setup router
	r := router.Setup(cfg, recordH, analysisH, prescriptionH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
