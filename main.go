package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/transferdesk/config"
	"github.com/epeers/transferdesk/internal/database"
	"github.com/epeers/transferdesk/internal/delivery"
	"github.com/epeers/transferdesk/internal/directory"
	"github.com/epeers/transferdesk/internal/extraction"
	"github.com/epeers/transferdesk/internal/handlers"
	"github.com/epeers/transferdesk/internal/middleware"
	"github.com/epeers/transferdesk/internal/repository"
	"github.com/epeers/transferdesk/internal/services"
	"github.com/epeers/transferdesk/internal/session"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Invalid LOG_LEVEL %q, staying on info", cfg.LogLevel)
	}

	// Create context for initialization
	ctx := context.Background()

	// Build the instrument directory
	var dir services.Directory
	switch cfg.InstrumentSource {
	case config.SourcePG:
		db, err := database.New(ctx, cfg.PGURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		dir = directory.NewCached(repository.NewInstrumentRepository(db.Pool), 5*time.Minute)
	case config.SourceCSV:
		f, err := os.Open(cfg.InstrumentCSVPath)
		if err != nil {
			log.Fatalf("Failed to open instrument CSV: %v", err)
		}
		instruments, err := handlers.ParseInstrumentsCSV(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to parse instrument CSV: %v", err)
		}
		mem := directory.NewMemory(instruments)
		log.Infof("Loaded %d instruments from %s", mem.Len(), cfg.InstrumentCSVPath)
		dir = mem
	}

	// Initialize the extraction client when a key is configured
	var extractor handlers.Extractor
	if cfg.GeminiAPIKey != "" {
		client, err := extraction.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to initialize extraction client: %v", err)
		}
		extractor = client
	} else {
		log.Warn("GEMINI_API_KEY not set, document extraction endpoint disabled")
	}

	// Initialize session store and services
	store := session.NewStore(cfg.SessionTTL)
	brokers := services.NewBrokerSet(cfg.BrokerIDs)
	matcher := services.NewMatcher(dir)
	reconciler := services.NewReconciler(matcher, brokers)
	recordSvc := services.NewRecordService(matcher, brokers)
	sender := delivery.NewEmailSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.SenderEmail)

	// Initialize handlers
	instrumentHandler := handlers.NewInstrumentHandler(matcher)
	recordHandler := handlers.NewRecordHandler(recordSvc, store)
	importHandler := handlers.NewImportHandler(reconciler, extractor, store, cfg.MaxUploadBytes)
	exportHandler := handlers.NewExportHandler(recordSvc, sender, store)

	// Setup Gin router
	router := gin.Default()

	// Apply global middleware
	router.Use(middleware.SessionID())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Directory lookup
	router.GET("/instruments/search", instrumentHandler.Search)

	// Session-scoped routes
	sess := router.Group("/session", middleware.RequireSession())
	sess.GET("/records", recordHandler.List)
	sess.PUT("/records", recordHandler.Put)
	sess.DELETE("/records", recordHandler.Clear)
	sess.POST("/imports", importHandler.Reconcile)
	sess.POST("/imports/document", importHandler.ExtractDocument)
	sess.POST("/imports/:batch_id/confirm", recordHandler.Confirm)
	sess.DELETE("/imports/:batch_id", recordHandler.Discard)
	sess.GET("/export", exportHandler.Download)
	sess.POST("/export/email", exportHandler.Email)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	fmt.Println("Server exited")
}
