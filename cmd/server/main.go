package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"workflow/internal/auth"
	"workflow/internal/config"
	workspaceSvc "workflow/internal/domain/services/workspace"
	"workflow/internal/handler"
	"workflow/internal/middleware"
	"workflow/internal/repository/postgres"
	postgresPlanner "workflow/internal/repository/postgres/planner"
	postgresWorkspace "workflow/internal/repository/postgres/workspace"
	"workflow/internal/service"
	servicePlanner "workflow/internal/service/planner"
	serviceWorkspace "workflow/internal/service/workspace"
	"workflow/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLogs, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLogs()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		closeLogs()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		return fmt.Errorf("create JWT verifier: %w", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		return fmt.Errorf("create connection pool: %w", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	itemRepo := postgresWorkspace.NewItemRepository(repoConfig)
	canvasRepo := postgresWorkspace.NewCanvasRepository(repoConfig)
	taskRepo := postgresPlanner.NewTaskRepository(repoConfig)
	projectRepo := postgresPlanner.NewProjectRepository(repoConfig)
	eventRepo := postgresPlanner.NewEventRepository(repoConfig)
	scriptRepo := postgresPlanner.NewScriptRepository(repoConfig)
	activityRepo := postgres.NewActivityRepository(repoConfig)
	txManager := postgres.NewTransactionManager(repoConfig)

	// Services
	activityService := service.NewActivityService(activityRepo, logger)
	itemService := serviceWorkspace.NewItemService(
		itemRepo,
		canvasRepo,
		txManager,
		activityService,
		serviceWorkspace.ItemOptionsFromConfig(cfg.Items),
		logger,
	)
	canvasService := serviceWorkspace.NewCanvasService(canvasRepo, activityService, logger)
	taskService := servicePlanner.NewTaskService(taskRepo, activityService, logger)
	projectService := servicePlanner.NewProjectService(projectRepo, activityService, logger)
	eventService := servicePlanner.NewEventService(eventRepo, activityService, logger)
	scriptService := servicePlanner.NewScriptService(scriptRepo, activityService, logger)

	// Uploads are optional
	var uploadService workspaceSvc.UploadService
	if cfg.Storage.Enabled() {
		store, err := storage.New(ctx, cfg.Storage, logger)
		if err != nil {
			return fmt.Errorf("create storage: %w", err)
		}
		uploadService = serviceWorkspace.NewUploadService(itemService, store, cfg.Storage.MaxUploadBytes, logger)
		logger.Info("uploads enabled", "bucket", cfg.Storage.S3Bucket)
	}

	logger.Info("services initialized",
		"strict_parents", cfg.Items.StrictParents,
		"atomic_delete", cfg.Items.AtomicDelete,
	)

	// Handlers
	itemHandler := handler.NewItemHandler(itemService, uploadService, cfg.Storage.MaxUploadBytes, logger)
	canvasHandler := handler.NewCanvasHandler(canvasService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	eventHandler := handler.NewEventHandler(eventService, logger)
	scriptHandler := handler.NewScriptHandler(scriptService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("GET /api/me", activityHandler.Me)
	mux.HandleFunc("GET /api/activities", activityHandler.ListActivities)

	// Item tree routes
	mux.HandleFunc("GET /api/items", itemHandler.ListItems)
	mux.HandleFunc("POST /api/items/folder", itemHandler.CreateFolder)
	mux.HandleFunc("POST /api/items/file", itemHandler.CreateFile)
	if uploadService != nil {
		mux.HandleFunc("POST /api/items/upload", itemHandler.Upload)
		mux.HandleFunc("GET /api/items/{id}/download", itemHandler.Download)
	}
	mux.HandleFunc("GET /api/items/{id}", itemHandler.GetItem)
	mux.HandleFunc("PUT /api/items/{id}/rename", itemHandler.RenameItem)
	mux.HandleFunc("PUT /api/items/{id}/move", itemHandler.MoveItem)
	mux.HandleFunc("DELETE /api/items/{id}", itemHandler.DeleteItem)

	// Canvas routes
	mux.HandleFunc("GET /api/canvases", canvasHandler.ListCanvases)
	mux.HandleFunc("POST /api/canvases", canvasHandler.SaveCanvas)
	mux.HandleFunc("GET /api/canvases/{id}", canvasHandler.GetCanvas)
	mux.HandleFunc("PATCH /api/canvases/{id}", canvasHandler.UpdateCanvas)
	mux.HandleFunc("DELETE /api/canvases/{id}", canvasHandler.DeleteCanvas)

	// Task routes
	mux.HandleFunc("GET /api/tasks", taskHandler.ListTasks)
	mux.HandleFunc("POST /api/tasks", taskHandler.CreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", taskHandler.GetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", taskHandler.UpdateTask)
	mux.HandleFunc("POST /api/tasks/{id}/complete", taskHandler.CompleteTask)
	mux.HandleFunc("PUT /api/tasks/{id}/status", taskHandler.SetStatus)
	mux.HandleFunc("DELETE /api/tasks/{id}", taskHandler.DeleteTask)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.DeleteProject)

	// Event routes
	mux.HandleFunc("GET /api/events", eventHandler.ListEvents)
	mux.HandleFunc("POST /api/events", eventHandler.CreateEvent)
	mux.HandleFunc("DELETE /api/events", eventHandler.DeleteAllEvents)
	mux.HandleFunc("GET /api/events/{id}", eventHandler.GetEvent)
	mux.HandleFunc("PATCH /api/events/{id}", eventHandler.UpdateEvent)
	mux.HandleFunc("DELETE /api/events/{id}", eventHandler.DeleteEvent)

	// Script routes
	mux.HandleFunc("GET /api/scripts", scriptHandler.ListScripts)
	mux.HandleFunc("POST /api/scripts", scriptHandler.CreateScript)
	mux.HandleFunc("GET /api/scripts/{id}", scriptHandler.GetScript)
	mux.HandleFunc("DELETE /api/scripts/{id}", scriptHandler.DeleteScript)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})

	// Order: CORS → Logging → Recovery → Auth → Routes
	root := middleware.Chain(mux,
		corsHandler.Handler,
		middleware.RequestLogging(logger),
		middleware.Recovery(logger),
		middleware.AuthMiddleware(jwtVerifier, logger),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gCtx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
