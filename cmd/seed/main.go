package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"workflow/internal/auth"
	"workflow/internal/config"
	"workflow/internal/database"
	plannerSvc "workflow/internal/domain/services/planner"
	workspaceSvc "workflow/internal/domain/services/workspace"
	"workflow/internal/repository/postgres"
	postgresPlanner "workflow/internal/repository/postgres/planner"
	postgresWorkspace "workflow/internal/repository/postgres/workspace"
	"workflow/internal/service"
	servicePlanner "workflow/internal/service/planner"
	serviceWorkspace "workflow/internal/service/workspace"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// services bundles what the seeder drives; everything goes through the
// service layer so activities are recorded as they would be for a user
type services struct {
	items    workspaceSvc.ItemService
	canvases workspaceSvc.CanvasService
	tasks    plannerSvc.TaskService
	projects plannerSvc.ProjectService
	events   plannerSvc.EventService
	scripts  plannerSvc.ScriptService
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.SupabaseDBURL == "" {
		return errors.New("SUPABASE_DB_URL is required")
	}

	clearOnly := cmd.Bool("clear-data")
	if cfg.Environment == "prod" && (clearOnly || cmd.Bool("reset")) {
		return errors.New("refusing to run destructive operations in the prod environment")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	userID, err := resolveUser(ctx, cmd, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("seeding", "environment", cfg.Environment, "table_prefix", cfg.TablePrefix, "user_id", userID)

	if cmd.Bool("migrate") {
		db, err := database.Open(ctx, cfg.SupabaseDBURL)
		if err != nil {
			return err
		}
		err = database.Up(ctx, db, cfg.TablePrefix, logger)
		_ = db.Close()
		if err != nil {
			return err
		}
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	svc := newServices(pool, cfg, logger)

	if clearOnly || cmd.Bool("reset") {
		if err := clearUserData(ctx, svc, userID, logger); err != nil {
			return err
		}
		if clearOnly {
			logger.Info("data cleared")
			return nil
		}
	}

	if err := seedWorkspace(ctx, svc, userID, logger); err != nil {
		return err
	}
	if err := seedPlanner(ctx, svc, userID, logger); err != nil {
		return err
	}

	logger.Info("seeding complete", "user_id", userID)
	return nil
}

// resolveUser picks the owner to seed for: an explicit id, a demo account
// created through the Admin API, or a fresh random id.
func resolveUser(ctx context.Context, cmd *cli.Command, cfg *config.Config, logger *slog.Logger) (string, error) {
	if id := cmd.String("user-id"); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return "", fmt.Errorf("invalid --user-id: %w", err)
		}
		return parsed.String(), nil
	}

	email := cmd.String("email")
	if email == "" {
		id := uuid.NewString()
		logger.Warn("no --email or --user-id given, seeding for a random owner", "user_id", id)
		return id, nil
	}
	if cfg.SupabaseKey == "" {
		return "", errors.New("SUPABASE_KEY (service role) is required to provision --email")
	}

	admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
	if cmd.Bool("reset") {
		if err := admin.DeleteUserByEmail(ctx, email); err != nil {
			return "", err
		}
	}

	id, created, err := admin.EnsureUser(ctx, email, cmd.String("password"))
	if err != nil {
		return "", err
	}
	logger.Info("demo user ready", "email", email, "user_id", id, "created", created)
	return id, nil
}

func newServices(pool *pgxpool.Pool, cfg *config.Config, logger *slog.Logger) *services {
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	itemRepo := postgresWorkspace.NewItemRepository(repoConfig)
	canvasRepo := postgresWorkspace.NewCanvasRepository(repoConfig)
	activities := service.NewActivityService(postgres.NewActivityRepository(repoConfig), logger)

	return &services{
		items: serviceWorkspace.NewItemService(
			itemRepo,
			canvasRepo,
			postgres.NewTransactionManager(repoConfig),
			activities,
			serviceWorkspace.ItemOptionsFromConfig(cfg.Items),
			logger,
		),
		canvases: serviceWorkspace.NewCanvasService(canvasRepo, activities, logger),
		tasks:    servicePlanner.NewTaskService(postgresPlanner.NewTaskRepository(repoConfig), activities, logger),
		projects: servicePlanner.NewProjectService(postgresPlanner.NewProjectRepository(repoConfig), activities, logger),
		events:   servicePlanner.NewEventService(postgresPlanner.NewEventRepository(repoConfig), activities, logger),
		scripts:  servicePlanner.NewScriptService(postgresPlanner.NewScriptRepository(repoConfig), activities, logger),
	}
}

// clearUserData removes everything the user owns, folders through the cascade
func clearUserData(ctx context.Context, svc *services, userID string, logger *slog.Logger) error {
	roots, err := svc.items.ListChildren(ctx, userID, nil)
	if err != nil {
		return fmt.Errorf("list root items: %w", err)
	}
	for _, item := range roots {
		if canvasID, ok := strings.CutPrefix(item.ID, "canvas-"); ok {
			if err := svc.canvases.DeleteCanvas(ctx, userID, canvasID); err != nil {
				return fmt.Errorf("delete canvas %s: %w", canvasID, err)
			}
			continue
		}
		result, err := svc.items.Delete(ctx, userID, item.ID)
		if err != nil {
			return fmt.Errorf("delete item %s: %w", item.ID, err)
		}
		logger.Info("cleared item", "name", item.Name, "deleted", result.Deleted)
	}

	tasks, err := svc.tasks.ListTasks(ctx, userID, "")
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	for _, t := range tasks {
		if _, err := svc.tasks.DeleteTask(ctx, userID, t.ID); err != nil {
			return fmt.Errorf("delete task %s: %w", t.ID, err)
		}
	}

	projects, err := svc.projects.ListProjects(ctx, userID)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	for _, p := range projects {
		if _, err := svc.projects.DeleteProject(ctx, userID, p.ID); err != nil {
			return fmt.Errorf("delete project %s: %w", p.ID, err)
		}
	}

	scripts, err := svc.scripts.ListScripts(ctx, userID)
	if err != nil {
		return fmt.Errorf("list scripts: %w", err)
	}
	for _, s := range scripts {
		if err := svc.scripts.DeleteScript(ctx, userID, s.ID); err != nil {
			return fmt.Errorf("delete script %s: %w", s.ID, err)
		}
	}

	if _, err := svc.events.DeleteAllEvents(ctx, userID); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	return nil
}

// seedNode is a folder (children set) or a file in the demo tree
type seedNode struct {
	name     string
	fileType string
	children []seedNode
}

var demoTree = []seedNode{
	{name: "Work", children: []seedNode{
		{name: "Q3 Planning", children: []seedNode{
			{name: "roadmap.md", fileType: "document"},
			{name: "budget.xlsx", fileType: "spreadsheet"},
		}},
		{name: "meeting-notes.md", fileType: "document"},
	}},
	{name: "Personal", children: []seedNode{
		{name: "Recipes", children: []seedNode{
			{name: "pancakes.md", fileType: "document"},
		}},
		{name: "passport.pdf", fileType: "pdf"},
	}},
	{name: "README.md", fileType: "document"},
}

func seedWorkspace(ctx context.Context, svc *services, userID string, logger *slog.Logger) error {
	var created int
	var walk func(nodes []seedNode, parentID *string) error
	walk = func(nodes []seedNode, parentID *string) error {
		for _, node := range nodes {
			if node.fileType == "" {
				folder, err := svc.items.CreateFolder(ctx, &workspaceSvc.CreateFolderRequest{
					UserID:   userID,
					Name:     node.name,
					ParentID: parentID,
				})
				if err != nil {
					return fmt.Errorf("create folder %q: %w", node.name, err)
				}
				created++
				if err := walk(node.children, &folder.ID); err != nil {
					return err
				}
				continue
			}

			_, err := svc.items.CreateFile(ctx, &workspaceSvc.CreateFileRequest{
				UserID:   userID,
				Name:     node.name,
				FileType: node.fileType,
				FileURL:  "seed://" + node.name,
				ParentID: parentID,
			})
			if err != nil {
				return fmt.Errorf("create file %q: %w", node.name, err)
			}
			created++
		}
		return nil
	}

	if err := walk(demoTree, nil); err != nil {
		return err
	}

	content, _ := json.Marshal(map[string]interface{}{
		"elements": []interface{}{},
		"appState": map[string]interface{}{"viewBackgroundColor": "#ffffff"},
	})
	if _, err := svc.canvases.SaveCanvas(ctx, &workspaceSvc.SaveCanvasRequest{
		UserID:  userID,
		Name:    "Architecture sketch",
		Content: content,
	}); err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}

	logger.Info("workspace seeded", "items", created, "canvases", 1)
	return nil
}

func seedPlanner(ctx context.Context, svc *services, userID string, logger *slog.Logger) error {
	tasks := []plannerSvc.CreateTaskRequest{
		{Title: "Write quarterly report", Priority: "high"},
		{Title: "Review pull requests", Priority: "medium", Status: "in_progress"},
		{Title: "Book dentist appointment", Priority: "low"},
	}
	for i := range tasks {
		tasks[i].UserID = userID
		if _, err := svc.tasks.CreateTask(ctx, &tasks[i]); err != nil {
			return fmt.Errorf("create task %q: %w", tasks[i].Title, err)
		}
	}

	deadline := time.Now().AddDate(0, 1, 0).Format(time.DateOnly)
	if _, err := svc.projects.CreateProject(ctx, &plannerSvc.CreateProjectRequest{
		UserID:      userID,
		Title:       "Website relaunch",
		Description: "New landing page and docs",
		Deadline:    &deadline,
	}); err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	start := time.Now().Truncate(time.Hour).Add(24 * time.Hour)
	if _, err := svc.events.CreateEvent(ctx, &plannerSvc.CreateEventRequest{
		UserID:    userID,
		Title:     "Team sync",
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		Color:     "#3b82f6",
	}); err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	if _, err := svc.scripts.CreateScript(ctx, &plannerSvc.CreateScriptRequest{
		UserID:   userID,
		Title:    "Hello",
		Code:     "print('hello')",
		Language: "Python",
	}); err != nil {
		return fmt.Errorf("create script: %w", err)
	}

	logger.Info("planner seeded", "tasks", len(tasks), "projects", 1, "events", 1, "scripts", 1)
	return nil
}

func main() {
	// Load .env file
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:   "seed",
		Usage:  "Populate a user's workspace and planner with demo data",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "email",
				Usage: "Provision (or reuse) a confirmed Supabase user with this email",
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "Password for a newly created demo user",
				Value:   "password123",
				Sources: cli.EnvVars("SEED_PASSWORD"),
			},
			&cli.StringFlag{
				Name:  "user-id",
				Usage: "Seed for an existing owner id instead of provisioning a user",
			},
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Apply pending migrations first",
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Delete the user's existing data (and recreate the demo user) before seeding",
			},
			&cli.BoolFlag{
				Name:  "clear-data",
				Usage: "Only delete the user's existing data",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
