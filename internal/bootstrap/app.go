package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/analysis"
	"resume-ats/internal/analyze"
	"resume-ats/internal/jobs"
	"resume-ats/internal/nlp"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/server"
	"resume-ats/internal/shared/storage/db"
	"resume-ats/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	JobsRepo       jobs.Repo
	JobsService    *jobs.Service
	Analyzer       *analysis.Analyzer
	AnalyzeHandler *analyze.Handler
	JobsHandler    *jobs.Handler
}

// Option customizes Build.
type Option func(*buildOptions)

type buildOptions struct {
	loadModel func() (nlp.Model, error)
}

// WithModel supplies the language model instead of loading the prose tagger.
func WithModel(m nlp.Model) Option {
	return func(o *buildOptions) {
		o.loadModel = func() (nlp.Model, error) { return m, nil }
	}
}

func loadProseModel() (nlp.Model, error) {
	return nlp.NewProseModel()
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	bo := buildOptions{loadModel: loadProseModel}
	for _, opt := range opts {
		opt(&bo)
	}

	// The model loads before the pool opens so a failure here leaves nothing to close.
	model, err := bo.loadModel()
	if err != nil {
		return nil, fmt.Errorf("load language model: %w", err)
	}

	sqlDB, err := buildDB(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	if sqlDB != nil {
		app.JobsRepo = &jobs.PGRepo{DB: sqlDB}
	} else {
		app.JobsRepo = jobs.NewMemoryRepo()
	}
	app.JobsService = jobs.NewService(app.JobsRepo)
	app.JobsHandler = jobs.NewHandler(app.JobsService)
	app.Analyzer = analysis.New(model)
	app.AnalyzeHandler = analyze.NewHandler(app.Analyzer, app.JobsService, cfg.MaxUploadBytes, cfg.IncludeTextDefault)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:   cfg,
		Handlers: []server.RouteRegistrar{app.AnalyzeHandler, app.JobsHandler},
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			sqlDB = nil
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
