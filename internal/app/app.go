package app

import (
	"context"

	"github.com/go-redis/redis"
	"github.com/kolscribe/kolscribe/internal/config"
	"github.com/kolscribe/kolscribe/internal/domains/job"
	jobRepo "github.com/kolscribe/kolscribe/internal/repository/job"
	"github.com/kolscribe/kolscribe/internal/server"
	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/media"
	"github.com/kolscribe/kolscribe/pkg/transcriber"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	DB     *gorm.DB
	RC     *redis.Client
	// repos
	JobRepo    job.JobRepository
	JobService job.JobService
	ServerDeps server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(cfg *config.Settings, logger *Logger.Logger, db *gorm.DB, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		RC:     rc,
	}

	if err := app.setupDependencies(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies() error {
	// 1. media toolbox shared by probing and chunk extraction
	toolbox := media.NewToolbox()
	toolbox.FFmpegPath = a.Config.Media.FFmpegPath
	toolbox.FFprobePath = a.Config.Media.FFprobePath

	// 2. recognition and summarization backends
	asrClient, err := NewASRClient(a.Config.ASR, a.Logger)
	if err != nil {
		return err
	}
	summarizer, err := NewSummarizer(context.Background(), a.Config.Summarizer, a.Logger)
	if err != nil {
		return err
	}

	// 3. repositories and caches
	a.JobRepo = jobRepo.NewGormJobRepo(a.DB)
	var cache job.SummaryCache = job.NopSummaryCache{}
	if a.RC != nil {
		cache = job.NewRedisSummaryCache(a.RC, a.Config.Redis.SummaryTTL())
	}

	// 4. the pipeline service
	chunkSeconds := a.Config.ASR.ChunkSeconds
	if chunkSeconds <= 0 {
		chunkSeconds = 240
	}
	overlapSeconds := a.Config.ASR.OverlapSeconds
	if overlapSeconds < 0 || overlapSeconds >= chunkSeconds {
		overlapSeconds = 1.2
	}

	tr := transcriber.New(toolbox, toolbox, asrClient, a.Logger)
	a.JobService = job.NewJobService(
		a.JobRepo,
		tr,
		summarizer,
		cache,
		job.PipelineConfig{
			ChunkSeconds:   chunkSeconds,
			OverlapSeconds: overlapSeconds,
			TempDir:        a.Config.Storage.TempDir,
			TranscriptsDir: a.Config.Storage.TranscriptsDir,
			SummariesDir:   a.Config.Storage.SummariesDir,
		},
		a.Logger,
	)

	a.ServerDeps = server.NewServerDependencies(a.JobService, toolbox, a.Logger, a.Config)
	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}
