package container

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"gomlready/adapters/ingest"
	"gomlready/adapters/store"
	"gomlready/app"
	"gomlready/internal"
	"gomlready/internal/api"
	"gomlready/internal/config"
	"gomlready/internal/errors"
	"gomlready/internal/pipeline"
	"gomlready/ports"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 10 * time.Second

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Repositories (nil when DATABASE_URL is empty)
	AnalysisRepo ports.AnalysisRepository

	// Analysis components
	Reader          *ingest.Reader
	Pipeline        *pipeline.Orchestrator
	AnalysisService *app.AnalysisService

	// HTTP
	API *api.Server
}

// New wires every component. The store is opened and migrated only when a
// database URL is configured.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(cfg.Level())
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Reader:   ingest.NewReader(logger),
		Pipeline: pipeline.New(cfg.Analysis.ProfileWorkers, logger),
	}

	if cfg.Persistent() {
		repo, err := store.Open(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, errors.Wrap(errors.DatabaseError("failed to open analysis store", err), "container init failed")
		}
		c.AnalysisRepo = repo
		logger.With("Container").Info("analysis store ready")
	} else {
		logger.With("Container").Info("DATABASE_URL not set, results will not be stored")
	}

	c.AnalysisService = app.NewAnalysisService(c.Reader, c.Pipeline, c.AnalysisRepo, cfg.Analysis.MaxConcurrentAnalyses, logger)
	return c, nil
}

// InitAPI builds the gin server.
func (c *Container) InitAPI() *api.Server {
	gin.SetMode(c.Config.Server.GinMode)
	c.API = api.NewServer(c.AnalysisService, api.Options{MaxUploadBytes: c.Config.MaxUploadBytes()}, c.Logger)
	return c.API
}

// Serve runs the API server, and the ops server when enabled, until ctx is
// canceled or one of them fails.
func (c *Container) Serve(ctx context.Context) error {
	if c.API == nil {
		c.InitAPI()
	}

	servers := []*http.Server{{
		Addr:              ":" + c.Config.Server.Port,
		Handler:           c.API.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if c.Config.Profiling.Enabled {
		servers = append(servers, &http.Server{
			Addr:              ":" + c.Config.Profiling.Port,
			Handler:           api.NewOpsRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	log := c.Logger.With("Container")
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			log.Info("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s failed: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("shutdown of %s: %v", srv.Addr, err)
			}
		}
		return nil
	})
	return g.Wait()
}

// Shutdown releases the store.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.AnalysisRepo != nil {
		return c.AnalysisRepo.Close()
	}
	return nil
}
