package serve

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/aspect-analyzer/internal/common"
	"github.com/dtnitsch/aspect-analyzer/internal/server"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
	"github.com/dtnitsch/aspect-analyzer/pkg/caching"
	dbpkg "github.com/dtnitsch/aspect-analyzer/pkg/db"
	"github.com/dtnitsch/aspect-analyzer/pkg/loader"
)

// ServeAction runs the upload and analytics API. The latest stored dataset,
// if any, is served until the first upload replaces it.
func ServeAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	logger := common.NewLogger(c, cfg)

	addr := cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}
	if c.IsSet("api-key") {
		cfg.Server.APIKey = c.String("api-key")
	}
	if cfg.Server.APIKey == "" {
		logger.Warn("No API key configured, the API is unauthenticated")
	}

	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	analyzer := aspects.NewAnalyzer(caching.NewCache(cfg.CacheTTL))
	ws := server.NewWorkspace(analyzer, database, loader.Options{MaxRows: cfg.MaxRows, Seed: cfg.SampleSeed})

	if latest, err := database.LatestDataset(); err == nil {
		records, err := database.LoadCategories(latest.ID)
		if err != nil {
			return fmt.Errorf("failed to load dataset %s: %w", latest.ID, err)
		}
		ws.SetCategories(aspects.NewDataset(records), latest.ID, latest.Source)
		logger.Info("Serving stored dataset", "dataset_id", latest.ID, "rows", len(records))
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(ws, cfg.Server, cfg.TopN, logger)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Serve(ctx, addr, router, logger)
}
