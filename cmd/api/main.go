package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/analysis"
	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/api/handlers"
	"github.com/sentilens/backend/internal/cache/redis"
	"github.com/sentilens/backend/internal/llm"
	"github.com/sentilens/backend/internal/metrics"
	"github.com/sentilens/backend/internal/middleware/ratelimit"
	"github.com/sentilens/backend/internal/middleware/security"
	"github.com/sentilens/backend/internal/middleware/validation"
	"github.com/sentilens/backend/internal/scraper"
	"github.com/sentilens/backend/internal/storage/sqlite"
	"github.com/sentilens/backend/pkg/config"
	appLogger "github.com/sentilens/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Sentilens API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without report cache", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	scorer, err := sentiment.NewVaderScorer(cfg.Sentiment.LexiconPath, cfg.Sentiment.EmojiLexiconPath)
	if err != nil {
		appLogger.Fatal("Failed to load sentiment lexicon", zap.Error(err))
	}

	pipeline := analysis.NewPipeline(scorer, cfg.Analysis.TopTopics)
	classifier := sentiment.NewClassifier(scorer)

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		cfg.LLM.TimeoutSec,
	)

	scrapeSession := scraper.NewSession()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{Logger: appLogger.GetLogger()})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	app.Use(validation.Middleware(validation.Config{
		MaxUploadSize: cfg.Server.BodyLimit,
		Logger:        appLogger.GetLogger(),
	}))

	datasetHandler := handlers.NewDatasetHandler(sqliteClient, cacheClient, classifier)
	analysisHandler := handlers.NewAnalysisHandler(sqliteClient, cacheClient, pipeline,
		time.Duration(cfg.Redis.TTLSec)*time.Second)
	chatHandler := handlers.NewChatHandler(sqliteClient, llmClient)
	scrapeHandler := handlers.NewScrapeHandler(scrapeSession, sqliteClient, datasetHandler,
		cfg.Scraper.UserAgent, cfg.Scraper.TimeoutSec, cfg.Scraper.MinLength)
	wsHandler := handlers.NewWebSocketHandler(scrapeSession)

	api := app.Group("/api/v1")

	api.Post("/datasets", datasetHandler.UploadDataset)
	api.Get("/datasets", datasetHandler.ListDatasets)
	api.Post("/datasets/:id/select", datasetHandler.SelectDataset)

	api.Get("/analysis", analysisHandler.GetAnalysis)
	api.Get("/analysis/summary", analysisHandler.GetSummary)

	api.Post("/chat", chatHandler.Chat)
	api.Get("/insights", chatHandler.Insights)

	api.Post("/scrape", scrapeHandler.StartScrape)
	api.Get("/scrape/status", scrapeHandler.ScrapeStatus)
	api.Post("/scrape/stop", scrapeHandler.StopScrape)
	api.Post("/scrape/import", scrapeHandler.ImportScrape)

	app.Get("/ws/scrape", websocket.New(wsHandler.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
