package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/analysis"
	"github.com/sentilens/backend/internal/cache/redis"
	"github.com/sentilens/backend/internal/dataset"
	"github.com/sentilens/backend/internal/metrics"
	"github.com/sentilens/backend/internal/storage/models"
	"github.com/sentilens/backend/internal/storage/sqlite"
	"github.com/sentilens/backend/pkg/logger"
)

type AnalysisHandler struct {
	db       *sqlite.Client
	cache    *redis.Client
	pipeline *analysis.Pipeline
	cacheTTL time.Duration
}

func NewAnalysisHandler(db *sqlite.Client, cache *redis.Client, pipeline *analysis.Pipeline, cacheTTL time.Duration) *AnalysisHandler {
	return &AnalysisHandler{db: db, cache: cache, pipeline: pipeline, cacheTTL: cacheTTL}
}

// GetAnalysis runs the full analysis pass over the current dataset,
// serving a cached report when the snapshot has not changed.
func (h *AnalysisHandler) GetAnalysis(c *fiber.Ctx) error {
	meta, table, err := currentTable(h.db)
	if err != nil {
		logger.Error("Failed to load current dataset", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load current dataset",
		})
	}
	if meta == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No dataset loaded",
		})
	}

	if h.cache != nil {
		var cached analysis.Report
		hit, err := h.cache.GetReport(c.Context(), meta.SnapshotMD5, &cached)
		if err != nil {
			logger.Warn("Report cache lookup failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("report").Inc()
			return c.JSON(fiber.Map{"dataset_id": meta.ID, "cached": true, "report": cached})
		}
		metrics.CacheMisses.WithLabelValues("report").Inc()
	}

	started := time.Now()
	report := h.pipeline.Run(table)
	elapsed := time.Since(started)
	metrics.AnalysisDuration.WithLabelValues("api").Observe(elapsed.Seconds())

	if h.cache != nil {
		if err := h.cache.SetReport(c.Context(), meta.SnapshotMD5, report, h.cacheTTL); err != nil {
			logger.Warn("Failed to cache report", zap.Error(err))
		}
	}

	if reportJSON, err := json.Marshal(report); err == nil {
		rec := &models.AnalysisRecord{
			ID:         uuid.New().String(),
			DatasetID:  meta.ID,
			ReportJSON: string(reportJSON),
			DurationMS: int(elapsed.Milliseconds()),
			CreatedAt:  time.Now(),
		}
		if err := h.db.SaveAnalysis(rec); err != nil {
			logger.Warn("Failed to record analysis run", zap.Error(err))
		}
	}

	return c.JSON(fiber.Map{"dataset_id": meta.ID, "cached": false, "report": report})
}

// GetSummary returns the dataset digest; ?format=text yields the blob
// handed to the chat assistant.
func (h *AnalysisHandler) GetSummary(c *fiber.Ctx) error {
	meta, table, err := currentTable(h.db)
	if err != nil {
		logger.Error("Failed to load current dataset", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load current dataset",
		})
	}
	if meta == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No dataset loaded",
		})
	}

	summary := dataset.Summarize(table, meta.Filename)
	if c.Query("format") == "text" {
		return c.SendString(summary.TextDigest())
	}
	return c.JSON(summary)
}
