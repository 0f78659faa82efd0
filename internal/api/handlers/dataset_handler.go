package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/cache/redis"
	"github.com/sentilens/backend/internal/dataset"
	"github.com/sentilens/backend/internal/metrics"
	"github.com/sentilens/backend/internal/middleware/validation"
	"github.com/sentilens/backend/internal/storage/models"
	"github.com/sentilens/backend/internal/storage/sqlite"
	"github.com/sentilens/backend/pkg/logger"
	"github.com/sentilens/backend/pkg/utils"
)

type DatasetHandler struct {
	db         *sqlite.Client
	cache      *redis.Client
	classifier *sentiment.Classifier
}

func NewDatasetHandler(db *sqlite.Client, cache *redis.Client, classifier *sentiment.Classifier) *DatasetHandler {
	return &DatasetHandler{db: db, cache: cache, classifier: classifier}
}

// UploadDataset ingests a CSV or JSON file, classifies it and makes it
// the current dataset. The previous dataset selection is fully replaced.
func (h *DatasetHandler) UploadDataset(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A file is required",
		})
	}

	if !validation.AllowedFile(fileHeader.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type; expected .csv or .json",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read upload",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read upload",
		})
	}

	table, err := dataset.Load(fileHeader.Filename, data)
	if err != nil {
		logger.Error("Failed to parse upload", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error reading file",
		})
	}
	if len(table.Rows) == 0 || len(table.Columns) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File contains no usable rows",
		})
	}

	meta, err := h.saveAsCurrent(c.Context(), table, fileHeader.Filename)
	if err != nil {
		logger.Error("Failed to store dataset", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store dataset",
		})
	}

	return c.JSON(fiber.Map{
		"id":       meta.ID,
		"filename": meta.Filename,
		"rows":     meta.RowCount,
		"columns":  meta.ColumnCount,
	})
}

// ListDatasets returns previously uploaded datasets, newest first.
func (h *DatasetHandler) ListDatasets(c *fiber.Ctx) error {
	datasets, err := h.db.ListDatasets()
	if err != nil {
		logger.Error("Failed to list datasets", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list datasets",
		})
	}

	current, _ := h.db.CurrentDataset()

	out := make([]fiber.Map, 0, len(datasets))
	for _, d := range datasets {
		out = append(out, fiber.Map{
			"id":          d.ID,
			"filename":    d.Filename,
			"rows":        d.RowCount,
			"columns":     d.ColumnCount,
			"uploaded_at": d.UploadedAt.Unix(),
			"current":     d.ID == current,
		})
	}
	return c.JSON(fiber.Map{"datasets": out})
}

// SelectDataset makes a stored dataset the current one.
func (h *DatasetHandler) SelectDataset(c *fiber.Ctx) error {
	id := c.Params("id")

	meta, _, err := h.db.GetDataset(id)
	if err != nil {
		logger.Error("Failed to load dataset", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load dataset",
		})
	}
	if meta == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dataset not found",
		})
	}

	if err := h.db.SetCurrentDataset(id); err != nil {
		logger.Error("Failed to select dataset", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to select dataset",
		})
	}

	return c.JSON(fiber.Map{"id": id, "filename": meta.Filename})
}

// saveAsCurrent classifies a freshly loaded table, snapshots it and makes
// it the current dataset.
func (h *DatasetHandler) saveAsCurrent(ctx context.Context, table *dataset.Table, filename string) (*models.Dataset, error) {
	classified := h.classifier.Classify(table)

	snapshot, err := json.Marshal(classified)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot table: %w", err)
	}

	textCol, _ := dataset.TextColumn(classified)
	timeCol, _ := dataset.TimeColumn(classified)

	meta := &models.Dataset{
		ID:          uuid.New().String(),
		Filename:    filename,
		RowCount:    len(classified.Rows),
		ColumnCount: len(classified.Columns),
		TextColumn:  textCol,
		TimeColumn:  timeCol,
		SnapshotMD5: utils.HashBytes(snapshot),
		UploadedAt:  time.Now(),
	}

	if err := h.db.SaveDataset(meta, string(snapshot)); err != nil {
		return nil, err
	}
	if err := h.db.SetCurrentDataset(meta.ID); err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			logger.Warn("Failed to invalidate report cache", zap.Error(err))
		}
	}

	metrics.DatasetsProcessed.Inc()
	metrics.DatasetRows.Observe(float64(meta.RowCount))

	logger.Info("Dataset stored",
		zap.String("id", meta.ID),
		zap.String("filename", filename),
		zap.Int("rows", meta.RowCount),
	)

	return meta, nil
}

// currentTable loads and re-normalizes the current dataset's snapshot.
// Returns nil metadata when no dataset is selected.
func currentTable(db *sqlite.Client) (*models.Dataset, *dataset.Table, error) {
	id, err := db.CurrentDataset()
	if err != nil {
		return nil, nil, err
	}
	if id == "" {
		return nil, nil, nil
	}

	meta, snapshot, err := db.GetDataset(id)
	if err != nil || meta == nil {
		return nil, nil, err
	}

	var table dataset.Table
	if err := json.Unmarshal([]byte(snapshot), &table); err != nil {
		return nil, nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	// Timestamps come back as strings from storage.
	return meta, dataset.Normalize(&table), nil
}
