package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/dataset"
	"github.com/sentilens/backend/internal/llm"
	"github.com/sentilens/backend/internal/metrics"
	"github.com/sentilens/backend/internal/storage/models"
	"github.com/sentilens/backend/internal/storage/sqlite"
	"github.com/sentilens/backend/pkg/logger"
)

type ChatHandler struct {
	db        *sqlite.Client
	llmClient *llm.Client
}

func NewChatHandler(db *sqlite.Client, llmClient *llm.Client) *ChatHandler {
	return &ChatHandler{db: db, llmClient: llmClient}
}

// Chat answers a question about the current dataset, grounded in its
// text digest.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.BodyParser(&req); err != nil || req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A question is required",
		})
	}

	meta, table, err := currentTable(h.db)
	if err != nil || meta == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No dataset loaded",
		})
	}

	digest := dataset.Summarize(table, meta.Filename).TextDigest()

	started := time.Now()
	answer, err := h.llmClient.ChatWithData(c.Context(), req.Question, digest)
	if err != nil {
		metrics.ChatRequests.WithLabelValues("error").Inc()
		logger.Error("Chat completion failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Assistant is unavailable",
		})
	}
	metrics.ChatRequests.WithLabelValues("ok").Inc()

	rec := &models.ChatRecord{
		ID:        uuid.New().String(),
		DatasetID: meta.ID,
		Question:  req.Question,
		Answer:    answer,
		LatencyMS: int(time.Since(started).Milliseconds()),
		CreatedAt: time.Now(),
	}
	if err := h.db.SaveChat(rec); err != nil {
		logger.Warn("Failed to record chat exchange", zap.Error(err))
	}

	return c.JSON(fiber.Map{"answer": answer})
}

// Insights asks the assistant for automatic observations about the
// current dataset's sentiment balance and volume.
func (h *ChatHandler) Insights(c *fiber.Ctx) error {
	meta, table, err := currentTable(h.db)
	if err != nil || meta == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No dataset loaded",
		})
	}

	counts := map[string]int{}
	for _, row := range table.Rows {
		counts[string(sentiment.RowLabel(row))]++
	}
	metadata, _ := json.Marshal(fiber.Map{
		"rows":             len(table.Rows),
		"cols":             table.Columns,
		"sentiment_counts": counts,
	})

	answer, err := h.llmClient.AutoInsights(c.Context(), meta.Filename, string(metadata))
	if err != nil {
		metrics.ChatRequests.WithLabelValues("error").Inc()
		logger.Error("Insight generation failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Assistant is unavailable",
		})
	}
	metrics.ChatRequests.WithLabelValues("ok").Inc()

	return c.JSON(fiber.Map{"insights": answer})
}
