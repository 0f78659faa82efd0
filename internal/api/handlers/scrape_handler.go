package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/dataset"
	"github.com/sentilens/backend/internal/metrics"
	"github.com/sentilens/backend/internal/scraper"
	"github.com/sentilens/backend/internal/storage/models"
	"github.com/sentilens/backend/internal/storage/sqlite"
	"github.com/sentilens/backend/pkg/logger"
)

type ScrapeHandler struct {
	session  *scraper.Session
	db       *sqlite.Client
	datasets *DatasetHandler

	userAgent string
	timeout   time.Duration
	minLength int
}

func NewScrapeHandler(session *scraper.Session, db *sqlite.Client, datasets *DatasetHandler, userAgent string, timeoutSec, minLength int) *ScrapeHandler {
	return &ScrapeHandler{
		session:   session,
		db:        db,
		datasets:  datasets,
		userAgent: userAgent,
		timeout:   time.Duration(timeoutSec) * time.Second,
		minLength: minLength,
	}
}

// StartScrape launches a scraper run for the given URL.
func (h *ScrapeHandler) StartScrape(c *fiber.Ctx) error {
	var req struct {
		URL            string `json:"url"`
		FilterKeywords string `json:"filter_keywords"`
		MinLength      int    `json:"min_length"`
	}
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A url is required",
		})
	}

	minLength := req.MinLength
	if minLength <= 0 {
		minLength = h.minLength
	}

	var keywords []string
	if strings.TrimSpace(req.FilterKeywords) != "" {
		keywords = strings.Split(req.FilterKeywords, ",")
	}

	opts := scraper.Options{
		URL:            req.URL,
		FilterKeywords: keywords,
		MinLength:      minLength,
		UserAgent:      h.userAgent,
		Timeout:        h.timeout,
	}

	if err := h.session.Start(opts); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	metrics.ScrapeRuns.WithLabelValues("started").Inc()
	logger.Info("Scrape run started", zap.String("url", req.URL))

	return c.JSON(fiber.Map{"status": "started"})
}

// ScrapeStatus reports the session's status and accumulated log.
func (h *ScrapeHandler) ScrapeStatus(c *fiber.Ctx) error {
	status, log := h.session.Snapshot()
	return c.JSON(fiber.Map{
		"status": string(status),
		"log":    strings.Join(log, "\n"),
	})
}

// StopScrape cancels an in-flight run.
func (h *ScrapeHandler) StopScrape(c *fiber.Ctx) error {
	h.session.Stop()
	return c.JSON(fiber.Map{"status": "stopped"})
}

// ImportScrape turns the last finished run's comments into the current
// dataset and feeds them through the analysis pipeline.
func (h *ScrapeHandler) ImportScrape(c *fiber.Ctx) error {
	status, _ := h.session.Snapshot()
	if status != scraper.StatusFinished {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No finished scrape run to import",
		})
	}

	comments := h.session.Comments()
	if len(comments) == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Scrape run collected no comments",
		})
	}

	table := &dataset.Table{Columns: []string{"comment", "scraped_date"}}
	for _, comment := range comments {
		table.Rows = append(table.Rows, dataset.Row{
			"comment":      comment.Text,
			"scraped_date": comment.ScrapedAt,
		})
	}

	filename := fmt.Sprintf("scrape_%s.json", time.Now().Format("20060102_150405"))
	meta, err := h.datasets.saveAsCurrent(c.Context(), table, filename)
	if err != nil {
		logger.Error("Failed to import scraped comments", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to import scraped comments",
		})
	}

	rec := &models.ScrapeRecord{
		ID:           uuid.New().String(),
		URL:          h.session.URL(),
		CommentCount: len(comments),
		Status:       string(scraper.StatusFinished),
		CreatedAt:    time.Now(),
	}
	if err := h.db.SaveScrape(rec); err != nil {
		logger.Warn("Failed to record scrape run", zap.Error(err))
	}

	metrics.ScrapedComments.Add(float64(len(comments)))

	return c.JSON(fiber.Map{
		"id":       meta.ID,
		"filename": meta.Filename,
		"rows":     meta.RowCount,
	})
}
