package validation

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var allowedExtensions = map[string]bool{
	".csv":  true,
	".json": true,
}

type Config struct {
	MaxQuestionLength int
	MaxUploadSize     int
	Logger            *zap.Logger
}

// Middleware enforces payload limits on the upload, chat and scrape
// endpoints before handlers touch the body.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxQuestionLength == 0 {
		cfg.MaxQuestionLength = 5000
	}
	if cfg.MaxUploadSize == 0 {
		cfg.MaxUploadSize = 50 * 1024 * 1024
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()

		if c.Method() == fiber.MethodPost && strings.HasSuffix(path, "/chat") {
			var req struct {
				Question string `json:"question"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}
			if len(req.Question) > cfg.MaxQuestionLength {
				cfg.Logger.Warn("Chat question too long", zap.Int("length", len(req.Question)))
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Question exceeds maximum length",
				})
			}
		}

		if c.Method() == fiber.MethodPost && strings.HasSuffix(path, "/datasets") {
			if len(c.Body()) > cfg.MaxUploadSize {
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
					"error": "Upload exceeds maximum size",
				})
			}
		}

		if c.Method() == fiber.MethodPost && strings.HasSuffix(path, "/scrape") {
			var req struct {
				URL string `json:"url"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}
			if !isValidURL(req.URL) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid scrape URL",
				})
			}
		}

		return c.Next()
	}
}

// AllowedFile reports whether the filename has a loadable extension.
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
