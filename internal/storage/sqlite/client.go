package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/storage/models"
	"github.com/sentilens/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		column_count INTEGER NOT NULL,
		text_column TEXT,
		time_column TEXT,
		snapshot_md5 TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		uploaded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_datasets_uploaded ON datasets(uploaded_at);

	CREATE TABLE IF NOT EXISTS analysis_history (
		id TEXT PRIMARY KEY,
		dataset_id TEXT NOT NULL,
		report TEXT NOT NULL,
		duration_ms INTEGER,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (dataset_id) REFERENCES datasets(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_analysis_dataset ON analysis_history(dataset_id);

	CREATE TABLE IF NOT EXISTS chat_history (
		id TEXT PRIMARY KEY,
		dataset_id TEXT,
		question TEXT NOT NULL,
		answer TEXT,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_dataset ON chat_history(dataset_id);

	CREATE TABLE IF NOT EXISTS scrape_history (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		comment_count INTEGER,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("Database schema initialized")
	return nil
}

// SaveDataset stores a dataset's metadata and its processed snapshot.
func (c *Client) SaveDataset(meta *models.Dataset, snapshotJSON string) error {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO datasets
		(id, filename, row_count, column_count, text_column, time_column, snapshot_md5, snapshot, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Filename, meta.RowCount, meta.ColumnCount,
		meta.TextColumn, meta.TimeColumn, meta.SnapshotMD5, snapshotJSON,
		meta.UploadedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}
	return nil
}

// GetDataset returns a dataset's metadata and snapshot by id.
func (c *Client) GetDataset(id string) (*models.Dataset, string, error) {
	row := c.db.QueryRow(`
		SELECT id, filename, row_count, column_count, text_column, time_column, snapshot_md5, snapshot, uploaded_at
		FROM datasets WHERE id = ?`, id)

	var meta models.Dataset
	var snapshot string
	var uploadedAt int64
	err := row.Scan(&meta.ID, &meta.Filename, &meta.RowCount, &meta.ColumnCount,
		&meta.TextColumn, &meta.TimeColumn, &meta.SnapshotMD5, &snapshot, &uploadedAt)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query dataset: %w", err)
	}
	meta.UploadedAt = time.Unix(uploadedAt, 0)
	return &meta, snapshot, nil
}

// ListDatasets returns dataset metadata newest first, without snapshots.
func (c *Client) ListDatasets() ([]*models.Dataset, error) {
	rows, err := c.db.Query(`
		SELECT id, filename, row_count, column_count, text_column, time_column, snapshot_md5, uploaded_at
		FROM datasets ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var out []*models.Dataset
	for rows.Next() {
		var meta models.Dataset
		var uploadedAt int64
		err := rows.Scan(&meta.ID, &meta.Filename, &meta.RowCount, &meta.ColumnCount,
			&meta.TextColumn, &meta.TimeColumn, &meta.SnapshotMD5, &uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		meta.UploadedAt = time.Unix(uploadedAt, 0)
		out = append(out, &meta)
	}
	return out, rows.Err()
}

// SetCurrentDataset records the last-loaded dataset. A new selection
// fully replaces the previous one.
func (c *Client) SetCurrentDataset(id string) error {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO app_state (key, value) VALUES ('current_dataset', ?)`, id)
	if err != nil {
		return fmt.Errorf("failed to set current dataset: %w", err)
	}
	return nil
}

// CurrentDataset returns the id of the last-loaded dataset, or empty.
func (c *Client) CurrentDataset() (string, error) {
	row := c.db.QueryRow(`SELECT value FROM app_state WHERE key = 'current_dataset'`)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query current dataset: %w", err)
	}
	return id, nil
}

// SaveAnalysis appends one completed run to the history.
func (c *Client) SaveAnalysis(rec *models.AnalysisRecord) error {
	_, err := c.db.Exec(`
		INSERT INTO analysis_history (id, dataset_id, report, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.DatasetID, rec.ReportJSON, rec.DurationMS, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}
	return nil
}

// SaveChat appends one chat exchange to the history.
func (c *Client) SaveChat(rec *models.ChatRecord) error {
	_, err := c.db.Exec(`
		INSERT INTO chat_history (id, dataset_id, question, answer, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.DatasetID, rec.Question, rec.Answer, rec.LatencyMS, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat record: %w", err)
	}
	return nil
}

// SaveScrape appends one scraper run to the history.
func (c *Client) SaveScrape(rec *models.ScrapeRecord) error {
	_, err := c.db.Exec(`
		INSERT INTO scrape_history (id, url, comment_count, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.URL, rec.CommentCount, rec.Status, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scrape record: %w", err)
	}
	return nil
}
