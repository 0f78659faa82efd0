package models

import "time"

// Dataset is the stored metadata for one uploaded or scraped dataset.
// The processed table snapshot lives alongside it as a JSON blob.
type Dataset struct {
	ID          string
	Filename    string
	RowCount    int
	ColumnCount int
	TextColumn  string
	TimeColumn  string
	SnapshotMD5 string
	UploadedAt  time.Time
}

// AnalysisRecord is one completed analysis run over a dataset.
type AnalysisRecord struct {
	ID         string
	DatasetID  string
	ReportJSON string
	DurationMS int
	CreatedAt  time.Time
}

// ChatRecord is one question answered by the chat assistant.
type ChatRecord struct {
	ID        string
	DatasetID string
	Question  string
	Answer    string
	LatencyMS int
	CreatedAt time.Time
}

// ScrapeRecord is one finished scraper run.
type ScrapeRecord struct {
	ID           string
	URL          string
	CommentCount int
	Status       string
	CreatedAt    time.Time
}
