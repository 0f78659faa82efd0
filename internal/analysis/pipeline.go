package analysis

import (
	"time"

	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/analysis/issues"
	"github.com/sentilens/backend/internal/analysis/keywords"
	"github.com/sentilens/backend/internal/analysis/market"
	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/analysis/trend"
	"github.com/sentilens/backend/internal/dataset"
	"github.com/sentilens/backend/pkg/logger"
)

// Report is the combined output of one analysis run. Each fragment is
// computed independently from the classified table; a fragment that could
// not be computed is empty, never an error.
type Report struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Trends      []trend.Bucket         `json:"trends"`
	Topics      []keywords.Topic       `json:"topics"`
	Keywords    []keywords.KeywordCount `json:"keywords"`
	Market      market.Insights        `json:"market"`
	Issues      []issues.Issue         `json:"issues"`
}

// Pipeline runs the full analysis pass over one table.
type Pipeline struct {
	classifier *sentiment.Classifier
	topN       int
}

func NewPipeline(scorer sentiment.Scorer, topN int) *Pipeline {
	if topN <= 0 {
		topN = keywords.DefaultTopN
	}
	return &Pipeline{
		classifier: sentiment.NewClassifier(scorer),
		topN:       topN,
	}
}

// Run classifies the table in place and derives every report fragment
// from it. The pipeline assumes exclusive ownership of the table; each
// downstream stage only reads the classified rows.
func (p *Pipeline) Run(t *dataset.Table) *Report {
	started := time.Now()

	classified := p.classifier.Classify(t)
	timeCol, _ := dataset.TimeColumn(classified)

	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Trends:      trend.Aggregate(classified, timeCol),
		Topics:      keywords.TrendingTopics(classified, p.topN),
		Keywords:    keywords.TopKeywords(classified, 20),
		Market:      market.Synthesize(classified),
		Issues:      issues.Detect(classified),
	}

	logger.Info("Analysis pass completed",
		zap.Int("rows", len(classified.Rows)),
		zap.Int("topics", len(report.Topics)),
		zap.Int("issues", len(report.Issues)),
		zap.Duration("duration", time.Since(started)),
	)

	return report
}
