package sentiment

import (
	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/dataset"
	"github.com/sentilens/backend/pkg/logger"
)

// Label is a row's polarity class.
type Label string

const (
	Positive Label = "Positive"
	Neutral  Label = "Neutral"
	Negative Label = "Negative"
)

// Columns the classifier appends to the table.
const (
	Column      = "sentiment"
	ScoreColumn = "sentiment_score"
)

// Thresholds mapping a compound score to a label.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Scorer computes a compound polarity score in [-1, 1] for a text. The
// scoring engine is a black box to the classifier.
type Scorer interface {
	Compound(text string) float64
}

// Classifier assigns a sentiment label and score to every row of a table.
type Classifier struct {
	scorer Scorer
}

func NewClassifier(scorer Scorer) *Classifier {
	return &Classifier{scorer: scorer}
}

// LabelFor maps a compound score to its label: >= 0.05 Positive,
// <= -0.05 Negative, otherwise Neutral.
func LabelFor(score float64) Label {
	switch {
	case score >= positiveThreshold:
		return Positive
	case score <= negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Classify appends sentiment and sentiment_score columns to every row and
// returns the same table. Rows without string text score Neutral / 0.
// When no text column resolves the table is returned unchanged and
// downstream consumers degrade on the missing sentiment column.
func (c *Classifier) Classify(t *dataset.Table) *dataset.Table {
	textCol, ok := dataset.TextColumnWithFallback(t)
	if !ok {
		logger.Warn("No suitable text column found, skipping sentiment analysis")
		return t
	}

	logger.Info("Running sentiment analysis", zap.String("column", textCol), zap.Int("rows", len(t.Rows)))

	for _, row := range t.Rows {
		score := 0.0
		if text, isStr := row.String(textCol); isStr {
			score = c.scorer.Compound(text)
		}
		row[Column] = string(LabelFor(score))
		row[ScoreColumn] = score
	}

	t.AddColumn(Column)
	t.AddColumn(ScoreColumn)
	return t
}

// RowLabel reads a row's sentiment label, defaulting to Neutral when the
// column is absent or malformed.
func RowLabel(row dataset.Row) Label {
	if s, ok := row.String(Column); ok {
		switch Label(s) {
		case Positive, Negative, Neutral:
			return Label(s)
		}
	}
	return Neutral
}
