package sentiment

import (
	"fmt"
	"math"

	"github.com/drankou/go-vader/vader"
	"go.uber.org/zap"

	"github.com/sentilens/backend/pkg/logger"
)

// VaderScorer wraps the VADER intensity analyzer behind the Scorer
// interface. The lexicon files ship with the go-vader module and their
// paths come from config.
type VaderScorer struct {
	sia *vader.SentimentIntensityAnalyzer
}

// NewVaderScorer loads the word and emoji lexicons from disk.
func NewVaderScorer(lexiconPath, emojiLexiconPath string) (*VaderScorer, error) {
	sia := &vader.SentimentIntensityAnalyzer{}
	if err := sia.Init(lexiconPath, emojiLexiconPath); err != nil {
		return nil, fmt.Errorf("failed to load vader lexicon: %w", err)
	}

	logger.Info("Sentiment scorer initialized",
		zap.String("lexicon", lexiconPath),
		zap.Int("entries", len(sia.LexiconMap)),
	)

	return &VaderScorer{sia: sia}, nil
}

// Compound returns the normalized compound polarity score, clamped to
// [-1, 1].
func (v *VaderScorer) Compound(text string) float64 {
	score := v.sia.PolarityScores(text)["compound"]
	return math.Max(-1, math.Min(1, score))
}
