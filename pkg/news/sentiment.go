package news

import (
	"strings"

	"github.com/jonreiter/govader"
)

// Classification thresholds on the VADER compound score. Fixed design
// constants, not tunable per call.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// Label is a three-class sentiment bucket.
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Classifier buckets free text by its lexical compound polarity score.
// It is stateless after construction and safe for concurrent use.
type Classifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewClassifier builds a classifier with the embedded VADER lexicon.
func NewClassifier() *Classifier {
	return &Classifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Classify scores one snippet. Empty or whitespace-only text is neutral;
// otherwise compound >= 0.2 is positive and compound <= -0.2 is negative.
func (c *Classifier) Classify(text string) Label {
	if strings.TrimSpace(text) == "" {
		return Neutral
	}
	compound := c.analyzer.PolarityScores(text).Compound
	switch {
	case compound >= positiveThreshold:
		return Positive
	case compound <= negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Count tallies a day's snippets into a class distribution. The three
// counts always sum to len(texts).
func (c *Classifier) Count(texts []string) (positive, negative, neutral int) {
	for _, t := range texts {
		switch c.Classify(t) {
		case Positive:
			positive++
		case Negative:
			negative++
		default:
			neutral++
		}
	}
	return positive, negative, neutral
}
