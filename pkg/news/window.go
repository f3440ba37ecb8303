package news

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// DayCounts is one day's sentiment distribution. Counts sum to the number
// of headlines retrieved for that day, zero when the fetch failed or came
// back empty.
type DayCounts struct {
	Date     time.Time `json:"date"`
	Positive int       `json:"positive"`
	Negative int       `json:"negative"`
	Neutral  int       `json:"neutral"`
}

// Analyzer assembles the trailing daily sentiment window for a subject.
type Analyzer struct {
	client     *Client
	classifier *Classifier
	windowDays int
}

// NewAnalyzer wires a headline client and classifier into a window fetcher.
func NewAnalyzer(cfg *Config, client *Client) *Analyzer {
	return &Analyzer{
		client:     client,
		classifier: NewClassifier(),
		windowDays: cfg.WindowDays,
	}
}

// DailyCounts fetches the trailing window of headlines for subject, one
// day-bounded query per day, and classifies each day's snippets. The
// per-day fetches run concurrently and are reassembled by day index, never
// by completion order. A day whose fetch fails is logged and becomes a
// zero-count row instead of failing the window; partial sentiment data is
// more useful than none. The result always has exactly windowDays rows,
// oldest first.
func (a *Analyzer) DailyCounts(ctx context.Context, subject string, now time.Time) []DayCounts {
	today := truncateDay(now)
	rows := make([]DayCounts, a.windowDays)

	type dayResult struct {
		idx      int
		snippets []string
	}
	results := make(chan dayResult, a.windowDays)

	for i := 0; i < a.windowDays; i++ {
		// Row i covers the day starting windowDays-i days ago, so the
		// window reads oldest to newest.
		back := a.windowDays - i
		from := today.AddDate(0, 0, -back)
		to := today.AddDate(0, 0, -back+1)
		rows[i] = DayCounts{Date: from}

		go func(idx int, from, to time.Time) {
			snippets, err := a.client.Headlines(ctx, subject, from, to)
			if err != nil {
				logx.WithContext(ctx).Errorf("news %s: day %s failed, counting zero: %v",
					subject, from.Format("2006-01-02"), err)
				snippets = nil
			}
			results <- dayResult{idx: idx, snippets: snippets}
		}(i, from, to)
	}

	for i := 0; i < a.windowDays; i++ {
		r := <-results
		pos, neg, neu := a.classifier.Count(r.snippets)
		rows[r.idx].Positive = pos
		rows[r.idx].Negative = neg
		rows[r.idx].Neutral = neu
	}
	return rows
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
