package engine

import "math"

// Stats summarizes one batch of results. Rates are rounded to whole
// percentages to match what the dashboard displays.
type Stats struct {
	Total             int `json:"total"`
	Matched           int `json:"matched"`
	PartiallyMatched  int `json:"partially_matched"`
	NotMatched        int `json:"not_matched"`
	Duplicates        int `json:"duplicates"`
	MatchRate         int `json:"match_rate"`
	AverageConfidence int `json:"average_confidence"`
}

// Summarize aggregates a result set without mutating it. An empty input
// yields zero stats, never an error.
func Summarize(results []Result) Stats {
	s := Stats{Total: len(results)}
	if s.Total == 0 {
		return s
	}

	totalConfidence := 0
	for _, r := range results {
		switch r.Status {
		case StatusMatched:
			s.Matched++
		case StatusPartiallyMatched:
			s.PartiallyMatched++
		case StatusNotMatched:
			s.NotMatched++
		case StatusDuplicate:
			s.Duplicates++
		}
		totalConfidence += r.Confidence
	}

	s.MatchRate = int(math.Round(float64(s.Matched) / float64(s.Total) * 100))
	s.AverageConfidence = int(math.Round(float64(totalConfidence) / float64(s.Total)))
	return s
}
