package reconciliation

import (
	"math"
	"time"

	"github.com/suriya1233/smart-reconciliation-system/internal/repository"
)

// GlobalStats tallies results across all batches.
func (s *Service) GlobalStats() (map[string]int64, error) {
	rows, err := s.resultRepo.CountByStatus(nil)
	if err != nil {
		return nil, err
	}
	counts := map[string]int64{
		"total":             0,
		"matched":           0,
		"partially_matched": 0,
		"not_matched":       0,
		"duplicate":         0,
		"pending_review":    0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
		counts["total"] += row.Count
	}
	return counts, nil
}

// DailyStat is one day's reconciliation outcome for trend charts. Accuracy
// is the matched share in percent, one decimal place.
type DailyStat struct {
	Date             string  `json:"date"`
	Accuracy         float64 `json:"accuracy"`
	Total            int64   `json:"total"`
	Matched          int64   `json:"matched"`
	PartiallyMatched int64   `json:"partially_matched"`
	NotMatched       int64   `json:"not_matched"`
	Duplicates       int64   `json:"duplicates"`
}

// HistoricalStats buckets results per day over [start, end].
func (s *Service) HistoricalStats(start, end time.Time) ([]DailyStat, error) {
	rows, err := s.resultRepo.CountByDay(start, end)
	if err != nil {
		return nil, err
	}
	stats := make([]DailyStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, toDailyStat(row))
	}
	return stats, nil
}

func toDailyStat(row repository.DailyCount) DailyStat {
	stat := DailyStat{
		Date:             row.Day.Format("Jan 2"),
		Total:            row.Total,
		Matched:          row.Matched,
		PartiallyMatched: row.PartiallyMatched,
		NotMatched:       row.NotMatched,
		Duplicates:       row.Duplicates,
	}
	if row.Total > 0 {
		stat.Accuracy = math.Round(float64(row.Matched)/float64(row.Total)*1000) / 10
	}
	return stat
}
