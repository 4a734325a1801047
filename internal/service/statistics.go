package service

import (
	"fmt"
	"math"
	"time"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/util"
)

const (
	scoreBuckets = 10
	dailyWindow  = 30
)

// bucketLabels are "0-9", "10-19", ... "90-100", matching bucketIndex. The last bucket also holds 100.
var bucketLabels = func() []string {
	labels := make([]string, scoreBuckets)
	for i := range labels {
		hi := i*10 + 9
		if i == scoreBuckets-1 {
			hi = 100
		}
		labels[i] = fmt.Sprintf("%d-%d", i*10, hi)
	}
	return labels
}()

func bucketIndex(score float64) int {
	i := int(math.Floor(score / 10))
	if i < 0 {
		return 0
	}
	if i >= scoreBuckets {
		return scoreBuckets - 1
	}
	return i
}

// ComputeStatistics aggregates completed attempts. Attempts without a score count as 0.
// Daily counts cover the dailyWindow days ending at now, by end time.
func ComputeStatistics(test *domain.Test, attempts []*domain.TestAttempt, now time.Time) *dto.TestStatistics {
	stats := &dto.TestStatistics{
		TestID:       test.ID,
		Distribution: make([]dto.ScoreBucket, scoreBuckets),
		Daily:        make([]dto.DailyCount, dailyWindow),
	}
	for i, label := range bucketLabels {
		stats.Distribution[i].Label = label
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := today.AddDate(0, 0, -(dailyWindow - 1))
	dayIndex := make(map[string]int, dailyWindow)
	for i := 0; i < dailyWindow; i++ {
		d := first.AddDate(0, 0, i).Format(time.DateOnly)
		stats.Daily[i].Date = d
		dayIndex[d] = i
	}

	sum := 0.0
	for _, a := range attempts {
		if !a.IsCompleted() {
			continue
		}
		score := 0.0
		if a.Score != nil {
			score = *a.Score
		}
		if stats.TotalAttempts == 0 || score > stats.HighestScore {
			stats.HighestScore = score
		}
		if stats.TotalAttempts == 0 || score < stats.LowestScore {
			stats.LowestScore = score
		}
		stats.TotalAttempts++
		sum += score
		if test.Passed(score) {
			stats.PassCount++
		} else {
			stats.FailCount++
		}
		stats.Distribution[bucketIndex(score)].Count++

		if a.EndTime != nil {
			if i, ok := dayIndex[a.EndTime.In(now.Location()).Format(time.DateOnly)]; ok {
				stats.Daily[i].Count++
			}
		}
	}

	if stats.TotalAttempts > 0 {
		stats.AverageScore = util.Round2(sum / float64(stats.TotalAttempts))
		stats.PassRate = util.Percentage(float64(stats.PassCount), float64(stats.TotalAttempts))
	}
	return stats
}
