package domain

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
)

// ActivitySummary holds figures derived from one activity query.
type ActivitySummary struct {
	Days           int      `json:"days"`
	TotalCommits   int      `json:"total_commits"`
	Authors        []string `json:"authors"`
	MeanPerDay     float64  `json:"mean_per_day"`
	MedianPerDay   float64  `json:"median_per_day"`
	BusiestDate    string   `json:"busiest_date,omitempty"`
	BusiestCommits int      `json:"busiest_commits"`
}

// Summarize computes an ActivitySummary over the given entries.
// An empty input yields a zero summary with an empty author list.
func Summarize(entries []CommitActivityEntry) (ActivitySummary, error) {
	summary := ActivitySummary{Days: len(entries), Authors: []string{}}
	if len(entries) == 0 {
		return summary, nil
	}

	counts := make([]int, 0, len(entries))
	seen := make(map[string]struct{})
	for _, e := range entries {
		counts = append(counts, e.Commits)
		summary.TotalCommits += e.Commits
		if e.Commits > summary.BusiestCommits || summary.BusiestDate == "" {
			summary.BusiestDate = e.Date
			summary.BusiestCommits = e.Commits
		}
		for _, a := range e.Authors {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			summary.Authors = append(summary.Authors, a)
		}
	}
	sort.Strings(summary.Authors)

	data := stats.LoadRawData(counts)
	mean, err := stats.Mean(data)
	if err != nil {
		return ActivitySummary{}, fmt.Errorf("failed to compute mean commits: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return ActivitySummary{}, fmt.Errorf("failed to compute median commits: %w", err)
	}
	summary.MeanPerDay, _ = stats.Round(mean, 2)
	summary.MedianPerDay, _ = stats.Round(median, 2)
	return summary, nil
}
