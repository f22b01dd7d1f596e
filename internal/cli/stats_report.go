package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/at-ishikawa/glean/internal/statistics"
)

const progressBarWidth = 20

// WriteStatistics prints a summary of the learning statistics
func WriteStatistics(output io.Writer, result statistics.Result) error {
	bold := color.New(color.Bold)

	_, _ = bold.Fprintln(output, "Items")
	_, _ = fmt.Fprintf(output, "  total: %d (active %d, mastered %d, archived %d)\n",
		result.Total, result.Active, result.Mastered, result.Archived)
	_, _ = fmt.Fprintf(output, "  due today: %d, reviewed today: %d\n", result.DueToday, result.ReviewsToday)
	_, _ = fmt.Fprintf(output, "  mastery: %s %d%%\n", progressBar(result.MasteryPercentage, progressBarWidth), result.MasteryPercentage)

	_, _ = bold.Fprintln(output, "Streak")
	_, _ = fmt.Fprintf(output, "  current: %d day(s), longest: %d day(s)\n", result.CurrentStreak, result.LongestStreak)
	if result.LastReviewDate != nil {
		_, _ = fmt.Fprintf(output, "  last review: %s\n", result.LastReviewDate)
	}

	if result.Period != "" {
		_, _ = bold.Fprintln(output, "Period")
		_, _ = fmt.Fprintf(output, "  %s: %s ~ %s\n", result.Period, result.StartDate, result.EndDate)
		_, _ = fmt.Fprintf(output, "  new items: %d, reviews: %d, reviewed items: %d\n",
			result.NewItems, result.ReviewsInPeriod, result.ReviewedItems)
		_, _ = fmt.Fprintf(output, "  last 7 days: %s\n", statistics.WeeklyChart(result.WeeklyReviews))
	}

	if len(result.Topics) == 0 {
		return nil
	}
	_, _ = bold.Fprintln(output, "Topics")
	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "  TOPIC\tTOTAL\tMASTERED\tAVG CONFIDENCE")
	for _, topic := range result.Topics {
		_, _ = fmt.Fprintf(w, "  %s\t%d\t%d\t%.2f\n", topic.Topic, topic.Total, topic.Mastered, topic.AverageConfidence)
	}
	return w.Flush()
}

func progressBar(percentage, width int) string {
	percentage = min(max(percentage, 0), 100)
	filled := percentage * width / 100
	return strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
}
