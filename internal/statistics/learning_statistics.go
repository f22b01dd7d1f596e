package statistics

import (
	"math"
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/glean/internal/learning"
	"github.com/at-ishikawa/glean/internal/review"
)

// TopicStatistics summarizes the non-archived items of one topic.
type TopicStatistics struct {
	Topic             string  `yaml:"topic"`
	Total             int     `yaml:"total"`
	Mastered          int     `yaml:"mastered"`
	AverageConfidence float64 `yaml:"average_confidence"`
}

// Result holds the learning statistics at a point in time
type Result struct {
	Total    int `yaml:"total"`
	Active   int `yaml:"active"`
	Mastered int `yaml:"mastered"`
	Archived int `yaml:"archived"`

	DueToday     int `yaml:"due_today"`
	ReviewsToday int `yaml:"reviews_today"`
	// MasteryPercentage is mastered / non-archived items, rounded to an integer.
	MasteryPercentage int `yaml:"mastery_percentage"`

	// CurrentStreak counts consecutive review days ending today or yesterday.
	CurrentStreak  int         `yaml:"current_streak"`
	LongestStreak  int         `yaml:"longest_streak"`
	LastReviewDate *civil.Date `yaml:"last_review_date,omitempty"`

	Topics []TopicStatistics `yaml:"topics"`

	Period    Period     `yaml:"period"`
	StartDate civil.Date `yaml:"start_date"`
	EndDate   civil.Date `yaml:"end_date"`
	// NewItems were created on or after StartDate.
	NewItems        int `yaml:"new_items"`
	ReviewedItems   int `yaml:"reviewed_items"`
	ReviewsInPeriod int `yaml:"reviews_in_period"`
	// WeeklyReviews holds the review count of each of the last seven days, oldest first.
	WeeklyReviews []int `yaml:"weekly_reviews"`
}

const weeklyDays = 7

type topicData struct {
	total           int
	mastered        int
	confidenceTotal int
}

// Calculate computes statistics over items, counting new items and reviews
// within period. Days are taken in the location of now.
func Calculate(items []learning.Item, now time.Time, period Period) Result {
	today := review.Today(now)
	weekStart := today.AddDays(-(weeklyDays - 1))
	result := Result{
		Total:         len(items),
		Topics:        []TopicStatistics{},
		Period:        period,
		StartDate:     period.StartDate(now),
		EndDate:       today,
		WeeklyReviews: make([]int, weeklyDays),
	}

	topics := make(map[string]*topicData)
	reviewDays := make(map[civil.Date]struct{})

	for _, item := range items {
		switch item.Status {
		case learning.StatusActive:
			result.Active++
			if review.IsDueToday(item.SpaceRep.NextReviewDate, today) {
				result.DueToday++
			}
		case learning.StatusMastered:
			result.Mastered++
		case learning.StatusArchived:
			result.Archived++
		}

		if !civil.DateOf(item.CreatedAt.In(now.Location())).Before(result.StartDate) {
			result.NewItems++
		}
		if item.SpaceRep.ReviewCount > 0 {
			result.ReviewedItems++
		}

		for _, record := range item.History {
			day := civil.DateOf(record.Date.In(now.Location()))
			reviewDays[day] = struct{}{}
			if day == today {
				result.ReviewsToday++
			}
			if !day.Before(result.StartDate) && !day.After(today) {
				result.ReviewsInPeriod++
			}
			if !day.Before(weekStart) && !day.After(today) {
				result.WeeklyReviews[day.DaysSince(weekStart)]++
			}
		}

		if item.Status == learning.StatusArchived {
			continue
		}
		data, ok := topics[item.Classification.Topic]
		if !ok {
			data = &topicData{}
			topics[item.Classification.Topic] = data
		}
		data.total++
		data.confidenceTotal += item.SpaceRep.Confidence
		if item.Status == learning.StatusMastered {
			data.mastered++
		}
	}

	if notArchived := result.Active + result.Mastered; notArchived > 0 {
		result.MasteryPercentage = int(math.Round(float64(result.Mastered) / float64(notArchived) * 100))
	}

	for topic, data := range topics {
		result.Topics = append(result.Topics, TopicStatistics{
			Topic:             topic,
			Total:             data.total,
			Mastered:          data.mastered,
			AverageConfidence: math.Round(float64(data.confidenceTotal)/float64(data.total)*100) / 100,
		})
	}
	sort.Slice(result.Topics, func(i, j int) bool {
		return result.Topics[i].Topic < result.Topics[j].Topic
	})

	result.CurrentStreak, result.LongestStreak, result.LastReviewDate = calculateStreaks(reviewDays, today)
	return result
}

func calculateStreaks(reviewDays map[civil.Date]struct{}, today civil.Date) (current, longest int, last *civil.Date) {
	if len(reviewDays) == 0 {
		return 0, 0, nil
	}

	days := make([]civil.Date, 0, len(reviewDays))
	for day := range reviewDays {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	run := 0
	for i, day := range days {
		if i > 0 && days[i-1].AddDays(1) == day {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	lastDay := days[len(days)-1]
	// run now holds the streak ending on the last review day
	if today.DaysSince(lastDay) <= 1 {
		current = run
	}
	return current, longest, &lastDay
}
