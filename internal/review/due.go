package review

import "cloud.google.com/go/civil"

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// urgentOverdueDays is the overdue threshold above which any item is urgent.
const urgentOverdueDays = 7

func (p Priority) rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityNormal:
		return 1
	default:
		return 2
	}
}

// IsDueToday reports whether nextReviewDate is today or earlier.
func IsDueToday(nextReviewDate, today civil.Date) bool {
	return !nextReviewDate.After(today)
}

// DaysOverdue returns the days elapsed since nextReviewDate, negative when the
// item is not due yet.
func DaysOverdue(nextReviewDate, today civil.Date) int {
	return today.DaysSince(nextReviewDate)
}

// ClassifyPriority classifies how urgently an item should be reviewed.
func ClassifyPriority(nextReviewDate, today civil.Date, confidence int) Priority {
	if nextReviewDate.After(today) {
		return PriorityLow
	}
	if DaysOverdue(nextReviewDate, today) > urgentOverdueDays || confidence < PassingConfidence {
		return PriorityUrgent
	}
	return PriorityNormal
}
