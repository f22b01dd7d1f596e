package statistics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Period is the window Calculate counts new items and reviews in.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"

	DefaultPeriod = PeriodMonth
)

// weeklyChartBars is indexed by a height from 0 to 5.
var weeklyChartBars = []rune("▁▂▃▄▅█")

// ParsePeriod returns DefaultPeriod for an empty string.
func ParsePeriod(value string) (Period, error) {
	switch Period(value) {
	case "":
		return DefaultPeriod, nil
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return Period(value), nil
	default:
		return "", fmt.Errorf("invalid period %q, valid values are %s, %s, %s or %s",
			value, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear)
	}
}

// StartDate returns the first day of the period ending on now's date.
// Unknown periods fall back to a month.
func (p Period) StartDate(now time.Time) civil.Date {
	switch p {
	case PeriodWeek:
		return civil.DateOf(now.AddDate(0, 0, -7))
	case PeriodQuarter:
		return civil.DateOf(now.AddDate(0, -3, 0))
	case PeriodYear:
		return civil.DateOf(now.AddDate(-1, 0, 0))
	default:
		return civil.DateOf(now.AddDate(0, -1, 0))
	}
}

// WeeklyChart draws one bar per value, scaled to the largest value.
func WeeklyChart(values []int) string {
	highest := 1
	for _, v := range values {
		highest = max(highest, v)
	}

	var chart strings.Builder
	for _, v := range values {
		height := 0
		if v > 0 {
			height = int(math.Round(float64(v*5) / float64(highest)))
		}
		chart.WriteRune(weeklyChartBars[height])
	}
	return chart.String()
}
