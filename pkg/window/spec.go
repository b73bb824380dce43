// Package window implements the temporal window expression language used by
// comparison grid columns: parsing short textual expressions into typed
// specs and evaluating those specs against a row's time-series table.
package window

import (
	"fmt"
	"strconv"
	"time"
)

// Kind tags the closed set of window spec variants.
type Kind int

const (
	KindDaysAgo Kind = iota
	KindWeekdayWeekend
	KindTrailingAverage
	KindWeeksAgo
	KindWeekToDate
	KindMonth
	KindMonthAgo
	KindMonthToDate
	KindMonthToDateAverage
	KindSinceDate
	KindNumberGoal
	KindFieldGoal
)

// Spec is a parsed, typed description of a historical date selection rule.
// Which parameter is meaningful depends on Kind: N for the day/week/month
// variants, Since for KindSinceDate, Goal for KindNumberGoal and Field for
// KindFieldGoal.
type Spec struct {
	Kind  Kind
	N     int
	Since time.Time
	Goal  float64
	Field string
}

// String re-derives a canonical expression. Parsing the result yields an
// equivalent window.
func (s Spec) String() string {
	switch s.Kind {
	case KindDaysAgo:
		if s.N == 0 {
			return "yesterday"
		}
		return fmt.Sprintf("daysago(%d)", s.N)
	case KindWeekdayWeekend:
		return "weekdayweekend"
	case KindTrailingAverage:
		return fmt.Sprintf("trailingavg(%d)", s.N)
	case KindWeeksAgo:
		return fmt.Sprintf("week(%d)", s.N)
	case KindWeekToDate:
		return fmt.Sprintf("wtd(%d)", s.N)
	case KindMonth:
		return fmt.Sprintf("month(%d)", s.N)
	case KindMonthAgo:
		return fmt.Sprintf("monthago(%d)", s.N)
	case KindMonthToDate:
		return fmt.Sprintf("mtd(%d)", s.N)
	case KindMonthToDateAverage:
		return fmt.Sprintf("mtdavg(%d)", s.N)
	case KindSinceDate:
		return fmt.Sprintf("since(%s)", s.Since.Format("2006-01-02"))
	case KindNumberGoal:
		return fmt.Sprintf("goal(%s)", strconv.Itoa(int(s.Goal)))
	case KindFieldGoal:
		return fmt.Sprintf("goal(%s)", s.Field)
	}
	return "unknown"
}
