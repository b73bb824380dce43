package window

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/Ro-Data/compgrid/pkg/models/domain"
)

// Expression patterns, tried in declaration order after the literal matches.
// The order is part of the contract: goal(42) and goal(fieldname) share a
// prefix and must resolve to a number goal and a field goal respectively.
var (
	reDaysAgo     = regexp.MustCompile(`^daysago\((\d+)\)$`)
	reWeek        = regexp.MustCompile(`^week\((\d+)\)$`)
	reTrailingAvg = regexp.MustCompile(`^trailingavg\((\d+)\)$`)
	reMonth       = regexp.MustCompile(`^month\((\d+)\)$`)
	reMonthAgo    = regexp.MustCompile(`^monthago\((\d+)\)$`)
	reWTD         = regexp.MustCompile(`^wtd\((\d+)\)$`)
	reMTDAvg      = regexp.MustCompile(`^mtdavg\((\d+)\)$`)
	reMTD         = regexp.MustCompile(`^mtd\((\d+)\)$`)
	reSince       = regexp.MustCompile(`^since\((\d{4}-\d{2}-\d{2})\)$`)
	reNumberGoal  = regexp.MustCompile(`^goal\((\d+)\)$`)
	reFieldGoal   = regexp.MustCompile(`^goal\(([^)]+)\)$`)
)

// Parse turns a window expression into a Spec. line is the 1-based source
// line of the column the expression came from and is attached to the error
// on failure.
func Parse(text string, line int) (Spec, error) {
	switch text {
	case "yesterday":
		return Spec{Kind: KindDaysAgo, N: 0}, nil
	case "weekdayweekend":
		return Spec{Kind: KindWeekdayWeekend, N: 0}, nil
	case "lastweek":
		return Spec{Kind: KindWeeksAgo, N: 1}, nil
	case "month":
		return Spec{Kind: KindMonth, N: 1}, nil
	case "monthago":
		return Spec{Kind: KindMonthAgo, N: 1}, nil
	case "wtd":
		return Spec{Kind: KindWeekToDate, N: 0}, nil
	case "mtdavg":
		return Spec{Kind: KindMonthToDateAverage, N: 0}, nil
	case "mtd":
		return Spec{Kind: KindMonthToDate, N: 0}, nil
	}

	if m := reDaysAgo.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindDaysAgo, N: mustInt(m[1])}, nil
	}
	if m := reWeek.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindWeeksAgo, N: mustInt(m[1])}, nil
	}
	if m := reTrailingAvg.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindTrailingAverage, N: mustInt(m[1])}, nil
	}
	if m := reMonth.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindMonth, N: mustInt(m[1])}, nil
	}
	if m := reMonthAgo.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindMonthAgo, N: mustInt(m[1])}, nil
	}
	if m := reWTD.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindWeekToDate, N: mustInt(m[1])}, nil
	}
	if m := reMTDAvg.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindMonthToDateAverage, N: mustInt(m[1])}, nil
	}
	if m := reMTD.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindMonthToDate, N: mustInt(m[1])}, nil
	}
	if m := reSince.FindStringSubmatch(text); m != nil {
		since, err := time.ParseInLocation("2006-01-02", m[1], time.UTC)
		if err == nil {
			return Spec{Kind: KindSinceDate, Since: since}, nil
		}
	}
	if m := reNumberGoal.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindNumberGoal, Goal: float64(mustInt(m[1]))}, nil
	}
	if m := reFieldGoal.FindStringSubmatch(text); m != nil {
		return Spec{Kind: KindFieldGoal, Field: m[1]}, nil
	}

	return Spec{}, &domain.ConfigError{
		Message: fmt.Sprintf("unknown column value '%s'", text),
		Line:    line,
	}
}

func mustInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
