package window

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Ro-Data/compgrid/pkg/models/domain"
)

// WeekStart selects the first-day-of-week convention used by the week
// windows.
type WeekStart int

const (
	WeekStartMonday WeekStart = iota
	WeekStartSunday
)

// FirstDayOfWeek is the active week-start policy. The original reports used
// Monday; Sunday is supported for deployments that group weeks the other
// way.
var FirstDayOfWeek = WeekStartMonday

// QueryRunner executes SQL and returns its result as a time-series table.
// Field goal sub-queries go through this interface; the evaluator never
// touches a connection directly.
type QueryRunner interface {
	RunTimeSeries(ctx context.Context, query string) (*domain.Table, error)
}

// RowContext carries the per-row capabilities a field goal needs: the row's
// declared fields, the directory relative query paths resolve against, the
// query runner and the file reader. ReadFile defaults to os.ReadFile.
type RowContext struct {
	Fields   map[string]any
	Dir      string
	Runner   QueryRunner
	ReadFile func(path string) ([]byte, error)
}

// Evaluate applies a window spec to a row's table at the given anchor date.
// A nil result means no data matched the window; data-level gaps (missing
// dates, zero denominators) never produce an error. The error return is
// reserved for field goal collaborator failures.
func Evaluate(ctx context.Context, spec Spec, table *domain.Table, anchor time.Time, row *RowContext) (*float64, error) {
	anchor = domain.Day(anchor)

	switch spec.Kind {
	case KindDaysAgo:
		return at(table, anchor.AddDate(0, 0, -spec.N)), nil

	case KindWeekdayWeekend:
		end := anchor.AddDate(0, 0, -spec.N)
		start := end
		if wd := isoWeekday(end); wd >= 5 {
			// Saturday or Sunday counts the whole Fri-Sun weekend.
			start = end.AddDate(0, 0, -(wd - 4))
		}
		return sum(table, start, end), nil

	case KindTrailingAverage:
		return mean(table, anchor.AddDate(0, 0, -spec.N), anchor.AddDate(0, 0, -1)), nil

	case KindWeeksAgo:
		start := weekStart(anchor.AddDate(0, 0, 1)).AddDate(0, 0, -7*spec.N)
		return sum(table, start, start.AddDate(0, 0, 6)), nil

	case KindWeekToDate:
		start := weekStart(anchor).AddDate(0, 0, -7*spec.N)
		return sum(table, start, anchor.AddDate(0, 0, -7*spec.N)), nil

	case KindMonth:
		start := monthFirst(shiftMonths(anchor, spec.N))
		end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
		return sum(table, start, end), nil

	case KindMonthAgo:
		return at(table, shiftMonths(anchor, spec.N)), nil

	case KindMonthToDate:
		target := shiftMonths(anchor, spec.N)
		return sum(table, monthFirst(target), target), nil

	case KindMonthToDateAverage:
		target := shiftMonths(anchor, spec.N)
		return mean(table, monthFirst(target), target), nil

	case KindSinceDate:
		return sum(table, domain.Day(spec.Since), anchor), nil

	case KindNumberGoal:
		v := spec.Goal
		return &v, nil

	case KindFieldGoal:
		return evalFieldGoal(ctx, spec.Field, row)
	}

	return nil, nil
}

func evalFieldGoal(ctx context.Context, field string, row *RowContext) (*float64, error) {
	if row == nil {
		return nil, nil
	}

	switch v := row.Fields[field].(type) {
	case nil:
		return nil, nil
	case int:
		f := float64(v)
		return &f, nil
	case int64:
		f := float64(v)
		return &f, nil
	case float64:
		return &v, nil
	case string:
		// A non-numeric field value points at a query file.
		path := v
		if !filepath.IsAbs(path) {
			path = filepath.Join(row.Dir, path)
		}
		readFile := row.ReadFile
		if readFile == nil {
			readFile = os.ReadFile
		}
		sql, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read goal query %s: %w", path, err)
		}
		if row.Runner == nil {
			return nil, nil
		}
		table, err := row.Runner.RunTimeSeries(ctx, string(sql))
		if err != nil {
			return nil, fmt.Errorf("goal query %s failed: %w", path, err)
		}
		return sumAll(table), nil
	default:
		return nil, nil
	}
}

// at resolves a single-date selection: the ratio at that date, or nil when
// the date is absent.
func at(table *domain.Table, date time.Time) *float64 {
	obs, ok := table.At(date)
	if !ok {
		return nil
	}
	return table.Ratio(obs)
}

// sum aggregates per-date ratios over [start, end]. An empty selection is
// nil, and one undefined ratio makes the whole sum nil; there are no partial
// sums over undefined ratios.
func sum(table *domain.Table, start, end time.Time) *float64 {
	return aggregate(table.Range(start, end), table, false)
}

func sumAll(table *domain.Table) *float64 {
	return aggregate(table.All(), table, false)
}

// mean averages per-date ratios over [start, end], counting only dates that
// are present in the table.
func mean(table *domain.Table, start, end time.Time) *float64 {
	return aggregate(table.Range(start, end), table, true)
}

func aggregate(obs []domain.Observation, table *domain.Table, average bool) *float64 {
	if len(obs) == 0 {
		return nil
	}
	total := 0.0
	for _, o := range obs {
		r := table.Ratio(o)
		if r == nil {
			return nil
		}
		total += *r
	}
	if average {
		total /= float64(len(obs))
	}
	return &total
}

// isoWeekday maps a date to Monday=0 .. Sunday=6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func weekStart(t time.Time) time.Time {
	if FirstDayOfWeek == WeekStartSunday {
		return t.AddDate(0, 0, -((isoWeekday(t) + 1) % 7))
	}
	return t.AddDate(0, 0, -isoWeekday(t))
}

func monthFirst(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// shiftMonths moves a date n whole months back, decrementing the day until
// it lands on a valid calendar date so that e.g. March 31 shifted one month
// becomes the last day of February.
func shiftMonths(t time.Time, monthsAgo int) time.Time {
	year, month := t.Year(), int(t.Month())-monthsAgo
	for month < 1 {
		month += 12
		year--
	}
	for day := t.Day(); ; day-- {
		candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if candidate.Month() == time.Month(month) {
			return candidate
		}
	}
}
