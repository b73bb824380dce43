// Package sql executes row queries against a warehouse connection and scans
// the results into time-series tables.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ro-Data/compgrid/pkg/models/domain"
)

// Executor runs SQL and shapes the result set into a domain.Table. The
// result must carry a date column and a total column; an over column is
// optional and turns the metric into a ratio. Column matching is
// case-insensitive.
type Executor struct {
	db *sql.DB
}

func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// RunTimeSeries executes the query and returns its rows as a table keyed by
// date. Later rows for the same date replace earlier ones.
func (e *Executor) RunTimeSeries(ctx context.Context, query string) (*domain.Table, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("time series query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close time series query rows")
		}
	}(rows)

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	dateIdx, totalIdx, overIdx := -1, -1, -1
	for i, name := range columns {
		switch strings.ToLower(name) {
		case "date":
			dateIdx = i
		case "total":
			totalIdx = i
		case "over":
			overIdx = i
		}
	}
	if dateIdx < 0 || totalIdx < 0 {
		return nil, fmt.Errorf("time series result must have date and total columns, got %v", columns)
	}

	var observations []domain.Observation
	for rows.Next() {
		var (
			date  time.Time
			total sql.NullFloat64
			over  sql.NullFloat64
		)

		dest := make([]any, len(columns))
		for i := range dest {
			var discard any
			dest[i] = &discard
		}
		dest[dateIdx] = &date
		dest[totalIdx] = &total
		if overIdx >= 0 {
			dest[overIdx] = &over
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan time series row: %w", err)
		}

		observations = append(observations, domain.Observation{
			Date:  date,
			Total: total.Float64,
			Over:  over.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("time series row iteration failed: %w", err)
	}

	return domain.NewTable(observations, overIdx >= 0), nil
}
