// Package grid evaluates a validated report document into a fully populated
// comparison grid: one time-series query per row, every column window
// applied to it in declaration order.
package grid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ro-Data/compgrid/pkg/config"
	"github.com/Ro-Data/compgrid/pkg/models/domain"
	"github.com/Ro-Data/compgrid/pkg/sparkline"
	"github.com/Ro-Data/compgrid/pkg/window"
)

// Composer builds grids from documents. The query runner is the only
// external capability it holds; evaluation itself is pure.
type Composer struct {
	runner window.QueryRunner
}

func NewComposer(runner window.QueryRunner) *Composer {
	return &Composer{runner: runner}
}

// Anchor derives the reference date for a report run: the last fully
// completed day. The report always describes completed days, never the day
// of generation.
func Anchor(now time.Time) time.Time {
	return domain.Day(now).AddDate(0, 0, -1)
}

// BuildGrid evaluates every row of the document against every column at the
// given anchor date. Row and column order in the result matches declaration
// order.
func (c *Composer) BuildGrid(ctx context.Context, doc *config.Document, anchor time.Time) (*domain.Grid, error) {
	anchor = domain.Day(anchor)

	grid := &domain.Grid{
		Name:   doc.Name,
		Title:  substituteAnchor(doc.Title, anchor),
		Anchor: anchor,
		Meta:   make(map[string]string, len(doc.Meta)),
	}
	if grid.Title == "" {
		grid.Title = doc.Name
	}
	for k, v := range doc.Meta {
		grid.Meta[k] = substituteAnchor(v, anchor)
	}
	for _, col := range doc.Columns {
		grid.ColNames = append(grid.ColNames, col.Name)
	}

	for _, row := range doc.Rows {
		evaluated, err := c.evaluateRow(ctx, doc, row, anchor)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate row %q: %w", row.Name, err)
		}
		grid.Rows = append(grid.Rows, evaluated)
	}

	return grid, nil
}

func (c *Composer) evaluateRow(ctx context.Context, doc *config.Document, row config.RowDefinition, anchor time.Time) (domain.GridRow, error) {
	zerolog.Ctx(ctx).Info().Str("row", row.Name).Msg("evaluating row")

	table, err := c.runner.RunTimeSeries(ctx, row.Query)
	if err != nil {
		return domain.GridRow{}, err
	}

	rowCtx := &window.RowContext{
		Fields: row.Fields,
		Dir:    doc.Dir,
		Runner: c.runner,
	}

	result := domain.GridRow{Name: row.Name, Style: row.Style}
	for _, col := range doc.Columns {
		value, err := c.evaluateColumn(ctx, col, table, anchor, rowCtx, row.Type)
		if err != nil {
			return domain.GridRow{}, err
		}
		result.Columns = append(result.Columns, value)
	}
	return result, nil
}

func (c *Composer) evaluateColumn(ctx context.Context, col config.ColumnDefinition, table *domain.Table, anchor time.Time, rowCtx *window.RowContext, displayType domain.DisplayType) (domain.ColumnValue, error) {
	switch col.Kind {
	case config.ColumnNumber:
		value, err := window.Evaluate(ctx, col.Value, table, anchor, rowCtx)
		if err != nil {
			return domain.ColumnValue{}, err
		}
		return domain.ColumnValue{
			Name: col.Name, Template: domain.TemplateNumber, Value: value, Type: displayType,
		}, nil

	case config.ColumnPctChange:
		value, err := window.Evaluate(ctx, col.Value, table, anchor, rowCtx)
		if err != nil {
			return domain.ColumnValue{}, err
		}
		base, err := window.Evaluate(ctx, col.Base, table, anchor, rowCtx)
		if err != nil {
			return domain.ColumnValue{}, err
		}
		return domain.ColumnValue{
			Name:     col.Name,
			Template: domain.TemplatePctChange,
			Value:    PercentChange(value, base),
			Type:     displayType,
		}, nil

	case config.ColumnSparkline:
		artifact, err := sparkline.Render(table, anchor, col.Days)
		if err != nil {
			return domain.ColumnValue{}, err
		}
		return domain.ColumnValue{
			Name: col.Name, Template: domain.TemplateSparkline, Artifact: artifact, Type: displayType,
		}, nil
	}

	return domain.ColumnValue{}, fmt.Errorf("unhandled column kind %q", col.Kind)
}

// PercentChange composes two window results into a percent change. Either
// operand missing means the change is undefined; a zero base with a non-zero
// value is undefined rather than infinite; two zeros are a 0% change.
func PercentChange(value, base *float64) *float64 {
	if value == nil || base == nil {
		return nil
	}
	if *base == 0 && *value == 0 {
		zero := 0.0
		return &zero
	}
	if *base == 0 {
		return nil
	}
	change := 100.0*(*value)/(*base) - 100.0
	return &change
}

func substituteAnchor(s string, anchor time.Time) string {
	return strings.ReplaceAll(s, "{yesterday_date}", anchor.Format("2006-01-02"))
}
