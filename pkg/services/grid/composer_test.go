package grid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ro-Data/compgrid/pkg/config"
	"github.com/Ro-Data/compgrid/pkg/models/domain"
	"github.com/Ro-Data/compgrid/pkg/window"
)

func fp(v float64) *float64 { return &v }

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name  string
		value *float64
		base  *float64
		want  *float64
	}{
		{"both zero", fp(0), fp(0), fp(0)},
		{"zero base", fp(5), fp(0), nil},
		{"doubling", fp(10), fp(5), fp(100.0)},
		{"halving", fp(5), fp(10), fp(-50.0)},
		{"nil value", nil, fp(5), nil},
		{"nil base", fp(5), nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.value, tt.base)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

type fakeRunner struct {
	table *domain.Table
}

func (f *fakeRunner) RunTimeSeries(_ context.Context, _ string) (*domain.Table, error) {
	return f.table, nil
}

func constantTable(start time.Time, days int, total float64) *domain.Table {
	var obs []domain.Observation
	for i := 0; i < days; i++ {
		obs = append(obs, domain.Observation{Date: start.AddDate(0, 0, i), Total: total})
	}
	return domain.NewTable(obs, false)
}

func TestAnchor(t *testing.T) {
	now := time.Date(2021, time.March, 10, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2021, time.March, 9, 0, 0, 0, 0, time.UTC), Anchor(now))
}

func TestBuildGrid_EndToEnd(t *testing.T) {
	anchor := time.Date(2021, time.March, 31, 0, 0, 0, 0, time.UTC)
	runner := &fakeRunner{table: constantTable(anchor.AddDate(0, 0, -29), 30, 10)}

	doc := &config.Document{
		Name:  "thealth",
		Title: "Health {yesterday_date}",
		Meta:  map[string]string{},
		Columns: []config.ColumnDefinition{
			{Kind: config.ColumnNumber, Name: "trailing avg", Value: window.Spec{Kind: window.KindTrailingAverage, N: 7}},
		},
		Rows: []config.RowDefinition{
			{Name: "Email sends", Query: "SELECT 1", Type: domain.DisplayNumber, Style: domain.StylePositiveGreen},
		},
	}

	g, err := NewComposer(runner).BuildGrid(context.Background(), doc, anchor)
	require.NoError(t, err)

	assert.Equal(t, "Health 2021-03-31", g.Title)
	require.Len(t, g.Rows, 1)
	require.Len(t, g.Rows[0].Columns, 1)

	cell := g.Rows[0].Columns[0]
	require.NotNil(t, cell.Value)
	assert.Equal(t, 10.0, *cell.Value)
	assert.Equal(t, "10", cell.FormattedValue())
}

func TestBuildGrid_ColumnOrderPreserved(t *testing.T) {
	anchor := time.Date(2021, time.March, 31, 0, 0, 0, 0, time.UTC)
	runner := &fakeRunner{table: constantTable(anchor.AddDate(0, 0, -9), 10, 5)}

	doc := &config.Document{
		Name: "ordering",
		Meta: map[string]string{},
		Columns: []config.ColumnDefinition{
			{Kind: config.ColumnNumber, Name: "yesterday", Value: window.Spec{Kind: window.KindDaysAgo}},
			{Kind: config.ColumnPctChange, Name: "DoD", Value: window.Spec{Kind: window.KindDaysAgo}, Base: window.Spec{Kind: window.KindDaysAgo, N: 1}},
			{Kind: config.ColumnSparkline, Name: "trend", Days: 7},
		},
		Rows: []config.RowDefinition{
			{Name: "first", Query: "SELECT 1"},
			{Name: "second", Query: "SELECT 2"},
		},
	}

	g, err := NewComposer(runner).BuildGrid(context.Background(), doc, anchor)
	require.NoError(t, err)

	assert.Equal(t, []string{"yesterday", "DoD", "trend"}, g.ColNames)
	require.Len(t, g.Rows, 2)
	assert.Equal(t, "first", g.Rows[0].Name)
	assert.Equal(t, "second", g.Rows[1].Name)

	row := g.Rows[0]
	require.Len(t, row.Columns, 3)
	assert.Equal(t, domain.TemplateNumber, row.Columns[0].Template)
	assert.Equal(t, domain.TemplatePctChange, row.Columns[1].Template)
	assert.Equal(t, domain.TemplateSparkline, row.Columns[2].Template)

	// Flat series day over day: 0% change, and a non-empty artifact.
	require.NotNil(t, row.Columns[1].Value)
	assert.InDelta(t, 0.0, *row.Columns[1].Value, 1e-9)
	assert.NotEmpty(t, row.Columns[2].Artifact)
}

func TestBuildGrid_MissingDataRendersEmpty(t *testing.T) {
	anchor := time.Date(2021, time.March, 31, 0, 0, 0, 0, time.UTC)
	runner := &fakeRunner{table: domain.NewTable(nil, false)}

	doc := &config.Document{
		Name: "gaps",
		Meta: map[string]string{},
		Columns: []config.ColumnDefinition{
			{Kind: config.ColumnNumber, Name: "yesterday", Value: window.Spec{Kind: window.KindDaysAgo}},
		},
		Rows: []config.RowDefinition{
			{Name: "empty", Query: "SELECT 1", Type: domain.DisplayNumber},
		},
	}

	g, err := NewComposer(runner).BuildGrid(context.Background(), doc, anchor)
	require.NoError(t, err)

	cell := g.Rows[0].Columns[0]
	assert.Nil(t, cell.Value)
	assert.Equal(t, "", cell.FormattedValue())
	assert.Equal(t, 0.0, cell.AbsValue())
}
