package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ro-Data/compgrid/pkg/models/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		want Spec
	}{
		{"yesterday", Spec{Kind: KindDaysAgo, N: 0}},
		{"weekdayweekend", Spec{Kind: KindWeekdayWeekend, N: 0}},
		{"daysago(7)", Spec{Kind: KindDaysAgo, N: 7}},
		{"lastweek", Spec{Kind: KindWeeksAgo, N: 1}},
		{"week(2)", Spec{Kind: KindWeeksAgo, N: 2}},
		{"trailingavg(7)", Spec{Kind: KindTrailingAverage, N: 7}},
		{"month", Spec{Kind: KindMonth, N: 1}},
		{"month(3)", Spec{Kind: KindMonth, N: 3}},
		{"monthago", Spec{Kind: KindMonthAgo, N: 1}},
		{"monthago(2)", Spec{Kind: KindMonthAgo, N: 2}},
		{"wtd", Spec{Kind: KindWeekToDate, N: 0}},
		{"wtd(1)", Spec{Kind: KindWeekToDate, N: 1}},
		{"mtdavg", Spec{Kind: KindMonthToDateAverage, N: 0}},
		{"mtdavg(1)", Spec{Kind: KindMonthToDateAverage, N: 1}},
		{"mtd", Spec{Kind: KindMonthToDate, N: 0}},
		{"mtd(1)", Spec{Kind: KindMonthToDate, N: 1}},
		{"since(2000-01-01)", Spec{Kind: KindSinceDate, Since: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}},
		{"goal(42)", Spec{Kind: KindNumberGoal, Goal: 42}},
		{"goal(target_field)", Spec{Kind: KindFieldGoal, Field: "target_field"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Parse(tt.text, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_GoalDisambiguation(t *testing.T) {
	// goal(42) and goal(fieldname) share a prefix; integer parseability
	// decides which variant wins.
	num, err := Parse("goal(42)", 1)
	require.NoError(t, err)
	assert.Equal(t, KindNumberGoal, num.Kind)
	assert.Equal(t, 42.0, num.Goal)

	field, err := Parse("goal(42x)", 1)
	require.NoError(t, err)
	assert.Equal(t, KindFieldGoal, field.Kind)
	assert.Equal(t, "42x", field.Field)
}

func TestParse_Unknown(t *testing.T) {
	_, err := Parse("after(2000-01-01)", 4)
	require.Error(t, err)

	cerr, ok := err.(*domain.ConfigError)
	require.True(t, ok)
	assert.Equal(t, "unknown column value 'after(2000-01-01)'", cerr.Message)
	assert.Equal(t, 4, cerr.Line)
}

func TestSpec_StringRoundTrip(t *testing.T) {
	exprs := []string{
		"yesterday",
		"weekdayweekend",
		"daysago(3)",
		"lastweek",
		"week(4)",
		"trailingavg(7)",
		"month",
		"month(2)",
		"monthago",
		"monthago(6)",
		"wtd",
		"wtd(2)",
		"mtdavg",
		"mtdavg(1)",
		"mtd",
		"mtd(3)",
		"since(2021-06-15)",
		"goal(100)",
		"goal(revenue_goal)",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			spec, err := Parse(expr, 1)
			require.NoError(t, err)

			again, err := Parse(spec.String(), 1)
			require.NoError(t, err)
			assert.Equal(t, spec, again)
		})
	}
}
