package domain

import "time"

// Observation is a single daily data point for a metric: a numeric total and
// an optional denominator used by ratio metrics.
type Observation struct {
	Date  time.Time
	Total float64
	Over  float64
}

// Table is an ordered collection of daily observations keyed by calendar
// date, at most one observation per date. Dates need not be contiguous.
type Table struct {
	observations []Observation
	byDate       map[time.Time]int
	hasOver      bool
}

// NewTable creates a table from scanned observations. Later observations for
// the same date replace earlier ones. hasOver records whether the source
// result set carried an `over` column at all, which changes how values are
// aggregated (see Ratio).
func NewTable(observations []Observation, hasOver bool) *Table {
	t := &Table{
		byDate:  make(map[time.Time]int, len(observations)),
		hasOver: hasOver,
	}
	for _, obs := range observations {
		obs.Date = Day(obs.Date)
		if i, ok := t.byDate[obs.Date]; ok {
			t.observations[i] = obs
			continue
		}
		t.byDate[obs.Date] = len(t.observations)
		t.observations = append(t.observations, obs)
	}
	return t
}

// HasOver reports whether the table carries a denominator series.
func (t *Table) HasOver() bool { return t.hasOver }

// Len returns the number of observations.
func (t *Table) Len() int { return len(t.observations) }

// At returns the observation for the given date, if present.
func (t *Table) At(date time.Time) (Observation, bool) {
	i, ok := t.byDate[Day(date)]
	if !ok {
		return Observation{}, false
	}
	return t.observations[i], true
}

// All returns every observation in insertion order.
func (t *Table) All() []Observation { return t.observations }

// Range returns all observations with start <= date <= end, in insertion
// order.
func (t *Table) Range(start, end time.Time) []Observation {
	start, end = Day(start), Day(end)
	var out []Observation
	for _, obs := range t.observations {
		if !obs.Date.Before(start) && !obs.Date.After(end) {
			out = append(out, obs)
		}
	}
	return out
}

// Ratio resolves a single observation to its value under the ratio
// convention: total/over when the table has a denominator series, nil on a
// zero denominator, the raw total otherwise.
func (t *Table) Ratio(obs Observation) *float64 {
	if !t.hasOver {
		v := obs.Total
		return &v
	}
	if obs.Over == 0 {
		return nil
	}
	v := obs.Total / obs.Over
	return &v
}

// Day truncates a timestamp to its calendar date in UTC. All table lookups
// and window arithmetic operate on these normalized dates.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
