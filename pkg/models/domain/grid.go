package domain

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayType selects how a row's values are formatted for presentation.
type DisplayType string

const (
	DisplayNumber   DisplayType = "number"
	DisplayFloat    DisplayType = "float"
	DisplayPercent  DisplayType = "percent"
	DisplayCurrency DisplayType = "currency"
)

// Template identifiers consumed by the rendering layer, one per column
// flavor.
const (
	TemplateNumber    = "column_number.md"
	TemplatePctChange = "column_pctchange.md"
	TemplateSparkline = "column_sparkline.md"
)

// ColumnValue is one evaluated cell of the grid: the raw value (nil when the
// window matched no data), an optional rendered artifact for sparkline
// columns, and the row's display type.
type ColumnValue struct {
	Name     string
	Template string
	Value    *float64
	Artifact string
	Type     DisplayType
}

var printer = message.NewPrinter(language.English)

// FormattedValue renders the value per the row's display type with thousands
// grouping. A nil value renders as an empty string so missing data shows as
// an empty cell.
func (cv ColumnValue) FormattedValue() string {
	if cv.Value == nil {
		return ""
	}
	v := *cv.Value
	switch cv.Type {
	case DisplayNumber:
		return printer.Sprintf("%.0f", v)
	case DisplayPercent:
		return printer.Sprintf("%.2f%%", v*100.0)
	case DisplayCurrency:
		return printer.Sprintf("$%.2f", v)
	default:
		return printer.Sprintf("%.2f", v)
	}
}

// AbsValue returns the magnitude of the value, treating nil as 0. That
// conflates "missing" with "exactly zero" for magnitude comparisons; kept
// for compatibility with existing report templates.
func (cv ColumnValue) AbsValue() float64 {
	if cv.Value == nil {
		return 0
	}
	return math.Abs(*cv.Value)
}

// GridRow is one evaluated row of the grid in column declaration order.
type GridRow struct {
	Name    string
	Style   Style
	Columns []ColumnValue
}

// Grid is a fully evaluated comparison grid, rows in declaration order.
type Grid struct {
	Name     string
	Title    string
	Anchor   time.Time
	Meta     map[string]string
	Rows     []GridRow
	ColNames []string
}
