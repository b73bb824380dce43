package domain

// Style selects the value-to-color rule applied to a row's cells.
type Style string

const (
	StylePositiveGreen Style = "positive-green"
	StyleNegativeGreen Style = "negative-green"
	StyleNeutral       Style = "neutral"
)

// KnownStyle reports whether s is a recognized style tag.
func KnownStyle(s Style) bool {
	switch s {
	case StylePositiveGreen, StyleNegativeGreen, StyleNeutral:
		return true
	}
	return false
}

// Color returns the CSS color rule for a value under this style.
func (s Style) Color(value float64) string {
	switch s {
	case StylePositiveGreen:
		if value >= 0 {
			return "color: #00b37d"
		}
		return "color: #f00"
	case StyleNegativeGreen:
		if value <= 0 {
			return "color: #00b37d"
		}
		return "color: #f00"
	default:
		return "color: #000"
	}
}
