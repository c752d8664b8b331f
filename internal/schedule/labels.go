package schedule

import "strconv"

var hourLabels = [Columns]string{
	"Mid-Night", "1am", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11",
	"Noon", "1pm", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11",
}

// HourLabel returns the printed-form caption above hour column c.
func HourLabel(c int) string {
	if c < 0 || c >= Columns {
		return ""
	}
	return hourLabels[c]
}

// ShortHourLabel returns a caption of at most two characters for narrow
// renderings: "M" for midnight, "N" for noon, 1-11 otherwise.
func ShortHourLabel(c int) string {
	switch {
	case c < 0 || c >= Columns:
		return ""
	case c == 0:
		return "M"
	case c == 12:
		return "N"
	default:
		return strconv.Itoa((c-1)%12 + 1)
	}
}
