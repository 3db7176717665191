package display

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kjstillabower/weather-form/internal/models"
)

// DefaultTimestampLayout matches the en-US locale string of a browser.
const DefaultTimestampLayout = "1/2/2006, 3:04:05 PM"

// InvalidDate is shown when the provider timestamp does not name an instant.
const InvalidDate = "Invalid Date"

// Formatter turns a provider result into display text. The zero value uses
// DefaultTimestampLayout in time.Local.
type Formatter struct {
	Layout   string
	Location *time.Location
}

// Format is a pure function of its inputs; location is shown as typed.
func (f Formatter) Format(location string, r models.WeatherResult) Fields {
	return Fields{
		LocationName: location,
		Temperature:  FormatNumber(RoundHalfUp(r.Temperature)) + "°C",
		Description:  r.Description,
		Humidity:     FormatNumber(r.Humidity) + "%",
		WindSpeed:    FormatNumber(r.WindSpeed) + " m/s",
		Timestamp:    f.FormatTimestamp(r.Timestamp),
	}
}

// FormatTimestamp renders ts in the formatter's layout and zone.
func (f Formatter) FormatTimestamp(ts models.Timestamp) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	t, ok := ts.In(loc)
	if !ok {
		return InvalidDate
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	return t.Format(layout)
}

// RoundHalfUp rounds to the nearest integer with halves going toward +Inf,
// so 2.5 becomes 3 and -2.5 becomes -2. math.Round would give -3.
func RoundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

// FormatNumber prints x the way the page's template literals do: shortest
// round-trip digits, no trailing ".0", "-0" shown as "0", exponent form outside
// [1e-6, 1e21).
func FormatNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		return "0"
	}
	abs := math.Abs(x)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(x, 'e', -1, 64)
		s = strings.Replace(s, "e-0", "e-", 1)
		s = strings.Replace(s, "e+0", "e+", 1)
		return s
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
