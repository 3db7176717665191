package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// WeatherQuery is a single form submission.
type WeatherQuery struct {
	Location string
}

// WeatherResult is the provider's success body for GET /api/weather.
type WeatherResult struct {
	Temperature float64   `json:"temperature"`
	Description string    `json:"description"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Timestamp   Timestamp `json:"timestamp"`
}

// ProviderError is the provider's failure body. Error holds the raw JSON value so
// that truthiness can be judged on whatever type the provider sent.
type ProviderError struct {
	Error json.RawMessage `json:"error"`
}

// Failed reports whether the error field is present and truthy.
func (p ProviderError) Failed() bool {
	return Truthy(p.Error)
}

// Message returns the error field as display text. Strings are unquoted; other
// values are returned as their JSON text.
func (p ProviderError) Message() string {
	var s string
	if err := json.Unmarshal(p.Error, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(p.Error))
}

// Truthy follows the page scripting rules: null, false, 0 and "" are falsy,
// a missing value is falsy, everything else is truthy.
func Truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return true
		}
		return s != ""
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return true
		}
		return f != 0
	}
}

// Timestamp is the provider's instant: epoch milliseconds or an ISO-8601 string.
// Zone-less strings are kept unresolved until a display zone is known.
type Timestamp struct {
	instant  time.Time
	valid    bool
	zoneless bool
	raw      string
}

// isoLayouts are tried in order for string timestamps.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	time.RFC1123,
	time.RFC1123Z,
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
}

// MaxEpochMillis bounds the representable instants: 100,000,000 days either
// side of the epoch. Values beyond it are Invalid Date.
const MaxEpochMillis = 8.64e15

// UnixMilliTimestamp builds a Timestamp from epoch milliseconds.
func UnixMilliTimestamp(ms int64) Timestamp {
	return Timestamp{instant: time.UnixMilli(ms), valid: true}
}

// ParseTimestamp parses a string timestamp. Unparseable input yields an invalid
// Timestamp rather than an error.
func ParseTimestamp(s string) Timestamp {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{instant: t, valid: true, raw: s}
		}
	}
	// Date-only ISO values are UTC midnight.
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Timestamp{instant: t, valid: true, raw: s}
	}
	for _, layout := range zonelessLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return Timestamp{valid: true, zoneless: true, raw: s}
		}
	}
	return Timestamp{raw: s}
}

// UnmarshalJSON accepts a number (epoch millis), a string or null (epoch 0).
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = UnixMilliTimestamp(0)
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = ParseTimestamp(s)
		return nil
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		*t = Timestamp{raw: string(data)}
		return nil
	}
	if math.IsNaN(ms) || math.Abs(ms) > MaxEpochMillis {
		*t = Timestamp{raw: string(data)}
		return nil
	}
	*t = UnixMilliTimestamp(int64(ms))
	return nil
}

// Valid reports whether the timestamp names a real instant.
func (t Timestamp) Valid() bool {
	return t.valid
}

// In resolves the instant in loc. Zone-less values are read as wall time in loc.
func (t Timestamp) In(loc *time.Location) (time.Time, bool) {
	if !t.valid {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t.zoneless {
		for _, layout := range zonelessLayouts {
			if v, err := time.ParseInLocation(layout, t.raw, loc); err == nil {
				return v, true
			}
		}
		return time.Time{}, false
	}
	return t.instant.In(loc), true
}
