package display

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/kjstillabower/weather-form/internal/models"
)

// TestFormatter_ParisScenario verifies the documented example response renders
// into the expected six text values.
func TestFormatter_ParisScenario(t *testing.T) {
	var r models.WeatherResult
	body := `{"temperature": 21.6, "description": "Clear", "humidity": 40, "wind_speed": 3.2, "timestamp": 1700000000000}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got := Formatter{Location: time.UTC}.Format("Paris", r)
	want := Fields{
		LocationName: "Paris",
		Temperature:  "22°C",
		Description:  "Clear",
		Humidity:     "40%",
		WindSpeed:    "3.2 m/s",
		Timestamp:    "11/14/2023, 10:13:20 PM",
	}
	if got != want {
		t.Errorf("Format() = %+v\nwant %+v", got, want)
	}
}

func TestFormatter_LocationVerbatim(t *testing.T) {
	got := Formatter{}.Format("  new york ", models.WeatherResult{})
	if got.LocationName != "  new york " {
		t.Errorf("LocationName = %q, want raw input", got.LocationName)
	}
}

func TestFormatter_CustomLayoutAndZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	f := Formatter{Layout: "2006-01-02 15:04 MST", Location: tokyo}
	got := f.FormatTimestamp(models.UnixMilliTimestamp(1700000000000))
	if got != "2023-11-15 07:13 JST" {
		t.Errorf("FormatTimestamp() = %q", got)
	}
}

func TestFormatter_InvalidTimestamp(t *testing.T) {
	got := Formatter{}.FormatTimestamp(models.ParseTimestamp("not a date"))
	if got != InvalidDate {
		t.Errorf("FormatTimestamp() = %q, want %q", got, InvalidDate)
	}
}

func TestFormatter_EpochMillisOutOfRange(t *testing.T) {
	for _, body := range []string{`{"timestamp": 1e20}`, `{"timestamp": 8.65e15}`} {
		var r models.WeatherResult
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			t.Fatalf("Unmarshal(%s): %v", body, err)
		}
		if got := (Formatter{Location: time.UTC}).FormatTimestamp(r.Timestamp); got != InvalidDate {
			t.Errorf("%s: FormatTimestamp() = %q, want %q", body, got, InvalidDate)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{21.6, 22},
		{21.4, 21},
		{2.5, 3},
		{-2.5, -2},
		{-2.6, -3},
		{-0.4, 0},
		{0.49999999999999994, 0},
		{15, 15},
	}
	for _, tt := range tests {
		if got := RoundHalfUp(tt.in); got != tt.want {
			t.Errorf("RoundHalfUp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !math.IsNaN(RoundHalfUp(math.NaN())) {
		t.Error("RoundHalfUp(NaN) should stay NaN")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{40, "40"},
		{3.2, "3.2"},
		{0.1 + 0.2, "0.30000000000000004"},
		{-7, "-7"},
		{math.Copysign(0, -1), "0"},
		{RoundHalfUp(-0.4), "0"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{123456.5, "123456.5"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestFormatter_TemperatureSuffixes verifies the suffixes on every numeric field.
func TestFormatter_TemperatureSuffixes(t *testing.T) {
	got := Formatter{}.Format("Gulu", models.WeatherResult{Temperature: -3.5, Humidity: 87.5, WindSpeed: 0})
	if got.Temperature != "-3°C" {
		t.Errorf("Temperature = %q, want -3°C", got.Temperature)
	}
	if got.Humidity != "87.5%" {
		t.Errorf("Humidity = %q, want 87.5%%", got.Humidity)
	}
	if got.WindSpeed != "0 m/s" {
		t.Errorf("WindSpeed = %q, want 0 m/s", got.WindSpeed)
	}
}
