package display

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/kjstillabower/weather-form/internal/models"
)

// ForecastDateLayout is the provider's dt_txt layout.
const ForecastDateLayout = "2006-01-02 15:04:05"

// ForecastDay is one day of the summarized forecast.
type ForecastDay struct {
	Date      time.Time
	Min       float64
	Max       float64
	Condition string
}

// SummarizeForecast groups slots by calendar day in input order and returns at
// most maxDays days (all when maxDays <= 0) with the day's lowest minimum, highest maximum and most
// frequent condition (first seen wins a tie). Slots with an unreadable dt_txt
// are skipped.
func SummarizeForecast(entries []models.ForecastEntry, maxDays int) []ForecastDay {
	type acc struct {
		day    ForecastDay
		counts map[string]int
		order  []string
	}
	var days []*acc
	index := make(map[string]*acc)

	for _, e := range entries {
		t, err := time.Parse(ForecastDateLayout, e.DateText)
		if err != nil {
			continue
		}
		key := t.Format("2006-01-02")
		a, ok := index[key]
		if !ok {
			if maxDays > 0 && len(days) == maxDays {
				continue
			}
			a = &acc{
				day:    ForecastDay{Date: t, Min: math.Inf(1), Max: math.Inf(-1)},
				counts: make(map[string]int),
			}
			index[key] = a
			days = append(days, a)
		}
		a.day.Min = math.Min(a.day.Min, e.Main.TempMin)
		a.day.Max = math.Max(a.day.Max, e.Main.TempMax)
		cond := e.Condition()
		if a.counts[cond] == 0 {
			a.order = append(a.order, cond)
		}
		a.counts[cond]++
	}

	out := make([]ForecastDay, 0, len(days))
	for _, a := range days {
		best, bestN := "", 0
		for _, c := range a.order {
			if a.counts[c] > bestN {
				best, bestN = c, a.counts[c]
			}
		}
		a.day.Condition = capitalize(best)
		out = append(out, a.day)
	}
	return out
}

// FormatForecast renders the summary as text lines, one per day.
func FormatForecast(city string, days []ForecastDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Forecast (%s):\n", city)
	if len(days) == 0 {
		b.WriteString("No forecast data available.\n")
		return b.String()
	}
	for _, d := range days {
		fmt.Fprintf(&b, "%s: Temp: %.0f°C-%.0f°C, %s\n", d.Date.Format("Mon, Jan 02"), d.Min, d.Max, d.Condition)
	}
	return b.String()
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
