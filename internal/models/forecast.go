package models

// ForecastResult is the provider's success body for GET /api/forecast.
type ForecastResult struct {
	City     string          `json:"city"`
	Forecast []ForecastEntry `json:"forecast"`
}

// ForecastEntry is one 3-hour slot as relayed by the provider.
type ForecastEntry struct {
	DateText string `json:"dt_txt"`
	Main     struct {
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Condition returns the first weather description, or "" when none was sent.
func (e ForecastEntry) Condition() string {
	if len(e.Weather) == 0 {
		return ""
	}
	return e.Weather[0].Description
}
