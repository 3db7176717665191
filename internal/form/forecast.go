package form

import (
	"context"

	"github.com/kjstillabower/weather-form/internal/display"
	"github.com/kjstillabower/weather-form/internal/observability"
	"github.com/kjstillabower/weather-form/internal/validation"
)

// ForecastDays is how many days the forecast summary shows.
const ForecastDays = 3

// Forecast fetches and summarizes the forecast for location. It follows the same
// error contract as OnSubmit but never touches the display.
func (h *Handler) Forecast(ctx context.Context, location string) (string, error) {
	prompter := h.prompterFor(ctx)
	location, err := validation.ValidateLocation(location)
	if err != nil {
		verr := &ValidationError{Err: err}
		prompter.Alert(verr.Prompt())
		return "", verr
	}

	result, err := h.provider.GetForecast(ctx, location)
	if err != nil {
		rerr := &RequestError{Err: err}
		observability.RequestErrorsTotal.WithLabelValues(string(rerr.Category())).Inc()
		prompter.Alert(rerr.Prompt())
		return "", rerr
	}

	city := result.City
	if city == "" {
		city = location
	}
	return display.FormatForecast(city, display.SummarizeForecast(result.Forecast, ForecastDays)), nil
}
