package form

import (
	"context"

	"github.com/kjstillabower/weather-form/internal/display"
	"github.com/kjstillabower/weather-form/internal/observability"
	"github.com/kjstillabower/weather-form/internal/validation"
)

// Tips fetches current conditions for location and returns farming advice for
// them. It follows the error contract of OnSubmit but never touches the display.
func (h *Handler) Tips(ctx context.Context, location string) (string, error) {
	prompter := h.prompterFor(ctx)
	location, err := validation.ValidateLocation(location)
	if err != nil {
		verr := &ValidationError{Err: err}
		prompter.Alert(verr.Prompt())
		return "", verr
	}

	result, err := h.provider.GetWeather(ctx, location)
	if err != nil {
		rerr := &RequestError{Err: err}
		observability.RequestErrorsTotal.WithLabelValues(string(rerr.Category())).Inc()
		prompter.Alert(rerr.Prompt())
		return "", rerr
	}
	return display.FormatFarmingTips(location, display.FarmingAdvice(result)), nil
}
