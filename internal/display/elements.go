// Package display holds the element handles the weather form writes into and the
// pure formatting from a provider result to display text.
package display

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Element ids expected in the page markup.
const (
	IDForm          = "weatherForm"
	IDLocationInput = "location"
	IDDisplay       = "weatherDisplay"
	IDLocationName  = "locationName"
	IDTemperature   = "temperature"
	IDDescription   = "description"
	IDHumidity      = "humidity"
	IDWindSpeed     = "windSpeed"
	IDTimestamp     = "timestamp"
)

// ErrElementsMissing is returned when a required element handle is nil.
var ErrElementsMissing = errors.New("display elements missing")

// TextTarget is an element whose text content can be replaced.
type TextTarget interface {
	SetText(text string)
}

// Region is the display container that starts hidden.
type Region interface {
	Show()
}

// Elements are the handles bound once by the host and passed to the form handler.
type Elements struct {
	Region       Region
	LocationName TextTarget
	Temperature  TextTarget
	Description  TextTarget
	Humidity     TextTarget
	WindSpeed    TextTarget
	Timestamp    TextTarget

	// Guard, when set, is held for the whole of Apply so that readers taking the
	// same lock see all six fields from one result.
	Guard sync.Locker
}

// Check returns ErrElementsMissing naming every nil handle.
func (e Elements) Check() error {
	var missing []string
	if e.Region == nil {
		missing = append(missing, IDDisplay)
	}
	targets := []struct {
		id string
		t  TextTarget
	}{
		{IDLocationName, e.LocationName},
		{IDTemperature, e.Temperature},
		{IDDescription, e.Description},
		{IDHumidity, e.Humidity},
		{IDWindSpeed, e.WindSpeed},
		{IDTimestamp, e.Timestamp},
	}
	for _, tt := range targets {
		if tt.t == nil {
			missing = append(missing, tt.id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrElementsMissing, strings.Join(missing, ", "))
	}
	return nil
}

// Fields is the text written into the six targets.
type Fields struct {
	LocationName string
	Temperature  string
	Description  string
	Humidity     string
	WindSpeed    string
	Timestamp    string
}

// Apply reveals the region and writes every field. Callers serialize Apply.
func (e Elements) Apply(f Fields) {
	if e.Guard != nil {
		e.Guard.Lock()
		defer e.Guard.Unlock()
	}
	e.Region.Show()
	e.LocationName.SetText(f.LocationName)
	e.Temperature.SetText(f.Temperature)
	e.Description.SetText(f.Description)
	e.Humidity.SetText(f.Humidity)
	e.WindSpeed.SetText(f.WindSpeed)
	e.Timestamp.SetText(f.Timestamp)
}
