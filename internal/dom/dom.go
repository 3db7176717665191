//go:build js && wasm

// Package dom binds the weather form handler to a browser document.
package dom

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-form/internal/client"
	"github.com/kjstillabower/weather-form/internal/display"
	"github.com/kjstillabower/weather-form/internal/form"
)

// ErrFormMissing is returned by Attach when the document has no weather form.
var ErrFormMissing = errors.New("dom: weather form not found")

type textElement struct{ v js.Value }

func (e textElement) SetText(text string) { e.v.Set("textContent", text) }

type regionElement struct{ v js.Value }

func (r regionElement) Show() { r.v.Get("style").Set("display", "block") }

// alertPrompter shows messages with window.alert.
type alertPrompter struct{}

func (alertPrompter) Alert(message string) { js.Global().Call("alert", message) }

// submitEvent captures the input value when the submit event fires.
type submitEvent struct {
	ev    js.Value
	value string
}

func (e submitEvent) PreventDefault() { e.ev.Call("preventDefault") }

func (e submitEvent) Value() string { return e.value }

func byID(doc js.Value, id string) (js.Value, bool) {
	v := doc.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return js.Value{}, false
	}
	return v, true
}

// Elements looks up the display handles. Missing elements are left nil so that
// display.Elements.Check reports them.
func Elements(doc js.Value) display.Elements {
	var els display.Elements
	if v, ok := byID(doc, display.IDDisplay); ok {
		els.Region = regionElement{v}
	}
	targets := []struct {
		id  string
		dst *display.TextTarget
	}{
		{display.IDLocationName, &els.LocationName},
		{display.IDTemperature, &els.Temperature},
		{display.IDDescription, &els.Description},
		{display.IDHumidity, &els.Humidity},
		{display.IDWindSpeed, &els.WindSpeed},
		{display.IDTimestamp, &els.Timestamp},
	}
	for _, tt := range targets {
		if v, ok := byID(doc, tt.id); ok {
			*tt.dst = textElement{v}
		}
	}
	return els
}

// Attach registers the submit listener on the document's weather form. The
// returned function removes it.
func Attach(doc js.Value, provider client.WeatherProvider, formatter display.Formatter, logger *zap.Logger) (func(), error) {
	formEl, ok := byID(doc, display.IDForm)
	if !ok {
		return nil, ErrFormMissing
	}
	input, ok := byID(doc, display.IDLocationInput)
	if !ok {
		return nil, fmt.Errorf("dom: input %q not found", display.IDLocationInput)
	}
	h, err := form.NewHandler(provider, Elements(doc), formatter, alertPrompter{}, logger)
	if err != nil {
		return nil, err
	}

	// preventDefault has to run before the callback returns, and the callback
	// must not block on the fetch.
	listener := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) == 0 {
			return nil
		}
		ev := submitEvent{ev: args[0], value: input.Get("value").String()}
		ev.PreventDefault()
		h.Dispatch(context.Background(), ev)
		return nil
	})
	formEl.Call("addEventListener", "submit", listener)

	return func() {
		formEl.Call("removeEventListener", "submit", listener)
		listener.Release()
	}, nil
}
