//go:build js && wasm

// Command wasm attaches the weather form handler inside a browser page. Build
// with GOOS=js GOARCH=wasm and load through wasm_exec.js on the form page.
package main

import (
	"fmt"
	"os"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-form/internal/client"
	"github.com/kjstillabower/weather-form/internal/display"
	"github.com/kjstillabower/weather-form/internal/dom"
	"github.com/kjstillabower/weather-form/internal/observability"
)

func main() {
	logger, err := observability.NewConsoleLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return
	}

	origin := js.Global().Get("location").Get("origin").String()
	provider, err := client.NewHTTPProvider(origin, nil)
	if err != nil {
		logger.Error("weather provider", zap.Error(err))
		return
	}

	if _, err := dom.Attach(js.Global().Get("document"), provider, display.Formatter{}, logger); err != nil {
		logger.Info("weather form not attached", zap.Error(err))
		return
	}
	select {}
}
