// Command weatherform is the terminal front-end of the weather form. Each input
// line is a submission; the display block is printed whenever a submission
// fills it and alerts go to stderr. ":forecast <location>" prints a 3-day
// summary and ":tips <location>" prints farming advice.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-form/internal/client"
	"github.com/kjstillabower/weather-form/internal/config"
	"github.com/kjstillabower/weather-form/internal/display"
	"github.com/kjstillabower/weather-form/internal/form"
	"github.com/kjstillabower/weather-form/internal/observability"
)

// Commands recognized at the start of an input line.
const (
	forecastCommand = ":forecast"
	tipsCommand     = ":tips"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("weatherform", flag.ContinueOnError)
	fs.SetOutput(stderr)
	location := fs.String("location", "", "submit one location and exit")
	configDir := fs.String("config-dir", ".", "directory holding config/{ENV_NAME}.yaml")
	providerURL := fs.String("provider", "", "provider base URL (overrides provider.base_url)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger, err := observability.NewConsoleLogger()
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadDir(*configDir)
	if err != nil {
		logger.Error("config", zap.Error(err))
		return 1
	}
	baseURL := cfg.ProviderBaseURL
	if *providerURL != "" {
		baseURL = *providerURL
	}
	provider, err := client.NewHTTPProvider(baseURL, nil)
	if err != nil {
		logger.Error("weather provider", zap.Error(err))
		return 1
	}

	tp, err := observability.NewTracerProvider(cfg.ZipkinEndpoint, cfg.ServiceName)
	if err != nil {
		logger.Error("tracer provider", zap.Error(err))
		return 1
	}
	defer func() { _ = observability.FlushTelemetry(context.Background(), nil, tp) }()

	t := &terminal{page: display.NewPage(), stdout: stdout, stderr: stderr}
	h, err := form.NewHandler(provider, t.page.Elements(), cfg.Formatter(), form.PrompterFunc(t.alert), logger)
	if err != nil {
		logger.Error("form handler", zap.Error(err))
		return 1
	}
	t.handler = h

	if *location != "" {
		if err := h.Submit(ctx, *location); err != nil {
			return 1
		}
		t.printDisplay()
		return 0
	}
	return t.loop(ctx, stdin)
}

// terminal serializes output from concurrently resolving submissions.
type terminal struct {
	handler *form.Handler
	page    *display.Page
	stdout  io.Writer
	stderr  io.Writer
	mu      sync.Mutex
}

func (t *terminal) alert(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.stderr, message)
}

func (t *terminal) printDisplay() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.page.Snapshot().WriteTo(t.stdout)
}

func (t *terminal) printText(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.stdout, s)
}

// loop reads submissions until EOF or cancellation, then waits for the ones
// still in flight. The exit status is 0 unless reading stdin failed.
func (t *terminal) loop(ctx context.Context, stdin io.Reader) int {
	var wg sync.WaitGroup
	defer wg.Wait()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(stdin)
		// readErr is always filled before lines closes.
		defer func() {
			readErr <- scanner.Err()
			close(lines)
		}()
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return 0
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil && ctx.Err() == nil {
					t.alert("read input: " + err.Error())
					return 1
				}
				return 0
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				t.handle(ctx, line)
			}()
		}
	}
}

func (t *terminal) handle(ctx context.Context, line string) {
	if arg, ok := command(line, forecastCommand); ok {
		if summary, err := t.handler.Forecast(ctx, arg); err == nil {
			t.printText(summary)
		}
		return
	}
	if arg, ok := command(line, tipsCommand); ok {
		if tips, err := t.handler.Tips(ctx, arg); err == nil {
			t.printText(tips)
		}
		return
	}
	if err := t.handler.OnSubmit(ctx, &form.ValueEvent{Location: line}); err == nil {
		t.printDisplay()
	}
}

// command reports whether line invokes name and returns its argument.
func command(line, name string) (string, bool) {
	rest, ok := strings.CutPrefix(line, name)
	if !ok || (rest != "" && rest[0] != ' ') {
		return "", false
	}
	return strings.TrimPrefix(rest, " "), true
}
