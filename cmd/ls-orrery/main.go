// Command ls-orrery is a terminal 3-D viewer for solar system body positions
// on a chosen date.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/cache"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/observability"
	"github.com/litescript/ls-orrery/internal/report"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/server"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode  bool
	frameSize    string
	snapshotPath string
	serveAddr    string
)

func main() {
	apiURL := flag.String("api", ephem.DefaultBaseURL, "Ephemeris service base URL")
	dateFlag := flag.String("date", "", "Initial date, yyyy-MM-dd (default today)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to this file (TUI logs are discarded otherwise)")
	timeout := flag.Duration("timeout", ephem.DefaultTimeout, "HTTP request timeout")
	cachePath := flag.String("cache", "", "SQLite position cache path (empty disables)")
	noStars := flag.Bool("no-stars", false, "Hide the background starfield")
	flag.BoolVar(&summaryMode, "summary", false, "Print positions summary instead of TUI")
	flag.StringVar(&frameSize, "frame", "", "Print one rendered frame of size WxH (e.g. 120x40)")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export scene JSON to file (use - for stdout)")
	flag.StringVar(&serveAddr, "serve", "", "Serve scenes over HTTP on this address (e.g. :8080)")
	flag.Parse()

	date := astro.Today()
	if *dateFlag != "" {
		d, err := astro.ParseDate(*dateFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		date = d
	}

	headless := summaryMode || frameSize != "" || snapshotPath != "" || serveAddr != ""

	// Set up logging
	logger := logging.New(logging.ParseLevel(*logLevel))
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else if !headless {
		// Anything on stderr would corrupt the alt screen.
		logger = logging.Discard()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewCollector(registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize components
	client := ephem.NewClient(
		ephem.WithBaseURL(*apiURL),
		ephem.WithTimeout(*timeout),
		ephem.WithRecorder(metrics),
	)
	var src ephem.Source = client
	if *cachePath != "" {
		c, err := cache.Open(*cachePath, client, logger)
		if err != nil {
			logger.Warn("position cache disabled: %v", err)
		} else {
			defer c.Close()
			src = c
		}
	}

	stateMgr := state.NewManager(state.Config{InitialDate: date})
	sceneOpts := scene.Options{ShowStars: !*noStars, ShowLabels: true}

	if headless {
		if err := runHeadless(ctx, src, stateMgr, metrics, sceneOpts, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	model := ui.New(stateMgr, src,
		ui.WithLogger(logger),
		ui.WithMetrics(metrics),
		ui.WithSceneOptions(sceneOpts),
	)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info("ls-orrery starting for %s against %s", astro.FormatDate(date), client.BaseURL())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(ctx context.Context, src ephem.Source, stateMgr *state.Manager, metrics *observability.Collector, opts scene.Options, logger *logging.Logger) error {
	if serveAddr != "" {
		return server.New(src, metrics, logger).ListenAndServe(ctx, serveAddr)
	}

	var width, height int
	if frameSize != "" {
		w, h, err := parseFrameSize(frameSize)
		if err != nil {
			return err
		}
		width, height = w, h
	}

	if err := fetchAll(ctx, src, stateMgr, logger); err != nil {
		return err
	}
	snap := stateMgr.Snapshot()

	renderer := scene.NewRenderer(opts)
	renderer.Update(snap.Observations)
	metrics.SetSceneMeshes(renderer.Scene().Len())

	if snapshotPath != "" {
		export := scene.ExportScene(renderer.Scene(), renderer.Camera(), astro.FormatDate(snap.LoadedDate))
		if err := writeTo(snapshotPath, export.WriteJSON); err != nil {
			return err
		}
	}

	if summaryMode {
		report.WriteSummary(os.Stdout, snap.LoadedDate, snap.Observations)
	}

	if frameSize != "" {
		if summaryMode {
			fmt.Println()
		}
		isTTY := term.IsTerminal(int(os.Stdout.Fd()))
		fmt.Println(renderer.Frame(width, height).String(isTTY))
	}

	return nil
}

// fetchAll loads the catalog and the selected date's positions
// concurrently. A catalog failure is logged; a positions failure is fatal.
func fetchAll(ctx context.Context, src ephem.Source, stateMgr *state.Manager, logger *logging.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		names, err := src.Planets(gctx)
		if err != nil {
			logger.Warn("fetch planets: %v", err)
			return nil
		}
		stateMgr.SetCatalog(names)
		logger.Debug("catalog: %d bodies", len(names))
		return nil
	})

	g.Go(func() error {
		t := stateMgr.BeginFetch()
		start := time.Now()
		obs, err := src.Positions(gctx, t.Date)
		stateMgr.Apply(t, obs, time.Since(start), err)
		if err != nil {
			return fmt.Errorf("fetch positions %s: %w", astro.FormatDate(t.Date), err)
		}
		logger.Debug("positions %s: %d bodies in %s", astro.FormatDate(t.Date), len(obs), time.Since(start).Round(time.Millisecond))
		return nil
	})

	return g.Wait()
}

// writeTo runs write against stdout for "-" or a created file otherwise.
func writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		if err := write(os.Stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

// parseFrameSize parses "WxH" into positive cell counts.
func parseFrameSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("frame size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("frame width %q: %w", ws, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("frame height %q: %w", hs, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("frame size %q: dimensions must be positive", s)
	}
	return w, h, nil
}
