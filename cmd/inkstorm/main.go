// Package main is the entry point for the inkstorm reader.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/inkstorm/internal/app"
	"github.com/dshills/inkstorm/internal/config"
	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/touch"
	"github.com/dshills/inkstorm/internal/library"
	"github.com/dshills/inkstorm/internal/platform/emulator"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	configPath string
	libraryDB  string
	bookPath   string
	pages      int
	debug      bool
	logLevel   string
	watch      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	cli := parseFlags()

	// The emulator needs the panel geometry before the application
	// exists, so settings load once here and again inside app.New.
	cfg, err := config.Load(cli.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading settings: %v\n", err)
		return 1
	}
	panel := geom.NewRect(0, 0, cfg.Screen.Width, cfg.Screen.Height)

	// One clock for sample timestamps and scheduler deadlines.
	clock := event.NewClock()

	emu, err := emulator.New(panel, clock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening terminal: %v\n", err)
		return 1
	}
	defer emu.Close()

	var store *library.Store
	if cli.libraryDB != "" {
		store, err = library.Open(cli.libraryDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening library: %v\n", err)
			return 1
		}
		defer store.Close()
	}

	application, err := app.New(app.Options{
		ConfigPath:  cli.configPath,
		Renderer:    emulator.PageRenderer{},
		Display:     emu,
		Store:       store,
		Clock:       clock,
		Debug:       cli.debug,
		LogLevel:    cli.logLevel,
		WatchConfig: cli.watch,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	emu.SetLogger(application.Logger().WithComponent("emulator"))

	book, err := pickBook(store, cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := application.OpenBook(book); err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening book: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Stop()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Terminal events pump on their own goroutine; everything they
	// produce crosses into the application through PostSample.
	go func() {
		_ = emu.Run(ctx, func(s touch.Sample) bool {
			return application.PostSample(s)
		}, application.Stop)
	}()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// pickBook resolves the positional book argument against the library, or
// falls back to a synthetic demo book so the reader always has pages.
func pickBook(store *library.Store, cli cliOptions) (library.Book, error) {
	if cli.bookPath == "" {
		return library.Book{Title: "Demo Pages", Pages: cli.pages}, nil
	}

	if store == nil {
		return library.Book{
			Path:  cli.bookPath,
			Title: filepath.Base(cli.bookPath),
			Pages: cli.pages,
		}, nil
	}

	book, err := store.GetByPath(cli.bookPath)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, library.ErrNotFound) {
		return library.Book{}, fmt.Errorf("looking up %s: %w", cli.bookPath, err)
	}

	book = library.Book{
		Path:  cli.bookPath,
		Title: filepath.Base(cli.bookPath),
		Pages: cli.pages,
	}
	if err := store.Upsert(&book); err != nil {
		return library.Book{}, fmt.Errorf("registering %s: %w", cli.bookPath, err)
	}
	return book, nil
}

func parseFlags() cliOptions {
	var cli cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&cli.configPath, "config", "", "Path to settings file")
	flag.StringVar(&cli.configPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&cli.libraryDB, "library", "", "Path to the library database")
	flag.StringVar(&cli.libraryDB, "l", "", "Path to the library database (shorthand)")
	flag.IntVar(&cli.pages, "pages", 24, "Page count for books the library has not seen")
	flag.BoolVar(&cli.debug, "debug", false, "Enable debug mode")
	flag.BoolVar(&cli.debug, "d", false, "Enable debug mode (shorthand)")
	flag.StringVar(&cli.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&cli.watch, "watch", false, "Reload the settings file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Inkstorm - touch-driven e-ink reader (desktop emulator)\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkstorm [options] [book]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inkstorm                          Page through demo pages\n")
		fmt.Fprintf(os.Stderr, "  inkstorm -l books.db dune.epub    Read with persistent position\n")
		fmt.Fprintf(os.Stderr, "  inkstorm -c inkstorm.toml -watch  Live-reload settings\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Inkstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch cli.logLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cli.logLevel)
		os.Exit(1)
	}

	if cli.pages < 1 {
		fmt.Fprintf(os.Stderr, "Error: -pages must be positive\n")
		os.Exit(1)
	}

	if args := flag.Args(); len(args) > 0 {
		cli.bookPath = args[0]
	}

	return cli
}
