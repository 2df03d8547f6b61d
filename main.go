package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/schemas-to-ts/config"
	"github.com/lexandro/schemas-to-ts/destination"
	"github.com/lexandro/schemas-to-ts/ignore"
	"github.com/lexandro/schemas-to-ts/layout"
)

// excludePatterns is a repeatable CLI flag for custom exclusion patterns.
type excludePatterns []string

func (e *excludePatterns) String() string { return strings.Join(*e, ", ") }
func (e *excludePatterns) Set(value string) error {
	*e = append(*e, value)
	return nil
}

// cliOptions holds the parsed command line.
type cliOptions struct {
	rootDir      string
	configFile   string
	envFile      string
	manifestFile string
	destination  string
	logLevel     string
	logFile      string
	excludes     excludePatterns
	flagsSet     map[string]bool
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("schemas-to-ts", flag.ContinueOnError)
	fs.StringVar(&opts.rootDir, "root", "", "Strapi project root directory (default: current working directory)")
	fs.StringVar(&opts.configFile, "config", "", "Config file (.yaml, .yml or .toml)")
	fs.StringVar(&opts.envFile, "env-file", ".env", "Env file read before environment overrides")
	fs.StringVar(&opts.manifestFile, "manifest", "", "Artifact manifest produced by the compiler (\"-\" for stdin)")
	fs.StringVar(&opts.destination, "destination", "", "Destination folder, relative to the root or absolute inside it")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	fs.StringVar(&opts.logFile, "log-file", "", "Log file path (default: stderr)")
	fs.Var(&opts.excludes, "exclude", "Extra exclusion pattern for stale cleanup, gitignore syntax (repeatable)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.flagsSet = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.flagsSet[f.Name] = true })

	if opts.manifestFile == "" {
		return opts, fmt.Errorf("-manifest is required")
	}
	return opts, nil
}

// buildRunOptions merges config file, environment and flags, lowest first.
func buildRunOptions(opts cliOptions) (runOptions, config.Config, error) {
	rootDir := opts.rootDir
	if rootDir == "" {
		var err error
		rootDir, err = os.Getwd()
		if err != nil {
			return runOptions{}, config.Config{}, fmt.Errorf("getting working directory: %w", err)
		}
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return runOptions{}, config.Config{}, fmt.Errorf("resolving root %s: %w", rootDir, err)
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return runOptions{}, cfg, err
	}
	envFile := opts.envFile
	if envFile != "" && !filepath.IsAbs(envFile) {
		envFile = filepath.Join(rootDir, envFile)
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return runOptions{}, cfg, err
	}
	if opts.flagsSet["destination"] {
		cfg.DestinationFolder = strings.TrimSpace(opts.destination)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	cfg.Exclude = append(cfg.Exclude, opts.excludes...)

	filePatterns, err := ignore.LoadPatternFile(filepath.Join(rootDir, ignore.IgnoreFileName))
	if err != nil {
		return runOptions{}, cfg, fmt.Errorf("reading %s: %w", ignore.IgnoreFileName, err)
	}
	cfg.Exclude = append(cfg.Exclude, filePatterns...)

	return runOptions{
		Layout: layout.FromRoot(rootDir),
		Destination: destination.Options{
			DestinationFolder:          cfg.DestinationFolder,
			CommonInterfacesFolderName: cfg.CommonInterfacesFolderName,
		},
		Exclude:           cfg.Exclude,
		KeepOrphanBarrels: cfg.KeepOrphanBarrels,
	}, cfg, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	runOpts, cfg, err := buildRunOptions(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Never log to stdout: the summary line is the only stdout output.
	logger := setupLogger(cfg.LogLevel, opts.logFile)
	logger.Info("starting schemas-to-ts output",
		"root", runOpts.Layout.App.Root,
		"destinationFolder", runOpts.Destination.DestinationFolder,
		"manifest", opts.manifestFile,
	)

	m, err := loadManifest(opts.manifestFile)
	if err != nil {
		logger.Error("failed to load manifest", "error", err)
		os.Exit(1)
	}

	report, err := generate(runOpts, m, logger)
	if err != nil {
		logger.Error("generation failed", "error", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	report.log(logger)
	fmt.Println(report.Summary())
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
