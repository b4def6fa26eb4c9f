package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jittakal/kafeventcodec/internal/config"
	"github.com/jittakal/kafeventcodec/internal/config/dto"
	"github.com/jittakal/kafeventcodec/internal/observability"
)

const usage = `usage: cecodec <command> [flags]

commands:
  convert    decode events in one format and encode them in another
  generate   write fake events
  validate   check events against the CloudEvents SDK
  probe      report which formats this build supports
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "cecodec: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries what every command needs.
type app struct {
	cfg      *dto.ApplicationConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	stdin    io.Reader
	stdout   io.Writer
}

type command func(a *app) error

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	name, args := args[0], args[1:]
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", os.Getenv("CECODEC_CONFIG"), "path to configuration file")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "json", "log format (json, console)")
	fs.String("metrics", "", "write Prometheus metrics to this file on exit")

	var cmd command
	switch name {
	case "convert":
		fs.String("from", "json", "input format")
		fs.String("to", "json", "output format")
		fs.String("compression", "", "output compression for avro-ocf and parquet")
		fs.StringP("input", "i", "-", "input file, - for stdin")
		fs.StringP("output", "o", "-", "output file, - for stdout")
		cmd = runConvert
	case "generate":
		fs.String("to", "json", "output format")
		fs.String("compression", "", "output compression for avro-ocf and parquet")
		fs.Int("count", 10, "number of events")
		fs.String("source", "oximeter/123", "event source")
		fs.StringP("output", "o", "-", "output file, - for stdout")
		cmd = runGenerate
	case "validate":
		fs.String("from", "json", "input format")
		fs.StringP("input", "i", "-", "input file, - for stdin")
		cmd = runValidate
	case "probe":
		cmd = runProbe
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", name)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Load configuration
	// Priority: flags > CECODEC_* env vars > config file > defaults
	loader := config.NewLoader()
	if err := loader.BindFlags(fs); err != nil {
		return err
	}
	cfg, err := loader.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize observability
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: cfg.Observability.Logging.Output,
	})
	defer func() { _ = logger.Sync() }()

	a := &app{
		cfg:    cfg,
		logger: logger.With(zap.String("command", name)),
		stdin:  stdin,
		stdout: stdout,
	}
	if cfg.Observability.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.metrics = observability.NewMetrics(a.registry)
	}

	a.logger.Debug("starting",
		zap.String("version", cfg.Application.Version),
		zap.String("environment", cfg.Application.Environment),
	)

	cmdErr := cmd(a)
	if cmdErr != nil {
		a.logger.Error("command failed", zap.Error(cmdErr))
	}

	if err := a.writeMetrics(); err != nil {
		a.logger.Error("failed to write metrics", zap.Error(err))
		if cmdErr == nil {
			cmdErr = err
		}
	}
	return cmdErr
}

// writeMetrics dumps the registry to the configured textfile, if any.
func (a *app) writeMetrics() error {
	path := a.cfg.Observability.Metrics.TextfilePath
	if a.registry == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
		return err
	}
	a.logger.Debug("wrote metrics", zap.String("path", path))
	return nil
}
