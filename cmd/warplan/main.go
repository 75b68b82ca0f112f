// Command warplan turns a natural-language order into a JSON plan.
//
// Usage:
//
//	warplan [flags] "<command text>"
//
// Flags must come before the command text. The first argument that is not
// a known flag starts the command, even when it begins with a dash.
//
// The plan is printed to stdout. Errors, logs and optional traces go to
// stderr. The exit status is 0 on success and 1 on any failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/dshills/warplan/internal/backend"
	"github.com/dshills/warplan/internal/config"
	"github.com/dshills/warplan/internal/logging"
	"github.com/dshills/warplan/planner"
	"github.com/dshills/warplan/planner/emit"
	"github.com/dshills/warplan/planner/tool"
	"github.com/dshills/warplan/planner/world"
)

var errNoCommand = errors.New("no command provided")

// backendFactory builds the chat model for a configuration.
type backendFactory func(cfg *config.Config) (*backend.Backend, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, backend.New))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, newBackend backendFactory) int {
	cmd := newRootCommand(stdout, stderr, newBackend)
	cmd.SetArgs(commandArgs(cmd.Flags(), args))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errNoCommand) {
			fmt.Fprintln(stderr, "Error: No command provided as a command line argument.")
			return 1
		}
		fmt.Fprintf(stderr, "Error: An error occurred: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer, newBackend backendFactory) *cobra.Command {
	var configFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "warplan [flags] \"<command text>\"",
		Short:         "Turn a natural-language order into a JSON plan",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errNoCommand
			}

			cfg, err := config.Load(v, config.Options{ConfigFile: configFile})
			if err != nil {
				return err
			}

			logger := logging.New("warplan", cfg.Log, stderr)
			defer func() { _ = logger.Sync() }()
			if len(args) > 1 {
				logger.Warn("ignoring extra arguments", zap.Strings("args", args[1:]))
			}

			res, err := execute(cmd.Context(), cfg, args[0], logger, stderr, newBackend)
			if err != nil {
				logger.Debug("plan failed", zap.Error(err))
				return err
			}

			out, err := res.Plan.JSON()
			if err != nil {
				return fmt.Errorf("failed to encode plan: %w", err)
			}
			fmt.Fprintln(stdout, string(out))
			return nil
		},
	}

	cmd.InitDefaultHelpFlag()
	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.String("provider", "", "LLM provider: google, openai or anthropic")
	flags.String("model", "", "model name (provider default when empty)")
	flags.String("map", "", "scenario YAML file (built-in realm when empty)")
	flags.Int("max-tokens", 0, "response token limit (provider default when 0)")
	flags.Bool("native-tools", false, "offer tools to the model as callable functions")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-file", "", "also write JSON logs to this rotated file")
	flags.String("metrics-file", "", "write Prometheus metrics to this file")
	flags.String("events-file", "", "write plan events to this file as JSON lines")
	flags.Bool("trace", false, "print OpenTelemetry spans to stderr")

	for key, flag := range map[string]string{
		"provider":     "provider",
		"model":        "model",
		"map":          "map",
		"max_tokens":   "max-tokens",
		"native_tools": "native-tools",
		"log.level":    "log-level",
		"log.file":     "log-file",
		"metrics_file": "metrics-file",
		"events_file":  "events-file",
		"trace":        "trace",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

// commandArgs ends flag parsing at the first argument that is not a known
// flag, so command text such as "-retreat to Castle" is never read as
// flags. Flags must precede the command text.
func commandArgs(flags *pflag.FlagSet, args []string) []string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return args
		}

		var f *pflag.Flag
		hasValue := false
		switch {
		case strings.HasPrefix(arg, "--") && len(arg) > 2:
			var name string
			name, _, hasValue = strings.Cut(arg[2:], "=")
			f = flags.Lookup(name)
		case strings.HasPrefix(arg, "-") && len(arg) == 2:
			f = flags.ShorthandLookup(arg[1:])
		}

		if f == nil {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
		if !hasValue && f.NoOptDefVal == "" {
			i++
		}
	}
	return args
}

// execute wires the world, tools, backend and observability for one plan
// request. Files opened for events and metrics are closed before it returns.
func execute(ctx context.Context, cfg *config.Config, command string, logger *zap.Logger, stderr io.Writer, newBackend backendFactory) (res *planner.Result, err error) {
	m, err := loadWorld(cfg.MapFile)
	if err != nil {
		return nil, err
	}

	reg, err := tool.NewRegistry(tool.NewMoveTool(m))
	if err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	b, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("backend ready", zap.String("provider", b.Provider), zap.String("model", b.ModelName))

	emitters := []emit.Emitter{emit.NewZapEmitter(logger)}

	if cfg.EventsFile != "" {
		f, ferr := os.Create(cfg.EventsFile)
		if ferr != nil {
			return nil, fmt.Errorf("failed to create events file: %w", ferr)
		}
		defer f.Close()
		emitters = append(emitters, emit.NewLogEmitter(f, true))
	}

	if cfg.Trace {
		exporter, terr := stdouttrace.New(stdouttrace.WithWriter(stderr), stdouttrace.WithPrettyPrint())
		if terr != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", terr)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer func() { _ = tp.Shutdown(context.Background()) }()
		emitters = append(emitters, emit.NewOTelEmitter(tp.Tracer("warplan")))
	}

	opts := []planner.Option{
		planner.WithWorld(m),
		planner.WithEmitter(emit.NewMultiEmitter(emitters...)),
		planner.WithCostTracker(planner.NewCostTracker()),
		planner.WithModelName(b.ModelName),
		planner.WithProvider(b.Provider),
	}
	if cfg.NativeTools {
		opts = append(opts, planner.WithNativeTools())
	}

	if cfg.MetricsFile != "" {
		registry := prometheus.NewRegistry()
		opts = append(opts, planner.WithMetrics(planner.NewMetrics(registry)))
		defer func() {
			if werr := prometheus.WriteToTextfile(cfg.MetricsFile, registry); werr != nil && err == nil {
				res, err = nil, fmt.Errorf("failed to write metrics: %w", werr)
			}
		}()
	}

	p, err := planner.New(b.Model, reg, opts...)
	if err != nil {
		return nil, err
	}

	res, err = p.Plan(ctx, command)
	if err != nil {
		return nil, err
	}

	for _, w := range res.Warnings {
		logger.Warn("plan refers to unknown units or places", zap.String("warning", w))
	}
	logger.Info("plan ready",
		zap.String("plan_id", res.Plan.ID),
		zap.Int("steps", len(res.Plan.Steps)),
		zap.Int("tokens", res.Usage.Total()),
		zap.Float64("cost_usd", res.CostUSD),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func loadWorld(path string) (*world.Map, error) {
	if path == "" {
		return world.DefaultScenario()
	}
	return world.LoadScenarioFile(path)
}
