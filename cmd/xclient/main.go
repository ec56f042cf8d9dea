// xclient is a command-line front end for the social backend. Each
// subcommand drives the same session, feed, compose and follow contracts
// a browser client would, against the configured GraphQL endpoint.
//
// The session token persists in the configured store between runs, so
// "xclient login <credential>" followed by "xclient feed" behaves like a
// returning visitor.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	xclient "github.com/anatolykoptev/go-xclient"
	"github.com/anatolykoptev/go-xclient/metrics"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds to distinct process exit codes.
func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	switch xclient.KindOf(err) {
	case xclient.KindValidation:
		return 3
	case xclient.KindAuthentication:
		return 4
	case xclient.KindNotFound:
		return 5
	}
	return 1
}

var errUsage = errors.New("usage")

type globalFlags struct {
	configPath  string
	endpoint    string
	storeKind   string
	metricsAddr string
	logLevel    string
	logJSON     bool
}

func run(args []string) error {
	var g globalFlags
	flagSet := pflag.NewFlagSet("xclient", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&g.configPath, "config", os.Getenv("XCLIENT_CONFIG"), "path to YAML config file")
	flagSet.StringVar(&g.endpoint, "endpoint", "", "GraphQL endpoint URL (overrides config)")
	flagSet.StringVar(&g.storeKind, "store", "", "token store backend: memory, file, sqlite, redis")
	flagSet.StringVar(&g.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flagSet.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flagSet.BoolVar(&g.logJSON, "log-json", false, "emit JSON log records")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(flagSet)
		return nil
	}

	setupLogging(g.logLevel, g.logJSON)

	cmd, ok := commands[flagSet.Arg(0)]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, flagSet.Arg(0))
	}

	cfg, err := xclient.LoadConfig(g.configPath)
	if err != nil {
		return err
	}
	if g.endpoint != "" {
		cfg.Endpoint = g.endpoint
	}
	if g.storeKind != "" {
		cfg.Store.Backend = g.storeKind
	}
	out := newTerminal(os.Stdout, os.Stdin)
	cfg.Notifier = out
	if g.metricsAddr != "" {
		cfg.MetricsHook = metrics.Hook()
		metrics.Serve(g.metricsAddr)
	}

	client, err := xclient.NewClient(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Warn("close store", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := xclient.NewSession(client)
	if _, err := session.ConsumeLogoutFlag(ctx); err != nil {
		slog.Warn("read logout flag", slog.Any("error", err))
	}
	if err := session.Load(ctx); err != nil {
		return err
	}

	return cmd.run(ctx, &env{client: client, session: session, out: out}, flagSet.Args()[1:])
}

func setupLogging(level string, asJSON bool) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if asJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: xclient [flags] <command> [args]\n\nCommands:\n")
	for _, name := range commandOrder {
		fmt.Fprintf(os.Stderr, "  %-28s %s\n", commands[name].usage, commands[name].summary)
	}
	fmt.Fprintf(os.Stderr, "\nFlags:\n%s", flagSet.FlagUsages())
}

func requireArg(args []string, what string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%w: missing %s", errUsage, what)
	}
	return args[0], nil
}
