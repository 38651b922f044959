package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ytcollector/infrastructure/configuration"
	"ytcollector/infrastructure/logger"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const usage = `usage: ytcollector <command> [flags] [urls...]

commands:
  collect   fetch videos and comments for the given URLs (or --urls file)
  export    write videos.csv, comments.csv and threads.csv
  serve     serve the collected data over HTTP
  token     print a bearer token for the HTTP API
`

// command runs one subcommand once its flags are parsed and bound.
type command struct {
	name  string
	flags func(fs *pflag.FlagSet)
	// keys routes flag names to config keys.
	keys map[string]string
	run  func(ctx context.Context, fs *pflag.FlagSet) error
}

var commands = map[string]command{
	"collect": collectCommand,
	"export":  exportCommand,
	"serve":   serveCommand,
	"token":   tokenCommand,
}

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
		os.Exit(2)
	}
}

func main() {
	defer recoverPanic()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	// OS env still has precedence over these files.
	configuration.LoadEnvFromFile("config.env", ".env")

	fs, err := parseFlags(cmd, os.Args[2:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := logger.Configure(configuration.C.Logger.Format, configuration.C.Logger.Level); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Invalid logger configuration, keeping defaults")
	}

	if err := run(cmd, fs); err != nil {
		logger.GetLogger().WithField("command", cmd.name).WithField("error", err).Error("Command failed")
		os.Exit(1)
	}
}

func parseFlags(cmd command, args []string) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	fs.String("config", "", "extra JSON config file merged over config.json")
	fs.String("db", "", "database DSN (sqlite file path or postgres URL)")
	fs.String("driver", "", "database driver: sqlite or postgres")
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if path, _ := fs.GetString("config"); path != "" {
		if err := configuration.LoadFile(path); err != nil {
			return nil, err
		}
	}
	keys := map[string]string{
		"db":     "database.dsn",
		"driver": "database.driver",
	}
	for flag, key := range cmd.keys {
		keys[flag] = key
	}
	if err := configuration.BindFlags(fs, keys); err != nil {
		return nil, err
	}
	return fs, nil
}

// run executes cmd next to a signal watcher. The first SIGINT or SIGTERM
// cancels the command's context; the command decides how to wind down.
func run(cmd command, fs *pflag.FlagSet) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return cmd.run(gctx, fs)
	})
	g.Go(func() error {
		select {
		case sig := <-interrupt:
			logger.GetLogger().WithField("signal", sig.String()).Info("Application shutdown requested")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	return g.Wait()
}
