// Command epubcat is a demonstration and troubleshooting tool: it opens an
// EPUB through the reader façade and dumps its table of contents and
// progress arithmetic, exercising the same path a real consumer would use.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/pixel-reader/epubcore/config"
	"github.com/pixel-reader/epubcore/docaddr"
	"github.com/pixel-reader/epubcore/reader"
	"github.com/pixel-reader/epubcore/state"
	"github.com/pixel-reader/epubcore/treeprint"
)

func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := state.EnvFromContext(ctx)

	var err error
	if configFile := cmd.String("config"); configFile != "" {
		if env.Cfg, err = config.Load(configFile); err != nil {
			return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
		}
	} else {
		env.Cfg = config.Default(cmd.String("cache-dir"))
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.ConsoleLogger.Level = "debug"
	}

	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()
	env.Log.Debug("program started", zap.Strings("args", os.Args))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Debug("program ended", zap.Duration("elapsed", env.Uptime()))
	}
	env.RestoreStdLog()
	return nil
}

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Error("program ended with error", zap.Error(err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:            "epubcat",
		Usage:           "inspect the table of contents and reading progress of an EPUB file",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.StringFlag{Name: "cache-dir", Value: ".", Usage: "directory to store the per-book widths cache in"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "verbose logging"},
		},
		ArgsUsage: "BOOK.epub",
		Action:    runCat,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "epubcat: %v\n", err)
		os.Exit(1)
	}
}

func runCat(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	path := cmd.Args().Get(0)
	if path == "" {
		return fmt.Errorf("missing required argument BOOK.epub")
	}

	r := reader.New(path, cmd.String("cache-dir"), env.Log)
	if !r.Open() {
		return fmt.Errorf("unable to open %q as an EPUB", path)
	}
	defer func() {
		if err := r.Close(); err != nil {
			env.Log.Warn("error closing reader", zap.Error(err))
		}
	}()

	tw := treeprint.NewTreeWriter()
	tw.Line(0, "%s", path)
	tw.TextBlock(1, "id", r.ID())

	toc := r.GetTableOfContents()
	tw.Line(1, "table of contents (%d entries)", len(toc))
	for i, item := range toc {
		addr := r.GetTocItemAddress(uint32(i))
		pct := r.GetGlobalProgressPercent(addr)
		tw.Line(2+int(item.IndentLevel), "[%d%%] %s", pct, item.DisplayName)
	}

	it := r.GetIter(docaddr.Make(0))
	count := 0
	for {
		if _, ok := it.Current(); !ok {
			break
		}
		count++
		it.Advance()
	}
	tw.Line(1, "total tokens: %d", count)

	fmt.Fprint(os.Stdout, tw.String())
	return nil
}
