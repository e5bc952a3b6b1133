package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/wikiblocks/internal"
	"github.com/starford/wikiblocks/internal/apperr"
	"github.com/starford/wikiblocks/internal/selfcheck"
	pkgconfig "github.com/starford/wikiblocks/pkg/config"
)

var version = "dev"

const usageText = `Usage: wikiblocks <command> [arguments]

Commands:
  toc FILE...        regenerate tables of contents (toc test runs the self-check)
  backlinks FILE...  regenerate backlinks lists (backlinks test runs the self-check)
  all FILE...        run backlinks, then toc
  watch [DIR]        regenerate DIR on every change
  serve              watch the wiki and serve its link index over HTTP
  mcp                serve the wiki's link index over MCP on stdio
`

// loadConfig builds the configuration from defaults, the optional config
// file and the header flags, in that order of precedence.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	path := cmd.String("config")
	load := pkgconfig.LoadIfExists[internal.Config]
	if cmd.IsSet("config") {
		load = pkgconfig.Load[internal.Config]
	}
	if err := load(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if v := cmd.String("toc-header"); v != "" {
		cfg.TOC.Header = v
	}
	if v := cmd.String("backlinks-header"); v != "" {
		cfg.Backlinks.Header = v
	}
	if cmd.Bool("verbose") {
		cfg.App.LogLevel = slog.LevelDebug
	}
	return cfg, nil
}

func usage() error {
	fmt.Fprint(os.Stderr, usageText)
	return apperr.ErrUsage
}

// pipelineAction runs a batch pipeline over the file arguments. A single
// "test" argument runs the self-check instead when checks is non-nil.
func pipelineAction(pipeline string, checks func() []selfcheck.Check) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		args := cmd.Args().Slice()
		if len(args) == 0 {
			return usage()
		}
		if checks != nil && len(args) == 1 && args[0] == "test" {
			return selfcheck.Run(os.Stdout, checks())
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return internal.Generate(ctx, pipeline, args,
			internal.WithConfig(cfg),
			internal.WithStdout(os.Stdout),
			internal.WithStderr(os.Stderr),
		)
	}
}

func watch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir := cmd.Args().First(); dir != "" {
		cfg.Wiki.Path = dir
	}
	return internal.Watch(ctx,
		internal.WithConfig(cfg),
		internal.WithStdout(os.Stdout),
		internal.WithStderr(os.Stderr),
	)
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Serve(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx,
		internal.WithConfig(cfg),
		internal.WithStderr(os.Stderr),
		internal.WithVersion(version),
	)
}

func main() {
	cmd := &cli.Command{
		Name:    "wikiblocks",
		Usage:   "Regenerate tables of contents and backlinks in a Markdown wiki",
		Version: version,
		Action: func(context.Context, *cli.Command) error {
			return usage()
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "toc-header",
				Usage:   "Header line of the rendered table of contents",
				Sources: cli.EnvVars("TOC_HEADER"),
			},
			&cli.StringFlag{
				Name:    "backlinks-header",
				Usage:   "Header line of the rendered backlinks list",
				Sources: cli.EnvVars("BACKLINKS_HEADER"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log at debug level",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "toc",
				Usage:     "Regenerate the table of contents of each file",
				ArgsUsage: "FILE... | test",
				Action:    pipelineAction(internal.PipelineTOC, selfcheck.TOCChecks),
			},
			{
				Name:      "backlinks",
				Usage:     "Regenerate the backlinks list of each file",
				ArgsUsage: "FILE... | test",
				Action:    pipelineAction(internal.PipelineBacklinks, selfcheck.BacklinksChecks),
			},
			{
				Name:      "all",
				Usage:     "Regenerate backlinks, then tables of contents",
				ArgsUsage: "FILE...",
				Action:    pipelineAction(internal.PipelineAll, nil),
			},
			{
				Name:      "watch",
				Usage:     "Regenerate a wiki directory whenever it changes",
				ArgsUsage: "[DIR]",
				Action:    watch,
			},
			{
				Name:   "serve",
				Usage:  "Watch the wiki and serve its link index over HTTP",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the wiki's link index over MCP on stdio",
				Action: serveMCP,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Run(ctx, os.Args)
	stop()
	if err != nil {
		if !errors.Is(err, apperr.ErrUsage) {
			slog.Error("application error", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}
