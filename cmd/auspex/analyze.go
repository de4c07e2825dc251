package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/auspexhq/auspex/internal/output"
	"github.com/auspexhq/auspex/internal/progress"
	"github.com/auspexhq/auspex/pkg/catalog"
	"github.com/auspexhq/auspex/pkg/config"
	"github.com/auspexhq/auspex/pkg/locations"
	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
	"github.com/auspexhq/auspex/pkg/quality"
	"github.com/auspexhq/auspex/pkg/score"
	"github.com/auspexhq/auspex/pkg/stack"
	"github.com/auspexhq/auspex/pkg/structure"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Run the full analysis pipeline over a project",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"e"},
				Usage:   "Extra path substrings to skip (repeatable)",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Project type hint: laravel, vue, php, node",
			},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	root := "."
	if c.Args().Len() > 0 {
		root = c.Args().First()
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", root, err)
	}

	cfg := loadConfig(c)

	console := progress.NewConsole(c.Bool("quiet") || c.String("output") != "")
	defer console.Close()

	engine := pipeline.New([]pipeline.Stage{
		catalog.New(cfg),
		stack.New(),
		structure.New(),
		quality.New(cfg),
		locations.New(),
		score.New(cfg),
	}, pipeline.WithProgress(console.Report))

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := engine.Run(ctx, models.ProjectContext{
		Root:     absRoot,
		Exclude:  c.StringSlice("exclude"),
		TypeHint: c.String("type"),
	})
	console.Close()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(buildReportView(report, c.Bool("verbose")))
}

func loadConfig(c *cli.Context) *config.Config {
	if path := c.String("config"); path != "" {
		if cfg, err := config.Load(path); err == nil {
			return cfg
		}
	}
	return config.LoadOrDefault()
}
