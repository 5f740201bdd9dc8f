package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/tiwaz/internal"
	pkgconfig "github.com/starford/tiwaz/pkg/config"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if root := cmd.String("root"); root != "" {
		cfg.Docs.Root = root
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func check(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	opts = append(opts,
		internal.WithSynthesize(cmd.Bool("synthesize")),
		internal.WithDryRun(cmd.Bool("dry-run")),
		internal.WithScanOnly(cmd.Bool("scan-only")),
		internal.WithFillOnly(cmd.Bool("fill-only")),
	)
	if err := internal.Check(ctx, opts...); err != nil {
		return fmt.Errorf("check error: %w", err)
	}
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Serve(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.ServeMCP(ctx, opts...); err != nil {
		return fmt.Errorf("mcp error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "tiwaz",
		Usage:   "Classify, complete, and cross-check a modular Markdown documentation set",
		Version: version,
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
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Documentation root (overrides docs.root)",
				Sources: cli.EnvVars("TIWAZ_DOCS_ROOT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Scan modules, optionally synthesize placeholders, validate references, and write a report",
				Action: check,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "synthesize",
						Usage: "Rewrite placeholder documents from the section catalog",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report only; write neither documents nor the report file",
					},
					&cli.BoolFlag{
						Name:  "scan-only",
						Usage: "Scan modules and print their summaries; skip synthesis, validation, and the report",
					},
					&cli.BoolFlag{
						Name:  "fill-only",
						Usage: "Synthesize placeholder documents; skip validation and the report",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the read-only REST API with live document events",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the documentation tools over MCP stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
