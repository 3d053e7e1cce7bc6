// Command attendance-list writes an attendance workbook with one sheet per
// team for the sessions between two dates.
//
// Usage:
//
//	attendance-list 2025-07-01 2025-09-30
//	attendance-list 2025-07-01 2025-09-30 2025-08-01 2025-08-29
//	attendance-list roster teamDa.xlsx
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/danielholmes839/attendance-list/internal/calendar"
	"github.com/danielholmes839/attendance-list/internal/config"
	"github.com/danielholmes839/attendance-list/internal/layout"
	"github.com/danielholmes839/attendance-list/internal/publish"
	"github.com/danielholmes839/attendance-list/internal/roster"
	"github.com/danielholmes839/attendance-list/internal/workbook"
)

type app struct {
	fs     afero.Fs
	getenv func(string) string
	level  *slog.LevelVar
	logger *slog.Logger

	// launches the browser for remote rosters; replaced in tests
	fetcher func(cfg config.Config) (roster.PageFetcher, func() error, error)
}

func newApp(fs afero.Fs, getenv func(string) string) *app {
	level := &slog.LevelVar{}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	a := &app{
		fs:     fs,
		getenv: getenv,
		level:  level,
		logger: logger,
	}
	a.fetcher = a.launchBrowser
	return a
}

func (a *app) rootCmd() *cobra.Command {
	var (
		ranges     config.Ranges
		configPath string
		output     string
	)

	root := &cobra.Command{
		Use:   "attendance-list <start> <end> [<extra-start> <extra-end>]",
		Short: "Generate the attendance workbook for the configured teams",
		Example: "  attendance-list 2025-07-01 2025-09-30\n" +
			"  attendance-list 2025-07-01 2025-09-30 2025-08-01 2025-08-29",
		Args: func(cmd *cobra.Command, args []string) error {
			var err error
			ranges, err = config.ParseArgs(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := a.loadConfig(configPath, output)
			if err != nil {
				return err
			}
			return a.generate(cmd.Context(), cfg, ranges)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "teams yaml file (default "+config.DefaultConfigPath+")")
	root.Flags().StringVar(&output, "output", "", "workbook to write (default "+config.DefaultOutput+")")

	root.AddCommand(a.rosterCmd())

	// usage and validation errors go to standard output
	root.SetOut(os.Stdout)
	root.SetErr(os.Stdout)

	return root
}

func (a *app) rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster <source> [section]",
		Short: "Print the people read from a roster workbook, html file or page",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := a.loadConfig("", "")
			if err != nil {
				return err
			}

			src := roster.Source{Path: args[0]}
			if len(args) == 2 {
				src.Section = args[1]
			}

			loader, closeFetcher, err := a.loader(cfg, []roster.Source{src})
			if err != nil {
				return err
			}
			defer closeFetcher()

			people, err := loader.Load(cmd.Context(), src)
			if err != nil {
				return err
			}

			for _, p := range people {
				fmt.Fprintf(cmd.OutOrStdout(), "%s, %s\n", p.LastName, p.FirstName)
			}
			return nil
		},
	}
}

func (a *app) loadConfig(configPath, output string) (config.Config, error) {
	getenv := func(key string) string {
		switch {
		case key == "attendance_config" && configPath != "":
			return configPath
		case key == "attendance_output" && output != "":
			return output
		}
		return a.getenv(key)
	}

	cfg, err := config.Load(a.fs, getenv)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	a.level.Set(cfg.LogLevel)
	return cfg, nil
}

func (a *app) generate(ctx context.Context, cfg config.Config, ranges config.Ranges) error {
	start := time.Now()

	cal, err := cfg.Calendar()
	if err != nil {
		return err
	}
	cal = cal.WithExtra(ranges.Extra)

	sources := make([]roster.Source, len(cfg.Teams))
	for i, team := range cfg.Teams {
		sources[i] = roster.Source{Path: team.Roster, Section: team.Section}
	}

	loader, closeFetcher, err := a.loader(cfg, sources)
	if err != nil {
		return err
	}
	defer closeFetcher()

	sheets := []layout.Sheet{}
	for i, team := range cfg.Teams {
		people, err := loader.Load(ctx, sources[i])
		if err != nil {
			return err
		}

		sessions := calendar.Build(cal, ranges.Primary)
		sheet := layout.Generate(team.Name, cal, sessions, people, layout.DefaultOptions())
		sheets = append(sheets, sheet)

		a.logger.Info("generated sheet", "team", team.Name, "sessions", len(sessions), "players", len(people))
	}

	writer := &workbook.Writer{Fs: a.fs, Logger: a.logger}
	if err := writer.Write(cfg.Output, sheets); err != nil {
		return err
	}

	if cfg.DiscordToken != "" {
		if err := a.publish(ctx, cfg, ranges, sheets); err != nil {
			a.logger.Error("failed to publish workbook", "err", err)
		}
	}

	a.logger.Info("attendance list ready", "path", cfg.Output, "dur", time.Since(start).String())
	return nil
}

func (a *app) publish(ctx context.Context, cfg config.Config, ranges config.Ranges, sheets []layout.Sheet) error {
	publisher, err := publish.NewDiscordPublisher(cfg.DiscordToken, cfg.DiscordChannelID, a.logger)
	if err != nil {
		return err
	}

	file, err := a.fs.Open(cfg.Output)
	if err != nil {
		return err
	}
	defer file.Close()

	return publisher.Publish(ctx, cfg.Output, file, ranges.Primary, ranges.Extra, sheets)
}

// loader only starts a browser when one of the sources is a url.
func (a *app) loader(cfg config.Config, sources []roster.Source) (*roster.Loader, func() error, error) {
	loader := &roster.Loader{Fs: a.fs, Logger: a.logger}
	closeFetcher := func() error { return nil }

	for _, src := range sources {
		if !src.Remote() {
			continue
		}

		fetcher, stop, err := a.fetcher(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("launch browser: %w", err)
		}
		loader.Fetcher = fetcher
		closeFetcher = stop
		break
	}

	return loader, closeFetcher, nil
}

func (a *app) launchBrowser(cfg config.Config) (roster.PageFetcher, func() error, error) {
	fetcher, err := roster.LaunchBrowserFetcher(cfg.RosterBaseURL, cfg.RosterUsername, cfg.RosterPassword, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return fetcher, fetcher.Close, nil
}

func main() {
	godotenv.Load()

	a := newApp(afero.NewOsFs(), os.Getenv)
	if err := a.rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
