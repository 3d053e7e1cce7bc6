// Package config reads the teams, weekdays and integrations of a run from
// environment variables and an optional yaml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"github.com/danielholmes839/attendance-list/internal/calendar"
)

const (
	DefaultConfigPath = "teams.yaml"
	DefaultOutput     = "attendance-list.xlsx"

	maxSheetName      = 31
	invalidSheetChars = `[]:*?/\`
)

type Team struct {
	Name    string `yaml:"name"`
	Roster  string `yaml:"roster"`
	Section string `yaml:"section"`
}

type Weekdays struct {
	Practice []string `yaml:"practice"`
	Game     string   `yaml:"game"`
	Extra    string   `yaml:"extra"`
}

// File is the yaml document, e.g.
//
//	output: attendance-list.xlsx
//	teams:
//	  - name: Team Da
//	    roster: teamDa.xlsx
//	weekdays:
//	  practice: [monday, wednesday]
//	  game: saturday
//	  extra: friday
type File struct {
	Output   string   `yaml:"output"`
	Teams    []Team   `yaml:"teams"`
	Weekdays Weekdays `yaml:"weekdays"`
}

type Config struct {
	File

	Path     string
	LogLevel slog.Level

	DiscordToken     string
	DiscordChannelID string

	RosterBaseURL  string
	RosterUsername string
	RosterPassword string
}

func Default() Config {
	return Config{
		File: File{
			Output: DefaultOutput,
			Teams: []Team{
				{Name: "Team Da", Roster: "teamDa.xlsx"},
				{Name: "Team Db", Roster: "teamDb.xlsx"},
			},
			Weekdays: Weekdays{
				Practice: []string{"monday", "wednesday"},
				Game:     "saturday",
				Extra:    "friday",
			},
		},
		Path:     DefaultConfigPath,
		LogLevel: slog.LevelInfo,
	}
}

// Load overlays the yaml file and the environment on the defaults. A missing
// yaml file is not an error.
func Load(fsys afero.Fs, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("attendance_config"); path != "" {
		cfg.Path = path
	}

	data, err := afero.ReadFile(fsys, cfg.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read %s: %w", cfg.Path, err)
	default:
		file := File{}
		if err := yaml.UnmarshalStrict(data, &file); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", cfg.Path, err)
		}
		cfg.merge(file)
	}

	if output := getenv("attendance_output"); output != "" {
		cfg.Output = output
	}

	if level := getenv("attendance_log_level"); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return cfg, fmt.Errorf("attendance_log_level: %w", err)
		}
	}

	cfg.DiscordToken = getenv("discord_bot_token")
	cfg.DiscordChannelID = getenv("discord_channel_id")
	cfg.RosterBaseURL = getenv("roster_base_url")
	cfg.RosterUsername = getenv("roster_username")
	cfg.RosterPassword = getenv("roster_password")

	return cfg, nil
}

func (c *Config) merge(file File) {
	if file.Output != "" {
		c.Output = file.Output
	}
	if len(file.Teams) > 0 {
		c.Teams = file.Teams
	}
	if len(file.Weekdays.Practice) > 0 {
		c.Weekdays.Practice = file.Weekdays.Practice
	}
	if file.Weekdays.Game != "" {
		c.Weekdays.Game = file.Weekdays.Game
	}
	if file.Weekdays.Extra != "" {
		c.Weekdays.Extra = file.Weekdays.Extra
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error

	if c.Output == "" {
		err = multierr.Append(err, errors.New("output path is empty"))
	}
	if len(c.Teams) == 0 {
		err = multierr.Append(err, errors.New("no teams configured"))
	}

	// sheet names compare case-insensitively
	seen := map[string]bool{}
	for i, team := range c.Teams {
		name := strings.TrimSpace(team.Name)
		key := strings.ToLower(name)
		switch {
		case name == "":
			err = multierr.Append(err, fmt.Errorf("team %d has no name", i+1))
		case seen[key]:
			err = multierr.Append(err, fmt.Errorf("team %q is configured twice", name))
		}
		seen[key] = true

		if utf8.RuneCountInString(name) > maxSheetName {
			err = multierr.Append(err, fmt.Errorf("team %q: sheet names are limited to %d characters", name, maxSheetName))
		}
		if strings.ContainsAny(name, invalidSheetChars) {
			err = multierr.Append(err, fmt.Errorf("team %q: sheet names may not contain any of %s", name, invalidSheetChars))
		}
		if team.Roster == "" {
			err = multierr.Append(err, fmt.Errorf("team %q has no roster", name))
		}
	}

	if _, calErr := c.Calendar(); calErr != nil {
		err = multierr.Append(err, calErr)
	}

	if (c.DiscordToken == "") != (c.DiscordChannelID == "") {
		err = multierr.Append(err, errors.New("discord_bot_token and discord_channel_id must be set together"))
	}

	return err
}

// Calendar converts the weekday names into a calendar configuration.
func (c Config) Calendar() (calendar.Config, error) {
	var err error

	practice := []time.Weekday{}
	for _, name := range c.Weekdays.Practice {
		wd, parseErr := calendar.ParseWeekday(name)
		err = multierr.Append(err, parseErr)
		practice = append(practice, wd)
	}

	game, parseErr := calendar.ParseWeekday(c.Weekdays.Game)
	err = multierr.Append(err, parseErr)

	extra, parseErr := calendar.ParseWeekday(c.Weekdays.Extra)
	err = multierr.Append(err, parseErr)

	if err != nil {
		return calendar.Config{}, err
	}
	return calendar.NewConfig(practice, game, extra)
}
