package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/stockroom-dev/stockroom/internal/cli/auth"
	"github.com/stockroom-dev/stockroom/internal/cli/client"
	"github.com/stockroom-dev/stockroom/internal/cli/userconfig"
	"github.com/stockroom-dev/stockroom/internal/config"
	"github.com/stockroom-dev/stockroom/internal/database"
	"github.com/stockroom-dev/stockroom/internal/logger"
)

// Options carries the dependencies shared by all commands. Tests replace
// the token store, prompter, output and database opener.
type Options struct {
	// Server is the --server flag value.
	Server string
	// ConfigPath overrides the user config location when set.
	ConfigPath string

	Tokens auth.TokenStore
	Prompt Prompter
	Out    io.Writer
	Logger zerolog.Logger

	// OpenDB opens the identity database for the admin commands.
	OpenDB func() (*gorm.DB, error)
}

// DefaultOptions wires the keyring, the terminal and DATABASE_URL.
func DefaultOptions() *Options {
	log := logger.New(os.Stderr, "console").Level(zerolog.WarnLevel)

	return &Options{
		Tokens: auth.Default,
		Prompt: terminalPrompter{in: os.Stdin, out: os.Stdout},
		Out:    os.Stdout,
		Logger: log,
		OpenDB: func() (*gorm.DB, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			return database.Open(cfg.Database, log)
		},
	}
}

func (o *Options) loadUserConfig() (*userconfig.UserConfig, error) {
	if o.ConfigPath != "" {
		return userconfig.LoadFrom(o.ConfigPath)
	}
	return userconfig.Load()
}

func (o *Options) saveUserConfig(cfg *userconfig.UserConfig) error {
	if o.ConfigPath != "" {
		return userconfig.SaveTo(o.ConfigPath, cfg)
	}
	return userconfig.Save(cfg)
}

// serverURL resolves which server the command talks to.
func (o *Options) serverURL() (string, error) {
	cfg, err := o.loadUserConfig()
	if err != nil {
		return "", err
	}
	return userconfig.ResolveServerURL(o.Server, cfg), nil
}

// newClient returns an API client for the resolved server and its URL.
func (o *Options) newClient() (*client.Client, string, error) {
	serverURL, err := o.serverURL()
	if err != nil {
		return nil, "", err
	}

	apiClient, err := client.New(serverURL)
	if err != nil {
		return nil, "", err
	}
	return apiClient, serverURL, nil
}

// withDB opens the database, runs fn and closes the database again.
func (o *Options) withDB(fn func(db *gorm.DB) error) error {
	db, err := o.OpenDB()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			o.Logger.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	return fn(db)
}
