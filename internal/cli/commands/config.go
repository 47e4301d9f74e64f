package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockroom-dev/stockroom/internal/cli/client"
	"github.com/stockroom-dev/stockroom/internal/cli/userconfig"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-server <url>",
		Short: "Set the default server URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetServer(opts, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowConfig(opts)
		},
	})

	return cmd
}

func runSetServer(opts *Options, serverURL string) error {
	// Same validation the client applies before any request
	c, err := client.New(serverURL)
	if err != nil {
		return err
	}

	cfg, err := opts.loadUserConfig()
	if err != nil {
		return err
	}
	cfg.ServerURL = c.BaseURL()

	if err := opts.saveUserConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "✓ Server set to %s\n", cfg.ServerURL)
	return nil
}

func runShowConfig(opts *Options) error {
	cfg, err := opts.loadUserConfig()
	if err != nil {
		return err
	}

	source := "default"
	switch {
	case opts.Server != "":
		source = "--server flag"
	case os.Getenv(userconfig.EnvServer) != "":
		source = userconfig.EnvServer
	case cfg.ServerURL != "":
		source = "config file"
	}

	fmt.Fprintf(opts.Out, "server_url: %s (%s)\n", userconfig.ResolveServerURL(opts.Server, cfg), source)
	return nil
}
