package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockroom-dev/stockroom/internal/cli/commands"
	"github.com/stockroom-dev/stockroom/internal/cli/userconfig"
)

// NewRootCmd builds the stockroom command tree over opts.
func NewRootCmd(version string, opts *commands.Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stockroom",
		Short: "Stockroom - inventory dashboard admin tool",
		Long: `Stockroom CLI - sign in to a Stockroom server and manage dashboard admins.

Session commands (login, logout, whoami) talk to the server over HTTP.
Admin commands (admin create, list, passwd) work directly against DATABASE_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.Server, "server", "",
		fmt.Sprintf("Server URL (or set %s, default %s)", userconfig.EnvServer, userconfig.DefaultServerURL))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stockroom version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(opts))
	rootCmd.AddCommand(commands.NewLogoutCmd(opts))
	rootCmd.AddCommand(commands.NewWhoamiCmd(opts))
	rootCmd.AddCommand(commands.NewConfigCmd(opts))
	rootCmd.AddCommand(commands.NewAdminCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context, version string) error {
	if err := NewRootCmd(version, commands.DefaultOptions()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
