package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockroom-dev/stockroom/internal/cli/auth"
	"github.com/stockroom-dev/stockroom/internal/cli/client"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), opts)
		},
	}
}

func runWhoami(ctx context.Context, opts *Options) error {
	apiClient, serverURL, err := opts.newClient()
	if err != nil {
		return err
	}

	token, err := opts.Tokens.LoadToken(serverURL)
	if errors.Is(err, auth.ErrNotLoggedIn) {
		fmt.Fprintln(opts.Out, "Not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	apiClient.SetSessionToken(token)

	// Me also proves the admin record still exists. Only a definite
	// rejection from a reachable server discards the stored token.
	admin, err := apiClient.Me(ctx)
	if errors.Is(err, client.ErrNotAuthenticated) {
		if err := opts.Tokens.DeleteToken(serverURL); err != nil {
			opts.Logger.Warn().Err(err).Msg("Failed to delete stale session token")
		}
		fmt.Fprintln(opts.Out, "Not logged in (session expired)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", serverURL, err)
	}

	fmt.Fprintf(opts.Out, "%s (%s) on %s\n", admin.UserName, admin.AdminID, serverURL)
	fmt.Fprintf(opts.Out, "  Admin since: %s\n", admin.CreatedAt.Format(time.RFC3339))
	return nil
}
