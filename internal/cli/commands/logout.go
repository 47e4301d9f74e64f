package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockroom-dev/stockroom/internal/authstate"
	"github.com/stockroom-dev/stockroom/internal/cli/auth"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), opts)
		},
	}
}

func runLogout(ctx context.Context, opts *Options) error {
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
	authstate.New(apiClient, nil, opts.Logger).Logout(ctx)

	if err := opts.Tokens.DeleteToken(serverURL); err != nil {
		return err
	}

	fmt.Fprintln(opts.Out, "✓ Logged out")
	return nil
}
