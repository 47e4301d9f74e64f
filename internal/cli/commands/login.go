package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockroom-dev/stockroom/internal/authstate"
)

const (
	envUserName = "STOCKROOM_USERNAME"
	envPassword = "STOCKROOM_PASSWORD"
)

// NewLoginCmd creates the login command
func NewLoginCmd(opts *Options) *cobra.Command {
	var userName, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a Stockroom server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), opts, userName, password)
		},
	}

	cmd.Flags().StringVar(&userName, "username", "", "Username (or set "+envUserName+")")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set "+envPassword+", will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, opts *Options, userName, password string) error {
	// Environment variables are useful for scripts
	if userName == "" {
		userName = os.Getenv(envUserName)
	}
	if password == "" {
		password = os.Getenv(envPassword)
	}

	var err error
	if userName == "" {
		if userName, err = opts.Prompt.Text("Username"); err != nil {
			return promptError("username", "--username", envUserName, err)
		}
	}
	if password == "" {
		if password, err = opts.Prompt.Password("Password"); err != nil {
			return promptError("password", "--password", envPassword, err)
		}
	}

	apiClient, serverURL, err := opts.newClient()
	if err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "Logging in to %s...\n", serverURL)

	session := authstate.New(apiClient, nil, opts.Logger)
	if err := session.Login(ctx, userName, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	token := apiClient.SessionToken()
	if token == "" {
		return errors.New("login failed: server did not set a session cookie")
	}
	if err := opts.Tokens.SaveToken(serverURL, token); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	user := session.State().User
	fmt.Fprintln(opts.Out, "✓ Login successful!")
	fmt.Fprintf(opts.Out, "  User: %s (%s)\n", user.UserName, user.AdminID)
	return nil
}

func promptError(what, flag, env string, err error) error {
	if !errors.Is(err, ErrNonInteractive) {
		return err
	}
	if env == "" {
		return fmt.Errorf("%s is required in non-interactive mode (use %s flag)", what, flag)
	}
	return fmt.Errorf("%s is required in non-interactive mode (use %s flag or %s env var)", what, flag, env)
}
