package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/stockroom-dev/stockroom/internal/admins"
)

// NewAdminCmd creates the admin command group. These commands work directly
// against DATABASE_URL and need no running server.
func NewAdminCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage dashboard admins in the database",
	}

	cmd.AddCommand(newAdminCreateCmd(opts))
	cmd.AddCommand(newAdminListCmd(opts))
	cmd.AddCommand(newAdminPasswdCmd(opts))

	return cmd
}

func newAdminCreateCmd(opts *Options) *cobra.Command {
	var userName, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(cmd.Context(), opts, userName, password)
		},
	}

	cmd.Flags().StringVar(&userName, "username", "", "Username (will prompt if not provided)")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")

	return cmd
}

func newAdminListCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admins",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(cmd.Context(), opts)
		},
	}
}

func newAdminPasswdCmd(opts *Options) *cobra.Command {
	var userName, password string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Set an admin's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminPasswd(cmd.Context(), opts, userName, password)
		},
	}

	cmd.Flags().StringVar(&userName, "username", "", "Username (will prompt if not provided)")
	cmd.Flags().StringVar(&password, "password", "", "New password (will prompt if not provided)")

	return cmd
}

func runAdminCreate(ctx context.Context, opts *Options, userName, password string) error {
	userName, password, err := credentials(opts, userName, password)
	if err != nil {
		return err
	}

	return opts.withDB(func(db *gorm.DB) error {
		admin, err := admins.NewService(db, opts.Logger).Create(ctx, userName, password)
		if errors.Is(err, admins.ErrAdminExists) {
			return fmt.Errorf("admin %q already exists", userName)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(opts.Out, "✓ Created admin %s (%s)\n", admin.UserName, admin.ID)
		return nil
	})
}

func runAdminList(ctx context.Context, opts *Options) error {
	return opts.withDB(func(db *gorm.DB) error {
		list, err := admins.NewService(db, opts.Logger).List(ctx)
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Fprintln(opts.Out, "No admins. Create one with 'stockroom admin create'.")
			return nil
		}

		w := tabwriter.NewWriter(opts.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tCREATED")
		for _, a := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, a.UserName, a.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	})
}

func runAdminPasswd(ctx context.Context, opts *Options, userName, password string) error {
	userName, password, err := credentials(opts, userName, password)
	if err != nil {
		return err
	}

	return opts.withDB(func(db *gorm.DB) error {
		err := admins.NewService(db, opts.Logger).SetPassword(ctx, userName, password)
		if errors.Is(err, admins.ErrNotFound) {
			return fmt.Errorf("admin %q not found", userName)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(opts.Out, "✓ Password updated for %s\n", userName)
		return nil
	})
}

// credentials fills in a missing username or password from the prompter.
// A prompted password has to be typed twice.
func credentials(opts *Options, userName, password string) (string, string, error) {
	var err error
	if userName == "" {
		if userName, err = opts.Prompt.Text("Username"); err != nil {
			return "", "", promptError("username", "--username", "", err)
		}
	}

	if password == "" {
		if password, err = opts.Prompt.Password("Password"); err != nil {
			return "", "", promptError("password", "--password", "", err)
		}
		confirm, err := opts.Prompt.Password("Confirm password")
		if err != nil {
			return "", "", err
		}
		if confirm != password {
			return "", "", errors.New("passwords do not match")
		}
	}

	if password == "" {
		return "", "", errors.New("password must not be empty")
	}
	return userName, password, nil
}
