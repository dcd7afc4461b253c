package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/geocoder89/salescrm/internal/client/authclient"
	"github.com/geocoder89/salescrm/internal/client/guard"
	"github.com/geocoder89/salescrm/internal/client/session"
	"github.com/spf13/cobra"
)

var errNotSignedIn = errors.New("not signed in, run `crmctl login` first")

// requireSession is the per-command route guard.
func (o *RootOptions) requireSession(cmd *cobra.Command) (session.Session, error) {
	s, err := guard.Require(cmd.Context(), o.app.Holder)
	if errors.Is(err, guard.ErrRedirectLogin) {
		o.app.Log.Debug("guard redirect", "to", guard.LoginPath)
		return s, errNotSignedIn
	}
	return s, err
}

type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Example: `  crmctl login --email admin@example.com --password 'Admin123!'
  CRM_PASSWORD='Admin123!' crmctl login --email admin@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password (defaults to $CRM_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runLogin(opts *LoginOptions, cmd *cobra.Command) error {
	password := opts.Password
	if password == "" {
		password = os.Getenv("CRM_PASSWORD")
	}
	if password == "" {
		return fmt.Errorf("a password is required (--password or CRM_PASSWORD)")
	}

	res, err := opts.app.Auth.Login(cmd.Context(), opts.Email, password)
	if err != nil {
		var authErr *authclient.AuthError
		if errors.As(err, &authErr) && authErr.Kind == authclient.InvalidCredentials {
			return fmt.Errorf("email or password is incorrect")
		}
		return fmt.Errorf("could not reach the API at %s: %w", opts.APIURL, err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), res.User)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", res.User.Email, res.User.Role)
	return nil
}

func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.app.Auth.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.requireSession(cmd)
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), s.User)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s\n", s.User.Name, s.User.Email, s.User.Role)
			return nil
		},
	}
}
