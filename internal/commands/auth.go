package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/tui"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a TaskHub account",
	Long: `Create a TaskHub account. Without --name, --email and --password an
interactive form opens. The API emails a verification link afterwards.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, err := passwordFromFlags(cmd)
		if err != nil {
			return err
		}

		if name == "" || email == "" || password == "" {
			return runForm(cmd, app, "Create account", tui.RegisterFields(), func(ctx context.Context, v map[string]string) (string, error) {
				req := api.RegisterRequest{Name: v["name"], Email: v["email"], Password: v["password"], ConfirmPassword: v["confirm_password"]}
				if err := app.Auth.Register(ctx, req); err != nil {
					return "", err
				}
				return registeredMessage(req.Email), nil
			})
		}

		if err := app.Auth.Register(cmd.Context(), api.RegisterRequest{Name: name, Email: email, Password: password}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), registeredMessage(email))
		return nil
	}),
}

func registeredMessage(email string) string {
	return fmt.Sprintf("✅ Account created. We sent a verification link to %s.\n   Verify your email, then run 'taskhub login'.", strings.TrimSpace(email))
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to TaskHub",
	Long: `Sign in with email and password. The session cookie is kept in the local
database until you log out or the server rejects it.

Without --email and a password an interactive form opens. Use
--password-stdin to pipe the password in scripts.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		email, _ := cmd.Flags().GetString("email")
		password, err := passwordFromFlags(cmd)
		if err != nil {
			return err
		}

		if email == "" || password == "" {
			return runForm(cmd, app, "Sign in", tui.LoginFields(email), func(ctx context.Context, v map[string]string) (string, error) {
				user, err := app.Auth.Login(ctx, api.LoginRequest{Email: v["email"], Password: v["password"]})
				if err != nil {
					return "", err
				}
				return signedInMessage(user), nil
			})
		}

		user, err := app.Auth.Login(cmd.Context(), api.LoginRequest{Email: email, Password: password})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signedInMessage(user))
		return nil
	}),
}

func signedInMessage(user *models.Profile) string {
	msg := fmt.Sprintf("✅ Signed in as %s (%s)", user.Name, user.Email)
	if !user.IsVerified {
		msg += "\n⚠️  Your email is not verified yet. Check your inbox."
	}
	return msg
}

// passwordFromFlags reads --password, or the first line of stdin with --password-stdin
func passwordFromFlags(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	if !fromStdin {
		return password, nil
	}
	if password != "" {
		return "", fmt.Errorf("--password and --password-stdin are mutually exclusive")
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the local session",
	Long: `Sign out of TaskHub. The local session and cookies are cleared even when
the server cannot be reached. Also resets a local session that can no longer
be read.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "👋 Signed out")
		return nil
	},
}

var forgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		email := strings.TrimSpace(args[0])
		if err := app.Auth.ForgotPassword(cmd.Context(), email); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📬 If an account exists for %s, a reset link is on its way.\n", email)
		fmt.Fprintln(cmd.OutOrStdout(), "   Then run 'taskhub reset <token>'.")
		return nil
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset [token]",
	Short: "Set a new password with the token from the reset email",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		var token string
		if len(args) > 0 {
			token = strings.TrimSpace(args[0])
		}
		password, err := passwordFromFlags(cmd)
		if err != nil {
			return err
		}

		if token == "" || password == "" {
			return runForm(cmd, app, "Reset password", tui.ResetFields(token), func(ctx context.Context, v map[string]string) (string, error) {
				req := api.ResetPasswordRequest{Token: v["token"], Password: v["password"], ConfirmPassword: v["confirm_password"]}
				if err := app.Auth.ResetPassword(ctx, req); err != nil {
					return "", err
				}
				return "✅ Password updated. Run 'taskhub login' to sign in.", nil
			})
		}

		if err := app.Auth.ResetPassword(cmd.Context(), api.ResetPasswordRequest{Token: token, Password: password}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Password updated. Run 'taskhub login' to sign in.")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		user, err := app.Auth.CurrentUser(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return renderJSON(cmd.OutOrStdout(), user)
		}
		renderProfile(cmd.OutOrStdout(), user)
		return nil
	}),
}

// renderProfile prints a profile as aligned key/value lines
func renderProfile(w io.Writer, user *models.Profile) {
	fmt.Fprintf(w, "👤 Name:     %s\n", user.Name)
	fmt.Fprintf(w, "📧 Email:    %s\n", user.Email)
	fmt.Fprintf(w, "🆔 ID:       %s\n", user.PID)
	if user.IsAdmin() {
		fmt.Fprintf(w, "🛡  Role:     %s (administrator)\n", user.Role)
	} else {
		fmt.Fprintf(w, "🛡  Role:     %s\n", user.Role)
	}
	if user.IsVerified {
		fmt.Fprintln(w, "✅ Verified: yes")
	} else {
		fmt.Fprintln(w, "⚠️  Verified: no (check your inbox for the verification link)")
	}
}

var deleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Permanently delete your account",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		if err := app.requireSignedIn(); err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := confirm(cmd, "Delete your account and all of its tasks? This cannot be undone. [y/N] ")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := app.Auth.DeleteAccount(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "🗑  Account deleted. You have been signed out.")
		return nil
	}),
}

// confirm asks a yes/no question on stdin; anything but y/yes is no
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

var oauthCmd = &cobra.Command{
	Use:   "oauth",
	Short: "Print the Google sign-in URL",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		u, err := app.Auth.OAuth2URL(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "🌐 Open this URL in your browser to sign in with Google:")
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	}),
}

func init() {
	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("password", "", "Password")
	registerCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")

	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")

	resetCmd.Flags().String("password", "", "New password")
	resetCmd.Flags().Bool("password-stdin", false, "Read the new password from stdin")

	whoamiCmd.Flags().Bool("json", false, "Output as JSON")

	deleteAccountCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
