package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/bindings"
	"github.com/AyloRyd/taskhub/internal/session"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Persistent flags
var (
	apiURLFlag  string
	dataDirFlag string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "taskhub",
	Short: "A terminal client for TaskHub",
	Long: `taskhub is a command-line client for the TaskHub task sharing service.
Sign in, manage your tasks and their attachments, and explore what others share,
all from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "taskhub %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command and prints any error it returns
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError prints err the way every command reports failures.
// Validation errors get one line per field.
func printError(w io.Writer, err error) {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr) && len(apiErr.Fields) > 0:
		desc := apiErr.Description
		if desc == "" {
			desc = "Invalid input"
		}
		fmt.Fprintf(w, "❌ Error: %s\n", desc)
		for _, msg := range apiErr.FieldMessages() {
			fmt.Fprintf(w, "   • %s\n", msg)
		}
	case errors.Is(err, bindings.ErrSignedOut):
		fmt.Fprintln(w, "❌ Error: you are not signed in. Run 'taskhub login' first.")
	case errors.Is(err, session.ErrCorruptState):
		fmt.Fprintf(w, "❌ Error: %v\n", err)
		fmt.Fprintln(w, "   Run 'taskhub logout' to reset the local session.")
	case api.KindOf(err) == api.KindNetwork:
		fmt.Fprintf(w, "❌ Error: %v\n", err)
		fmt.Fprintln(w, "   Check your connection or the --api-url setting.")
	default:
		fmt.Fprintf(w, "❌ Error: %v\n", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "TaskHub API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory for the local session database")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log requests and SQL to stderr")

	// Account
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(forgotCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(deleteAccountCmd)
	rootCmd.AddCommand(oauthCmd)

	// Tasks
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exploreCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetHelpCommand(helpCmd)
}
