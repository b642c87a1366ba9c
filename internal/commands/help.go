package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show comprehensive help for taskhub",
	Long:  `Display detailed help for all taskhub commands, or cobra's help for one command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			showCustomHelp(cmd.OutOrStdout())
			return nil
		}

		target, _, err := rootCmd.Find(args)
		if err != nil || target == rootCmd {
			return fmt.Errorf("unknown help topic %q", args[0])
		}
		return target.Help()
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
████████╗ █████╗ ███████╗██╗  ██╗██╗  ██╗██╗   ██╗██████╗
╚══██╔══╝██╔══██╗██╔════╝██║ ██╔╝██║  ██║██║   ██║██╔══██╗
   ██║   ███████║███████╗█████╔╝ ███████║██║   ██║██████╔╝
   ██║   ██╔══██║╚════██║██╔═██╗ ██╔══██║██║   ██║██╔══██╗
   ██║   ██║  ██║███████║██║  ██╗██║  ██║╚██████╔╝██████╔╝
   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═════╝

taskhub - TaskHub in your terminal

ACCOUNT:

  register                Create an account (verification email follows)
  login                   Sign in
    -e, --email           Email address
    --password-stdin      Read the password from stdin
  logout                  Sign out and clear the local session
  whoami                  Show the signed-in user
    --json                JSON output
  forgot <email>          Request a password reset email
  reset [token]           Set a new password
  oauth                   Print the Google sign-in URL
  delete-account          Permanently delete your account

TASKS:

  add <task>              Create a new task with smart parsing
    --visibility          private|public|paid
    --due                 Due date (dd/mm/yyyy, tomorrow, 3days, 2w)
    --url                 Link to attach
    --no-ui               Skip interactive TUI

    Smart syntax:
      +visibility   Set visibility (private/public/paid)
      due:3days     Add a due date attachment
      https://...   Add a link attachment

    Example:
      taskhub add "Write report +public due:tomorrow https://example.com/brief"

  ls                      Browse and manage your tasks
    -u, --user            Show another user's tasks (read-only)
    --no-ui               Simple text output
    --json                JSON output

    Quick actions:
      ↑/↓           Navigate tasks
      /             Filter by name
      v             Cycle visibility filter
      n             New task
      e             Edit selected task
      a             Add attachment
      d             Delete selected task
      esc/q         Quit

  show <id>               Show a task with its attachments
  edit <id>               Edit name or visibility
    --name, --visibility  Apply without the form
  rm <id>                 Delete a task
  attach <id>             Add an attachment
    -t, --type            Attachment type
    -d, --data            Attachment data
    -f, --file            File to upload

  search <query>          Search tasks by name
    --visibility          Only one visibility
    --json                JSON output
  explore [query]         Search interactively as you type

OTHER:

  config init             Write ~/.taskhub/config.yaml
  config show             Print the effective configuration
  version                 Show version information
  help [command]          Show this help, or help for one command

GLOBAL FLAGS:

  --api-url               TaskHub API base URL
  --data-dir              Local session directory (default ~/.taskhub)
  --verbose               Log requests and SQL to stderr

`)
}
