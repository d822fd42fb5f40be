package cli

import (
	"lmsops/internal/config"

	"github.com/spf13/cobra"
)

// RootCommand builds the lmsctl command tree bound to a.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "lmsctl",
		Short: "Maintenance and diagnostics for the LMS backend",
		Long: `lmsctl bundles the one-off maintenance tasks run against the LMS
MongoDB database and a smoke probe for a running LMS server.

Each subcommand connects, does its job, prints the result and exits.
Configuration comes from built-in defaults, an optional YAML file, a .env
file and the environment, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to a YAML config file")
	flags.StringVar(&a.envFile, "env-file", config.DefaultEnvFile, "dotenv file to load (ignored when missing)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.DurationVar(&a.timeout, "timeout", 0, "operation timeout (default from OP_TIMEOUT or 30s)")

	root.AddCommand(
		a.listUsersCmd(),
		a.listTeachersCmd(),
		a.cleanupUsersCmd(),
		a.createAdminCmd(),
		a.setRoleTeacherCmd(),
		a.clearNotificationsCmd(),
		a.latestNotificationsCmd(),
		a.verifyNotificationsCmd(),
		a.probeCmd(),
		a.versionCmd(),
	)
	return root
}
