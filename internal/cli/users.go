package cli

import (
	"context"
	"fmt"
	"strings"

	"lmsops/internal/common"
	"lmsops/internal/report"
	"lmsops/internal/service"
	"lmsops/pkg/timer"

	"github.com/spf13/cobra"
)

const setRoleTeacherUsage = "Usage: lmsctl set-role-teacher <email>"

func (a *App) userService(b Backend) *service.UserService {
	return service.NewUserService(a.cfg, b.Users(), a.logger)
}

func (a *App) listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer timer.Track(a.logger, cmd.Name())()
			return a.withStore(cmd.Context(), func(ctx context.Context, b Backend) error {
				users, err := a.userService(b).ListAll(ctx)
				if err != nil {
					return err
				}
				return report.Users(cmd.OutOrStdout(), users)
			})
		},
	}
}

func (a *App) listTeachersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-teachers",
		Short: "List teachers and legacy mentors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer timer.Track(a.logger, cmd.Name())()
			return a.withStore(cmd.Context(), func(ctx context.Context, b Backend) error {
				users, err := a.userService(b).ListInstructors(ctx)
				if err != nil {
					return err
				}
				return report.Instructors(cmd.OutOrStdout(), users)
			})
		},
	}
}

func (a *App) cleanupUsersCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "cleanup-users",
		Short: "Delete every user whose email is not in the seed allow-list",
		Long: `Deletes every user whose email is not listed in SEED_EMAILS
(seed_emails in the config file). Refuses to run with an empty list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer timer.Track(a.logger, cmd.Name())()
			return a.withStore(cmd.Context(), func(ctx context.Context, b Backend) error {
				n, err := a.userService(b).RemoveUnseeded(ctx, dryRun)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if dryRun {
					fmt.Fprintf(out, "Would delete %d users (keeping %s)\n", n, strings.Join(a.cfg.SeedEmails, ", "))
					return nil
				}
				fmt.Fprintf(out, "Deleted %d users\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only count the users that would be deleted")
	return cmd
}

func (a *App) createAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-admin",
		Short: "Replace every admin account with the configured admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer timer.Track(a.logger, cmd.Name())()
			return a.withStore(cmd.Context(), func(ctx context.Context, b Backend) error {
				res, err := a.userService(b).ReplaceAdmin(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if res.Removed > 0 {
					fmt.Fprintf(out, "Removed %d existing admin accounts\n", res.Removed)
				}
				fmt.Fprintf(out, "Admin created: %s (%s)\n", res.Admin.Email, res.Admin.ID.Hex())
				return nil
			})
		},
	}
}

func (a *App) setRoleTeacherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role-teacher <email>",
		Short: "Promote a user to teacher and fill in missing instructor fields",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), setRoleTeacherUsage)
				return fmt.Errorf("%w: email", common.ErrMissingArgument)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer timer.Track(a.logger, cmd.Name())()
			return a.withStore(cmd.Context(), func(ctx context.Context, b Backend) error {
				res, err := a.userService(b).PromoteToTeacher(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Updated %s: role %s -> %s\n", res.User.Email, res.PreviousRole, res.User.Role)
				if len(res.Backfilled) > 0 {
					fmt.Fprintf(out, "Filled defaults for: %s\n", strings.Join(res.Backfilled, ", "))
				}
				return report.User(out, res.User)
			})
		},
	}
}
