package cli

import (
	"context"
	"fmt"

	"lmsops/internal/config"
	"lmsops/internal/report"
	"lmsops/internal/service"
	"lmsops/pkg/timer"
	"lmsops/pkg/util"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (a *App) notificationService(b Backend) *service.NotificationService {
	return service.NewNotificationService(b.Notifications(), b.Users(), a.logger)
}

func (a *App) clearNotificationsCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "clear-notifications",
		Short: "Delete every notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer timer.Track(a.logger, cmd.Name())()
			return a.withStore(cmd.Context(), func(ctx context.Context, b Backend) error {
				n, err := a.notificationService(b).ClearAll(ctx, dryRun)
				if err != nil {
					return err
				}
				if dryRun {
					fmt.Fprintf(cmd.OutOrStdout(), "Would delete %d notifications\n", n)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d notifications\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only count the notifications")
	return cmd
}

func (a *App) latestNotificationsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "latest-notifications",
		Short: "Show the most recent notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer timer.Track(a.logger, cmd.Name())()
			return a.withStore(cmd.Context(), func(ctx context.Context, b Backend) error {
				ns, err := a.notificationService(b).Latest(ctx, limit)
				if err != nil {
					return err
				}
				return report.Notifications(cmd.OutOrStdout(), ns)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", config.DefaultLatestLimit, fmt.Sprintf("number of notifications to show (max %d)", config.MaxLatestLimit))
	return cmd
}

func (a *App) verifyNotificationsCmd() *cobra.Command {
	var recipientHex string
	cmd := &cobra.Command{
		Use:   "verify-notifications",
		Short: "List the notifications of a teacher (the first one by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer timer.Track(a.logger, cmd.Name())()

			var recipient primitive.ObjectID
			if recipientHex != "" {
				id, err := util.ParseObjectID(recipientHex)
				if err != nil {
					return fmt.Errorf("invalid --recipient: %w", err)
				}
				recipient = id
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, b Backend) error {
				teacher, ns, err := a.notificationService(b).ForTeacher(ctx, recipient)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Teacher: %s <%s> (%s)\n", teacher.Name, teacher.Email, teacher.ID.Hex())
				return report.Notifications(cmd.OutOrStdout(), ns)
			})
		},
	}
	cmd.Flags().StringVar(&recipientHex, "recipient", "", "hex ObjectID of the user to inspect")
	return cmd
}
