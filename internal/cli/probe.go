package cli

import (
	"lmsops/internal/probe"
	"lmsops/pkg/timer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) probeCmd() *cobra.Command {
	var baseURL, token string
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Send the smoke-test requests to a running LMS server",
		Long: `Issues the configured requests one after another and prints one line
per request with its status code and the start of the response body.
Failed requests are reported on their own line; the command itself
always succeeds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer timer.Track(a.logger, cmd.Name())()

			pcfg := a.cfg.Probe
			if baseURL != "" {
				pcfg.BaseURL = baseURL
			}
			if token != "" {
				pcfg.Token = token
			}

			results := probe.New(pcfg, cmd.OutOrStdout(), a.logger).Run(cmd.Context())

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			a.logger.Debug("probe finished", zap.Int("requests", len(results)), zap.Int("failed", failed))
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "LMS server base URL (overrides PROBE_BASE_URL)")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (overrides PROBE_TOKEN)")
	return cmd
}
