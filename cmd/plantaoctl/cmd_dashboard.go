package main

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plantao-ops/internal/analytics"
	"plantao-ops/internal/util"
)

var (
	dashFrom        string
	dashTo          string
	dashGranularity string
	dashWeekStart   int
	dashLocal       bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the analytics dashboard as JSON",
	Long: `Print the analytics dashboard.

By default the server computes it. With --local the raw collections are
fetched and aggregated in the CLI instead.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashFrom, "from", "", "First date included")
	dashboardCmd.Flags().StringVar(&dashTo, "to", "", "Last date included")
	dashboardCmd.Flags().StringVar(&dashGranularity, "granularity", "week", "Trend buckets: week or month")
	dashboardCmd.Flags().IntVar(&dashWeekStart, "week-start", int(time.Sunday), "First weekday of a week bucket (0=Sunday)")
	dashboardCmd.Flags().BoolVar(&dashLocal, "local", false, "Aggregate in the CLI")
}

// validateDashboardFlags applies the server's checks before any request is sent.
func validateDashboardFlags() error {
	if dashWeekStart < 0 || dashWeekStart > 6 {
		return fmt.Errorf("--week-start deve estar entre 0 e 6, recebido %d", dashWeekStart)
	}
	if dashGranularity != string(analytics.ByWeek) && dashGranularity != string(analytics.ByMonth) {
		return fmt.Errorf("--granularity deve ser week ou month, recebido %q", dashGranularity)
	}
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := validateDashboardFlags(); err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if !dashLocal {
		q := url.Values{}
		if dashFrom != "" {
			q.Set("from", dashFrom)
		}
		if dashTo != "" {
			q.Set("to", dashTo)
		}
		q.Set("granularity", dashGranularity)
		q.Set("weekStart", strconv.Itoa(dashWeekStart))
		d, err := api.Dashboard(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(cmd, d)
	}

	opts := analytics.DefaultTrendOptions()
	opts.WeekStart = time.Weekday(dashWeekStart)
	if dashGranularity == string(analytics.ByMonth) {
		opts.Granularity = analytics.ByMonth
	}
	if dashFrom != "" {
		t, err := util.ParseDate(dashFrom)
		if err != nil {
			return err
		}
		opts.From = &t
	}
	if dashTo != "" {
		t, err := util.ParseDate(dashTo)
		if err != nil {
			return err
		}
		opts.To = &t
	}

	in, err := api.FetchCollections(ctx)
	if err != nil {
		return err
	}
	logger.Debug("collections fetched",
		zap.Int("shifts", len(in.Shifts)),
		zap.Int("attempts", len(in.Attempts)),
		zap.Int("forms", len(in.Forms)),
	)
	d := analytics.BuildDashboard(in, opts)
	return printJSON(cmd, d)
}
