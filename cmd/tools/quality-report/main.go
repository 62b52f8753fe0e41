// cmd/tools/quality-report/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"manufacturer-quality/internal/api"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/manufacturing/quality"
)

var (
	outputFormat string
	seed         uint64
	latencyScale float64
	verbose      bool
	timeRange    string
	region       string
	serverURL    string
	timeout      time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "quality-report",
	Short: "Inspect the manufacturing quality data from the command line",
	Long: `quality-report calls the quality data service directly and prints what the
dashboard pages would show: the overview, model and location lists, defect
details and assistant replies.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: checkOutputFormat,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputFormat, "output", "o", formatTable, "Output format: table, json or yaml")
	flags.Uint64Var(&seed, "seed", 0, "Seed for reproducible output (0 picks a random sequence)")
	flags.Float64Var(&latencyScale, "latency-scale", 0, "Multiplier for the simulated service latency (0 disables it)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log service calls to stderr")
	flags.StringVar(&timeRange, "time-range", string(quality.TimeRange30Days), "Dashboard time range: 30days, 90days or 180days")
	flags.StringVar(&region, "region", quality.RegionAll, "Dashboard region filter")
	flags.StringVar(&serverURL, "server", "", "Query a running quality API at this URL instead of the built-in service")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout when --server is set")

	rootCmd.AddCommand(
		overviewCmd,
		modelsCmd,
		modelCmd,
		locationsCmd,
		locationCmd,
		chatCmd,
		dashboardCmd,
		registryCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func checkOutputFormat(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", outputFormat)
}

// newService returns a client for --server, or an in-process service.
func newService() api.QualityService {
	if serverURL != "" {
		return api.NewClient(serverURL, timeout)
	}

	log := logger.NewNoOpLogger()
	if verbose {
		log = logger.NewZapAdapter(logger.NewWithOutput("debug", "console", "stderr"))
	}
	return quality.NewService(&quality.Config{
		Latency: quality.DefaultLatency().Scaled(latencyScale),
		Seed:    seed,
	}, log)
}
