package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/infrastructure/di"
	"github.com/linkmatch/apitrack/interface/cli"
)

func main() {
	// Parse command line flags
	var (
		daemonMode = flag.Bool("daemon", false, "Run the tracking daemon (periodic reports)")
		debugMode  = flag.Bool("debug", false, "Enable debug logging to stdout")
		versionFlg = flag.Bool("version", false, "Print version and exit")

		latest    = flag.Bool("latest", false, "Print the most recent report")
		list      = flag.Int("list", 0, "List the newest N report names")
		analyze   = flag.Bool("analyze", false, "Analyze the latest report")
		compare   = flag.Int("compare", 0, "Compare the latest N reports")
		apiName   = flag.String("api", "", "Narrow report output to one API")
		chart     = flag.Bool("chart", false, "Render ASCII charts with -compare or -api")
		exportCSV = flag.String("export-csv", "", "Export archived call records to a CSV file")
		reportNow = flag.Bool("report-now", false, "Generate and persist a report immediately")
		status    = flag.Bool("status", false, "Print daemon status")
		jsonOut   = flag.Bool("json", false, "Output as JSON")
	)
	flag.Parse()

	// Create DI container with options
	opts := []di.ContainerOption{}
	if *debugMode {
		opts = append(opts, di.WithDebugMode(true))
	}

	container, err := di.NewContainer(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := container.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cleanup failed: %v\n", err)
		}
	}()

	if *versionFlg {
		container.GetConsolePresenter().PrintVersion()
		return
	}

	// Get configuration
	config := container.GetConfig()

	// Determine mode based on flags and configuration
	runDaemon := *daemonMode
	if !runDaemon && config.Daemon != nil && config.Daemon.Enabled && !queryRequested(*latest, *list, *analyze, *compare, *apiName, *exportCSV, *reportNow, *status) {
		runDaemon = true
	}

	if runDaemon {
		runDaemonMode(container)
		return
	}

	runCLIMode(container, cli.RunOptions{
		Latest:    *latest,
		List:      *list,
		Analyze:   *analyze,
		Compare:   *compare,
		APIName:   *apiName,
		Chart:     *chart,
		ExportCSV: *exportCSV,
		ReportNow: *reportNow,
		Status:    *status,
		JSON:      *jsonOut,
	})
}

// queryRequested reports whether any CLI query flag was given
func queryRequested(latest bool, list int, analyze bool, compare int, apiName, exportCSV string, reportNow, status bool) bool {
	return latest || list > 0 || analyze || compare > 0 || apiName != "" || exportCSV != "" || reportNow || status
}

// runCLIMode runs one CLI query operation
func runCLIMode(container *di.Container, opts cli.RunOptions) {
	cliController := container.GetCLIController()
	if cliController == nil {
		fmt.Fprintf(os.Stderr, "CLI controller not available\n")
		os.Exit(1)
	}

	if err := cliController.Run(opts); err != nil {
		container.GetConsolePresenter().PrintError(err)
		os.Exit(1)
	}
}

// runDaemonMode runs the tracking daemon until a termination signal
func runDaemonMode(container *di.Container) {
	logger := container.CreateLogger("main")
	ctx := context.Background()

	daemonController := container.GetDaemonController()
	if daemonController == nil {
		logger.Error(ctx, "Daemon mode is not available. Please check your configuration.")
		os.Exit(1)
	}

	if err := daemonController.Run(); err != nil {
		logger.Error(ctx, "Daemon exited with error", domain.NewField("error", err.Error()))
		os.Exit(1)
	}
}
