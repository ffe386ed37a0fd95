package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/medication-alarm/internal/config"
	"github.com/oshokin/medication-alarm/internal/service/server"
	"github.com/oshokin/medication-alarm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the alarm server.
	rootCmd = &cobra.Command{
		Use:   "medication-alarm-server [listen-address]",
		Short: "Run the medication alarm gRPC server and reminder scheduler.",
		Long: `Starts the gRPC server that manages medication alarms for patients.

Only the port from ServerAddress config is used for listening (e.g., :8080).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
When http_addr is set, a REST API with /healthz and /metrics is served as well.
When sweep.interval is positive, due alarms are swept on that interval.
Alarms are kept in memory and are lost on restart.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
			})
		},
	}
)

// Execute runs the medication-alarm-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
