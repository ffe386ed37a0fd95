package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/medication-alarm/internal/config"
	"github.com/oshokin/medication-alarm/internal/service/client"
	"github.com/oshokin/medication-alarm/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the server address from the configuration file.
	serverAddress string
	// patientID is the patient the command acts for.
	patientID int64

	// rootCmd represents the base command of the alarm client.
	rootCmd = &cobra.Command{
		Use:   "medication-alarm",
		Short: "Manage medication alarms on the alarm server.",
		Long: `Creates, lists, updates and deletes medication alarms of a patient,
and triggers reminder sweeps on the alarm server.

Server address is loaded from configuration file unless --server is given.
Every request carries the local user@host for the server audit log.`,
		SilenceUsage: true,
	}
)

// Execute runs the medication-alarm CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *client.Session) error) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	session, err := client.Open(ctx, &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		PatientID:     patientID,
	}, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	defer func() {
		_ = session.Close()
	}()

	return fn(ctx, session)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&serverAddress, "server", "s", "", "server address, overrides configuration file")
	flags.Int64VarP(&patientID, "patient", "p", 0, "patient id")
}
