package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oshokin/medication-alarm/internal/service/client"
)

var (
	createCmd = &cobra.Command{
		Use:   "create <medication-id> <HH:MM>",
		Short: "Create an alarm for one of the patient's medications.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			medicationID, err := parseID(args[0])
			if err != nil {
				return err
			}

			inactive, _ := cmd.Flags().GetBool("inactive")
			notes, _ := cmd.Flags().GetString("notes")

			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				return s.Create(ctx, medicationID, args[1], !inactive, notes)
			})
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the patient's alarms ordered by time of day.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				return s.List(ctx)
			})
		},
	}

	getCmd = &cobra.Command{
		Use:   "get <alarm-id>",
		Short: "Show one alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alarmID, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				return s.Get(ctx, alarmID)
			})
		},
	}

	updateCmd = &cobra.Command{
		Use:   "update <alarm-id>",
		Short: "Change the time, status or notes of an alarm.",
		Long: `Changes only the fields whose flags are given.
Changing the time does not reset the last notification timestamp.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alarmID, err := parseID(args[0])
			if err != nil {
				return err
			}

			var fields client.UpdateFields

			flags := cmd.Flags()
			if flags.Changed("time") {
				value, _ := flags.GetString("time")
				fields.AlarmTime = &value
			}

			if flags.Changed("active") {
				value, _ := flags.GetBool("active")
				fields.IsActive = &value
			}

			if flags.Changed("notes") {
				value, _ := flags.GetString("notes")
				fields.Notes = &value
			}

			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				return s.Update(ctx, alarmID, fields)
			})
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <alarm-id>",
		Short: "Delete an alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alarmID, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				return s.Delete(ctx, alarmID)
			})
		},
	}

	enableCmd  = toggleCommand("enable", "Switch an alarm on.", true)
	disableCmd = toggleCommand("disable", "Switch an alarm off.", false)

	sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Send reminders for alarms that are due now.",
		Long: `Asks the server to run one reminder sweep and prints its report.

Retries while the server is unavailable, so it can be run from cron.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				return s.Sweep(ctx)
			})
		},
	}
)

func toggleCommand(name, short string, isActive bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <alarm-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alarmID, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				return s.Toggle(ctx, alarmID, isActive)
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}

	return id, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	createCmd.Flags().Bool("inactive", false, "create the alarm switched off")
	createCmd.Flags().String("notes", "", "free-form notes")

	updateCmd.Flags().String("time", "", "new time of day, HH:MM")
	updateCmd.Flags().Bool("active", true, "whether the alarm is active")
	updateCmd.Flags().String("notes", "", "new notes")

	rootCmd.AddCommand(createCmd, listCmd, getCmd, updateCmd, deleteCmd, enableCmd, disableCmd, sweepCmd)
}
