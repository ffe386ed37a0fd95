package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/medication-alarm/internal/config"
	"github.com/oshokin/medication-alarm/internal/logger"
	rpcv1 "github.com/oshokin/medication-alarm/internal/rpc/v1"
	"github.com/oshokin/medication-alarm/internal/service/common"
)

// Options configures a client session.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// PatientID is the patient on whose behalf alarm operations run.
	PatientID int64
}

// UpdateFields lists the optional fields of an update; nil means unchanged.
type UpdateFields struct {
	AlarmTime *string
	IsActive  *bool
	Notes     *string
}

// defaultRetryInterval is the delay between sweep attempts while the server is unavailable.
const defaultRetryInterval = time.Second

// errPatientRequired is returned by alarm operations without a patient id.
var errPatientRequired = errors.New("patient id must be provided")

// Session is an open connection to the alarm server.
type Session struct {
	// client is the connected gRPC client.
	client *common.Client
	// out receives rendered results.
	out io.Writer
	// patientID is the acting patient.
	patientID int64
	// retryInterval is the delay between sweep attempts.
	retryInterval time.Duration
}

// Open loads settings and connects to the server.
func Open(ctx context.Context, opts *Options, out io.Writer) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for audit logging.
	actor, err := common.DetectActor()
	if err != nil {
		return nil, fmt.Errorf("detect actor: %w", err)
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout), common.WithActor(actor))
	if err != nil {
		return nil, fmt.Errorf("dial server: %w", err)
	}

	return &Session{
		client:        client,
		out:           out,
		patientID:     opts.PatientID,
		retryInterval: defaultRetryInterval,
	}, nil
}

// Close releases the connection.
func (s *Session) Close() error {
	return s.client.Close()
}

// Create creates an alarm and prints it.
func (s *Session) Create(ctx context.Context, medicationID int64, alarmTime string, isActive bool, notes string) error {
	if err := s.requirePatient(); err != nil {
		return err
	}

	created, err := s.client.CreateAlarm(ctx, &rpcv1.CreateAlarmRequest{
		PatientID:             s.patientID,
		MedicationReferenceID: medicationID,
		AlarmTime:             alarmTime,
		IsActive:              isActive,
		Notes:                 notes,
	})
	if err != nil {
		return err
	}

	return s.printf("Created %s\n", formatAlarm(created))
}

// List prints the patient's alarms.
func (s *Session) List(ctx context.Context) error {
	if err := s.requirePatient(); err != nil {
		return err
	}

	alarms, err := s.client.ListAlarms(ctx, s.patientID)
	if err != nil {
		return err
	}

	if len(alarms) == 0 {
		return s.printf("No alarms for patient %d\n", s.patientID)
	}

	for _, a := range alarms {
		if err = s.printf("%s\n", formatAlarm(a)); err != nil {
			return err
		}
	}

	return nil
}

// Get prints one alarm.
func (s *Session) Get(ctx context.Context, alarmID int64) error {
	if err := s.requirePatient(); err != nil {
		return err
	}

	found, err := s.client.GetAlarm(ctx, alarmID, s.patientID)
	if err != nil {
		return err
	}

	if found == nil {
		return s.printf("Alarm %d not found\n", alarmID)
	}

	return s.printf("%s\n", formatAlarm(found))
}

// Update applies a partial update and prints the result.
func (s *Session) Update(ctx context.Context, alarmID int64, fields UpdateFields) error {
	if err := s.requirePatient(); err != nil {
		return err
	}

	updated, err := s.client.UpdateAlarm(ctx, &rpcv1.UpdateAlarmRequest{
		AlarmID:   alarmID,
		PatientID: s.patientID,
		AlarmTime: fields.AlarmTime,
		IsActive:  fields.IsActive,
		Notes:     fields.Notes,
	})
	if err != nil {
		return err
	}

	return s.printf("Updated %s\n", formatAlarm(updated))
}

// Delete removes an alarm.
func (s *Session) Delete(ctx context.Context, alarmID int64) error {
	if err := s.requirePatient(); err != nil {
		return err
	}

	deleted, err := s.client.DeleteAlarm(ctx, alarmID, s.patientID)
	if err != nil {
		return err
	}

	if !deleted {
		return s.printf("Alarm %d not found\n", alarmID)
	}

	return s.printf("Deleted alarm %d\n", alarmID)
}

// Toggle activates or deactivates an alarm.
func (s *Session) Toggle(ctx context.Context, alarmID int64, isActive bool) error {
	if err := s.requirePatient(); err != nil {
		return err
	}

	updated, err := s.client.ToggleAlarm(ctx, alarmID, s.patientID, isActive)
	if err != nil {
		return err
	}

	if !updated {
		return s.printf("Alarm %d not found\n", alarmID)
	}

	return s.printf("Alarm %d is now %s\n", alarmID, activeLabel(isActive))
}

// Sweep triggers one due-alarm sweep, retrying while the server is unavailable
// until ctx is done.
func (s *Session) Sweep(ctx context.Context) error {
	ctx = logger.WithName(ctx, "sweep")

	// attempt tries once, returns (completed, error).
	attempt := func() (bool, error) {
		report, err := s.client.ProcessDueAlarms(ctx)
		if err != nil {
			if status.Code(err) == codes.Unavailable {
				logger.WarnKV(ctx, "Server unavailable, retrying", "error", err)
				return false, nil
			}

			return false, err
		}

		return true, s.printf(
			"Sweep at %s: %d candidates, %d due, %d sent, %d failed\n",
			report.StartedAt.Format(time.RFC3339),
			report.Candidates,
			report.Due,
			report.Sent,
			report.Failed,
		)
	}

	// Attempt immediately before starting retry loop.
	if done, err := attempt(); err != nil || done {
		return err
	}

	ticker := time.NewTicker(s.retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if done, err := attempt(); err != nil || done {
				return err
			}
		}
	}
}

func (s *Session) requirePatient() error {
	if s.patientID <= 0 {
		return errPatientRequired
	}

	return nil
}

func (s *Session) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(s.out, format, args...)
	return err
}

// formatAlarm renders an alarm as a single line.
func formatAlarm(a *rpcv1.Alarm) string {
	if a == nil {
		return "<nil alarm>"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "#%d %s %s", a.ID, a.AlarmTime, a.MedicationName)

	if a.Dosage != "" {
		fmt.Fprintf(&b, " (%s)", a.Dosage)
	}

	fmt.Fprintf(&b, " [%s]", activeLabel(a.IsActive))

	if a.Notes != "" {
		fmt.Fprintf(&b, " notes: %q", a.Notes)
	}

	lastSent := "never"
	if a.LastNotificationSent != nil {
		lastSent = a.LastNotificationSent.Format(time.RFC3339)
	}

	fmt.Fprintf(&b, " last sent: %s", lastSent)

	return b.String()
}

func activeLabel(isActive bool) string {
	if isActive {
		return "active"
	}

	return "inactive"
}
