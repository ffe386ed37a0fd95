//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/oshokin/medication-alarm/internal/config"
	rpcv1 "github.com/oshokin/medication-alarm/internal/rpc/v1"
)

// Client wraps the gRPC MedicationAlarmService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the alarm server.
	conn *grpc.ClientConn
	// api is the MedicationAlarmService client stub.
	api rpcv1.AlarmServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is sent with every call when set.
	actor *Actor
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor attaches the actor to every call for the server's audit log.
func WithActor(actor *Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errRequestRequired is returned when a nil request is passed.
	errRequestRequired = errors.New("request must be provided")
)

// Dial establishes a gRPC connection to the alarm server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alarm server: %w", err)
	}

	client := newClient(rpcv1.NewAlarmServiceClient(conn), opts...)
	client.conn = conn

	return client, nil
}

// newClient wraps an existing stub, mostly for tests.
func newClient(api rpcv1.AlarmServiceClient, opts ...Option) *Client {
	client := &Client{
		api:         api,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// CreateAlarm creates an alarm and returns it.
func (c *Client) CreateAlarm(ctx context.Context, req *rpcv1.CreateAlarmRequest) (*rpcv1.Alarm, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.CreateAlarm(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("create alarm: %w", err)
	}

	return resp.Alarm, nil
}

// ListAlarms returns the patient's alarms ordered by time of day.
func (c *Client) ListAlarms(ctx context.Context, patientID int64) ([]*rpcv1.Alarm, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ListAlarms(callCtx, &rpcv1.ListAlarmsRequest{PatientID: patientID})
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}

	return resp.Alarms, nil
}

// GetAlarm returns the alarm, or nil when it is absent or belongs to someone else.
func (c *Client) GetAlarm(ctx context.Context, alarmID, patientID int64) (*rpcv1.Alarm, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetAlarm(callCtx, &rpcv1.GetAlarmRequest{AlarmID: alarmID, PatientID: patientID})
	if err != nil {
		return nil, fmt.Errorf("get alarm: %w", err)
	}

	if !resp.Found {
		return nil, nil //nolint:nilnil // "none" is a valid answer for reads.
	}

	return resp.Alarm, nil
}

// UpdateAlarm applies a partial update and returns the updated alarm.
func (c *Client) UpdateAlarm(ctx context.Context, req *rpcv1.UpdateAlarmRequest) (*rpcv1.Alarm, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.UpdateAlarm(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("update alarm: %w", err)
	}

	return resp.Alarm, nil
}

// DeleteAlarm removes the alarm and reports whether it existed.
func (c *Client) DeleteAlarm(ctx context.Context, alarmID, patientID int64) (bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.DeleteAlarm(callCtx, &rpcv1.DeleteAlarmRequest{AlarmID: alarmID, PatientID: patientID})
	if err != nil {
		return false, fmt.Errorf("delete alarm: %w", err)
	}

	return resp.Deleted, nil
}

// ToggleAlarm sets the active flag and reports whether the alarm existed.
func (c *Client) ToggleAlarm(ctx context.Context, alarmID, patientID int64, isActive bool) (bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &rpcv1.ToggleAlarmRequest{
		AlarmID:   alarmID,
		PatientID: patientID,
		IsActive:  isActive,
	}

	resp, err := c.api.ToggleAlarm(callCtx, request)
	if err != nil {
		return false, fmt.Errorf("toggle alarm: %w", err)
	}

	return resp.Updated, nil
}

// ProcessDueAlarms triggers one sweep on the server.
func (c *Client) ProcessDueAlarms(ctx context.Context) (*rpcv1.ProcessDueAlarmsResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ProcessDueAlarms(callCtx, new(rpcv1.ProcessDueAlarmsRequest))
	if err != nil {
		return nil, fmt.Errorf("process due alarms: %w", err)
	}

	return resp, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The actor, when set,
// travels as outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.actor != nil {
		ctx = metadata.AppendToOutgoingContext(ctx, rpcv1.MetadataActor, c.actor.String())
	}

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
