//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	rpcv1 "github.com/oshokin/medication-alarm/internal/rpc/v1"
)

// fakeAPI records the last call context and answers GetAlarm with found=false.
type fakeAPI struct {
	rpcv1.AlarmServiceClient

	lastCtx context.Context //nolint:containedctx // Captured for assertions only.
}

func (f *fakeAPI) GetAlarm(ctx context.Context, _ *rpcv1.GetAlarmRequest, _ ...grpc.CallOption) (*rpcv1.GetAlarmResponse, error) {
	f.lastCtx = ctx
	return &rpcv1.GetAlarmResponse{Found: false}, nil
}

func (f *fakeAPI) DeleteAlarm(
	ctx context.Context,
	req *rpcv1.DeleteAlarmRequest,
	_ ...grpc.CallOption,
) (*rpcv1.DeleteAlarmResponse, error) {
	f.lastCtx = ctx
	return &rpcv1.DeleteAlarmResponse{Deleted: req.AlarmID == 1}, nil
}

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	_, ok := ctx.Deadline()
	require.False(t, ok)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_SendsActor asserts the actor travels as outgoing metadata.
func TestClient_SendsActor(t *testing.T) {
	t.Parallel()

	api := new(fakeAPI)
	c := newClient(api, WithActor(&Actor{Hostname: "ward-3", Username: "nurse"}))

	found, err := c.GetAlarm(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Nil(t, found)

	md, ok := metadata.FromOutgoingContext(api.lastCtx)
	require.True(t, ok)
	require.Equal(t, []string{"nurse@ward-3"}, md.Get(rpcv1.MetadataActor))

	deleted, err := c.DeleteAlarm(context.Background(), 1, 10)
	require.NoError(t, err)
	require.True(t, deleted)

	_, hasDeadline := api.lastCtx.Deadline()
	require.True(t, hasDeadline)
}

// TestClient_NilRequests asserts that nil requests are rejected before any call.
func TestClient_NilRequests(t *testing.T) {
	t.Parallel()

	c := newClient(new(fakeAPI))

	_, err := c.CreateAlarm(context.Background(), nil)
	require.ErrorIs(t, err, errRequestRequired)

	_, err = c.UpdateAlarm(context.Background(), nil)
	require.ErrorIs(t, err, errRequestRequired)
}
