package integration

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/medication-alarm/internal/config"
	rpcv1 "github.com/oshokin/medication-alarm/internal/rpc/v1"
	"github.com/oshokin/medication-alarm/internal/service/client"
	"github.com/oshokin/medication-alarm/internal/service/common"
	"github.com/oshokin/medication-alarm/internal/service/server"
)

const clinicFixture = `patients:
  - id: 10
    account_id: 100
  - id: 11
    account_id: 110
medications:
  - id: 55
    patient_id: 10
    name: Metformin
    dosage: 500 mg
    usage_instructions: with meals
  - id: 60
    patient_id: 11
    name: Levothyroxine
`

// freeAddress reserves a loopback port and releases it for the server.
func freeAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startServer runs the real server with a file directory fixture and the log notifier.
// Returns the settings path shared by the clients.
func startServer(t *testing.T, grpcAddr, httpAddr string) string {
	t.Helper()

	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "clinic.yaml")
	require.NoError(t, os.WriteFile(fixturePath, []byte(clinicFixture), config.DefaultFilePermissions))

	cfgPath := filepath.Join(dir, config.DefaultConfigFilename)
	require.NoError(t, config.Save(cfgPath, &config.Config{
		ServerAddress: grpcAddr,
		HTTPAddress:   httpAddr,
		Timeout:       5 * time.Second,
		TimeZone:      "UTC",
		Log:           config.LogConfig{Level: "error"},
		Directory:     config.DirectoryConfig{Kind: config.DirectoryFile, FixturePath: fixturePath},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- server.Run(ctx, &server.Options{ConfigPath: cfgPath})
	}()

	t.Cleanup(func() {
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	// Wait for the HTTP health check, which starts after the gRPC listener.
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + httpAddr + "/healthz") //nolint:noctx // Short-lived test probe.
		if err != nil {
			return false
		}

		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	return cfgPath
}

// TestGRPC_Roundtrip drives the real server through the CLI session and the raw client.
func TestGRPC_Roundtrip(t *testing.T) {
	t.Parallel()

	grpcAddr, httpAddr := freeAddress(t), freeAddress(t)
	cfgPath := startServer(t, grpcAddr, httpAddr)
	ctx := context.Background()

	out := new(bytes.Buffer)

	session, err := client.Open(ctx, &client.Options{ConfigPath: cfgPath, PatientID: 10}, out)
	require.NoError(t, err)

	t.Cleanup(func() { _ = session.Close() })

	require.NoError(t, session.Create(ctx, 55, "08:00", true, "before breakfast"))
	require.Contains(t, out.String(), "Created #1 08:00 Metformin (500 mg) [active]")

	// A second alarm for the same medication is rejected.
	require.Error(t, session.Create(ctx, 55, "09:00", true, ""))

	out.Reset()
	require.NoError(t, session.List(ctx))
	require.Equal(t, 1, strings.Count(out.String(), "\n"))

	newTime := "20:30"
	out.Reset()
	require.NoError(t, session.Update(ctx, 1, client.UpdateFields{AlarmTime: &newTime}))
	require.Contains(t, out.String(), "#1 20:30 Metformin")

	out.Reset()
	require.NoError(t, session.Toggle(ctx, 1, false))
	require.Equal(t, "Alarm 1 is now inactive\n", out.String())

	out.Reset()
	require.NoError(t, session.Sweep(ctx))
	require.Contains(t, out.String(), "0 sent, 0 failed")

	// Another patient cannot see or touch the alarm.
	actor := &common.Actor{Hostname: "test-hostname", Username: "test-user"}
	raw, err := common.Dial(ctx, grpcAddr, common.WithCallTimeout(3*time.Second), common.WithActor(actor))
	require.NoError(t, err)

	t.Cleanup(func() { _ = raw.Close() })

	foreign, err := raw.GetAlarm(ctx, 1, 11)
	require.NoError(t, err)
	require.Nil(t, foreign)

	_, err = raw.DeleteAlarm(ctx, 1, 11)
	require.Error(t, err)

	created, err := raw.CreateAlarm(ctx, &rpcv1.CreateAlarmRequest{
		PatientID:             11,
		MedicationReferenceID: 60,
		AlarmTime:             "07:15",
		IsActive:              true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), created.ID)
	require.Equal(t, "Levothyroxine", created.MedicationName)

	out.Reset()
	require.NoError(t, session.Delete(ctx, 1))
	require.Equal(t, "Deleted alarm 1\n", out.String())

	out.Reset()
	require.NoError(t, session.Get(ctx, 1))
	require.Equal(t, "Alarm 1 not found\n", out.String())

	// The HTTP API shares the engine and exposes sweep metrics.
	resp, err := http.Get("http://" + httpAddr + "/metrics") //nolint:noctx // Short-lived test probe.
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "medication_alarm_sweep_runs_total 1")
	require.Contains(t, string(body), "medication_alarm_store_alarms 1")
}
