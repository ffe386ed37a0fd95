package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var errTestDatabase = errors.New("database unavailable")

func testNotification() Notification {
	return New(
		100,
		"MedicationReminder",
		"Time to take your medication: Metformin.",
		time.Date(2026, time.March, 2, 8, 2, 0, 0, time.UTC),
	)
}

func TestNew_AssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	a, b := testNotification(), testNotification()
	require.NotEqual(t, uuid.Nil, a.ID)
	require.NotEqual(t, a.ID, b.ID)
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewLogNotifier().Notify(context.Background(), testNotification()))
}

func TestPostgresNotifier(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	defer mock.Close()

	notifier := newPostgresNotifier(mock)
	n := testNotification()

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(pgxmock.AnyArg(), n.AccountID, n.Category, n.Message, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, notifier.Notify(context.Background(), n))

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(pgxmock.AnyArg(), n.AccountID, n.Category, n.Message, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	require.ErrorIs(t, notifier.Notify(context.Background(), n), errNotificationNotStored)

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(pgxmock.AnyArg(), n.AccountID, n.Category, n.Message, pgxmock.AnyArg()).
		WillReturnError(errTestDatabase)
	require.ErrorIs(t, notifier.Notify(context.Background(), n), errTestDatabase)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStreamNotifier(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
	})

	ctx := context.Background()
	notifier := NewRedisStreamNotifier(client, "", 0)
	n := testNotification()

	require.NoError(t, notifier.Notify(ctx, n))

	entries, err := client.XRange(ctx, DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	require.Equal(t, n.ID.String(), values["id"])
	require.Equal(t, "100", values["account_id"])
	require.Equal(t, "MedicationReminder", values["category"])
	require.Equal(t, n.Message, values["message"])
	require.Equal(t, "2026-03-02T08:02:00Z", values["sent_at"])
}

func TestRedisStreamNotifier_ServerDown(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})

	t.Cleanup(func() {
		_ = client.Close()
	})

	mr.Close()

	err := NewRedisStreamNotifier(client, "reminders", 0).Notify(context.Background(), testNotification())
	require.Error(t, err)
	require.Contains(t, err.Error(), "reminders")
}
