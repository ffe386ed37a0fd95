package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// execer is satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertNotificationQuery = `
	INSERT INTO notifications (id, account_id, category, message, sent_at, is_read)
	VALUES ($1, $2, $3, $4, $5, FALSE)
	ON CONFLICT (id) DO NOTHING
`

// errNotificationNotStored is returned when the insert affected no rows.
var errNotificationNotStored = errors.New("notification was not stored")

// PostgresNotifier stores notifications in the clinic database, where the
// patient portal picks them up.
type PostgresNotifier struct {
	// db runs the insert statement.
	db execer
}

// NewPostgresNotifier creates a notifier backed by a pgx pool.
func NewPostgresNotifier(pool *pgxpool.Pool) *PostgresNotifier {
	return newPostgresNotifier(pool)
}

// newPostgresNotifier accepts any execer so tests can pass a mock.
func newPostgresNotifier(db execer) *PostgresNotifier {
	return &PostgresNotifier{db: db}
}

// Notify inserts the notification row.
func (p *PostgresNotifier) Notify(ctx context.Context, n Notification) error {
	tag, err := p.db.Exec(ctx, insertNotificationQuery, n.ID, n.AccountID, n.Category, n.Message, n.SentAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %s", errNotificationNotStored, n.ID)
	}

	return nil
}
