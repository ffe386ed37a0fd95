package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/medication-alarm/internal/logger"
)

// Notification is a message addressed to a patient account.
type Notification struct {
	// ID uniquely identifies the notification for downstream dedupe.
	ID uuid.UUID
	// AccountID is the recipient account.
	AccountID int64
	// Category tags the notification, e.g. "MedicationReminder".
	Category string
	// Message is the body shown to the patient.
	Message string
	// SentAt is the send timestamp.
	SentAt time.Time
}

// New builds a notification with a fresh random id.
func New(accountID int64, category, message string, sentAt time.Time) Notification {
	return Notification{
		ID:        uuid.New(),
		AccountID: accountID,
		Category:  category,
		Message:   message,
		SentAt:    sentAt,
	}
}

// Notifier delivers or queues a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the context logger instead of delivering them.
type LogNotifier struct{}

// NewLogNotifier creates a notifier for local runs.
func NewLogNotifier() *LogNotifier {
	return new(LogNotifier)
}

// Notify logs the notification and always succeeds.
func (*LogNotifier) Notify(ctx context.Context, n Notification) error {
	logger.InfoKV(
		ctx,
		"Notification",
		"notification_id", n.ID.String(),
		"account_id", n.AccountID,
		"category", n.Category,
		"message", n.Message,
		"sent_at", n.SentAt.Format(time.RFC3339),
	)

	return nil
}
