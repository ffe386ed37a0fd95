// Package notify delivers reminder notifications to patient accounts.
//
// A Notifier either accepts a notification or returns an error; retries and
// delivery guarantees belong to the backing channel. PostgresNotifier writes to
// the clinic notifications table, RedisStreamNotifier appends to a Redis stream
// consumed by the delivery workers and LogNotifier only logs.
package notify
