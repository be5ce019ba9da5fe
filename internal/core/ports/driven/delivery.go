package driven

import "context"

// NotificationChannel pushes a completed article to subscribers. Send
// either acknowledges or fails; the delivery adapter owns retries.
type NotificationChannel interface {
	// Send pushes one message. A nil error means the channel acknowledged.
	Send(ctx context.Context, title, body string) error
}

// OutputStore persists final articles to an addressable location.
type OutputStore interface {
	// Write stores content under the given identifier and returns the
	// addressable location.
	Write(ctx context.Context, id, content string) (string, error)
}
