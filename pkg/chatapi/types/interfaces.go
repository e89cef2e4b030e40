package types

import "context"

// MessageLog is the append-only log the server persists messages in.
type MessageLog interface {
	// Append stores text and returns the message with its assigned id.
	Append(ctx context.Context, text string) (Message, error)

	// All returns every message in ascending id order.
	All(ctx context.Context) ([]Message, error)

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// Driver names the storage engine (for the info endpoint).
	Driver() string
}
