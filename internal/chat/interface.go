package chat

import "context"

// UseCase defines the business logic interface for the chat domain.
// The sessionID comes from the caller's session cookie.
type UseCase interface {
	// Upload parses a CSV file and installs it as the session's dataset,
	// replacing any prior one. The session is created when absent.
	Upload(ctx context.Context, sessionID string, input UploadInput) (UploadOutput, error)

	// Chat runs one conversation turn against the model, dispatching tool
	// calls over the session's dataset.
	Chat(ctx context.Context, sessionID string, input TurnInput) (TurnOutput, error)

	// Visualization resolves a chart reference to its file on disk.
	Visualization(ctx context.Context, sessionID, name string) (VizOutput, error)

	// Clear deletes the session and everything it holds. Idempotent.
	Clear(ctx context.Context, sessionID string) error
}
