package gemini

import "context"

// IGemini defines the interface for Gemini API client.
// Implementations are safe for concurrent use.
type IGemini interface {
	// GenerateContent sends a generation request to Gemini API
	GenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Model returns the model being used
	Model() string
}
