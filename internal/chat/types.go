package chat

import (
	"time"

	"datachat/internal/dataset"
	"datachat/pkg/gemini"
)

// Session is one browser session: at most one uploaded dataset, the
// transcript of prior turns in model-API form, and the charts produced so
// far. Sessions live in the session store until cleared or evicted.
type Session struct {
	ID         string
	Table      *dataset.Table
	Filename   string
	UploadedAt time.Time

	// Summary and Preview are computed once at upload time.
	Summary *dataset.Summary
	Preview []map[string]any

	// Contents is the ordered transcript: user, model and function roles.
	Contents []gemini.Content

	// Charts lists the visualization references created during the session.
	Charts []string

	CreatedAt time.Time
	LastSeen  time.Time
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		LastSeen:  now,
	}
}

// UploadInput is a CSV file submitted for analysis.
type UploadInput struct {
	Filename string
	Size     int64
	Data     []byte
}

// UploadOutput is the parsed dataset description returned to the client.
type UploadOutput struct {
	Filename string
	Summary  dataset.Summary
	Preview  []map[string]any
}

// TurnInput is one user chat message.
type TurnInput struct {
	Message string
}

// TurnOutput is the assistant's reply for one turn.
type TurnOutput struct {
	Message        string
	Visualizations []string
}

// VizOutput locates a rendered chart on disk.
type VizOutput struct {
	Name string
	Path string
}
