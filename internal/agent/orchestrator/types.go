package orchestrator

import (
	"datachat/internal/agent"
	"datachat/pkg/gemini"
)

// TurnInput is one chat turn ready to send: the dataset-aware system
// instruction, the full transcript ending with the user's message, and the
// tool registry bound to the session's current dataset.
type TurnInput struct {
	SystemInstruction string
	Contents          []gemini.Content
	Registry          *agent.ToolRegistry
}

// TurnOutput carries the model's final text, the chart references produced
// by tool calls during the turn, and the transcript entries to persist
// (model function calls and their function responses, in order).
type TurnOutput struct {
	Text           string
	Visualizations []string
	Appended       []gemini.Content
}
