package orchestrator

// Log prefixes
const (
	LogPrefixRunTurn = "internal.agent.orchestrator.RunTurn"
)

// Error messages
const (
	ErrMsgEmptyLLMResponse = "empty LLM response"
	ErrMsgToolNotFound     = "tool not found"
)

// Log messages
const (
	LogMsgCallingTool   = "Model calling tool: %s with args: %+v"
	LogMsgToolFailed    = "Tool %s failed: %v"
	LogMsgToolUnknown   = "Tool %s not found in registry"
	LogMsgFollowUpTools = "Follow-up response still requested tools; using its text"
)

// FallbackReply is returned when the follow-up response carries no text.
const FallbackReply = "I could not produce an answer for that request. Please try rephrasing your question."
