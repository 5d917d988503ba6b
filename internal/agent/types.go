package agent

import (
	"context"

	"datachat/pkg/gemini"
)

// Tool represents an analysis tool that can be called by the model.
type Tool interface {
	// Name returns the tool name (used in function calling).
	Name() string

	// Description returns what the tool does (for the model).
	Description() string

	// Parameters returns JSON schema for tool parameters.
	Parameters() map[string]interface{}

	// Execute runs the tool with given parameters. Tool-level failures are
	// reported inside the result map under an "error" key so they can be
	// fed back to the model; the Go error is reserved for broken wiring.
	Execute(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error)
}

// ToolRegistry manages available tools.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
func (r *ToolRegistry) Register(tool Tool) {
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools in registration order.
func (r *ToolRegistry) List() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// ToFunctionDeclarations converts tools to the Gemini function calling format.
func (r *ToolRegistry) ToFunctionDeclarations() []gemini.Tool {
	if len(r.tools) == 0 {
		return nil
	}
	decls := make([]gemini.FunctionDeclaration, 0, len(r.tools))
	for _, tool := range r.List() {
		decls = append(decls, gemini.FunctionDeclaration{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return []gemini.Tool{{FunctionDeclarations: decls}}
}
