package prompts

// AgentPromptData contains data for the agent system prompt template.
type AgentPromptData struct {
	Instructions string
	ToolNames    []string
}

// AgentPromptTemplate renders the agent instructions verbatim, followed by a
// short tool hint when the agent has tools.
const AgentPromptTemplate = `{{ .Instructions }}{{ if .ToolNames }}

You can call {{ formatToolNames .ToolNames }} to look things up. Base your answer on what the tools return.{{ end }}`

// AgentPrompt creates the agent system prompt by applying the provided data.
func AgentPrompt(data AgentPromptData) (string, error) {
	return generateFromTemplate(AgentPromptTemplate, data)
}
