// Package careermentor routes a user's chat turns to one of a few static agent
// personas and streams their model-generated replies back to a chat front end.
package careermentor

import (
	"fmt"

	"github.com/boat-builder/careermentor/prompts"
	"github.com/openai/openai-go"
)

// Agent is a named persona with fixed instructions and optional tools. Agents
// are created once and shared read-only across sessions.
type Agent struct {
	name         string
	instructions string
	tools        []Tool
}

// NewAgent creates an Agent with the given instructions and tools.
func NewAgent(name, instructions string, tools ...Tool) *Agent {
	return &Agent{
		name:         name,
		instructions: instructions,
		tools:        append([]Tool(nil), tools...),
	}
}

var (
	CareerAgent = NewAgent(
		"CareerAgent",
		"Ask the user about their interests and suggest suitable career paths based on that.",
	)

	SkillAgent = NewAgent(
		"SkillAgent",
		"Provide a detailed skill roadmap for a chosen career field using the 'get_career_roadmap' tool.",
		NewRoadmapTool(),
	)

	JobAgent = NewAgent(
		"JobAgent",
		"List real-world job roles and example job titles related to the user's chosen field.",
	)
)

// Agents returns the static agent definitions, default agent first.
func Agents() []*Agent {
	return []*Agent{CareerAgent, SkillAgent, JobAgent}
}

func (a *Agent) Name() string {
	return a.name
}

func (a *Agent) Instructions() string {
	return a.instructions
}

func (a *Agent) Tools() []Tool {
	return append([]Tool(nil), a.tools...)
}

func (a *Agent) GetTool(name string) (Tool, error) {
	for _, tool := range a.tools {
		if tool.Name() == name {
			return tool, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

// ToolParams returns the tool descriptors sent with every request of this agent.
func (a *Agent) ToolParams() []openai.ChatCompletionToolParam {
	tools := []openai.ChatCompletionToolParam{}
	for _, tool := range a.tools {
		tools = append(tools, tool.OpenAI()...)
	}
	return tools
}

// SystemPrompt renders the agent's instructions as the system message.
func (a *Agent) SystemPrompt() (string, error) {
	names := make([]string, 0, len(a.tools))
	for _, tool := range a.tools {
		names = append(names, tool.Name())
	}
	return prompts.AgentPrompt(prompts.AgentPromptData{
		Instructions: a.instructions,
		ToolNames:    names,
	})
}
