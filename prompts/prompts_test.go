package prompts

import (
	"strings"
	"testing"
)

func TestAgentPromptWithoutTools(t *testing.T) {
	instructions := "List real-world job roles and example job titles related to the user's chosen field."
	prompt, err := AgentPrompt(AgentPromptData{Instructions: instructions})
	if err != nil {
		t.Fatalf("AgentPrompt returned error: %v", err)
	}
	if prompt != instructions {
		t.Fatalf("expected prompt to equal instructions, got %q", prompt)
	}
}

func TestAgentPromptWithTools(t *testing.T) {
	prompt, err := AgentPrompt(AgentPromptData{
		Instructions: "Provide a roadmap.",
		ToolNames:    []string{"get_career_roadmap", "other_tool"},
	})
	if err != nil {
		t.Fatalf("AgentPrompt returned error: %v", err)
	}
	if !strings.HasPrefix(prompt, "Provide a roadmap.\n\n") {
		t.Fatalf("expected instructions first, got %q", prompt)
	}
	if !strings.Contains(prompt, "'get_career_roadmap', 'other_tool'") {
		t.Fatalf("expected quoted tool names, got %q", prompt)
	}
}
