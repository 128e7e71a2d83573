package careermentor

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

var careerRoadmaps = map[string]string{
	"software engineering": "1. Learn Python or JavaScript\n2. Study data structures and algorithms\n3. Build real projects\n4. Contribute to open source\n5. Apply to internships/jobs",
	"data science":         "1. Learn Python and statistics\n2. Study machine learning basics\n3. Practice on datasets (e.g. Kaggle)\n4. Build a portfolio\n5. Apply for junior roles",
	"medicine":             "1. Take pre-med courses\n2. Prepare for MCAT\n3. Attend medical school\n4. Do clinical rotations\n5. Specialize",
}

// CareerRoadmap returns the stored roadmap for a career field, matched
// case-insensitively, or a fallback message naming the field.
func CareerRoadmap(field string) string {
	if roadmap, ok := careerRoadmaps[strings.ToLower(field)]; ok {
		return roadmap
	}
	// TODO: derive the suggestions from careerRoadmaps once the table grows past these fields.
	return fmt.Sprintf("No roadmap found for '%s'. Try asking about 'software engineering' or 'data science'.", field)
}

// RoadmapArgs are the arguments the model passes to get_career_roadmap.
type RoadmapArgs struct {
	Field string `json:"field" jsonschema_description:"The career field to get a roadmap for"`
}

// RoadmapTool exposes CareerRoadmap to the model.
type RoadmapTool struct{}

func NewRoadmapTool() *RoadmapTool {
	return &RoadmapTool{}
}

func (t *RoadmapTool) Name() string {
	return "get_career_roadmap"
}

func (t *RoadmapTool) Description() string {
	return "Get a step-by-step skill roadmap for a career field."
}

func (t *RoadmapTool) StatusMessage() string {
	return "Looking up the career roadmap"
}

func (t *RoadmapTool) OpenAI() []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{
		{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name(),
				Description: openai.String(t.Description()),
				Parameters:  FunctionParameters[RoadmapArgs](),
			},
		},
	}
}

func (t *RoadmapTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	field, ok := args["field"].(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", "field")
	}
	return CareerRoadmap(field), nil
}
