package careermentor

import (
	"context"
	"strings"
	"testing"
)

func TestCareerRoadmapKnownFields(t *testing.T) {
	for field, roadmap := range careerRoadmaps {
		for _, variant := range []string{field, strings.ToUpper(field), strings.ToUpper(field[:1]) + field[1:]} {
			if got := CareerRoadmap(variant); got != roadmap {
				t.Errorf("CareerRoadmap(%q) = %q, want %q", variant, got, roadmap)
			}
		}
	}
}

func TestCareerRoadmapMedicine(t *testing.T) {
	want := "1. Take pre-med courses\n2. Prepare for MCAT\n3. Attend medical school\n4. Do clinical rotations\n5. Specialize"
	if got := CareerRoadmap("medicine"); got != want {
		t.Fatalf("CareerRoadmap(medicine) = %q, want %q", got, want)
	}
}

func TestCareerRoadmapUnknownField(t *testing.T) {
	for _, field := range []string{"Underwater Basket Weaving", "", "law"} {
		got := CareerRoadmap(field)
		want := "No roadmap found for '" + field + "'. Try asking about 'software engineering' or 'data science'."
		if got != want {
			t.Errorf("CareerRoadmap(%q) = %q, want %q", field, got, want)
		}
	}
}

func TestRoadmapToolExecute(t *testing.T) {
	tool := NewRoadmapTool()
	out, err := tool.Execute(context.Background(), map[string]interface{}{"field": "Data Science"})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if out != careerRoadmaps["data science"] {
		t.Fatalf("unexpected roadmap %q", out)
	}

	if _, err := tool.Execute(context.Background(), map[string]interface{}{}); err == nil {
		t.Fatalf("expected error for missing field argument")
	}
}

func TestRoadmapToolSchema(t *testing.T) {
	params := NewRoadmapTool().OpenAI()
	if len(params) != 1 {
		t.Fatalf("expected one tool param, got %d", len(params))
	}
	fn := params[0].Function
	if fn.Name != "get_career_roadmap" {
		t.Fatalf("unexpected function name %q", fn.Name)
	}
	if _, ok := fn.Parameters["$schema"]; ok {
		t.Fatalf("expected $schema to be stripped")
	}
	if fn.Parameters["type"] != "object" {
		t.Fatalf("expected object schema, got %v", fn.Parameters["type"])
	}
	props, ok := fn.Parameters["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected properties map, got %T", fn.Parameters["properties"])
	}
	if _, ok := props["field"]; !ok {
		t.Fatalf("expected field property, got %v", props)
	}
	required, ok := fn.Parameters["required"].([]interface{})
	if !ok || len(required) != 1 || required[0] != "field" {
		t.Fatalf("expected field to be required, got %v", fn.Parameters["required"])
	}
}
