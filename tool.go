// Package careermentor - tool.go
// Defines the Tool interface the agents expose to the model.
package careermentor

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

type Tool interface {
	Name() string
	StatusMessage() string
	Description() string
	OpenAI() []openai.ChatCompletionToolParam
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// FunctionParameters renders the JSON schema of T as tool parameters. The
// $schema keyword is dropped since some OpenAI-compatible providers reject it.
func FunctionParameters[T any]() openai.FunctionParameters {
	raw, err := json.Marshal(GenerateSchema[T]())
	if err != nil {
		panic(err)
	}
	params := openai.FunctionParameters{}
	if err := json.Unmarshal(raw, &params); err != nil {
		panic(err)
	}
	delete(params, "$schema")
	return params
}
