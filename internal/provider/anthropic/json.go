package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
)

// jsonResponseToolName is the name of the synthetic tool used for JSON mode.
const jsonResponseToolName = "__json_response__"

func buildJSONTool() (anthropic.ToolUnionParam, anthropic.ToolChoiceUnionParam) {
	// Generic object schema; callers validate structure themselves and
	// substitute documented fallbacks when the shape is wrong.
	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": true,
	}

	tool := anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        jsonResponseToolName,
			Description: anthropic.String("Output the response as structured JSON"),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema["properties"],
			},
		},
	}

	toolChoice := anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{
			Name: jsonResponseToolName,
		},
	}

	return tool, toolChoice
}
