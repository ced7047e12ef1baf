package spec

import llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

const FuncIDSearchTemplates llmtoolsgoSpec.FuncID = "github.com/flexigpt/drawioagent-go/drawiotool.SearchTemplates"

func SearchTemplatesTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c51f0-8a2e-7b41-9d37-5b20c44ae101",
		Slug:          "drawio.search_templates",
		Version:       "v1.0.0",
		DisplayName:   "Search Templates",
		Description:   "Search the style library for a component style. Exact key matches win over fuzzy substring matches; a default rectangle is returned when nothing matches.",
		Tags:          []string{"drawio", "library"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "query":{"type":"string","description":"Free-text component name, e.g. 'k8s pod'."}
		  },
		  "required":["query"],
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDSearchTemplates},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
