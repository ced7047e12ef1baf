package spec

import llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

const FuncIDListLibrary llmtoolsgoSpec.FuncID = "github.com/flexigpt/drawioagent-go/drawiotool.ListLibrary"

func ListLibraryTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c51f0-8a2e-7b41-9d37-5b20c44ae104",
		Slug:          "drawio.list_library",
		Version:       "v1.0.0",
		DisplayName:   "List Library",
		Description:   "Return every saved style in the library, in insertion order. Use this to see which building blocks already exist.",
		Tags:          []string{"drawio", "library"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{},
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDListLibrary},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
