package spec

import llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

const FuncIDSaveDiagram llmtoolsgoSpec.FuncID = "github.com/flexigpt/drawioagent-go/drawiotool.SaveDiagram"

func SaveDiagramTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c51f0-8a2e-7b41-9d37-5b20c44ae103",
		Slug:          "drawio.save_diagram",
		Version:       "v1.0.0",
		DisplayName:   "Save Diagram",
		Description:   "Write diagram XML verbatim into the output directory, normalizing the .drawio extension. Returns the final path.",
		Tags:          []string{"drawio", "fs", "write"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "xml":{"type":"string","description":"Diagram XML content, written byte-for-byte."},
		    "filename":{"type":"string","description":"Output file name; .drawio is appended when missing. Omit for a generated name."}
		  },
		  "required":["xml"],
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDSaveDiagram},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
