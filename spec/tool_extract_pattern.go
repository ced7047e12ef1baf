package spec

import llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

const FuncIDExtractPattern llmtoolsgoSpec.FuncID = "github.com/flexigpt/drawioagent-go/drawiotool.ExtractPattern"

func ExtractPatternTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c51f0-8a2e-7b41-9d37-5b20c44ae102",
		Slug:          "drawio.extract_pattern",
		Version:       "v1.0.0",
		DisplayName:   "Extract Pattern",
		Description:   "Scan an existing .drawio file for reusable shape styles and save them to the style library. Pattern 'all' extracts every labeled shape; a specific pattern extracts one shape by label substring.",
		Tags:          []string{"drawio", "library"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "path":{"type":"string","description":"Path of the .drawio file to scan."},
		    "pattern":{"type":"string","default":"all","description":"Shape label substring to extract, or 'all' for every labeled shape."}
		  },
		  "required":["path"],
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDExtractPattern},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
