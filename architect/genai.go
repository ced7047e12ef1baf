package architect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiConfig configures a GeminiModel. APIKey is required.
type GeminiConfig struct {
	APIKey string

	// Model defaults to DefaultModel.
	Model string

	// SystemInstruction defaults to Instruction.
	SystemInstruction string
}

// GeminiModel is a ChatModel backed by the Gemini API. It keeps the
// conversation history in memory; one GeminiModel is one conversation.
// It is not safe for concurrent use.
type GeminiModel struct {
	client *genai.Client
	model  string
	system string

	history []*genai.Content
}

var _ ChatModel = (*GeminiModel)(nil)

func NewGeminiModel(ctx context.Context, cfg GeminiConfig) (*GeminiModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	system := cfg.SystemInstruction
	if strings.TrimSpace(system) == "" {
		system = Instruction
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiModel{
		client: client,
		model:  model,
		system: system,
	}, nil
}

// Model returns the configured model name.
func (m *GeminiModel) Model() string { return m.model }

// Close is a no-op: google.golang.org/genai's Client holds no closable
// resources and exposes no Close method.
func (m *GeminiModel) Close() error {
	return nil
}

func (m *GeminiModel) Send(ctx context.Context, text string) (ModelTurn, error) {
	m.history = append(m.history, genai.NewContentFromText(text, genai.RoleUser))
	return m.generate(ctx)
}

func (m *GeminiModel) SendToolResults(ctx context.Context, results []ToolResult) (ModelTurn, error) {
	if len(results) == 0 {
		return ModelTurn{}, errors.New("no tool results to send")
	}
	parts := make([]*genai.Part, 0, len(results))
	for _, res := range results {
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				Name:     res.Name,
				Response: res.Payload,
			},
		})
	}
	m.history = append(m.history, genai.NewContentFromParts(parts, genai.RoleUser))
	return m.generate(ctx)
}

func (m *GeminiModel) generate(ctx context.Context) (ModelTurn, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(m.system, genai.RoleUser),
		Tools: []*genai.Tool{
			{FunctionDeclarations: functionDeclarations()},
		},
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, m.history, cfg)
	if err != nil {
		return ModelTurn{}, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ModelTurn{}, errors.New("no candidates returned")
	}

	// The model's own turn goes into history so the next request carries
	// the full conversation, function calls included.
	content := resp.Candidates[0].Content
	m.history = append(m.history, content)

	var turn ModelTurn
	var text strings.Builder
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
		if part.FunctionCall != nil {
			turn.Calls = append(turn.Calls, ToolCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}
	turn.Text = strings.TrimSpace(text.String())
	return turn, nil
}

// functionDeclarations describes the runtime operations to the model.
// Names and argument keys line up with the JSON tags on the arg structs
// in the spec package, so the loose arg maps decode directly.
func functionDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name: funcSearchTemplates,
			Description: "Search the style library for a component style. " +
				"Exact key matches win over fuzzy substring matches; a default rectangle is returned when nothing matches.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "Component name, e.g. 'k8s pod'."},
				},
				Required: []string{"query"},
			},
		},
		{
			Name: funcExtractPattern,
			Description: "Learn styles from an existing .drawio file and save them to the library. " +
				"Pattern 'all' takes every labeled shape; a specific pattern takes the first shape whose label contains it.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"path":    {Type: genai.TypeString, Description: "Path to the .drawio file."},
					"pattern": {Type: genai.TypeString, Description: "Shape label to extract, or 'all'."},
				},
				Required: []string{"path"},
			},
		},
		{
			Name: funcSaveDiagram,
			Description: "Save draw.io XML to a file in the output directory. " +
				"Omit filename to get a generated one.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"xml":      {Type: genai.TypeString, Description: "Complete draw.io XML document."},
					"filename": {Type: genai.TypeString, Description: "Optional filename; .drawio is appended when missing."},
				},
				Required: []string{"xml"},
			},
		},
		{
			Name:        funcListLibrary,
			Description: "List every saved style in the library, in insertion order.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
	}
}
