package drawiotool

import (
	"context"
	"errors"

	"github.com/flexigpt/llmtools-go"
	llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

	"github.com/flexigpt/drawioagent-go/spec"
)

// Register registers the drawio runtime tools into an existing llmtools-go Registry.
func Register(r *llmtools.Registry, rt spec.Runtime) error {
	if r == nil {
		return errors.New("nil registry")
	}
	if rt == nil {
		return errors.New("nil runtime")
	}

	// "drawio.search_templates" -> typed -> text output (JSON).
	if err := llmtools.RegisterTypedAsTextTool[spec.SearchTemplatesArgs, spec.SearchTemplatesResult](
		r,
		spec.SearchTemplatesTool(),
		func(ctx context.Context, args spec.SearchTemplatesArgs) (spec.SearchTemplatesResult, error) {
			return rt.SearchTemplates(ctx, args)
		},
	); err != nil {
		return err
	}

	// "drawio.extract_pattern" -> typed -> text output (JSON).
	if err := llmtools.RegisterTypedAsTextTool[spec.ExtractPatternArgs, spec.ExtractPatternResult](
		r,
		spec.ExtractPatternTool(),
		func(ctx context.Context, args spec.ExtractPatternArgs) (spec.ExtractPatternResult, error) {
			return rt.ExtractPattern(ctx, args)
		},
	); err != nil {
		return err
	}

	// "drawio.save_diagram" -> typed -> text output (JSON).
	if err := llmtools.RegisterTypedAsTextTool[spec.SaveDiagramArgs, spec.SaveDiagramResult](
		r,
		spec.SaveDiagramTool(),
		func(ctx context.Context, args spec.SaveDiagramArgs) (spec.SaveDiagramResult, error) {
			return rt.SaveDiagram(ctx, args)
		},
	); err != nil {
		return err
	}

	// "drawio.list_library" -> typed -> text output (JSON).
	if err := llmtools.RegisterTypedAsTextTool[spec.ListLibraryArgs, spec.ListLibraryResult](
		r,
		spec.ListLibraryTool(),
		func(ctx context.Context, args spec.ListLibraryArgs) (spec.ListLibraryResult, error) {
			return rt.ListLibrary(ctx, args)
		},
	); err != nil {
		return err
	}

	return nil
}

func Tools() []llmtoolsgoSpec.Tool {
	return []llmtoolsgoSpec.Tool{
		spec.SearchTemplatesTool(),
		spec.ExtractPatternTool(),
		spec.SaveDiagramTool(),
		spec.ListLibraryTool(),
	}
}
