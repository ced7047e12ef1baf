package drawiotool

import (
	"errors"

	"github.com/flexigpt/llmtools-go"

	"github.com/flexigpt/drawioagent-go/spec"
)

// NewDrawioRegistry creates an llmtools-go Registry and registers ONLY the drawio tools into it.
func NewDrawioRegistry(rt spec.Runtime, opts ...llmtools.RegistryOption) (*llmtools.Registry, error) {
	if rt == nil {
		return nil, errors.New("nil runtime")
	}
	r, err := llmtools.NewRegistry(opts...)
	if err != nil {
		return nil, err
	}
	if err := Register(r, rt); err != nil {
		return nil, err
	}
	return r, nil
}
