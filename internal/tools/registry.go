// File: internal/tools/registry.go
package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/api/schemas"
)

// RunFunc executes one capability. It returns the session identifier the
// call was bound to, the success payload, and an error that is either a
// *schemas.ToolError or an unexpected failure.
type RunFunc func(ctx context.Context, args map[string]interface{}) (string, map[string]interface{}, error)

// Definition describes one registered capability.
type Definition struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Run         RunFunc
}

// Registry maps capability names to their definitions. It is built once per
// process and immutable afterwards; registration order is preserved so the
// catalogue is deterministic across runs.
type Registry struct {
	order []string
	defs  map[string]*Definition
}

// NewRegistry wires every capability to the session resolver and returns the
// assembled registry.
func NewRegistry(resolver schemas.SessionResolver, logger *zap.Logger) *Registry {
	r := &Registry{defs: make(map[string]*Definition)}

	log := logger.Named("tools")
	for _, def := range []*Definition{
		navigateTool(resolver),
		screenshotTool(resolver),
		extractLinksTool(resolver, log),
		fillTool(resolver),
		clickTool(resolver),
		getHTMLTool(resolver),
	} {
		r.register(def)
	}
	return r
}

func (r *Registry) register(def *Definition) {
	r.order = append(r.order, def.Name)
	r.defs[def.Name] = def
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the capability names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Descriptors returns the full catalogue surfaced via tools/list, in
// registration order.
func (r *Registry) Descriptors() []schemas.ToolDescriptor {
	descriptors := make([]schemas.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		def := r.defs[name]
		descriptors = append(descriptors, schemas.ToolDescriptor{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return descriptors
}
