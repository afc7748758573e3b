package populate

import (
	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/types"
)

// extendTemplateParams flattens template bindings across one ancestor edge.
// An ancestor without templates of its own just forwards its resolved map.
// Otherwise this class' positional extension arguments are mapped onto the
// ancestor's declared template names, and every grandancestor binding the
// ancestor holds is rewritten by substituting the ancestor's parameters
// with those fresh bindings.
func (p *populator) extendTemplateParams(ancestor *decl.ClassLike) {
	c := p.c

	if len(ancestor.Templates) == 0 {
		for grand, bindings := range ancestor.TemplateExtendedParams {
			if _, ok := c.TemplateExtendedParams[grand]; ok {
				continue
			}
			forwarded := make(map[string]*types.Union, len(bindings))
			for name, u := range bindings {
				forwarded[name] = u
			}
			c.TemplateExtendedParams[grand] = forwarded
		}
		return
	}

	offsets := c.TemplateExtendedOffsets[ancestor.Name]
	bindings := make(map[string]*types.Union, len(ancestor.Templates))
	for i, tp := range ancestor.Templates {
		switch {
		case i < len(offsets) && offsets[i] != nil:
			bindings[tp.Name] = offsets[i]
		case tp.Constraint != nil:
			bindings[tp.Name] = tp.Constraint
		default:
			bindings[tp.Name] = types.MixedType()
		}
	}
	c.TemplateExtendedParams[ancestor.Name] = bindings

	for grand, grandBindings := range ancestor.TemplateExtendedParams {
		resolved := make(map[string]*types.Union, len(grandBindings))
		for name, u := range grandBindings {
			resolved[name] = types.ReplaceGenericParams(u, ancestor.Name, bindings)
		}
		c.TemplateExtendedParams[grand] = resolved
	}
}
