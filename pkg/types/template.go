package types

// TemplateBound is one visible binding of a template parameter: the entity
// that declared it plus its upper-bound constraint.
type TemplateBound struct {
	DefiningEntity string
	Constraint     *Union
}

// TemplateContext is the set of template parameter bindings visible at a
// point in code. Contexts are extended immutably: With returns a copy, so a
// nested scope never mutates its parent's view.
type TemplateContext struct {
	bounds map[string]TemplateBound
}

// NewTemplateContext returns an empty context.
func NewTemplateContext() TemplateContext {
	return TemplateContext{}
}

// With returns a copy of the context with one more binding. A rebound name
// shadows the outer binding.
func (c TemplateContext) With(name, definingEntity string, constraint *Union) TemplateContext {
	bounds := make(map[string]TemplateBound, len(c.bounds)+1)
	for k, v := range c.bounds {
		bounds[k] = v
	}
	bounds[name] = TemplateBound{DefiningEntity: definingEntity, Constraint: constraint}
	return TemplateContext{bounds: bounds}
}

// Lookup returns the binding for a template name, if visible.
func (c TemplateContext) Lookup(name string) (TemplateBound, bool) {
	b, ok := c.bounds[name]
	return b, ok
}

// Has reports whether the name is bound.
func (c TemplateContext) Has(name string) bool {
	_, ok := c.bounds[name]
	return ok
}

// Len returns the number of visible bindings.
func (c TemplateContext) Len() int { return len(c.bounds) }
