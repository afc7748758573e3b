// Package populate resolves class-like descriptors across the inheritance
// graph: trait mixing, parent and interface merging, template parameter
// extension, and type-alias validation. A descriptor is populated exactly
// once; its ancestors must already be populated, so callers schedule in
// topological order (see PopulateAll).
package populate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/types"
)

// SymbolReference is one recorded dependency edge, feeding the
// cross-reference index.
type SymbolReference struct {
	From      string
	To        string
	TypeLevel bool
}

// PopulationResult carries the resolved descriptor together with the
// side outputs of the merge.
type PopulationResult struct {
	Class            *decl.ClassLike
	SymbolReferences []SymbolReference
	MethodContexts   map[string]types.TemplateContext
}

// Populate resolves one descriptor against the codebase. Unresolvable
// ancestors are recorded as invalid dependencies; alias problems become
// descriptor issues. Neither aborts the merge.
func Populate(c *decl.ClassLike, cb *decl.Codebase) *PopulationResult {
	result := &PopulationResult{Class: c}
	if c.Populated {
		return result
	}

	p := &populator{c: c, cb: cb, result: result}
	p.registerOwnMembers()
	p.mergeTraits()
	p.mergeParentClass()
	p.mergeInterfaces()
	p.mergeContracts()
	p.applyReadOnly()
	p.resolveImportedAliases()
	p.checkAliasCycles()
	p.buildMethodContexts()

	c.Populated = true
	return result
}

type populator struct {
	c      *decl.ClassLike
	cb     *decl.Codebase
	result *PopulationResult
}

func (p *populator) refer(to string) {
	p.result.SymbolReferences = append(p.result.SymbolReferences, SymbolReference{
		From:      p.c.Name,
		To:        to,
		TypeLevel: true,
	})
}

// registerOwnMembers seeds the identity maps with this class' own
// declarations. Final members are withheld from the inheritable map.
func (p *populator) registerOwnMembers() {
	c := p.c
	for _, name := range sortedKeys(c.Methods) {
		m := c.Methods[name]
		id := decl.MemberID{ClassName: c.Name, MemberName: name}
		c.DeclaringMethodIDs[name] = id
		c.AppearingMethodIDs[name] = id
		if !m.Final {
			c.InheritableMethodIDs[name] = id
		}
	}
	for _, name := range sortedKeys(c.Properties) {
		id := decl.MemberID{ClassName: c.Name, MemberName: name}
		c.DeclaringPropertyIDs[name] = id
		c.AppearingPropertyIDs[name] = id
		c.InheritablePropertyIDs[name] = id
	}
}

// mergeTraits mixes in every used trait, sorted by name for determinism.
// Appearing ids are re-attributed to the using class while declaring ids
// keep pointing at the trait, and the alias map exposes methods under both
// their original and aliased names.
func (p *populator) mergeTraits() {
	c := p.c
	for _, traitName := range sortedSetKeys(c.UsedTraits) {
		trait, ok := p.cb.ClassLike(traitName)
		if !ok {
			c.InvalidDependencies[traitName] = true
			continue
		}
		p.refer(trait.Name)

		aliasesOf := map[string][]string{}
		for alias, original := range c.TraitAliases {
			aliasesOf[original] = append(aliasesOf[original], alias)
		}

		for _, methodName := range sortedKeys(trait.Methods) {
			exposed := append([]string{methodName}, aliasesOf[methodName]...)
			sort.Strings(exposed[1:])
			for _, name := range exposed {
				if _, own := c.Methods[name]; own && c.DeclaringMethodIDs[name].ClassName == c.Name {
					continue
				}
				if _, taken := c.AppearingMethodIDs[name]; taken {
					continue
				}
				c.Methods[name] = trait.Methods[methodName]
				c.AppearingMethodIDs[name] = decl.MemberID{ClassName: c.Name, MemberName: name}
				c.DeclaringMethodIDs[name] = traitDeclaringID(trait, methodName)
				c.InheritableMethodIDs[name] = c.AppearingMethodIDs[name]
			}
		}

		for _, propName := range sortedKeys(trait.Properties) {
			if _, own := c.Properties[propName]; own && c.DeclaringPropertyIDs[propName].ClassName == c.Name {
				continue
			}
			if _, taken := c.AppearingPropertyIDs[propName]; taken {
				continue
			}
			c.Properties[propName] = trait.Properties[propName]
			c.AppearingPropertyIDs[propName] = decl.MemberID{ClassName: c.Name, MemberName: propName}
			c.DeclaringPropertyIDs[propName] = traitDeclaringID(trait, propName)
			c.InheritablePropertyIDs[propName] = c.AppearingPropertyIDs[propName]
		}

		p.extendTemplateParams(trait)
	}
}

// traitDeclaringID follows the trait's own declaring map so that a trait
// composed from other traits still reports the original declaration site.
func traitDeclaringID(trait *decl.ClassLike, member string) decl.MemberID {
	if id, ok := trait.DeclaringMethodIDs[member]; ok {
		return id
	}
	if id, ok := trait.DeclaringPropertyIDs[member]; ok {
		return id
	}
	return decl.MemberID{ClassName: trait.Name, MemberName: member}
}

func (p *populator) mergeParentClass() {
	c := p.c
	if c.ParentClass == "" {
		return
	}
	parent, ok := p.cb.ClassLike(c.ParentClass)
	if !ok {
		c.InvalidDependencies[c.ParentClass] = true
		return
	}
	p.refer(parent.Name)

	c.ParentClasses[parent.Name] = true
	for name := range parent.ParentClasses {
		c.ParentClasses[name] = true
	}
	for name := range parent.ParentInterfaces {
		c.ParentInterfaces[name] = true
	}
	for name := range parent.UsedTraits {
		c.UsedTraits[name] = true
	}

	for _, name := range sortedKeys(parent.Constants) {
		if _, ok := c.Constants[name]; !ok {
			c.Constants[name] = parent.Constants[name]
		}
	}

	p.extendTemplateParams(parent)
	p.inheritMethods(parent)
	p.inheritProperties(parent)

	if parent.ConsistentTemplates {
		c.ConsistentTemplates = true
	}

	for name := range parent.InvalidDependencies {
		c.InvalidDependencies[name] = true
	}
}

func (p *populator) inheritMethods(parent *decl.ClassLike) {
	c := p.c
	for _, name := range sortedKeys(parent.InheritableMethodIDs) {
		inheritable := parent.InheritableMethodIDs[name]
		if _, ok := c.AppearingMethodIDs[name]; !ok {
			if id, ok := parent.AppearingMethodIDs[name]; ok {
				c.AppearingMethodIDs[name] = id
			} else {
				c.AppearingMethodIDs[name] = inheritable
			}
		}
		if _, ok := c.DeclaringMethodIDs[name]; !ok {
			if id, ok := parent.DeclaringMethodIDs[name]; ok {
				c.DeclaringMethodIDs[name] = id
			} else {
				c.DeclaringMethodIDs[name] = inheritable
			}
			if m, ok := parent.Methods[name]; ok {
				c.Methods[name] = m
			}
		}
		if _, ok := c.InheritableMethodIDs[name]; !ok {
			c.InheritableMethodIDs[name] = inheritable
		}
	}
}

func (p *populator) inheritProperties(parent *decl.ClassLike) {
	c := p.c
	for _, name := range sortedKeys(parent.InheritablePropertyIDs) {
		inheritable := parent.InheritablePropertyIDs[name]
		if _, ok := c.AppearingPropertyIDs[name]; !ok {
			if id, ok := parent.AppearingPropertyIDs[name]; ok {
				c.AppearingPropertyIDs[name] = id
			} else {
				c.AppearingPropertyIDs[name] = inheritable
			}
		}
		if _, ok := c.DeclaringPropertyIDs[name]; !ok {
			if id, ok := parent.DeclaringPropertyIDs[name]; ok {
				c.DeclaringPropertyIDs[name] = id
			} else {
				c.DeclaringPropertyIDs[name] = inheritable
			}
			if prop, ok := parent.Properties[name]; ok {
				c.Properties[name] = prop
			}
		}
		if _, ok := c.InheritablePropertyIDs[name]; !ok {
			c.InheritablePropertyIDs[name] = inheritable
		}
	}
}

// mergeInterfaces folds in each direct parent interface, carrying its own
// transitive interface set and constants forward.
func (p *populator) mergeInterfaces() {
	c := p.c
	for _, ifaceName := range sortedSetKeys(c.ParentInterfaces) {
		iface, ok := p.cb.ClassLike(ifaceName)
		if !ok {
			c.InvalidDependencies[ifaceName] = true
			continue
		}
		p.refer(iface.Name)

		for name := range iface.ParentInterfaces {
			c.ParentInterfaces[name] = true
		}
		for _, name := range sortedKeys(iface.Constants) {
			if _, ok := c.Constants[name]; !ok {
				c.Constants[name] = iface.Constants[name]
			}
		}
		p.extendTemplateParams(iface)
	}
}

// mergeContracts widens the allowed-ancestor sets for require-extends and
// require-implements without inheriting any members.
func (p *populator) mergeContracts() {
	c := p.c
	for _, name := range c.RequireExtends {
		c.ParentClasses[name] = true
		p.refer(name)
	}
	for _, name := range c.RequireImplements {
		c.ParentInterfaces[name] = true
		p.refer(name)
	}
}

func (p *populator) applyReadOnly() {
	c := p.c
	if !c.ReadOnly {
		return
	}
	for name, prop := range c.Properties {
		if prop.Static {
			continue
		}
		if c.DeclaringPropertyIDs[name].ClassName != c.Name {
			continue
		}
		prop.ReadOnly = true
	}
}

func (p *populator) resolveImportedAliases() {
	c := p.c
	for _, imp := range c.ImportedAliases {
		src, ok := p.cb.ClassLike(imp.FromClass)
		if !ok {
			c.AddIssue("UnknownClass",
				fmt.Sprintf("cannot import type alias %s: unknown class %s", imp.AliasName, imp.FromClass))
			continue
		}
		alias, ok := src.TypeAliases[imp.AliasName]
		if !ok {
			c.AddIssue("UnknownTypeAlias",
				fmt.Sprintf("class %s has no type alias %s", src.Name, imp.AliasName))
			continue
		}
		p.refer(src.Name)
		local := imp.LocalName
		if local == "" {
			local = imp.AliasName
		}
		c.TypeAliases[local] = &decl.TypeAlias{
			Name:              local,
			Replacement:       alias.Replacement,
			ReferencedSymbols: alias.ReferencedSymbols,
		}
	}
}

// checkAliasCycles runs an iterative depth-first walk over every local
// alias' referenced symbols. A name revisited on the current path is a
// cycle; the issue message spells out the whole chain.
func (p *populator) checkAliasCycles() {
	c := p.c
	reported := map[string]bool{}

	for _, start := range sortedKeys(c.TypeAliases) {
		type frame struct {
			name string
			next int
		}
		stack := []frame{{name: start}}
		onPath := map[string]int{start: 0}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			alias, ok := c.TypeAliases[top.name]
			if !ok || top.next >= len(alias.ReferencedSymbols) {
				delete(onPath, top.name)
				stack = stack[:len(stack)-1]
				continue
			}
			ref := alias.ReferencedSymbols[top.next]
			top.next++

			if _, local := c.TypeAliases[ref]; !local {
				continue
			}
			if at, cycling := onPath[ref]; cycling {
				chain := make([]string, 0, len(stack)-at+1)
				for _, f := range stack[at:] {
					chain = append(chain, f.name)
				}
				chain = append(chain, ref)

				key := cycleKey(chain)
				if !reported[key] {
					reported[key] = true
					c.AddIssue("CircularTypeAlias",
						fmt.Sprintf("type alias cycle: %s", strings.Join(chain, " -> ")))
				}
				continue
			}
			onPath[ref] = len(stack)
			stack = append(stack, frame{name: ref})
		}
	}
}

func cycleKey(chain []string) string {
	names := map[string]bool{}
	for _, n := range chain {
		names[n] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// buildMethodContexts precomputes per-method template contexts when the
// class carries local aliases, so the builder sees both template bounds and
// alias replacements without re-deriving them per call.
func (p *populator) buildMethodContexts() {
	c := p.c
	if len(c.TypeAliases) == 0 {
		return
	}

	base := c.TemplateContext()
	for _, name := range sortedKeys(c.TypeAliases) {
		alias := c.TypeAliases[name]
		base = base.With(name, c.Name, alias.Replacement)
	}

	p.result.MethodContexts = make(map[string]types.TemplateContext, len(c.Methods))
	for _, name := range sortedKeys(c.Methods) {
		ctx := base
		for _, tp := range c.Methods[name].Templates {
			ctx = ctx.With(tp.Name, c.Name+"::"+name, tp.Constraint)
		}
		p.result.MethodContexts[name] = ctx
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSetKeys(m map[string]bool) []string {
	return sortedKeys(m)
}
