package decl

import (
	"sort"
	"strings"
	"sync"

	"github.com/loamlang/loam/pkg/intern"
	"github.com/loamlang/loam/pkg/types"
)

// TraversableInterface is the builtin interface implemented by everything
// foreach-able. Its two template parameters give the key and value types a
// collection yields.
const TraversableInterface = "Traversable"

// Codebase is the shared snapshot of every scanned class-like descriptor.
// Reads are safe for concurrent use; descriptors themselves are only
// mutated by the populator, which callers must schedule ancestors-first.
type Codebase struct {
	interner *intern.Interner

	mu         sync.RWMutex
	classlikes map[string]*ClassLike
}

// NewCodebase returns an empty codebase using the given interner for all
// symbol names.
func NewCodebase(interner *intern.Interner) *Codebase {
	return &Codebase{
		interner:   interner,
		classlikes: make(map[string]*ClassLike),
	}
}

// Interner exposes the codebase's interner.
func (cb *Codebase) Interner() *intern.Interner { return cb.interner }

func (cb *Codebase) key(name string) string {
	return cb.interner.Intern(strings.ToLower(name))
}

// AddClassLike registers a scanned descriptor. Names are case-insensitive;
// a re-registration replaces the previous descriptor.
func (cb *Codebase) AddClassLike(c *ClassLike) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.classlikes[cb.key(c.Name)] = c
}

// ClassLike looks up a descriptor by name.
func (cb *Codebase) ClassLike(name string) (*ClassLike, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	c, ok := cb.classlikes[cb.key(name)]
	return c, ok
}

// Has reports whether any class-like with the name exists.
func (cb *Codebase) Has(name string) bool {
	_, ok := cb.ClassLike(name)
	return ok
}

// Names returns every registered class-like name, sorted for determinism.
func (cb *Codebase) Names() []string {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	names := make([]string, 0, len(cb.classlikes))
	for _, c := range cb.classlikes {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// IsEnum reports whether the name refers to an enum.
func (cb *Codebase) IsEnum(name string) bool {
	c, ok := cb.ClassLike(name)
	return ok && c.Kind == EnumKind
}

// ClassExtends reports whether child inherits from parent, directly or
// transitively. Populated descriptors answer from their merged parent set;
// unpopulated ones fall back to walking the parent chain.
func (cb *Codebase) ClassExtends(child, parent string) bool {
	c, ok := cb.ClassLike(child)
	if !ok {
		return false
	}
	if c.Populated {
		return c.ParentClasses[parent] || containsFold(c.ParentClasses, parent)
	}
	seen := map[string]bool{}
	for cur := c.ParentClass; cur != "" && !seen[cur]; {
		seen[cur] = true
		if strings.EqualFold(cur, parent) {
			return true
		}
		next, ok := cb.ClassLike(cur)
		if !ok {
			return false
		}
		cur = next.ParentClass
	}
	return false
}

// ClassImplements reports whether the class (or any of its ancestors)
// implements the interface. The walk is iterative with an explicit visited
// set so cyclic require-extends graphs cannot blow the stack.
func (cb *Codebase) ClassImplements(class, iface string) bool {
	seen := map[string]bool{}
	stack := []string{class}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		key := strings.ToLower(cur)
		if seen[key] {
			continue
		}
		seen[key] = true

		c, ok := cb.ClassLike(cur)
		if !ok {
			continue
		}
		for name := range c.ParentInterfaces {
			if strings.EqualFold(name, iface) {
				return true
			}
			stack = append(stack, name)
		}
		if c.ParentClass != "" {
			stack = append(stack, c.ParentClass)
		}
	}
	return false
}

// InterfaceExtends reports whether child (an interface) extends parent.
func (cb *Codebase) InterfaceExtends(child, parent string) bool {
	return cb.ClassImplements(child, parent)
}

// ObjectCompatible reports shallow nominal compatibility: input is the same
// class-like as container, or a descendant, or an implementor.
func (cb *Codebase) ObjectCompatible(input, container string) bool {
	if strings.EqualFold(input, container) {
		return true
	}
	if cb.ClassExtends(input, container) {
		return true
	}
	return cb.ClassImplements(input, container)
}

// TraversableParams returns the key and value types a named class yields
// when iterated, resolved from its Traversable template bindings. The
// second return is false when the class is not known to be traversable.
func (cb *Codebase) TraversableParams(name string) (key, value *types.Union, ok bool) {
	c, found := cb.ClassLike(name)
	if !found {
		return nil, nil, false
	}
	if params, found := c.TemplateExtendedParams[TraversableInterface]; found {
		key, value = params["TKey"], params["TValue"]
		if key == nil {
			key = types.MixedType()
		}
		if value == nil {
			value = types.MixedType()
		}
		return key, value, true
	}
	if cb.ClassImplements(name, TraversableInterface) {
		return types.MixedType(), types.MixedType(), true
	}
	return nil, nil, false
}

func containsFold(set map[string]bool, name string) bool {
	for k := range set {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
